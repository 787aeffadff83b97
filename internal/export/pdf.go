package export

import (
	"context"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/blockedby/groupwatch/internal/dashboard"
)

// pdfTimeout bounds one headless-browser render.
const pdfTimeout = 30 * time.Second

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: sans-serif; margin: 40px; color: #1a1a1a; }
  h1 { font-size: 22px; } h2 { font-size: 16px; margin-top: 28px; }
  .meta { color: #666; font-size: 12px; }
  .cards { display: flex; gap: 16px; margin: 16px 0; }
  .card { border: 1px solid #ddd; border-radius: 6px; padding: 12px 20px; }
  .card .value { font-size: 24px; font-weight: bold; }
  table { border-collapse: collapse; width: 100%; font-size: 12px; }
  th, td { border-bottom: 1px solid #ddd; padding: 6px 8px; text-align: left; }
</style>
</head>
<body>
<h1>Group Activity Report</h1>
<p class="meta">Generated {{.GeneratedAt}}</p>

{{with .Snapshot.Stats}}
<div class="cards">
  <div class="card"><div class="value">{{.TotalMessages}}</div>Messages</div>
  <div class="card"><div class="value">{{.TotalMembers}}</div>Members</div>
  <div class="card"><div class="value">{{.TotalGroups}}</div>Groups</div>
  <div class="card"><div class="value">{{.GhostUsers}}</div>Inactive</div>
</div>
{{end}}

<h2>Groups</h2>
<table>
<tr><th>Group</th><th>Members</th><th>Messages</th><th>Last activity</th></tr>
{{range .Groups}}
<tr><td>{{.Name}}</td><td>{{.Members}}</td><td>{{.Messages}}</td><td>{{.Last}}</td></tr>
{{end}}
</table>

<h2>Most active users</h2>
<table>
<tr><th>User</th><th>Messages</th><th>Last message</th></tr>
{{range .TopUsers}}
<tr><td>{{.Name}}</td><td>{{.Count}}</td><td>{{.Last}}</td></tr>
{{end}}
</table>

<h2>Message types</h2>
<table>
<tr><th>Type</th><th>Count</th></tr>
{{range .Snapshot.Types.Types}}
<tr><td>{{.Type}}</td><td>{{.Count}}</td></tr>
{{end}}
</table>
</body>
</html>`))

// ReportPDF renders the snapshot as a one-page PDF via a headless browser and
// writes it to outputPath.
func ReportPDF(ctx context.Context, snap *dashboard.Snapshot, outputPath string) error {
	html, err := renderReportHTML(snap)
	if err != nil {
		return err
	}
	return htmlToPDF(ctx, html, outputPath)
}

type userRow struct {
	Name  string
	Count int
	Last  string
}

type groupRow struct {
	Name     string
	Members  int
	Messages int
	Last     string
}

func shortTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}

func renderReportHTML(snap *dashboard.Snapshot) (string, error) {
	users := make([]userRow, len(snap.TopUsers))
	for i := range snap.TopUsers {
		u := &snap.TopUsers[i]
		users[i] = userRow{Name: u.DisplayName(), Count: u.MessageCount, Last: shortTime(u.LastMessageAt)}
	}

	groups := make([]groupRow, len(snap.Groups))
	for i := range snap.Groups {
		g := &snap.Groups[i]
		groups[i] = groupRow{
			Name:     g.Name(),
			Members:  g.MemberCount,
			Messages: g.TotalMessages,
			Last:     shortTime(g.LastActivity),
		}
	}

	var sb strings.Builder
	err := reportTemplate.Execute(&sb, struct {
		GeneratedAt string
		Snapshot    *dashboard.Snapshot
		TopUsers    []userRow
		Groups      []groupRow
	}{
		GeneratedAt: snap.LoadedAt.Format("2006-01-02 15:04 MST"),
		Snapshot:    snap,
		TopUsers:    users,
		Groups:      groups,
	})
	if err != nil {
		return "", fmt.Errorf("execute report template: %w", err)
	}
	return sb.String(), nil
}

// htmlToPDF converts HTML to PDF using chromedp.
func htmlToPDF(ctx context.Context, html, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, pdfTimeout)
	defer cancel()

	cctx, cancel := chromedp.NewExecAllocator(ctx,
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	defer cancel()

	cctx, cancel = chromedp.NewContext(cctx)
	defer cancel()

	var pdfBuf []byte
	if err := chromedp.Run(cctx,
		chromedp.Navigate("data:text/html;charset=utf-8,"+html),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdfBuf, _, err = page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			return err
		}),
	); err != nil {
		return fmt.Errorf("chromedp run: %w", err)
	}

	if err := os.WriteFile(outputPath, pdfBuf, 0644); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

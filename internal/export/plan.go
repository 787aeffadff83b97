package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/blockedby/groupwatch/internal/analytics"
	"github.com/blockedby/groupwatch/internal/logger"
)

// Job data sets.
const (
	DataMessages = "messages"
	DataMembers  = "members"
	DataGhosts   = "ghosts"
)

// Job is one export in a plan.
type Job struct {
	// Data selects what to export: messages, members or ghosts.
	Data string `yaml:"data"`
	// GroupID scopes the export; empty means all groups.
	GroupID string `yaml:"group_id"`
	// GroupName feeds the output filename only.
	GroupName string `yaml:"group_name"`
}

// Plan is a YAML-driven batch of exports.
type Plan struct {
	OutputDir string `yaml:"output_dir"`
	Format    Format `yaml:"format"`
	Jobs      []Job  `yaml:"jobs"`
}

// LoadPlan reads and validates a plan file.
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}

	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("parse plan yaml: %w", err)
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return &plan, nil
}

// Validate checks the plan and fills defaults.
func (p *Plan) Validate() error {
	if p.OutputDir == "" {
		p.OutputDir = "exports"
	}
	if p.Format == "" {
		p.Format = FormatCSV
	}
	if !p.Format.Valid() {
		return fmt.Errorf("unknown format %q", p.Format)
	}
	if len(p.Jobs) == 0 {
		return fmt.Errorf("plan has no jobs")
	}
	for i, job := range p.Jobs {
		switch job.Data {
		case DataMessages, DataMembers, DataGhosts:
		default:
			return fmt.Errorf("job %d: unknown data set %q", i, job.Data)
		}
	}
	return nil
}

// Runner executes export plans against the analytics layer.
type Runner struct {
	svc *analytics.Service
	log *logger.Logger
	now func() time.Time
}

// NewRunner creates a plan runner.
func NewRunner(svc *analytics.Service, log *logger.Logger) *Runner {
	if log == nil {
		log = logger.Get()
	}
	return &Runner{svc: svc, log: log.Component("export"), now: time.Now}
}

// Run executes every job in the plan, writing one file per job. Jobs fail
// independently; the first error is returned after all jobs ran.
func (r *Runner) Run(ctx context.Context, plan *Plan) error {
	if err := os.MkdirAll(plan.OutputDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	var firstErr error
	for i, job := range plan.Jobs {
		path, err := r.runJob(ctx, plan, &job)
		if err != nil {
			r.log.Error().Err(err).Int("job", i).Str("data", job.Data).Msg("export job failed")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		r.log.Info().Str("path", path).Str("data", job.Data).Msg("export written")
	}
	return firstErr
}

func (r *Runner) runJob(ctx context.Context, plan *Plan, job *Job) (string, error) {
	name := Filename(job.Data, job.GroupName, r.now())
	path := filepath.Join(plan.OutputDir, name+"."+string(plan.Format))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	switch job.Data {
	case DataMessages:
		rows := r.svc.Messages(ctx, job.GroupID)
		if plan.Format == FormatJSON {
			err = WriteJSON(f, rows)
		} else {
			err = MessagesCSV(f, rows)
		}
	case DataMembers:
		rows := r.svc.Members(ctx, job.GroupID)
		if plan.Format == FormatJSON {
			err = WriteJSON(f, rows)
		} else {
			err = MembersCSV(f, rows)
		}
	case DataGhosts:
		rows := r.svc.Ghosts(ctx)
		if plan.Format == FormatJSON {
			err = WriteJSON(f, rows)
		} else {
			err = GhostsCSV(f, rows)
		}
	}
	if err != nil {
		return "", err
	}
	return path, f.Close()
}

// Package api serves the dashboard REST API and the live event socket.
package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-fuego/fuego"
	"github.com/go-fuego/fuego/option"

	"github.com/blockedby/groupwatch/internal/analytics"
	"github.com/blockedby/groupwatch/internal/dashboard"
	"github.com/blockedby/groupwatch/internal/summary"
)

// Server represents the Fuego API server.
type Server struct {
	fuego *fuego.Server
	deps  *Dependencies
	port  int
}

// Dependencies contains all service dependencies.
type Dependencies struct {
	Analytics *analytics.Service
	Loader    *dashboard.Loader
	Summaries *summary.Service
	Hub       *Hub
}

// Config holds API server configuration.
type Config struct {
	Port        int
	Title       string
	Description string
	Version     string
}

// NewServer creates a new Fuego API server.
func NewServer(cfg *Config, deps *Dependencies) *Server {
	s := fuego.NewServer(
		fuego.WithAddr(fmt.Sprintf(":%d", cfg.Port)),
		fuego.WithEngineOptions(
			fuego.WithOpenAPIConfig(fuego.OpenAPIConfig{
				PrettyFormatJSON: true,
				JSONFilePath:     "openapi.json",
				SwaggerURL:       "/docs",
				SpecURL:          "/openapi.json",
				UIHandler: func(specURL string) http.Handler {
					return ScalarHandler(specURL, cfg.Title, cfg.Description)
				},
			}),
		),
	)

	s.OpenAPI.Description().Info.Title = cfg.Title
	s.OpenAPI.Description().Info.Description = cfg.Description
	s.OpenAPI.Description().Info.Version = cfg.Version

	// Chi middleware (Fuego is net/http compatible)
	fuego.Use(s, middleware.RequestID)
	fuego.Use(s, middleware.RealIP)
	fuego.Use(s, middleware.Logger)
	fuego.Use(s, middleware.Recoverer)
	fuego.Use(s, cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	srv := &Server{
		fuego: s,
		deps:  deps,
		port:  cfg.Port,
	}

	srv.registerRoutes()

	return srv
}

func (s *Server) registerRoutes() {
	// Health check
	fuego.Get(s.fuego, "/health", s.healthCheck,
		option.Summary("Health Check"),
		option.Description("Returns the health status of the API and which backends are configured"),
		option.Tags("System"),
	)

	// Directory API
	groupsGroup := fuego.Group(s.fuego, "/api/v1/groups",
		option.Tags("Directory"),
	)

	fuego.Get(groupsGroup, "/", s.listGroups,
		option.Summary("List Groups"),
		option.Description("Returns the per-group summary view"),
	)

	fuego.Get(groupsGroup, "/{id}/members", s.listMembers,
		option.Summary("List Group Members"),
		option.Description("Returns membership rollups for one group, most active first"),
	)

	fuego.Get(groupsGroup, "/{id}/summary", s.groupSummary,
		option.Summary("Generate Group Summary"),
		option.Description("Generates an AI summary of the group's recent conversation"),
		option.Query("kind", "Summary kind: daily (default) or weekly"),
	)

	fuego.Get(groupsGroup, "/{id}/insights", s.groupInsights,
		option.Summary("Generate Group Insights"),
		option.Description("Generates brief AI observations about the group's activity patterns"),
	)

	fuego.Get(s.fuego, "/api/v1/members", s.listAllMembers,
		option.Summary("List All Members"),
		option.Description("Returns membership rollups across every group"),
		option.Tags("Directory"),
	)

	fuego.Get(s.fuego, "/api/v1/ghosts", s.listGhosts,
		option.Summary("List Inactive Members"),
		option.Description("Returns members whose last activity exceeds the inactivity threshold"),
		option.Tags("Directory"),
	)

	// Analytics API
	fuego.Get(s.fuego, "/api/v1/stats", s.getStats,
		option.Summary("Get Dashboard Statistics"),
		option.Description("Returns headline totals with week-over-week trends"),
		option.Tags("Analytics"),
	)

	activityGroup := fuego.Group(s.fuego, "/api/v1/activity",
		option.Tags("Analytics"),
	)

	fuego.Get(activityGroup, "/daily", s.dailyActivity,
		option.Summary("Daily Message Counts"),
		option.Description("Returns a dense per-day message series; every day in the window is present"),
		option.Query("days", "Window length in days (default: 30)"),
		option.Query("group_id", "Restrict to one group"),
	)

	fuego.Get(activityGroup, "/hourly", s.hourlyActivity,
		option.Summary("Hourly Activity Matrix"),
		option.Description("Returns the 7x24 day-of-week by hour-of-day activity matrix"),
		option.Query("days", "Window length in days (default: 30)"),
		option.Query("group_id", "Restrict to one group"),
	)

	fuego.Get(activityGroup, "/types", s.typeDistribution,
		option.Summary("Message Type Distribution"),
		option.Description("Returns the message type histogram, most frequent first"),
		option.Query("group_id", "Restrict to one group"),
	)

	fuego.Get(s.fuego, "/api/v1/users/top", s.topUsers,
		option.Summary("Most Active Users"),
		option.Description("Returns the user leaderboard, merged across groups unless scoped"),
		option.Tags("Analytics"),
		option.Query("limit", "Number of users to return (default: 10)"),
		option.Query("group_id", "Restrict to one group"),
	)

	fuego.Get(s.fuego, "/api/v1/search", s.search,
		option.Summary("Search Messages"),
		option.Description("Case-insensitive substring search over message bodies, newest first"),
		option.Tags("Search"),
		option.Query("q", "Search query; blank returns an empty result without querying"),
		option.Query("group_id", "Restrict to one group"),
		option.Query("limit", "Page size (default: 50)"),
		option.Query("offset", "Row offset (default: 0)"),
	)

	// Snapshot API
	snapshotGroup := fuego.Group(s.fuego, "/api/v1/snapshot",
		option.Tags("Snapshot"),
	)

	fuego.Get(snapshotGroup, "/", s.getSnapshot,
		option.Summary("Get Current Snapshot"),
		option.Description("Returns the most recently loaded dashboard snapshot"),
	)

	fuego.Post(snapshotGroup, "/refresh", s.triggerRefresh,
		option.Summary("Trigger Snapshot Refresh"),
		option.Description("Schedules an out-of-band snapshot refresh; overlapping requests coalesce"),
	)

	// Live events
	if s.deps.Hub != nil {
		s.fuego.Mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
			ServeWs(s.deps.Hub, w, r)
		})
	}
}

// Start starts the API server.
func (s *Server) Start() error {
	return s.fuego.Run()
}

// Mux returns the underlying ServeMux for mounting additional routes.
func (s *Server) Mux() *http.ServeMux {
	return s.fuego.Mux
}

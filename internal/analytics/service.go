// Package analytics pulls rows from the backend and folds them into the
// aggregate shapes the dashboard renders: daily series, day-by-hour activity
// matrix, type histogram, user ranking, trends and search results.
//
// Failure policy: transport and query failures never escape this package as
// errors. Every public method degrades to its empty value and logs, so
// callers cannot tell "no data" from "error" without observing logs. Partial
// pagination failures under-count instead of aborting; results carry a
// PageReport so consumers can see when that happened.
package analytics

import (
	"time"

	"github.com/blockedby/groupwatch/internal/backend"
	"github.com/blockedby/groupwatch/internal/logger"
)

// DefaultPageSize matches the backend's maximum rows-per-request cap.
const DefaultPageSize = 1000

// Service computes dashboard aggregates against an injected backend client.
// A nil client means "backend not configured": every method short-circuits to
// its empty value without attempting network I/O.
//
// Each call builds its own local accumulators and returns an immutable
// result, so concurrent loads share no state.
type Service struct {
	client   backend.Client
	pageSize int
	log      *logger.Logger
	now      func() time.Time
}

// NewService creates an analytics service. client may be nil when the backend
// connection parameters are absent.
func NewService(client backend.Client, pageSize int, log *logger.Logger) *Service {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if log == nil {
		log = logger.Get()
	}
	return &Service{
		client:   client,
		pageSize: pageSize,
		log:      log.Component("analytics"),
		now:      time.Now,
	}
}

// Configured reports whether a backend client is available.
func (s *Service) Configured() bool {
	return s.client != nil
}

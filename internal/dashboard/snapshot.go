// Package dashboard maintains the in-memory snapshot the HTTP layer serves.
// A snapshot bundles every dashboard aggregate from one refresh pass so the
// UI never renders cards from mixed loads.
package dashboard

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/blockedby/groupwatch/internal/analytics"
	"github.com/blockedby/groupwatch/internal/logger"
	"github.com/blockedby/groupwatch/internal/models"
)

const (
	// DefaultInterval is how often the background loop refreshes.
	DefaultInterval = 60 * time.Second

	dailyDays     = 30
	hourlyDays    = 30
	topUsersLimit = 10
)

// Snapshot is one consistent view of the dashboard data.
type Snapshot struct {
	ID         uuid.UUID                `json:"id"`
	Generation uint64                   `json:"generation"`
	LoadedAt   time.Time                `json:"loaded_at"`
	Stats      *analytics.DashboardStats `json:"stats"`
	Daily      analytics.DailySeries    `json:"daily"`
	Hourly     analytics.HourlyMatrix   `json:"hourly"`
	Types      analytics.TypeHistogram  `json:"types"`
	TopUsers   []analytics.UserActivity `json:"top_users"`
	Groups     []models.GroupStats      `json:"groups"`
	Ghosts     []models.Ghost           `json:"ghosts"`
}

// Loader refreshes the snapshot on a timer and on demand. Every refresh
// request takes a monotonic generation; when refreshes overlap, only the
// most recently requested one may install its result, so a slow older load
// can never clobber a newer one.
type Loader struct {
	svc      *analytics.Service
	log      *logger.Logger
	interval time.Duration

	gen atomic.Uint64

	mu      sync.RWMutex
	current *Snapshot

	trigger chan struct{}

	// onRefresh runs after a snapshot is installed, outside the lock.
	onRefresh func(*Snapshot)
}

// NewLoader creates a snapshot loader over the analytics service.
func NewLoader(svc *analytics.Service, interval time.Duration, log *logger.Logger) *Loader {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if log == nil {
		log = logger.Get()
	}
	return &Loader{
		svc:      svc,
		log:      log.Component("dashboard"),
		interval: interval,
		trigger:  make(chan struct{}, 1),
	}
}

// OnRefresh registers the hook called with each installed snapshot. Must be
// set before Run.
func (l *Loader) OnRefresh(fn func(*Snapshot)) {
	l.onRefresh = fn
}

// Current returns the latest installed snapshot, or nil before the first
// refresh completes.
func (l *Loader) Current() *Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// TriggerRefresh schedules an out-of-band refresh. Non-blocking; if one is
// already pending the request coalesces into it.
func (l *Loader) TriggerRefresh() {
	select {
	case l.trigger <- struct{}{}:
	default:
	}
}

// Run refreshes once immediately, then on every tick or trigger until the
// context is cancelled.
func (l *Loader) Run(ctx context.Context) {
	l.Refresh(ctx)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Refresh(ctx)
		case <-l.trigger:
			l.Refresh(ctx)
		}
	}
}

// Refresh loads a fresh snapshot and installs it unless a newer refresh was
// requested or installed in the meantime. Returns the installed snapshot, or
// nil when the result was discarded as stale.
func (l *Loader) Refresh(ctx context.Context) *Snapshot {
	gen := l.gen.Add(1)

	start := time.Now()
	snap := l.load(ctx, gen)

	if !l.install(snap) {
		l.log.Debug().
			Uint64("generation", gen).
			Msg("discarding superseded snapshot")
		return nil
	}

	l.log.Info().
		Uint64("generation", gen).
		Dur("took", time.Since(start)).
		Msg("snapshot refreshed")

	if l.onRefresh != nil {
		l.onRefresh(snap)
	}
	return snap
}

// load gathers every aggregate concurrently. The analytics layer degrades
// each load to its empty value on failure, so the snapshot is always whole.
func (l *Loader) load(ctx context.Context, gen uint64) *Snapshot {
	snap := &Snapshot{
		ID:         uuid.New(),
		Generation: gen,
		LoadedAt:   time.Now().UTC(),
	}

	var wg sync.WaitGroup
	run := func(fn func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn()
		}()
	}

	run(func() { snap.Stats = l.svc.DashboardStats(ctx) })
	run(func() { snap.Daily = l.svc.DailyMessageCounts(ctx, dailyDays, "") })
	run(func() { snap.Hourly = l.svc.HourlyActivity(ctx, hourlyDays, "") })
	run(func() { snap.Types = l.svc.MessageTypeDistribution(ctx, "") })
	run(func() { snap.TopUsers = l.svc.TopUsers(ctx, topUsersLimit, "") })
	run(func() { snap.Groups = l.svc.Groups(ctx) })
	run(func() { snap.Ghosts = l.svc.Ghosts(ctx) })
	wg.Wait()

	return snap
}

// install publishes the snapshot unless a newer refresh was requested while
// this one was loading. Reports whether the snapshot became current.
func (l *Loader) install(snap *Snapshot) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if snap.Generation < l.gen.Load() {
		return false
	}
	l.current = snap
	return true
}

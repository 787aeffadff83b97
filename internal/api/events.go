package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/blockedby/groupwatch/internal/dashboard"
)

// Websocket event types
const (
	EventStatsRefreshed = "stats.refreshed"
)

// WSEvent represents a structured websocket message.
type WSEvent struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// StatsRefreshedPayload is the payload for EventStatsRefreshed.
type StatsRefreshedPayload struct {
	SnapshotID uuid.UUID `json:"snapshot_id"`
	Generation uint64    `json:"generation"`
	LoadedAt   time.Time `json:"loaded_at"`
}

// StatsRefreshedEvent builds the event broadcast after a snapshot installs.
// Clients re-fetch the endpoints they render on receipt.
func StatsRefreshedEvent(snap *dashboard.Snapshot) WSEvent {
	return WSEvent{
		Type: EventStatsRefreshed,
		Payload: StatsRefreshedPayload{
			SnapshotID: snap.ID,
			Generation: snap.Generation,
			LoadedAt:   snap.LoadedAt,
		},
	}
}

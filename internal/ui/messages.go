// Package ui provides terminal user interface components for the streaks app.
// This file defines message types for async operations using the Bubble Tea
// command pattern. All storage and engine operations return these messages to
// keep the event loop non-blocking.
package ui

import (
	"streaks/internal/listing"
	"streaks/internal/stats"
	"streaks/internal/storage"

	"github.com/google/uuid"
)

// =============================================================================
// Tracker List Messages
// =============================================================================

// listRefreshedMsg is sent when the visible tracker list is recomputed.
type listRefreshedMsg struct {
	groups      []listing.Group
	placeholder listing.PlaceholderState
}

// trackerAddedMsg is sent when a new tracker is created.
type trackerAddedMsg struct {
	tracker *storage.Tracker
	err     error
}

// trackerUpdatedMsg is sent when a tracker is replaced.
type trackerUpdatedMsg struct {
	id   uuid.UUID
	name string
	err  error
}

// trackerToggledMsg is sent when a tracker's completion is toggled for the
// selected date.
type trackerToggledMsg struct {
	id  uuid.UUID
	err error
}

// trackerPinnedMsg is sent when a tracker's pinned flag is flipped.
type trackerPinnedMsg struct {
	id  uuid.UUID
	err error
}

// trackerDeletedMsg is sent when a tracker is removed.
type trackerDeletedMsg struct {
	id   uuid.UUID
	name string
	err  error
}

// searchDebouncedMsg fires after the search quiet period. The sequence number
// identifies the keystroke that scheduled it; stale ticks are discarded.
type searchDebouncedMsg struct {
	seq int
}

// =============================================================================
// Statistics Messages
// =============================================================================

// statsCalculatedMsg is sent when statistics are (re)computed.
type statsCalculatedMsg struct {
	data stats.StatisticsData
	err  error
}

// Package ui provides terminal user interface components for the streaks app.
// This file contains tea.Cmd factories that wrap engine operations. These
// commands run asynchronously to keep the Bubble Tea event loop responsive.
// Each command returns a corresponding message type defined in messages.go.
package ui

import (
	"time"

	"streaks/internal/listing"
	"streaks/internal/stats"
	"streaks/internal/storage"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

// =============================================================================
// Tracker List Commands
// =============================================================================

// refreshListCmd returns a command that recomputes the visible tracker list.
func refreshListCmd(engine *listing.Engine) tea.Cmd {
	return func() tea.Msg {
		groups, placeholder := engine.Groups()
		return listRefreshedMsg{groups: groups, placeholder: placeholder}
	}
}

// addTrackerCmd returns a command that builds a tracker from a draft and
// stores it.
func addTrackerCmd(engine *listing.Engine, draft storage.TrackerDraft) tea.Cmd {
	return func() tea.Msg {
		tracker, err := draft.Build()
		if err != nil {
			return trackerAddedMsg{err: err}
		}
		added, err := engine.Add(tracker)
		return trackerAddedMsg{tracker: added, err: err}
	}
}

// updateTrackerCmd returns a command that replaces a tracker by id.
func updateTrackerCmd(engine *listing.Engine, tracker storage.Tracker) tea.Cmd {
	return func() tea.Msg {
		err := engine.Update(tracker)
		return trackerUpdatedMsg{id: tracker.ID, name: tracker.Name, err: err}
	}
}

// toggleTrackerCmd returns a command that toggles a tracker's completion for
// the selected date.
func toggleTrackerCmd(engine *listing.Engine, id uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		err := engine.Toggle(id)
		return trackerToggledMsg{id: id, err: err}
	}
}

// pinTrackerCmd returns a command that flips a tracker's pinned flag.
func pinTrackerCmd(engine *listing.Engine, id uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		err := engine.TogglePin(id)
		return trackerPinnedMsg{id: id, err: err}
	}
}

// deleteTrackerCmd returns a command that removes a tracker and its records.
func deleteTrackerCmd(engine *listing.Engine, id uuid.UUID, name string) tea.Cmd {
	return func() tea.Msg {
		err := engine.Delete(id)
		return trackerDeletedMsg{id: id, name: name, err: err}
	}
}

// searchDebounceCmd returns a command that fires after the search quiet
// period, carrying the sequence number of the keystroke that scheduled it.
func searchDebounceCmd(seq int, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return searchDebouncedMsg{seq: seq}
	})
}

// =============================================================================
// Statistics Commands
// =============================================================================

// calcStatsCmd returns a command that computes current statistics. An empty
// universe is not an error for display purposes: it degrades to zeros.
func calcStatsCmd(engine *stats.Engine) tea.Cmd {
	return func() tea.Msg {
		data, err := engine.Calculate()
		if err != nil {
			return statsCalculatedMsg{data: stats.StatisticsData{}}
		}
		return statsCalculatedMsg{data: data, err: err}
	}
}

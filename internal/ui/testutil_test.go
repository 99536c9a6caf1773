package ui

import (
	"testing"
	"time"

	"streaks/internal/config"
	"streaks/internal/events"
	"streaks/internal/listing"
	"streaks/internal/stats"
	"streaks/internal/storage"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// testToday is a Monday at noon UTC so weekday schedules are deterministic.
var testToday = time.Date(2025, 12, 15, 12, 0, 0, 0, time.UTC)

// setupTest forces a plain color profile so rendered output is stable text.
func setupTest(t *testing.T) {
	t.Helper()
	lipgloss.SetColorProfile(termenv.Ascii)
}

func createTestStorage(t *testing.T) *storage.Storage {
	t.Helper()
	store, err := storage.New(t.TempDir())
	if err != nil {
		t.Fatalf("creating storage: %v", err)
	}
	store.SetNowFunc(func() time.Time { return testToday })
	return store
}

func createTestStyles() *Styles {
	return NewStylesFromTheme(&config.ThemeConfig{})
}

// testApp bundles the app with its engines for assertions.
type testApp struct {
	app         *App
	store       *storage.Storage
	listEngine  *listing.Engine
	statsEngine *stats.Engine
}

func createTestApp(t *testing.T) *testApp {
	t.Helper()
	setupTest(t)

	store := createTestStorage(t)
	bus := events.NewBus()
	bus.Wire(store)

	cache := stats.NewCache(t.TempDir(), time.Minute)
	cache.SetNowFunc(func() time.Time { return testToday })
	statsEngine := stats.NewEngine(store, cache, bus)
	statsEngine.SetNowFunc(func() time.Time { return testToday })

	listEngine := listing.NewEngine(store)
	listEngine.SetNowFunc(func() time.Time { return testToday })

	app := NewApp(store, listEngine, statsEngine, createTestStyles(), DefaultAppConfig())
	app.width = 120
	app.height = 40
	app.updateLayout()
	app.focusPane(PaneTrackers)
	// Load initial data without starting the housekeeping tick.
	drain(t, app, app.trackersPane.RefreshCmd())
	drain(t, app, app.statsPane.LoadStatsCmd())

	t.Cleanup(func() {
		listEngine.Close()
		statsEngine.Close()
	})

	return &testApp{
		app:         app,
		store:       store,
		listEngine:  listEngine,
		statsEngine: statsEngine,
	}
}

func addTestTracker(t *testing.T, store *storage.Storage, name string, schedule ...storage.Weekday) storage.Tracker {
	t.Helper()
	if len(schedule) == 0 {
		schedule = []storage.Weekday{
			storage.Monday, storage.Tuesday, storage.Wednesday, storage.Thursday,
			storage.Friday, storage.Saturday, storage.Sunday,
		}
	}
	added, err := store.AddTracker(storage.Tracker{
		Name:     name,
		Emoji:    "🏃",
		Color:    "#10B981",
		Schedule: schedule,
	})
	if err != nil {
		t.Fatalf("adding tracker %q: %v", name, err)
	}
	return *added
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func keyEnter() tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyEnter} }
func keyEsc() tea.KeyMsg   { return tea.KeyMsg{Type: tea.KeyEscape} }
func keyTab() tea.KeyMsg   { return tea.KeyMsg{Type: tea.KeyTab} }

// drain runs a command tree to completion and feeds the app's own messages
// back into the model, mirroring what the Bubble Tea runtime does. Runtime
// chatter such as cursor blink ticks is dropped so draining terminates.
func drain(t *testing.T, model tea.Model, cmd tea.Cmd) tea.Model {
	t.Helper()
	if cmd == nil {
		return model
	}
	msg := cmd()
	switch msg := msg.(type) {
	case nil, tea.QuitMsg:
		return model
	case tea.BatchMsg:
		for _, c := range msg {
			model = drain(t, model, c)
		}
		return model
	case listRefreshedMsg, statsCalculatedMsg, searchDebouncedMsg,
		trackerAddedMsg, trackerUpdatedMsg, trackerToggledMsg,
		trackerPinnedMsg, trackerDeletedMsg:
		next, nextCmd := model.Update(msg)
		return drain(t, next, nextCmd)
	default:
		return model
	}
}

// press sends a key and drains the resulting commands.
func press(t *testing.T, app *App, msg tea.Msg) {
	t.Helper()
	model, cmd := app.Update(msg)
	drain(t, model, cmd)
}

// typeString types each rune as a separate key press.
func typeString(t *testing.T, app *App, s string) {
	t.Helper()
	for _, r := range s {
		press(t, app, keyRunes(string(r)))
	}
}

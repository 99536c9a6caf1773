package ui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func TestApp_PaneSwitching(t *testing.T) {
	ta := createTestApp(t)

	if ta.app.activePane != PaneTrackers {
		t.Fatal("trackers pane should start focused")
	}

	press(t, ta.app, keyTab())
	if ta.app.activePane != PaneStats {
		t.Error("tab should move focus to the statistics pane")
	}
	if ta.app.trackersPane.IsFocused() || !ta.app.statsPane.IsFocused() {
		t.Error("focus flags should follow the active pane")
	}

	press(t, ta.app, keyRunes("1"))
	if ta.app.activePane != PaneTrackers {
		t.Error("1 should jump to the trackers pane")
	}

	press(t, ta.app, keyRunes("2"))
	if ta.app.activePane != PaneStats {
		t.Error("2 should jump to the statistics pane")
	}
}

func TestApp_HelpOverlayTogglesAndConsumesInput(t *testing.T) {
	ta := createTestApp(t)

	press(t, ta.app, keyRunes("?"))
	if !ta.app.helpOverlay.IsVisible() {
		t.Fatal("? should open the help overlay")
	}
	if view := ta.app.View(); !strings.Contains(view, "Keyboard Reference") {
		t.Errorf("view should render the overlay:\n%s", view)
	}

	// Keys other than close bindings are swallowed while the overlay is up.
	press(t, ta.app, keyTab())
	if ta.app.activePane != PaneTrackers {
		t.Error("overlay should consume pane-switch keys")
	}

	press(t, ta.app, keyEsc())
	if ta.app.helpOverlay.IsVisible() {
		t.Error("esc should close the overlay")
	}
}

func TestApp_DeleteAsksForConfirmation(t *testing.T) {
	ta := createTestApp(t)
	addTestTracker(t, ta.store, "Water")
	press(t, ta.app, keyRunes("t"))

	press(t, ta.app, keyRunes("x"))
	if ta.app.confirmDel == nil {
		t.Fatal("delete should open the confirmation dialog")
	}
	if got := ta.app.confirmDel.name; got != "Water" {
		t.Errorf("pending delete = %q, want Water", got)
	}
	if bar := ta.app.renderStatusBar(); !strings.Contains(bar, "Water") {
		t.Errorf("status bar should name the tracker:\n%s", bar)
	}

	// n cancels, nothing is deleted
	press(t, ta.app, keyRunes("n"))
	if ta.app.confirmDel != nil {
		t.Error("n should dismiss the dialog")
	}
	if got := len(ta.store.FetchAllTrackers()); got != 1 {
		t.Errorf("got %d trackers after cancel, want 1", got)
	}

	// y confirms
	press(t, ta.app, keyRunes("x"))
	press(t, ta.app, keyRunes("y"))
	if got := len(ta.store.FetchAllTrackers()); got != 0 {
		t.Errorf("got %d trackers after confirm, want 0", got)
	}
}

func TestApp_DeleteSkipsConfirmationWhenDisabled(t *testing.T) {
	ta := createTestApp(t)
	ta.app.cfg.ConfirmDeletions = false
	addTestTracker(t, ta.store, "Water")
	press(t, ta.app, keyRunes("t"))

	press(t, ta.app, keyRunes("x"))
	if ta.app.confirmDel != nil {
		t.Error("no dialog expected when confirmations are disabled")
	}
	if got := len(ta.store.FetchAllTrackers()); got != 0 {
		t.Errorf("got %d trackers, want 0", got)
	}
}

func TestApp_QuitSetsQuitting(t *testing.T) {
	ta := createTestApp(t)

	_, cmd := ta.app.Update(keyRunes("q"))
	if !ta.app.quitting {
		t.Error("q should mark the app as quitting")
	}
	if cmd == nil {
		t.Fatal("q should return the quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should produce tea.QuitMsg")
	}
	if ta.app.View() != "" {
		t.Error("quitting app should render nothing")
	}
}

func TestApp_NarrowLayoutStacksPanes(t *testing.T) {
	ta := createTestApp(t)

	press(t, ta.app, tea.WindowSizeMsg{Width: 60, Height: 30})
	if ta.app.layout != LayoutNarrow {
		t.Errorf("layout = %v at width 60, want LayoutNarrow", ta.app.layout)
	}

	press(t, ta.app, tea.WindowSizeMsg{Width: 120, Height: 30})
	if ta.app.layout != LayoutWide {
		t.Errorf("layout = %v at width 120, want LayoutWide", ta.app.layout)
	}
}

func TestApp_StatusExpiresAfterTTL(t *testing.T) {
	ta := createTestApp(t)

	ta.app.SetStatus("saved", false)
	if bar := ta.app.renderStatusBar(); !strings.Contains(bar, "saved") {
		t.Fatalf("status bar should show the message:\n%s", bar)
	}

	// Move the clock past the TTL and deliver a tick.
	later := testToday.Add(statusTTL + time.Second)
	ta.store.SetNowFunc(func() time.Time { return later })
	ta.app.Update(tickMsg(later))

	if ta.app.status != "" {
		t.Errorf("status = %q after TTL, want empty", ta.app.status)
	}
}

func TestApp_TitleBarShowsProgress(t *testing.T) {
	ta := createTestApp(t)
	tr := addTestTracker(t, ta.store, "Water")
	addTestTracker(t, ta.store, "Read")
	if err := ta.store.AddRecord(tr.ID, testToday); err != nil {
		t.Fatal(err)
	}
	press(t, ta.app, keyRunes("t"))

	if bar := ta.app.renderTitleBar(); !strings.Contains(bar, "1/2 done") {
		t.Errorf("title bar should show completion progress:\n%s", bar)
	}
}

func TestApp_InputModeBlocksGlobalKeys(t *testing.T) {
	ta := createTestApp(t)

	press(t, ta.app, keyRunes("a"))
	typeString(t, ta.app, "q?2")
	if ta.app.quitting {
		t.Error("typing q in a text field must not quit")
	}
	if ta.app.helpOverlay.IsVisible() {
		t.Error("typing ? in a text field must not open help")
	}
	if ta.app.activePane != PaneTrackers {
		t.Error("typing 2 in a text field must not switch panes")
	}
	if got := ta.app.trackersPane.input.Value(); got != "q?2" {
		t.Errorf("input = %q, want the typed text", got)
	}
}

package listing

import (
	"testing"
	"time"

	"streaks/internal/storage"
)

// Monday noon, frozen for all listing tests.
var testToday = time.Date(2025, 12, 15, 12, 0, 0, 0, time.UTC)

func createTestStorage(t *testing.T) *storage.Storage {
	t.Helper()
	store, err := storage.New(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create test storage: %v", err)
	}
	store.SetNowFunc(func() time.Time { return testToday })
	return store
}

func newTestEngine(t *testing.T, store *storage.Storage) *Engine {
	t.Helper()
	engine := NewEngine(store)
	engine.SetNowFunc(func() time.Time { return testToday })
	t.Cleanup(engine.Close)
	return engine
}

func addTracker(t *testing.T, store *storage.Storage, name, category string, schedule ...storage.Weekday) storage.Tracker {
	t.Helper()
	tracker, err := store.AddTracker(storage.Tracker{
		Name:     name,
		Color:    "#F59E0B",
		Emoji:    "🏃",
		Schedule: schedule,
		Category: storage.TrackerCategory{Title: category},
	})
	if err != nil {
		t.Fatalf("AddTracker(%s) error = %v", name, err)
	}
	return *tracker
}

func flatTitles(groups []Group) []string {
	var titles []string
	for _, g := range groups {
		for _, item := range g.Items {
			titles = append(titles, item.Title)
		}
	}
	return titles
}

func TestGroups_ScheduleFiltersByWeekday(t *testing.T) {
	store := createTestStorage(t)
	engine := newTestEngine(t, store)

	addTracker(t, store, "Run", "Health", storage.Monday)

	groups, ph := engine.Groups()
	if len(groups) != 1 || len(groups[0].Items) != 1 || groups[0].Items[0].Title != "Run" {
		t.Fatalf("Monday groups = %+v, want single Run item", groups)
	}
	if ph != PlaceholderHidden {
		t.Errorf("placeholder = %q, want hidden", ph)
	}

	// Tuesday: the Monday-only tracker disappears.
	engine.ChangeDate(testToday.AddDate(0, 0, 1))
	groups, ph = engine.Groups()
	if len(groups) != 0 {
		t.Errorf("Tuesday groups = %+v, want empty", groups)
	}
	if ph != PlaceholderNoTrackersForDate {
		t.Errorf("placeholder = %q, want no_trackers_for_date", ph)
	}
}

func TestGroups_EndToEndScenario(t *testing.T) {
	store := createTestStorage(t)
	engine := newTestEngine(t, store)

	a := addTracker(t, store, "A", "Health", storage.Monday, storage.Wednesday)
	addTracker(t, store, "B", "Health", storage.Tuesday)
	if err := store.AddRecord(a.ID, testToday); err != nil {
		t.Fatalf("AddRecord() error = %v", err)
	}

	groups, _ := engine.Groups()
	if got := flatTitles(groups); len(got) != 1 || got[0] != "A" {
		t.Fatalf("Monday items = %v, want [A]", got)
	}
	if !groups[0].Items[0].Completed {
		t.Error("A.Completed = false on Monday, want true")
	}

	engine.ChangeDate(testToday.AddDate(0, 0, 1))
	groups, _ = engine.Groups()
	if got := flatTitles(groups); len(got) != 1 || got[0] != "B" {
		t.Fatalf("Tuesday items = %v, want [B]", got)
	}
	if groups[0].Items[0].Completed {
		t.Error("B.Completed = true on Tuesday, want false")
	}
}

func TestGroups_PinnedGroupFirstAndExclusive(t *testing.T) {
	store := createTestStorage(t)
	engine := newTestEngine(t, store)

	addTracker(t, store, "Run", "Zebra", storage.Monday)
	addTracker(t, store, "Read", "Art", storage.Monday)
	pinned := addTracker(t, store, "Water", "Zebra", storage.Monday)
	if err := engine.TogglePin(pinned.ID); err != nil {
		t.Fatalf("TogglePin() error = %v", err)
	}

	groups, _ := engine.Groups()
	want := []string{PinnedGroupTitle, "Art", "Zebra"}
	if len(groups) != len(want) {
		t.Fatalf("got %d groups, want %d (%v)", len(groups), len(want), want)
	}
	for i, title := range want {
		if groups[i].Title != title {
			t.Errorf("groups[%d].Title = %q, want %q", i, groups[i].Title, title)
		}
	}
	// The pinned tracker must not also sit in its category group.
	for _, item := range groups[2].Items {
		if item.Title == "Water" {
			t.Error("pinned tracker appears in its category group")
		}
	}
	if len(groups[0].Items) != 1 || groups[0].Items[0].Title != "Water" {
		t.Errorf("pinned group items = %+v, want [Water]", groups[0].Items)
	}
}

func TestGroups_EmptyCategoryFallsBackToDefault(t *testing.T) {
	store := createTestStorage(t)
	engine := newTestEngine(t, store)

	addTracker(t, store, "Run", "", storage.Monday)

	groups, _ := engine.Groups()
	if len(groups) != 1 || groups[0].Title != storage.DefaultCategoryTitle {
		t.Errorf("groups = %+v, want single %q group", groups, storage.DefaultCategoryTitle)
	}
}

func TestGroups_CompletedFilter(t *testing.T) {
	store := createTestStorage(t)
	engine := newTestEngine(t, store)

	done := addTracker(t, store, "Done", "Health", storage.Monday)
	addTracker(t, store, "Pending", "Health", storage.Monday)
	if err := store.AddRecord(done.ID, testToday); err != nil {
		t.Fatalf("AddRecord() error = %v", err)
	}
	engine.Reload()

	engine.ApplyFilter(storage.FilterCompleted)
	groups, _ := engine.Groups()
	if got := flatTitles(groups); len(got) != 1 || got[0] != "Done" {
		t.Errorf("completed view = %v, want [Done]", got)
	}

	engine.ApplyFilter(storage.FilterUncompleted)
	groups, _ = engine.Groups()
	if got := flatTitles(groups); len(got) != 1 || got[0] != "Pending" {
		t.Errorf("uncompleted view = %v, want [Pending]", got)
	}
}

func TestGroups_PlaceholderPrecedence(t *testing.T) {
	store := createTestStorage(t)
	engine := newTestEngine(t, store)

	addTracker(t, store, "Run", "Health", storage.Monday)

	// Search miss wins even with a non-default filter active.
	engine.ApplyFilter(storage.FilterCompleted)
	engine.SetSearch("") // settle any pending term
	engine.applySearch("zzz")
	if _, ph := engine.Groups(); ph != PlaceholderSearchNotFound {
		t.Errorf("placeholder = %q, want search_not_found", ph)
	}

	engine.applySearch("")
	if _, ph := engine.Groups(); ph != PlaceholderFilterNotFound {
		t.Errorf("placeholder = %q, want filter_not_found", ph)
	}
}

func TestSetSearch_CaseInsensitiveSubstring(t *testing.T) {
	store := createTestStorage(t)
	engine := newTestEngine(t, store)

	addTracker(t, store, "Morning Run", "Health", storage.Monday)
	addTracker(t, store, "Read", "Health", storage.Monday)

	engine.applySearch("RUN")
	groups, _ := engine.Groups()
	if got := flatTitles(groups); len(got) != 1 || got[0] != "Morning Run" {
		t.Errorf("search RUN = %v, want [Morning Run]", got)
	}
}

func TestSetSearch_DebounceLastWriteWins(t *testing.T) {
	store := createTestStorage(t)
	engine := newTestEngine(t, store)
	engine.SetSearchDebounce(10 * time.Millisecond)

	addTracker(t, store, "Run", "Health", storage.Monday)
	addTracker(t, store, "Read", "Health", storage.Monday)

	// Rapid keystrokes: only the last survives the quiet period.
	engine.SetSearch("re")
	engine.SetSearch("rea")
	engine.SetSearch("run")
	time.Sleep(50 * time.Millisecond)

	if got := engine.Search(); got != "run" {
		t.Errorf("Search() = %q, want %q", got, "run")
	}
	groups, _ := engine.Groups()
	if got := flatTitles(groups); len(got) != 1 || got[0] != "Run" {
		t.Errorf("debounced view = %v, want [Run]", got)
	}
}

func TestSetSearch_ClearAppliesImmediately(t *testing.T) {
	store := createTestStorage(t)
	engine := newTestEngine(t, store)
	engine.SetSearchDebounce(time.Hour) // pending term will never fire

	addTracker(t, store, "Run", "Health", storage.Monday)

	engine.SetSearch("zzz")
	engine.SetSearch("")
	if got := engine.Search(); got != "" {
		t.Errorf("Search() = %q, want empty", got)
	}
	groups, _ := engine.Groups()
	if len(groups) != 1 {
		t.Errorf("groups = %+v, want the full list back", groups)
	}
}

func TestToggle_FutureDateIsNoOp(t *testing.T) {
	store := createTestStorage(t)
	engine := newTestEngine(t, store)

	tracker := addTracker(t, store, "Run", "Health", storage.Monday, storage.Tuesday)

	engine.ChangeDate(testToday.AddDate(0, 0, 1))
	if err := engine.Toggle(tracker.ID); err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if store.IsCompleted(testToday.AddDate(0, 0, 1), tracker.ID) {
		t.Error("future toggle created a record, want no-op")
	}
	groups, _ := engine.Groups()
	if groups[0].Items[0].Completed {
		t.Error("item marked completed after future toggle")
	}
}

func TestToggle_FlipsCompletion(t *testing.T) {
	store := createTestStorage(t)
	engine := newTestEngine(t, store)

	tracker := addTracker(t, store, "Run", "Health", storage.Monday)

	if err := engine.Toggle(tracker.ID); err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	groups, _ := engine.Groups()
	if !groups[0].Items[0].Completed || groups[0].Items[0].CompletedDays != 1 {
		t.Errorf("after first toggle item = %+v, want Completed with 1 day", groups[0].Items[0])
	}

	if err := engine.Toggle(tracker.ID); err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	groups, _ = engine.Groups()
	if groups[0].Items[0].Completed || groups[0].Items[0].CompletedDays != 0 {
		t.Errorf("after second toggle item = %+v, want uncompleted with 0 days", groups[0].Items[0])
	}
}

func TestApplyFilter_TodayResetsDateAndPersists(t *testing.T) {
	store := createTestStorage(t)
	engine := newTestEngine(t, store)

	var dateChanges []time.Time
	engine.OnDateChanged(func(d time.Time) { dateChanges = append(dateChanges, d) })

	engine.ChangeDate(testToday.AddDate(0, 0, -3))
	engine.ApplyFilter(storage.FilterToday)

	wantDate := time.Date(2025, 12, 15, 0, 0, 0, 0, time.UTC)
	if !engine.Date().Equal(wantDate) {
		t.Errorf("Date() = %v, want %v", engine.Date(), wantDate)
	}
	if len(dateChanges) != 2 {
		t.Errorf("got %d date notifications, want 2 (explicit change + filter reset)", len(dateChanges))
	}

	// A fresh engine restores the persisted filter.
	restored := newTestEngine(t, store)
	if restored.Filter() != storage.FilterToday {
		t.Errorf("restored filter = %q, want %q", restored.Filter(), storage.FilterToday)
	}
}

func TestDelete_RefreshesVisibleList(t *testing.T) {
	store := createTestStorage(t)
	engine := newTestEngine(t, store)

	tracker := addTracker(t, store, "Run", "Health", storage.Monday)

	var updates [][]Group
	engine.OnGroupsChanged(func(g []Group) { updates = append(updates, g) })

	engine.Groups()
	if err := engine.Delete(tracker.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	groups, ph := engine.Groups()
	if len(groups) != 0 {
		t.Errorf("groups after delete = %+v, want empty", groups)
	}
	if ph != PlaceholderNoTrackersForDate {
		t.Errorf("placeholder = %q, want no_trackers_for_date", ph)
	}
	if len(updates) == 0 {
		t.Error("no group notifications after delete")
	}
}

func TestAdd_InvalidatesMemo(t *testing.T) {
	store := createTestStorage(t)
	engine := newTestEngine(t, store)

	engine.Groups() // memoize the empty view
	if _, err := engine.Add(storage.Tracker{
		Name:     "Run",
		Color:    "#10B981",
		Emoji:    "🏃",
		Schedule: []storage.Weekday{storage.Monday},
	}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	groups, _ := engine.Groups()
	if got := flatTitles(groups); len(got) != 1 || got[0] != "Run" {
		t.Errorf("groups after add = %v, want [Run]", got)
	}
}

func TestPlaceholderMessage(t *testing.T) {
	tests := []struct {
		state PlaceholderState
		want  string
	}{
		{PlaceholderHidden, ""},
		{PlaceholderSearchNotFound, "Nothing found"},
		{PlaceholderFilterNotFound, "No trackers match the filter"},
		{PlaceholderNoTrackersForDate, "Nothing to track on this day"},
	}
	for _, tt := range tests {
		if got := tt.state.Message(); got != tt.want {
			t.Errorf("%q.Message() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

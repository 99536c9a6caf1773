package reports

import (
	"strings"
	"testing"
	"time"

	"streaks/internal/storage"
)

// Monday noon, frozen for all report tests.
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

func addTracker(t *testing.T, store *storage.Storage, name, category string, schedule ...storage.Weekday) storage.Tracker {
	t.Helper()
	tracker, err := store.AddTracker(storage.Tracker{
		Name:     name,
		Color:    "#3B82F6",
		Emoji:    "📚",
		Schedule: schedule,
		Category: storage.TrackerCategory{Title: category},
	})
	if err != nil {
		t.Fatalf("AddTracker(%s) error = %v", name, err)
	}
	return *tracker
}

func TestGenerateDaily(t *testing.T) {
	store := createTestStorage(t)

	run := addTracker(t, store, "Run", "Health", storage.Monday)
	addTracker(t, store, "Read", "Learning", storage.Monday)
	addTracker(t, store, "Swim", "Health", storage.Tuesday) // not scheduled today
	if err := store.AddRecord(run.ID, testToday); err != nil {
		t.Fatalf("AddRecord() error = %v", err)
	}

	gen := NewGenerator(store, nil)
	report, err := gen.GenerateDaily(testToday)
	if err != nil {
		t.Fatalf("GenerateDaily() error = %v", err)
	}

	if report.Trackers.ScheduledCount != 2 {
		t.Errorf("ScheduledCount = %d, want 2", report.Trackers.ScheduledCount)
	}
	if report.Trackers.CompletedCount != 1 {
		t.Errorf("CompletedCount = %d, want 1", report.Trackers.CompletedCount)
	}
	if report.Trackers.CompletionRate != 50 {
		t.Errorf("CompletionRate = %v, want 50", report.Trackers.CompletionRate)
	}
	if report.Perfect {
		t.Error("Perfect = true with an incomplete tracker, want false")
	}

	// Categories sort alphabetically.
	if len(report.Trackers.ByCategory) != 2 ||
		report.Trackers.ByCategory[0].Category != "Health" ||
		report.Trackers.ByCategory[1].Category != "Learning" {
		t.Errorf("ByCategory = %+v, want [Health Learning]", report.Trackers.ByCategory)
	}
}

func TestGenerateDaily_PerfectDay(t *testing.T) {
	store := createTestStorage(t)

	run := addTracker(t, store, "Run", "Health", storage.Monday)
	if err := store.AddRecord(run.ID, testToday); err != nil {
		t.Fatalf("AddRecord() error = %v", err)
	}

	gen := NewGenerator(store, nil)
	report, err := gen.GenerateDaily(testToday)
	if err != nil {
		t.Fatalf("GenerateDaily() error = %v", err)
	}
	if !report.Perfect {
		t.Error("Perfect = false with all scheduled trackers done, want true")
	}
}

func TestGenerateWeekly(t *testing.T) {
	store := createTestStorage(t)

	// Daily tracker completed Monday through Wednesday of the report week.
	daily := addTracker(t, store, "Journal", "Mind",
		storage.Monday, storage.Tuesday, storage.Wednesday, storage.Thursday,
		storage.Friday, storage.Saturday, storage.Sunday)
	for i := 0; i < 3; i++ {
		if err := store.AddRecord(daily.ID, testToday.AddDate(0, 0, i)); err != nil {
			t.Fatalf("AddRecord() error = %v", err)
		}
	}

	gen := NewGenerator(store, nil)
	// Any date inside the week aligns back to its Monday.
	report, err := gen.GenerateWeekly(testToday.AddDate(0, 0, 2))
	if err != nil {
		t.Fatalf("GenerateWeekly() error = %v", err)
	}

	if !report.StartDate.Equal(time.Date(2025, 12, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("StartDate = %v, want Monday 2025-12-15", report.StartDate)
	}
	if report.Trackers.TotalExpected != 7 {
		t.Errorf("TotalExpected = %d, want 7", report.Trackers.TotalExpected)
	}
	if report.Trackers.TotalCompleted != 3 {
		t.Errorf("TotalCompleted = %d, want 3", report.Trackers.TotalCompleted)
	}

	if len(report.DailyBreakdown) != 7 {
		t.Fatalf("DailyBreakdown length = %d, want 7", len(report.DailyBreakdown))
	}
	if !report.DailyBreakdown[0].Perfect {
		t.Error("Monday should be perfect (1/1 completed)")
	}
	if report.DailyBreakdown[3].Perfect {
		t.Error("Thursday should not be perfect (0/1 completed)")
	}

	status := report.Trackers.Trackers[0]
	want := []bool{true, true, true, false, false, false, false}
	for i, done := range want {
		if status.DaysCompleted[i] != done {
			t.Errorf("DaysCompleted[%d] = %v, want %v", i, status.DaysCompleted[i], done)
		}
	}
}

func TestFormatDailyMarkdown(t *testing.T) {
	store := createTestStorage(t)

	run := addTracker(t, store, "Run", "Health", storage.Monday)
	if err := store.AddRecord(run.ID, testToday); err != nil {
		t.Fatalf("AddRecord() error = %v", err)
	}

	gen := NewGenerator(store, nil)
	report, err := gen.GenerateDaily(testToday)
	if err != nil {
		t.Fatalf("GenerateDaily() error = %v", err)
	}

	md := FormatDailyMarkdown(report)
	for _, want := range []string{"# Daily Report", "perfect day", "[x]", "Run", "## Statistics"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestFormatDailyJSON(t *testing.T) {
	store := createTestStorage(t)
	addTracker(t, store, "Run", "Health", storage.Monday)

	gen := NewGenerator(store, nil)
	report, err := gen.GenerateDaily(testToday)
	if err != nil {
		t.Fatalf("GenerateDaily() error = %v", err)
	}

	data, err := FormatDailyJSON(report)
	if err != nil {
		t.Fatalf("FormatDailyJSON() error = %v", err)
	}
	if !strings.Contains(string(data), `"scheduled_count": 1`) {
		t.Errorf("JSON missing scheduled_count:\n%s", data)
	}
}

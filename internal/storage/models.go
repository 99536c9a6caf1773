package storage

import (
	"time"

	"github.com/google/uuid"
)

// DateFormat is the calendar-day key used for completion records.
// Records are compared by day, never by timestamp.
const DateFormat = "2006-01-02"

// Weekday numbers the days Monday=1 through Sunday=7, independent of the
// platform's Sunday-first convention.
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// WeekdayOf converts a date to its schedule weekday.
func WeekdayOf(t time.Time) Weekday {
	wd := t.Weekday()
	if wd == time.Sunday {
		return Sunday
	}
	return Weekday(wd)
}

// String returns the short English day name.
func (w Weekday) String() string {
	switch w {
	case Monday:
		return "Mon"
	case Tuesday:
		return "Tue"
	case Wednesday:
		return "Wed"
	case Thursday:
		return "Thu"
	case Friday:
		return "Fri"
	case Saturday:
		return "Sat"
	case Sunday:
		return "Sun"
	default:
		return "???"
	}
}

// TrackerCategory groups trackers for display.
type TrackerCategory struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}

// DefaultCategoryTitle is the reserved category. It always exists, cannot be
// renamed or deleted, and collects trackers with an empty category title.
const DefaultCategoryTitle = "Important"

// Tracker is a recurring habit with a weekly schedule. Trackers are values:
// edits replace the whole tracker, there is no partial mutation.
type Tracker struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Color     string          `json:"color"`
	Emoji     string          `json:"emoji"`
	Schedule  []Weekday       `json:"schedule"`
	Category  TrackerCategory `json:"category"`
	Pinned    bool            `json:"pinned,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// ScheduledOn reports whether the tracker is active on the given weekday.
// An empty schedule means "never scheduled".
func (t Tracker) ScheduledOn(day Weekday) bool {
	for _, d := range t.Schedule {
		if d == day {
			return true
		}
	}
	return false
}

// CategoryTitle returns the tracker's category title, substituting the
// reserved default when the title is empty.
func (t Tracker) CategoryTitle() string {
	if t.Category.Title == "" {
		return DefaultCategoryTitle
	}
	return t.Category.Title
}

// TrackerRecord is evidence that a tracker was completed on a calendar day.
// It references its tracker weakly; deleting a tracker removes its records.
// At most one record exists per (tracker, day) pair.
type TrackerRecord struct {
	TrackerID uuid.UUID `json:"tracker_id"`
	Date      string    `json:"date"` // YYYY-MM-DD
}

// Day parses the record's date at day granularity in local time.
func (r TrackerRecord) Day() (time.Time, error) {
	return time.ParseInLocation(DateFormat, r.Date, time.Local)
}

// TrackerStore holds trackers and their categories.
type TrackerStore struct {
	Trackers   []Tracker         `json:"trackers"`
	Categories []TrackerCategory `json:"categories"`
}

// RecordStore holds all completion records.
type RecordStore struct {
	Records []TrackerRecord `json:"records"`
}

// TrackerFilter selects which trackers the list screen shows.
type TrackerFilter string

const (
	FilterAll         TrackerFilter = "all"
	FilterToday       TrackerFilter = "today"
	FilterCompleted   TrackerFilter = "completed"
	FilterUncompleted TrackerFilter = "uncompleted"
)

// Valid reports whether f names a known filter.
func (f TrackerFilter) Valid() bool {
	switch f {
	case FilterAll, FilterToday, FilterCompleted, FilterUncompleted:
		return true
	}
	return false
}

// Settings holds small persisted UI state, stored separately from tracker
// and record data.
type Settings struct {
	LastFilter TrackerFilter `json:"last_filter,omitempty"`
}

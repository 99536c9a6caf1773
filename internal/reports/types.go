// Package reports provides daily and weekly report generation for the streaks app.
// Reports aggregate tracker completions, schedules, and overall statistics.
package reports

import (
	"time"

	"streaks/internal/stats"

	"github.com/google/uuid"
)

// DailyReport contains aggregated data for a single day.
type DailyReport struct {
	Date        time.Time            `json:"date"`
	Trackers    TrackerSummary       `json:"trackers"`
	Perfect     bool                 `json:"perfect"`
	Statistics  stats.StatisticsData `json:"statistics"`
	GeneratedAt time.Time            `json:"generated_at"`
}

// WeeklyReport contains aggregated data for a week starting on Monday.
type WeeklyReport struct {
	StartDate      time.Time            `json:"start_date"`
	EndDate        time.Time            `json:"end_date"`
	Trackers       WeeklyTrackers       `json:"trackers"`
	Statistics     stats.StatisticsData `json:"statistics"`
	DailyBreakdown []DailySummary       `json:"daily_breakdown"`
	GeneratedAt    time.Time            `json:"generated_at"`
}

// TrackerSummary contains tracker completion statistics for one day.
type TrackerSummary struct {
	Trackers       []TrackerStatus `json:"trackers"`
	CompletedCount int             `json:"completed_count"`
	ScheduledCount int             `json:"scheduled_count"`
	CompletionRate float64         `json:"completion_rate"`
	ByCategory     []CategoryCount `json:"by_category"`
}

// TrackerStatus represents one scheduled tracker and its completion status.
type TrackerStatus struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Emoji     string    `json:"emoji"`
	Category  string    `json:"category"`
	Pinned    bool      `json:"pinned"`
	Done      bool      `json:"done"`
	TotalDays int       `json:"total_days"`
}

// CategoryCount represents per-category completion counts for one day.
type CategoryCount struct {
	Category  string `json:"category"`
	Completed int    `json:"completed"`
	Scheduled int    `json:"scheduled"`
}

// WeeklyTrackers contains tracker statistics for a week.
type WeeklyTrackers struct {
	Trackers       []WeeklyTrackerStatus `json:"trackers"`
	OverallRate    float64               `json:"overall_rate"`
	TotalCompleted int                   `json:"total_completed"`
	TotalExpected  int                   `json:"total_expected"`
}

// WeeklyTrackerStatus represents a tracker's completions over a week.
type WeeklyTrackerStatus struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Emoji          string    `json:"emoji"`
	DaysCompleted  []bool    `json:"days_completed"` // 7 bools, Monday first
	CompletedCount int       `json:"completed_count"`
	ExpectedCount  int       `json:"expected_count"`
	CompletionRate float64   `json:"completion_rate"`
}

// DailySummary provides a quick overview of a single day within a week.
type DailySummary struct {
	Date      string `json:"date"`
	DayOfWeek string `json:"day_of_week"`
	Completed int    `json:"completed"`
	Scheduled int    `json:"scheduled"`
	Perfect   bool   `json:"perfect"`
}

// Package reports provides daily and weekly report generation for the streaks app.
package reports

import (
	"sort"
	"time"

	"streaks/internal/stats"
	"streaks/internal/storage"
)

// Generator creates reports from storage data.
type Generator struct {
	store *storage.Storage
	stats *stats.Engine
}

// NewGenerator creates a new report generator. The statistics engine may be
// nil, in which case reports carry zero statistics.
func NewGenerator(store *storage.Storage, engine *stats.Engine) *Generator {
	return &Generator{store: store, stats: engine}
}

// GenerateDaily generates a report for a specific date.
func (g *Generator) GenerateDaily(date time.Time) (*DailyReport, error) {
	date = startOfDay(date)

	summary := g.trackerSummary(date)

	return &DailyReport{
		Date:        date,
		Trackers:    summary,
		Perfect:     summary.ScheduledCount > 0 && summary.CompletedCount == summary.ScheduledCount,
		Statistics:  g.statistics(),
		GeneratedAt: g.store.Now(),
	}, nil
}

// GenerateWeekly generates a report for the week containing the given date.
func (g *Generator) GenerateWeekly(startDate time.Time) (*WeeklyReport, error) {
	startDate = startOfWeekMonday(startDate)
	endDate := startDate.AddDate(0, 0, 7)

	weekly := g.weeklyTrackers(startDate)
	breakdown := g.dailyBreakdown(startDate, 7)

	return &WeeklyReport{
		StartDate:      startDate,
		EndDate:        endDate.Add(-time.Nanosecond), // End of last day
		Trackers:       weekly,
		Statistics:     g.statistics(),
		DailyBreakdown: breakdown,
		GeneratedAt:    g.store.Now(),
	}, nil
}

// trackerSummary returns completion statistics for one day.
func (g *Generator) trackerSummary(date time.Time) TrackerSummary {
	weekday := storage.WeekdayOf(date)

	var statuses []TrackerStatus
	completed := 0
	categoryDone := make(map[string]int)
	categoryTotal := make(map[string]int)

	for _, tracker := range g.store.FetchAllTrackers() {
		if !tracker.ScheduledOn(weekday) {
			continue
		}

		done := g.store.IsCompleted(date, tracker.ID)
		if done {
			completed++
		}

		category := tracker.CategoryTitle()
		if category == "" {
			category = storage.DefaultCategoryTitle
		}
		categoryTotal[category]++
		if done {
			categoryDone[category]++
		}

		statuses = append(statuses, TrackerStatus{
			ID:        tracker.ID,
			Name:      tracker.Name,
			Emoji:     tracker.Emoji,
			Category:  category,
			Pinned:    tracker.Pinned,
			Done:      done,
			TotalDays: g.store.CompletedDays(tracker.ID),
		})
	}

	byCategory := make([]CategoryCount, 0, len(categoryTotal))
	for category, total := range categoryTotal {
		byCategory = append(byCategory, CategoryCount{
			Category:  category,
			Completed: categoryDone[category],
			Scheduled: total,
		})
	}
	sort.Slice(byCategory, func(i, j int) bool {
		return byCategory[i].Category < byCategory[j].Category
	})

	rate := 0.0
	if len(statuses) > 0 {
		rate = float64(completed) / float64(len(statuses)) * 100
	}

	return TrackerSummary{
		Trackers:       statuses,
		CompletedCount: completed,
		ScheduledCount: len(statuses),
		CompletionRate: rate,
		ByCategory:     byCategory,
	}
}

// weeklyTrackers returns per-tracker completion statistics for a week.
func (g *Generator) weeklyTrackers(start time.Time) WeeklyTrackers {
	var statuses []WeeklyTrackerStatus
	totalCompleted := 0
	totalExpected := 0

	for _, tracker := range g.store.FetchAllTrackers() {
		daysCompleted := make([]bool, 7)
		expected := 0
		done := 0

		for i := 0; i < 7; i++ {
			day := start.AddDate(0, 0, i)
			if !tracker.ScheduledOn(storage.WeekdayOf(day)) {
				continue
			}
			expected++
			if g.store.IsCompleted(day, tracker.ID) {
				daysCompleted[i] = true
				done++
			}
		}

		totalExpected += expected
		totalCompleted += done

		rate := 0.0
		if expected > 0 {
			rate = float64(done) / float64(expected) * 100
		}

		statuses = append(statuses, WeeklyTrackerStatus{
			ID:             tracker.ID,
			Name:           tracker.Name,
			Emoji:          tracker.Emoji,
			DaysCompleted:  daysCompleted,
			CompletedCount: done,
			ExpectedCount:  expected,
			CompletionRate: rate,
		})
	}

	overallRate := 0.0
	if totalExpected > 0 {
		overallRate = float64(totalCompleted) / float64(totalExpected) * 100
	}

	return WeeklyTrackers{
		Trackers:       statuses,
		OverallRate:    overallRate,
		TotalCompleted: totalCompleted,
		TotalExpected:  totalExpected,
	}
}

// dailyBreakdown returns a summary for each day in the period.
func (g *Generator) dailyBreakdown(start time.Time, days int) []DailySummary {
	breakdown := make([]DailySummary, 0, days)

	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i)
		summary := g.trackerSummary(day)

		breakdown = append(breakdown, DailySummary{
			Date:      day.Format(storage.DateFormat),
			DayOfWeek: day.Format("Mon"),
			Completed: summary.CompletedCount,
			Scheduled: summary.ScheduledCount,
			Perfect:   summary.ScheduledCount > 0 && summary.CompletedCount == summary.ScheduledCount,
		})
	}

	return breakdown
}

func (g *Generator) statistics() stats.StatisticsData {
	if g.stats == nil {
		return stats.StatisticsData{}
	}
	data, err := g.stats.Calculate()
	if err != nil {
		// ErrInvalidData (empty universe) degrades to zero statistics.
		return stats.StatisticsData{}
	}
	return data
}

// Helper functions

// startOfDay returns the start of the day (midnight).
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// startOfWeekMonday returns the start of the week (Monday).
func startOfWeekMonday(t time.Time) time.Time {
	t = startOfDay(t)
	offset := int(storage.WeekdayOf(t)) - 1
	return t.AddDate(0, 0, -offset)
}

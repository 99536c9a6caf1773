package reports

import (
	"fmt"
	"strings"

	"streaks/internal/stats"
)

// FormatDailyMarkdown formats a daily report as human-readable Markdown.
func FormatDailyMarkdown(report *DailyReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Daily Report — %s\n\n", report.Date.Format("Monday, January 2, 2006"))

	if report.Trackers.ScheduledCount == 0 {
		b.WriteString("Nothing scheduled for this day.\n")
	} else {
		fmt.Fprintf(&b, "**%d of %d** trackers completed (%.0f%%)",
			report.Trackers.CompletedCount, report.Trackers.ScheduledCount, report.Trackers.CompletionRate)
		if report.Perfect {
			b.WriteString(" — perfect day!")
		}
		b.WriteString("\n\n")

		for _, cat := range report.Trackers.ByCategory {
			fmt.Fprintf(&b, "## %s (%d/%d)\n\n", cat.Category, cat.Completed, cat.Scheduled)
			for _, tracker := range report.Trackers.Trackers {
				if tracker.Category != cat.Category {
					continue
				}
				mark := " "
				if tracker.Done {
					mark = "x"
				}
				fmt.Fprintf(&b, "- [%s] %s %s (%d days total)\n", mark, tracker.Emoji, tracker.Name, tracker.TotalDays)
			}
			b.WriteString("\n")
		}
	}

	writeStatistics(&b, report.Statistics)
	return b.String()
}

// FormatWeeklyMarkdown formats a weekly report as human-readable Markdown.
func FormatWeeklyMarkdown(report *WeeklyReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Weekly Report — %s to %s\n\n",
		report.StartDate.Format("Jan 2"), report.EndDate.Format("Jan 2, 2006"))

	if report.Trackers.TotalExpected == 0 {
		b.WriteString("Nothing scheduled this week.\n\n")
	} else {
		fmt.Fprintf(&b, "**%d of %d** scheduled completions done (%.0f%%)\n\n",
			report.Trackers.TotalCompleted, report.Trackers.TotalExpected, report.Trackers.OverallRate)

		b.WriteString("## Trackers\n\n")
		b.WriteString("| Tracker | Mon | Tue | Wed | Thu | Fri | Sat | Sun | Rate |\n")
		b.WriteString("|---------|-----|-----|-----|-----|-----|-----|-----|------|\n")
		for _, tracker := range report.Trackers.Trackers {
			fmt.Fprintf(&b, "| %s %s |", tracker.Emoji, tracker.Name)
			for _, done := range tracker.DaysCompleted {
				if done {
					b.WriteString(" ✓ |")
				} else {
					b.WriteString("   |")
				}
			}
			fmt.Fprintf(&b, " %.0f%% |\n", tracker.CompletionRate)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Daily Breakdown\n\n")
	for _, day := range report.DailyBreakdown {
		perfect := ""
		if day.Perfect {
			perfect = " ★"
		}
		fmt.Fprintf(&b, "- %s %s: %d/%d%s\n", day.DayOfWeek, day.Date, day.Completed, day.Scheduled, perfect)
	}
	b.WriteString("\n")

	writeStatistics(&b, report.Statistics)
	return b.String()
}

func writeStatistics(b *strings.Builder, data stats.StatisticsData) {
	b.WriteString("## Statistics\n\n")
	fmt.Fprintf(b, "- Best period: %s days\n", stats.FormatMetric(data.BestPeriod))
	fmt.Fprintf(b, "- Perfect days: %s\n", stats.FormatMetric(data.PerfectDays))
	fmt.Fprintf(b, "- Trackers completed: %s\n", stats.FormatMetric(data.CompletedTrackers))
	fmt.Fprintf(b, "- Average value: %s\n", stats.FormatAverage(data.AverageValue))
}

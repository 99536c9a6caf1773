package storage

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// TrackerDraft accumulates the fields of a tracker under construction. It
// can always report what is still missing, and only produces a Tracker once
// every required field is present.
type TrackerDraft struct {
	Name     string
	Emoji    string
	Color    string
	Schedule []Weekday
	Category *TrackerCategory
}

// Missing lists the required fields not yet set, in a fixed order.
func (d TrackerDraft) Missing() []string {
	var missing []string
	if strings.TrimSpace(d.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(d.Emoji) == "" {
		missing = append(missing, "emoji")
	}
	if d.Color == "" {
		missing = append(missing, "color")
	}
	if len(d.Schedule) == 0 {
		missing = append(missing, "schedule")
	}
	if d.Category == nil {
		missing = append(missing, "category")
	}
	return missing
}

// Complete reports whether the draft can build a tracker.
func (d TrackerDraft) Complete() bool {
	return len(d.Missing()) == 0
}

// Build produces the immutable tracker, or an error naming what is missing
// or invalid. ID and CreatedAt are assigned by the store on AddTracker.
func (d TrackerDraft) Build() (Tracker, error) {
	if missing := d.Missing(); len(missing) > 0 {
		return Tracker{}, fmt.Errorf("tracker draft incomplete: missing %s", strings.Join(missing, ", "))
	}

	name := strings.TrimSpace(d.Name)
	if utf8.RuneCountInString(name) > MaxNameLen {
		return Tracker{}, fmt.Errorf("tracker name too long (max %d)", MaxNameLen)
	}

	schedule := make([]Weekday, 0, len(d.Schedule))
	seen := make(map[Weekday]bool, len(d.Schedule))
	for _, day := range d.Schedule {
		if day < Monday || day > Sunday {
			return Tracker{}, fmt.Errorf("invalid weekday %d in schedule", day)
		}
		if !seen[day] {
			seen[day] = true
			schedule = append(schedule, day)
		}
	}

	return Tracker{
		Name:     name,
		Emoji:    strings.TrimSpace(d.Emoji),
		Color:    d.Color,
		Schedule: schedule,
		Category: *d.Category,
	}, nil
}

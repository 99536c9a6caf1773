// Package ui provides terminal user interface components for the streaks app.
package ui

import (
	"fmt"
	"strings"
	"time"

	"streaks/internal/config"
	"streaks/internal/listing"
	"streaks/internal/storage"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

// Wizard steps for adding or editing a tracker.
const (
	stepName = iota
	stepEmoji
	stepColor
	stepSchedule
	stepCategory
)

// TrackersPane shows the filtered, grouped tracker list for the selected date
// and handles all tracker interactions.
type TrackersPane struct {
	engine  *listing.Engine
	store   *storage.Storage
	styles  *Styles
	focused bool
	width   int
	height  int

	groups      []listing.Group
	placeholder listing.PlaceholderState
	cursor      int

	// Add/edit wizard state
	adding  bool
	editing *storage.Tracker
	addStep int
	draft   storage.TrackerDraft
	input   textinput.Model

	// Search state
	searching   bool
	searchSeq   int
	searchInput textinput.Model
	debounce    time.Duration

	// Key bindings
	keys      TrackerKeyMap
	editKey   key.Binding
	inputKeys InputKeyMap
}

// NewTrackersPane creates a new trackers pane with default key bindings.
func NewTrackersPane(engine *listing.Engine, store *storage.Storage, styles *Styles) *TrackersPane {
	return NewTrackersPaneWithKeys(engine, store, styles, &config.KeysConfig{}, listing.DefaultSearchDebounce)
}

// NewTrackersPaneWithKeys creates a new trackers pane with custom key bindings
// and search debounce.
func NewTrackersPaneWithKeys(engine *listing.Engine, store *storage.Storage, styles *Styles, keyCfg *config.KeysConfig, debounce time.Duration) *TrackersPane {
	if keyCfg == nil {
		keyCfg = &config.KeysConfig{}
	}
	if debounce <= 0 {
		debounce = listing.DefaultSearchDebounce
	}

	ti := textinput.New()
	ti.Placeholder = "Tracker name (e.g., Morning run)"
	ti.CharLimit = storage.MaxNameLen
	ti.Width = 30

	si := textinput.New()
	si.Placeholder = "Search trackers"
	si.CharLimit = storage.MaxNameLen
	si.Width = 30

	return &TrackersPane{
		engine:      engine,
		store:       store,
		styles:      styles,
		placeholder: listing.PlaceholderHidden,
		input:       ti,
		searchInput: si,
		debounce:    debounce,
		keys:        NewTrackerKeyMap(keyCfg),
		editKey: key.NewBinding(
			key.WithKeys(parseKeys(keyCfg.EditTracker, "e")...),
			key.WithHelp("e", "edit"),
		),
		inputKeys: NewInputKeyMap(keyCfg),
	}
}

// RefreshCmd returns a command that recomputes the visible list.
func (p *TrackersPane) RefreshCmd() tea.Cmd {
	return refreshListCmd(p.engine)
}

// SetSize sets the pane dimensions.
func (p *TrackersPane) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.input.Width = max(10, width-6)
	p.searchInput.Width = max(10, width-6)
}

// SetFocused sets whether this pane is focused.
func (p *TrackersPane) SetFocused(focused bool) {
	p.focused = focused
}

// IsFocused returns whether this pane is focused.
func (p *TrackersPane) IsFocused() bool {
	return p.focused
}

// InInputMode reports whether the pane is capturing text input.
func (p *TrackersPane) InInputMode() bool {
	return p.adding || p.searching
}

// SelectedItem returns the tracker row under the cursor, or nil.
func (p *TrackersPane) SelectedItem() *listing.Item {
	items := p.flatItems()
	if p.cursor < 0 || p.cursor >= len(items) {
		return nil
	}
	return &items[p.cursor]
}

// flatItems flattens group rows into a single cursor-addressable list.
func (p *TrackersPane) flatItems() []listing.Item {
	var items []listing.Item
	for _, g := range p.groups {
		items = append(items, g.Items...)
	}
	return items
}

func (p *TrackersPane) clampCursor() {
	n := len(p.flatItems())
	if p.cursor >= n {
		p.cursor = max(0, n-1)
	}
}

// Update handles messages for the trackers pane.
func (p *TrackersPane) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd

	// Handle async messages first
	switch msg := msg.(type) {
	case listRefreshedMsg:
		p.groups = msg.groups
		p.placeholder = msg.placeholder
		p.clampCursor()
		return nil

	case trackerAddedMsg, trackerUpdatedMsg, trackerToggledMsg, trackerPinnedMsg, trackerDeletedMsg:
		// Engines already invalidated their memo; re-read the visible list.
		return p.RefreshCmd()

	case searchDebouncedMsg:
		if msg.seq != p.searchSeq {
			// Superseded by a newer keystroke; discard.
			return nil
		}
		p.engine.ApplySearch(strings.TrimSpace(p.searchInput.Value()))
		return p.RefreshCmd()
	}

	if p.adding {
		return p.updateWizard(msg)
	}

	if p.searching {
		return p.updateSearch(msg)
	}

	// Normal mode
	if !p.focused {
		return nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		items := p.flatItems()

		switch {
		case key.Matches(msg, p.keys.Down):
			if len(items) > 0 {
				p.cursor = min(p.cursor+1, len(items)-1)
			}

		case key.Matches(msg, p.keys.Up):
			if len(items) > 0 {
				p.cursor = max(p.cursor-1, 0)
			}

		case key.Matches(msg, p.keys.Add):
			p.startWizard(nil)
			return textinput.Blink

		case key.Matches(msg, p.editKey):
			if item := p.SelectedItem(); item != nil {
				if tracker := p.findTracker(item.ID); tracker != nil {
					p.startWizard(tracker)
					return textinput.Blink
				}
			}

		case key.Matches(msg, p.keys.Toggle):
			if item := p.SelectedItem(); item != nil {
				return toggleTrackerCmd(p.engine, item.ID)
			}

		case key.Matches(msg, p.keys.Pin):
			if item := p.SelectedItem(); item != nil {
				return pinTrackerCmd(p.engine, item.ID)
			}

		case key.Matches(msg, p.keys.Delete):
			if item := p.SelectedItem(); item != nil {
				return deleteTrackerCmd(p.engine, item.ID, item.Title)
			}

		case key.Matches(msg, p.keys.Search):
			p.searching = true
			p.searchInput.SetValue(p.engine.Search())
			p.searchInput.Focus()
			return textinput.Blink

		case key.Matches(msg, p.keys.CycleFilter):
			p.engine.ApplyFilter(nextFilter(p.engine.Filter()))
			return p.RefreshCmd()

		case key.Matches(msg, p.keys.PrevDay):
			p.engine.ShiftDate(-1)
			return p.RefreshCmd()

		case key.Matches(msg, p.keys.NextDay):
			p.engine.ShiftDate(1)
			return p.RefreshCmd()

		case key.Matches(msg, p.keys.Today):
			p.engine.ChangeDate(p.store.Now())
			return p.RefreshCmd()
		}
	}

	return cmd
}

// nextFilter cycles all -> today -> completed -> uncompleted -> all.
func nextFilter(f storage.TrackerFilter) storage.TrackerFilter {
	switch f {
	case storage.FilterAll:
		return storage.FilterToday
	case storage.FilterToday:
		return storage.FilterCompleted
	case storage.FilterCompleted:
		return storage.FilterUncompleted
	default:
		return storage.FilterAll
	}
}

// findTracker looks up the full tracker value behind a display row.
func (p *TrackersPane) findTracker(id uuid.UUID) *storage.Tracker {
	for _, t := range p.store.FetchAllTrackers() {
		if t.ID == id {
			tracker := t
			return &tracker
		}
	}
	return nil
}

// updateSearch handles input while the search field is active.
func (p *TrackersPane) updateSearch(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch {
		case key.Matches(keyMsg, p.inputKeys.Confirm):
			// Keep the term, leave input mode.
			p.searching = false
			p.searchInput.Blur()
			return nil

		case key.Matches(keyMsg, p.inputKeys.Cancel):
			p.searching = false
			p.searchInput.Reset()
			p.searchInput.Blur()
			p.engine.ApplySearch("")
			return p.RefreshCmd()
		}
	}

	var cmd tea.Cmd
	before := p.searchInput.Value()
	p.searchInput, cmd = p.searchInput.Update(msg)
	term := strings.TrimSpace(p.searchInput.Value())

	if p.searchInput.Value() == before {
		return cmd
	}
	if term == "" {
		// Clearing applies immediately.
		p.searchSeq++
		p.engine.ApplySearch("")
		return tea.Batch(cmd, p.RefreshCmd())
	}

	// Defer recomputation until the quiet period after the last keystroke.
	p.searchSeq++
	return tea.Batch(cmd, searchDebounceCmd(p.searchSeq, p.debounce))
}

// startWizard enters the add/edit wizard. A non-nil tracker prefills the
// draft for editing; blank answers then keep the existing values.
func (p *TrackersPane) startWizard(tracker *storage.Tracker) {
	p.adding = true
	p.editing = tracker
	p.addStep = stepName
	p.draft = storage.TrackerDraft{}
	if tracker != nil {
		p.draft = storage.TrackerDraft{
			Name:     tracker.Name,
			Emoji:    tracker.Emoji,
			Color:    tracker.Color,
			Schedule: tracker.Schedule,
			Category: &tracker.Category,
		}
		p.input.SetValue(tracker.Name)
	} else {
		p.input.Reset()
	}
	p.input.Placeholder = "Tracker name (e.g., Morning run)"
	p.input.CharLimit = storage.MaxNameLen
	p.input.Focus()
}

// updateWizard handles input while the add/edit wizard is active.
func (p *TrackersPane) updateWizard(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch {
		case key.Matches(keyMsg, p.inputKeys.Confirm):
			return p.advanceWizard()

		case key.Matches(keyMsg, p.inputKeys.Cancel):
			p.resetWizard()
			return nil
		}
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return cmd
}

// advanceWizard applies the current step's answer and moves to the next one.
func (p *TrackersPane) advanceWizard() tea.Cmd {
	value := strings.TrimSpace(p.input.Value())

	switch p.addStep {
	case stepName:
		if value == "" && p.draft.Name == "" {
			return nil
		}
		if value != "" {
			p.draft.Name = value
		}
		p.toStep(stepEmoji, "Emoji (e.g., 🏃)", 12)

	case stepEmoji:
		if value != "" {
			p.draft.Emoji = value
		} else if p.draft.Emoji == "" {
			p.draft.Emoji = "✓"
		}
		p.toStep(stepColor, "Color hex (blank for default)", 9)

	case stepColor:
		if value != "" {
			p.draft.Color = value
		} else if p.draft.Color == "" {
			p.draft.Color = string(p.styles.ColorPrimary)
		}
		p.toStep(stepSchedule, "Schedule: daily, weekdays, or mon,wed,fri", 60)

	case stepSchedule:
		if value != "" || len(p.draft.Schedule) == 0 {
			schedule, err := parseSchedule(value)
			if err != nil {
				p.input.Reset()
				p.input.Placeholder = "Try: daily, weekdays, or mon,wed,fri"
				return nil
			}
			p.draft.Schedule = schedule
		}
		p.toStep(stepCategory, "Category (blank for "+storage.DefaultCategoryTitle+")", 60)

	case stepCategory:
		if value != "" {
			p.draft.Category = &storage.TrackerCategory{Title: value}
		} else if p.draft.Category == nil {
			p.draft.Category = &storage.TrackerCategory{Title: storage.DefaultCategoryTitle}
		}

		draft := p.draft
		editing := p.editing
		p.resetWizard()

		if editing != nil {
			tracker, err := draft.Build()
			if err != nil {
				return func() tea.Msg { return trackerUpdatedMsg{id: editing.ID, err: err} }
			}
			tracker.ID = editing.ID
			tracker.Pinned = editing.Pinned
			tracker.CreatedAt = editing.CreatedAt
			return updateTrackerCmd(p.engine, tracker)
		}
		return addTrackerCmd(p.engine, draft)
	}

	return nil
}

func (p *TrackersPane) toStep(step int, placeholder string, charLimit int) {
	p.addStep = step
	p.input.Reset()
	p.input.Placeholder = placeholder
	p.input.CharLimit = charLimit
}

// resetWizard leaves the add/edit wizard.
func (p *TrackersPane) resetWizard() {
	p.adding = false
	p.editing = nil
	p.addStep = stepName
	p.draft = storage.TrackerDraft{}
	p.input.Reset()
	p.input.Placeholder = "Tracker name (e.g., Morning run)"
	p.input.CharLimit = storage.MaxNameLen
}

// parseSchedule turns user input into a weekday set. Accepted forms:
// "daily", "weekdays", or a comma-separated list of day names ("mon,wed").
func parseSchedule(s string) ([]storage.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily", "every day", "all":
		return []storage.Weekday{
			storage.Monday, storage.Tuesday, storage.Wednesday, storage.Thursday,
			storage.Friday, storage.Saturday, storage.Sunday,
		}, nil
	case "weekdays":
		return []storage.Weekday{
			storage.Monday, storage.Tuesday, storage.Wednesday, storage.Thursday,
			storage.Friday,
		}, nil
	case "":
		return nil, fmt.Errorf("empty schedule")
	}

	names := map[string]storage.Weekday{
		"mon": storage.Monday, "tue": storage.Tuesday, "wed": storage.Wednesday,
		"thu": storage.Thursday, "fri": storage.Friday, "sat": storage.Saturday,
		"sun": storage.Sunday,
	}

	var schedule []storage.Weekday
	for _, part := range strings.Split(s, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if len(name) > 3 {
			name = name[:3]
		}
		day, ok := names[name]
		if !ok {
			return nil, fmt.Errorf("unknown day %q", part)
		}
		schedule = append(schedule, day)
	}
	return schedule, nil
}

// View renders the trackers pane.
func (p *TrackersPane) View() string {
	var b strings.Builder

	// Title with selected date and active filter
	date := p.engine.Date()
	title := p.styles.PaneTitleStyle.Render("🔥 TRACKERS")
	b.WriteString(title)
	b.WriteString(" " + p.styles.DateStyle.Render(date.Format("Mon Jan 2")))
	if f := p.engine.Filter(); f != storage.FilterAll {
		b.WriteString(" " + p.styles.FilterBadgeStyle.Render("["+string(f)+"]"))
	}
	b.WriteString("\n")

	// Separator
	sepWidth := p.width - 4
	if sepWidth < 10 {
		sepWidth = 30
	}
	b.WriteString(p.styles.StatLabelStyle.Render(strings.Repeat("─", sepWidth)))
	b.WriteString("\n")

	// Active search indicator
	if p.searching {
		b.WriteString("\n  " + p.styles.InputPromptStyle.Render("Search: ") + p.searchInput.View() + "\n")
	} else if term := p.engine.Search(); term != "" {
		b.WriteString("\n  " + p.styles.StatLabelStyle.Render("Search: "+term) + "\n")
	}

	// Grouped tracker list, or a placeholder explaining why it is empty
	if len(p.groups) == 0 {
		b.WriteString("\n  " + p.styles.PlaceholderStyle.Render(p.placeholderText()) + "\n")
	} else {
		b.WriteString(p.renderGroups())
	}

	// Wizard input at the bottom
	if p.adding {
		b.WriteString("\n  " + p.styles.InputPromptStyle.Render(p.wizardPrompt()) + p.input.View() + "\n")
	}

	content := b.String()
	style := p.styles.PaneStyle
	if p.focused {
		style = p.styles.PaneFocusedStyle
	}
	return style.Width(p.width).Height(p.height).Render(content)
}

func (p *TrackersPane) placeholderText() string {
	if msg := p.placeholder.Message(); msg != "" {
		return msg
	}
	return "No trackers yet. Press 'a' to add one."
}

func (p *TrackersPane) renderGroups() string {
	var b strings.Builder
	row := 0

	for _, group := range p.groups {
		b.WriteString("\n")
		header := group.Title
		if group.Title == listing.PinnedGroupTitle {
			header = "📌 " + header
		}
		b.WriteString("  " + p.styles.GroupTitleStyle.Render(header) + "\n")

		for _, item := range group.Items {
			prefix := "  "
			if row == p.cursor && p.focused && !p.adding {
				prefix = "▶ "
			}

			check := p.styles.TrackerCheckPending
			if item.Completed {
				check = p.styles.TrackerCheckDone
			}

			name := item.Title
			if item.Completed {
				name = p.styles.TrackerDoneStyle.Render(name)
			} else {
				name = p.styles.TrackerPendingStyle.Render(name)
			}

			line := fmt.Sprintf("%s%s %s %s", prefix, check, item.Emoji, name)
			if item.CompletedDays > 0 {
				line += " " + p.styles.StreakStyle.Render(fmt.Sprintf("%dd", item.CompletedDays))
			}
			if item.Future {
				line += " " + p.styles.StatLabelStyle.Render("(future)")
			}

			if row == p.cursor && p.focused && !p.adding {
				line = p.styles.TrackerSelectedStyle.Render(line)
			}

			b.WriteString(line)
			b.WriteString("\n")
			row++
		}
	}

	return b.String()
}

func (p *TrackersPane) wizardPrompt() string {
	switch p.addStep {
	case stepName:
		return "Name: "
	case stepEmoji:
		return "Emoji: "
	case stepColor:
		return "Color: "
	case stepSchedule:
		return "Days: "
	default:
		return "Category: "
	}
}

// CompletionRate returns completed/scheduled counts for the selected date.
func (p *TrackersPane) CompletionRate() (done, total int) {
	for _, item := range p.flatItems() {
		total++
		if item.Completed {
			done++
		}
	}
	return done, total
}

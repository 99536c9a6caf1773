// Package listing turns the full tracker set into what a screen shows for one
// selected date: schedule-filtered, searched, filter-moded, then grouped with
// pinned trackers first and category groups in alphabetical order. When the
// result is empty it classifies why, so the consumer can pick a placeholder.
package listing

import (
	"sort"
	"strings"
	"sync"
	"time"

	"streaks/internal/storage"

	"github.com/google/uuid"
)

// PinnedGroupTitle names the synthetic group that collects pinned trackers.
const PinnedGroupTitle = "Pinned"

// PlaceholderState says why the visible list is empty. Hidden means it is not
// empty. The states are mutually exclusive and ordered by precedence:
// search misses win over filter misses, which win over empty schedules.
type PlaceholderState string

const (
	PlaceholderHidden            PlaceholderState = "hidden"
	PlaceholderSearchNotFound    PlaceholderState = "search_not_found"
	PlaceholderFilterNotFound    PlaceholderState = "filter_not_found"
	PlaceholderNoTrackersForDate PlaceholderState = "no_trackers_for_date"
)

// Message returns the user-facing text for an empty-list state.
func (p PlaceholderState) Message() string {
	switch p {
	case PlaceholderSearchNotFound:
		return "Nothing found"
	case PlaceholderFilterNotFound:
		return "No trackers match the filter"
	case PlaceholderNoTrackersForDate:
		return "Nothing to track on this day"
	default:
		return ""
	}
}

// Item is one displayable tracker row for the selected date.
type Item struct {
	ID            uuid.UUID
	Emoji         string
	Title         string
	Color         string
	CompletedDays int
	Completed     bool
	Future        bool
	Pinned        bool
}

// Group is an ordered section of the visible list.
type Group struct {
	Title string
	Items []Item
}

type memoKey struct {
	date   string
	search string
	filter storage.TrackerFilter
}

type memoValue struct {
	groups      []Group
	placeholder PlaceholderState
}

// Engine owns the view state for one tracker-list session: the selected date,
// the search term, and the filter mode. All mutation entry points are expected
// to be called from one control flow; the debounced search callback is the
// only internal concurrency, guarded by the engine mutex.
type Engine struct {
	store *storage.Storage
	now   func() time.Time

	mu     sync.Mutex
	date   time.Time
	search string
	filter storage.TrackerFilter
	memo   map[memoKey]memoValue

	groups      []Group
	placeholder PlaceholderState

	onGroups      map[int]func([]Group)
	onPlaceholder map[int]func(PlaceholderState)
	onDate        map[int]func(time.Time)
	nextObs       int

	debounce *debouncer
}

// NewEngine creates a listing engine over the repository. The last-selected
// filter is restored from settings; the selected date starts at today.
func NewEngine(store *storage.Storage) *Engine {
	e := &Engine{
		store:         store,
		now:           time.Now,
		filter:        store.LoadSettings().LastFilter,
		memo:          make(map[memoKey]memoValue),
		placeholder:   PlaceholderHidden,
		onGroups:      make(map[int]func([]Group)),
		onPlaceholder: make(map[int]func(PlaceholderState)),
		onDate:        make(map[int]func(time.Time)),
		debounce:      newDebouncer(DefaultSearchDebounce),
	}
	e.date = startOfDay(e.now())
	return e
}

// SetNowFunc overrides the engine clock. Passing nil resets it to time.Now.
// The selected date is re-anchored to the new clock's today.
func (e *Engine) SetNowFunc(now func() time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if now == nil {
		now = time.Now
	}
	e.now = now
	e.date = startOfDay(e.now())
}

// SetSearchDebounce adjusts the search quiet period.
func (e *Engine) SetSearchDebounce(d time.Duration) {
	e.debounce = newDebouncer(d)
}

// Close cancels any pending debounced search.
func (e *Engine) Close() {
	e.debounce.Cancel()
}

// OnGroupsChanged registers an observer for the ordered visible groups.
func (e *Engine) OnGroupsChanged(fn func([]Group)) (unsubscribe func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.nextObs
	e.nextObs++
	e.onGroups[id] = fn
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.onGroups, id)
	}
}

// OnPlaceholderChanged registers an observer for empty-list classification.
func (e *Engine) OnPlaceholderChanged(fn func(PlaceholderState)) (unsubscribe func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.nextObs
	e.nextObs++
	e.onPlaceholder[id] = fn
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.onPlaceholder, id)
	}
}

// OnDateChanged registers an observer for selected-date changes.
func (e *Engine) OnDateChanged(fn func(time.Time)) (unsubscribe func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.nextObs
	e.nextObs++
	e.onDate[id] = fn
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.onDate, id)
	}
}

// Date returns the selected date.
func (e *Engine) Date() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.date
}

// Filter returns the active filter mode.
func (e *Engine) Filter() storage.TrackerFilter {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.filter
}

// Search returns the active search term.
func (e *Engine) Search() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.search
}

// Groups returns the current visible groups and placeholder state, computing
// them if needed.
func (e *Engine) Groups() ([]Group, PlaceholderState) {
	e.mu.Lock()
	notify := e.refreshLocked()
	groups, placeholder := e.groups, e.placeholder
	e.mu.Unlock()
	notify()
	return groups, placeholder
}

// ChangeDate selects a new date for the visible list.
func (e *Engine) ChangeDate(date time.Time) {
	e.mu.Lock()
	e.date = startOfDay(date)
	notify := e.refreshLocked()
	e.mu.Unlock()
	notify()
	e.notifyDate()
}

// ShiftDate moves the selected date by a number of days.
func (e *Engine) ShiftDate(days int) {
	e.mu.Lock()
	e.date = e.date.AddDate(0, 0, days)
	notify := e.refreshLocked()
	e.mu.Unlock()
	notify()
	e.notifyDate()
}

// ApplyFilter switches the filter mode and persists it as the last-selected
// filter. FilterToday also snaps the selected date back to today.
func (e *Engine) ApplyFilter(f storage.TrackerFilter) {
	if !f.Valid() {
		return
	}
	e.mu.Lock()
	e.filter = f
	dateChanged := false
	if f == storage.FilterToday {
		today := startOfDay(e.now())
		if !e.date.Equal(today) {
			e.date = today
			dateChanged = true
		}
	}
	notify := e.refreshLocked()
	e.mu.Unlock()
	notify()

	if dateChanged {
		e.notifyDate()
	}
	// Persistence is fire-and-forget relative to the view state.
	_ = e.store.SaveSettings(&storage.Settings{LastFilter: f})
}

// SetSearch updates the search term. Recomputation is deferred until the
// quiet period after the last edit, except that clearing the term applies
// immediately. A newer edit cancels an older pending one.
func (e *Engine) SetSearch(term string) {
	if term == "" {
		e.debounce.Cancel()
		e.applySearch("")
		return
	}
	e.debounce.Schedule(func() { e.applySearch(term) })
}

// ApplySearch sets the search term immediately, bypassing the quiet period.
// Intended for callers that debounce on their own.
func (e *Engine) ApplySearch(term string) {
	e.debounce.Cancel()
	e.applySearch(term)
}

func (e *Engine) applySearch(term string) {
	e.mu.Lock()
	e.search = term
	notify := e.refreshLocked()
	e.mu.Unlock()
	notify()
}

// Toggle flips the completion state of a tracker for the selected date.
// Future dates are read-only; the call is then a no-op.
func (e *Engine) Toggle(trackerID uuid.UUID) error {
	e.mu.Lock()
	date := e.date
	future := date.After(startOfDay(e.now()))
	e.mu.Unlock()
	if future {
		return nil
	}

	var err error
	if e.store.IsCompleted(date, trackerID) {
		err = e.store.RemoveRecord(trackerID, date)
	} else {
		err = e.store.AddRecord(trackerID, date)
	}
	if err != nil {
		return err
	}

	e.invalidateAndRefresh()
	return nil
}

// TogglePin flips a tracker's pinned flag and regroups.
func (e *Engine) TogglePin(trackerID uuid.UUID) error {
	if _, err := e.store.TogglePin(trackerID); err != nil {
		return err
	}
	e.invalidateAndRefresh()
	return nil
}

// Add creates a tracker and refreshes the visible list.
func (e *Engine) Add(t storage.Tracker) (*storage.Tracker, error) {
	added, err := e.store.AddTracker(t)
	if err != nil {
		return nil, err
	}
	e.invalidateAndRefresh()
	return added, nil
}

// Update replaces a tracker by id and refreshes the visible list.
func (e *Engine) Update(t storage.Tracker) error {
	if err := e.store.UpdateTracker(t); err != nil {
		return err
	}
	e.invalidateAndRefresh()
	return nil
}

// Delete removes a tracker (and its records) and refreshes the visible list.
func (e *Engine) Delete(trackerID uuid.UUID) error {
	if err := e.store.DeleteTracker(trackerID); err != nil {
		return err
	}
	e.invalidateAndRefresh()
	return nil
}

// Reload drops all memoized results and recomputes, for use when the
// repository changed outside this engine.
func (e *Engine) Reload() {
	e.invalidateAndRefresh()
}

func (e *Engine) invalidateAndRefresh() {
	e.mu.Lock()
	e.memo = make(map[memoKey]memoValue)
	notify := e.refreshLocked()
	e.mu.Unlock()
	notify()
}

// refreshLocked recomputes (or recalls) the visible groups for the current
// (date, search, filter) triple. It returns the observer dispatch, which the
// caller must run after releasing the engine mutex.
func (e *Engine) refreshLocked() (notify func()) {
	key := memoKey{date: e.date.Format(storage.DateFormat), search: e.search, filter: e.filter}
	val, ok := e.memo[key]
	if !ok {
		val.groups, val.placeholder = e.computeLocked()
		e.memo[key] = val
	}

	placeholderChanged := val.placeholder != e.placeholder
	e.groups = val.groups
	e.placeholder = val.placeholder

	groupObs := make([]func([]Group), 0, len(e.onGroups))
	for _, fn := range e.onGroups {
		groupObs = append(groupObs, fn)
	}
	var phObs []func(PlaceholderState)
	if placeholderChanged {
		phObs = make([]func(PlaceholderState), 0, len(e.onPlaceholder))
		for _, fn := range e.onPlaceholder {
			phObs = append(phObs, fn)
		}
	}

	return func() {
		for _, fn := range groupObs {
			fn(val.groups)
		}
		for _, fn := range phObs {
			fn(val.placeholder)
		}
	}
}

func (e *Engine) notifyDate() {
	e.mu.Lock()
	date := e.date
	obs := make([]func(time.Time), 0, len(e.onDate))
	for _, fn := range e.onDate {
		obs = append(obs, fn)
	}
	e.mu.Unlock()
	for _, fn := range obs {
		fn(date)
	}
}

func (e *Engine) computeLocked() ([]Group, PlaceholderState) {
	trackers := e.store.FetchAllTrackers()
	weekday := storage.WeekdayOf(e.date)
	future := e.date.After(startOfDay(e.now()))
	needle := strings.ToLower(e.search)

	var items []Item
	pinnedOf := make(map[uuid.UUID]bool)
	categoryOf := make(map[uuid.UUID]string)
	for _, t := range trackers {
		if !t.ScheduledOn(weekday) {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(t.Name), needle) {
			continue
		}
		item := Item{
			ID:            t.ID,
			Emoji:         t.Emoji,
			Title:         t.Name,
			Color:         t.Color,
			CompletedDays: e.store.CompletedDays(t.ID),
			Completed:     e.store.IsCompleted(e.date, t.ID),
			Future:        future,
			Pinned:        t.Pinned,
		}
		switch e.filter {
		case storage.FilterCompleted:
			if !item.Completed {
				continue
			}
		case storage.FilterUncompleted:
			if item.Completed {
				continue
			}
		}
		items = append(items, item)
		pinnedOf[t.ID] = t.Pinned
		categoryOf[t.ID] = t.CategoryTitle()
	}

	groups := groupItems(items, pinnedOf, categoryOf)
	if len(groups) > 0 {
		return groups, PlaceholderHidden
	}
	switch {
	case e.search != "":
		return nil, PlaceholderSearchNotFound
	case e.filter == storage.FilterCompleted || e.filter == storage.FilterUncompleted:
		return nil, PlaceholderFilterNotFound
	default:
		return nil, PlaceholderNoTrackersForDate
	}
}

// groupItems partitions items into a leading Pinned group plus category
// groups in alphabetical title order. A pinned item appears only in the
// Pinned group; its stored category is untouched.
func groupItems(items []Item, pinnedOf map[uuid.UUID]bool, categoryOf map[uuid.UUID]string) []Group {
	var pinned []Item
	byCategory := make(map[string][]Item)
	for _, item := range items {
		if pinnedOf[item.ID] {
			pinned = append(pinned, item)
			continue
		}
		title := categoryOf[item.ID]
		if title == "" {
			title = storage.DefaultCategoryTitle
		}
		byCategory[title] = append(byCategory[title], item)
	}

	titles := make([]string, 0, len(byCategory))
	for title := range byCategory {
		titles = append(titles, title)
	}
	sort.Strings(titles)

	groups := make([]Group, 0, len(titles)+1)
	if len(pinned) > 0 {
		groups = append(groups, Group{Title: PinnedGroupTitle, Items: pinned})
	}
	for _, title := range titles {
		groups = append(groups, Group{Title: title, Items: byCategory[title]})
	}
	return groups
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

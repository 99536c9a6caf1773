// Package stats computes aggregate habit statistics from the full tracker
// and completion-record sets: best streak of consecutive active days,
// perfect days, total completions, and the rolling completion average.
// Results are cached (see cache.go) and recomputed when records change.
package stats

import (
	"errors"
	"sync"
	"time"

	"streaks/internal/events"
	"streaks/internal/storage"

	"github.com/google/uuid"
)

const (
	// bestPeriodWindowDays bounds the consecutive-day scan for BestPeriod
	// and PerfectDays.
	bestPeriodWindowDays = 365

	// averageWindowDays bounds the rolling AverageValue window.
	averageWindowDays = 30
)

// Statistics errors. Only ErrInvalidData is ever returned today; the others
// are reserved kinds matching the error taxonomy of the cache layer.
var (
	// ErrInvalidData means statistics were requested with zero trackers and
	// zero records. Callers recover by substituting zero statistics; this is
	// never a user-facing failure.
	ErrInvalidData = errors.New("stats: no trackers and no records")

	ErrCalculationFailed = errors.New("stats: calculation failed")
	ErrCacheDecode       = errors.New("stats: cache decode failed")
)

// StatisticsData is the derived metric set. It is always recomputed from
// trackers + records, or served from cache.
type StatisticsData struct {
	BestPeriod        int     `json:"best_period"`
	PerfectDays       int     `json:"perfect_days"`
	CompletedTrackers int     `json:"completed_trackers"`
	AverageValue      float64 `json:"average_value"`
}

// IsEmpty reports whether every metric is zero.
func (d StatisticsData) IsEmpty() bool {
	return d.BestPeriod == 0 && d.PerfectDays == 0 && d.CompletedTrackers == 0 && d.AverageValue == 0
}

// Engine computes statistics on demand, serves cached results inside the
// expiration window, and broadcasts fresh results to observers. It
// subscribes to record-change events so external completion toggles
// invalidate the cache and trigger a proactive recompute.
type Engine struct {
	store *storage.Storage
	cache *Cache
	now   func() time.Time

	mu          sync.Mutex
	observers   map[int]func(StatisticsData)
	nextObs     int
	unsubscribe func()
}

// NewEngine creates an engine over the given repository and cache. If bus is
// non-nil the engine reacts to record changes published on it.
func NewEngine(store *storage.Storage, cache *Cache, bus *events.Bus) *Engine {
	e := &Engine{
		store:     store,
		cache:     cache,
		now:       time.Now,
		observers: make(map[int]func(StatisticsData)),
	}
	if bus != nil {
		e.unsubscribe = bus.SubscribeRecordChange(func(storage.RecordChange) {
			e.InvalidateCache()
			// Recompute proactively so observers see fresh numbers without
			// waiting for the next Calculate call.
			_, _ = e.Calculate()
		})
	}
	return e
}

// SetNowFunc overrides the engine clock. Passing nil resets it to time.Now.
func (e *Engine) SetNowFunc(now func() time.Time) {
	if now == nil {
		e.now = time.Now
		return
	}
	e.now = now
}

// OnUpdate registers an observer called with every freshly computed result.
// Observers run synchronously on the computing goroutine. The returned
// function unregisters.
func (e *Engine) OnUpdate(fn func(StatisticsData)) (unsubscribe func()) {
	e.mu.Lock()
	id := e.nextObs
	e.nextObs++
	e.observers[id] = fn
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		delete(e.observers, id)
		e.mu.Unlock()
	}
}

// Close detaches the engine from the event bus.
func (e *Engine) Close() {
	if e.unsubscribe != nil {
		e.unsubscribe()
		e.unsubscribe = nil
	}
}

// Calculate returns the current statistics, from cache when fresh. It fails
// with ErrInvalidData only when there are no trackers and no records at all.
func (e *Engine) Calculate() (StatisticsData, error) {
	if e.cache != nil {
		if data, ok := e.cache.Get(); ok {
			return data, nil
		}
	}
	return e.calculateAndCache()
}

// InvalidateCache clears cached results, forcing the next Calculate to
// recompute from source data.
func (e *Engine) InvalidateCache() {
	if e.cache != nil {
		e.cache.Clear()
	}
}

func (e *Engine) calculateAndCache() (StatisticsData, error) {
	trackers := e.store.FetchAllTrackers()
	records := e.store.FetchAllRecords()

	if len(trackers) == 0 && len(records) == 0 {
		return StatisticsData{}, ErrInvalidData
	}

	data := compute(trackers, records, e.now())

	if e.cache != nil {
		e.cache.Put(data)
	}
	e.notify(data)
	return data, nil
}

func (e *Engine) notify(data StatisticsData) {
	e.mu.Lock()
	observers := make([]func(StatisticsData), 0, len(e.observers))
	for _, fn := range e.observers {
		observers = append(observers, fn)
	}
	e.mu.Unlock()

	for _, fn := range observers {
		fn(data)
	}
}

// compute derives all four metrics from full snapshots. CompletedTrackers is
// a raw record count with no windowing; the other three are forced to zero
// when the tracker set is empty (orphan records still count as completions
// but never contribute to streaks, perfect days, or the average).
func compute(trackers []storage.Tracker, records []storage.TrackerRecord, today time.Time) StatisticsData {
	data := StatisticsData{CompletedTrackers: len(records)}
	if len(trackers) == 0 {
		return data
	}

	byDay := completedByDay(records)
	day := startOfDay(today)

	data.BestPeriod = bestPeriod(byDay, day)
	data.PerfectDays = perfectDays(trackers, byDay, day)
	data.AverageValue = averageValue(byDay, day)
	return data
}

// completedByDay indexes records as calendar-day -> set of completed tracker
// ids. Record dates are already stored at day granularity.
func completedByDay(records []storage.TrackerRecord) map[string]map[uuid.UUID]bool {
	byDay := make(map[string]map[uuid.UUID]bool)
	for _, r := range records {
		set := byDay[r.Date]
		if set == nil {
			set = make(map[uuid.UUID]bool)
			byDay[r.Date] = set
		}
		set[r.TrackerID] = true
	}
	return byDay
}

// bestPeriod walks the lookback window one day at a time, counting the
// longest run of consecutive days with at least one completion. Any
// tracker's completion keeps a streak alive; a single empty day breaks it.
func bestPeriod(byDay map[string]map[uuid.UUID]bool, today time.Time) int {
	best, current := 0, 0
	for i := 0; i < bestPeriodWindowDays; i++ {
		key := today.AddDate(0, 0, -i).Format(storage.DateFormat)
		if len(byDay[key]) > 0 {
			current++
			if current > best {
				best = current
			}
		} else {
			current = 0
		}
	}
	return best
}

// perfectDays counts window days on which every scheduled tracker was
// completed. Days with nothing scheduled are skipped, never perfect.
func perfectDays(trackers []storage.Tracker, byDay map[string]map[uuid.UUID]bool, today time.Time) int {
	perfect := 0
	for i := 0; i < bestPeriodWindowDays; i++ {
		day := today.AddDate(0, 0, -i)
		weekday := storage.WeekdayOf(day)

		active := 0
		completed := byDay[day.Format(storage.DateFormat)]
		allDone := true
		for _, t := range trackers {
			if !t.ScheduledOn(weekday) {
				continue
			}
			active++
			if !completed[t.ID] {
				allDone = false
				break
			}
		}
		if active > 0 && allDone {
			perfect++
		}
	}
	return perfect
}

// averageValue approximates "trackers completed per active day" over the
/// rolling window: days without completions do not dilute the average.
func averageValue(byDay map[string]map[uuid.UUID]bool, today time.Time) float64 {
	totalDays := 0
	totalCompleted := 0
	for i := 0; i < averageWindowDays; i++ {
		key := today.AddDate(0, 0, -i).Format(storage.DateFormat)
		if n := len(byDay[key]); n > 0 {
			totalDays++
			totalCompleted += n
		}
	}
	if totalDays == 0 {
		return 0
	}
	return float64(totalCompleted) / float64(totalDays)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

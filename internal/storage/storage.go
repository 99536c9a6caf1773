// Package storage is the tracker repository: plain JSON files in a data
// directory, written atomically, with best-effort recovery from corrupt
// files. The statistics and listing engines consume snapshots from here and
// never touch the files themselves.
package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"streaks/internal/fsutil"

	"github.com/google/uuid"
)

const (
	dataDirPerm  os.FileMode = 0700
	dataFilePerm os.FileMode = 0600

	// MaxNameLen caps tracker names, matching the creation form.
	MaxNameLen = 38

	maxCategoryTitleLen = 60
	maxEmojiLen         = 12
)

// RecordChange describes a completion-record mutation. The listing engine
// and the statistics engine both react to these.
type RecordChange struct {
	TrackerID uuid.UUID
	Date      string // YYYY-MM-DD
	Completed bool
}

// Storage handles all file I/O for trackers, records, and settings.
type Storage struct {
	dataDir        string
	onRecordChange func(RecordChange) // invoked after a record is added or removed
	now            func() time.Time   // injectable clock for deterministic tests
}

// New creates a Storage rooted at dataDir, creating the directory and
// default files if needed.
func New(dataDir string) (*Storage, error) {
	if err := os.MkdirAll(dataDir, dataDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &Storage{dataDir: dataDir, now: time.Now}
	if err := s.initFiles(); err != nil {
		return nil, err
	}
	return s, nil
}

// SetNowFunc overrides the clock used for time-dependent operations.
// Passing nil resets it to time.Now.
func (s *Storage) SetNowFunc(now func() time.Time) {
	if now == nil {
		s.now = time.Now
		return
	}
	s.now = now
}

// Now returns the current time according to the storage clock.
func (s *Storage) Now() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

// SetOnRecordChange registers a callback invoked after every completion
// record mutation. Used to feed the change-broadcast bus.
func (s *Storage) SetOnRecordChange(fn func(RecordChange)) {
	s.onRecordChange = fn
}

// DataDir returns the path to the data directory.
func (s *Storage) DataDir() string {
	return s.dataDir
}

func (s *Storage) initFiles() error {
	if !fileExists(s.path("trackers.json")) {
		if err := s.SaveTrackers(&TrackerStore{Trackers: []Tracker{}, Categories: []TrackerCategory{}}); err != nil {
			return err
		}
	}
	if !fileExists(s.path("records.json")) {
		if err := s.SaveRecords(&RecordStore{Records: []TrackerRecord{}}); err != nil {
			return err
		}
	}
	return nil
}

func (s *Storage) path(filename string) string {
	return filepath.Join(s.dataDir, filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !os.IsNotExist(err)
}

func (s *Storage) writeJSONAtomic(filename string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize %s: %w", filename, err)
	}

	path := s.path(filename)
	fsutil.BestEffortBackup(path, dataFilePerm)

	if err := fsutil.WriteFileAtomic(path, data, dataFilePerm); err != nil {
		return fmt.Errorf("write %s: %w", filename, err)
	}
	return nil
}

func (s *Storage) loadJSONWithRecovery(filename string, v any) error {
	path := s.path(filename)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s.writeJSONAtomic(filename, v)
		}
		return fmt.Errorf("read %s: %w", filename, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return s.recoverCorruptJSON(filename, v, fmt.Errorf("%s is empty", filename))
	}
	if err := json.Unmarshal(data, v); err == nil {
		return nil
	} else {
		return s.recoverCorruptJSON(filename, v, fmt.Errorf("parse %s: %w", filename, err))
	}
}

func (s *Storage) recoverCorruptJSON(filename string, v any, cause error) error {
	path := s.path(filename)

	// Try the backup first.
	bakData, bakErr := os.ReadFile(path + ".bak")
	if bakErr == nil && len(bytes.TrimSpace(bakData)) > 0 {
		if err := json.Unmarshal(bakData, v); err == nil {
			corruptPath := fmt.Sprintf("%s.corrupt.%s", path, time.Now().Format("20060102-150405"))
			_ = os.Rename(path, corruptPath)
			_ = s.writeJSONAtomic(filename, v)
			return fmt.Errorf("%s (recovered from %s.bak)", cause.Error(), filename)
		}
	}

	// No usable backup: preserve the broken file and reset to defaults.
	corruptPath := fmt.Sprintf("%s.corrupt.%s", path, time.Now().Format("20060102-150405"))
	_ = os.Rename(path, corruptPath)
	_ = s.writeJSONAtomic(filename, v)
	return fmt.Errorf("%s (reset to defaults; original moved to %s)", cause.Error(), corruptPath)
}

// ============================================================================
// Trackers & categories
// ============================================================================

// LoadTrackers reads trackers and categories from disk. The reserved default
// category is guaranteed to be present in the result.
func (s *Storage) LoadTrackers() (*TrackerStore, error) {
	store := TrackerStore{Trackers: []Tracker{}, Categories: []TrackerCategory{}}
	err := s.loadJSONWithRecovery("trackers.json", &store)
	ensureDefaultCategory(&store)
	return &store, err
}

// SaveTrackers writes trackers and categories to disk.
func (s *Storage) SaveTrackers(store *TrackerStore) error {
	ensureDefaultCategory(store)
	return s.writeJSONAtomic("trackers.json", store)
}

func ensureDefaultCategory(store *TrackerStore) {
	for _, c := range store.Categories {
		if c.Title == DefaultCategoryTitle {
			return
		}
	}
	store.Categories = append([]TrackerCategory{{ID: uuid.New(), Title: DefaultCategoryTitle}}, store.Categories...)
}

// FetchAllTrackers returns a full snapshot of all trackers, no pagination.
// A failed load degrades to whatever the recovery produced.
func (s *Storage) FetchAllTrackers() []Tracker {
	store, _ := s.LoadTrackers()
	return store.Trackers
}

func validateTracker(t *Tracker) error {
	t.Name = strings.TrimSpace(t.Name)
	t.Emoji = strings.TrimSpace(t.Emoji)

	if t.Name == "" {
		return fmt.Errorf("tracker name is required")
	}
	if utf8.RuneCountInString(t.Name) > MaxNameLen {
		return fmt.Errorf("tracker name too long (max %d)", MaxNameLen)
	}
	if t.Emoji == "" {
		return fmt.Errorf("tracker emoji is required")
	}
	if len(t.Emoji) > maxEmojiLen {
		return fmt.Errorf("tracker emoji too long (max %d)", maxEmojiLen)
	}
	if t.Color == "" {
		return fmt.Errorf("tracker color is required")
	}
	return nil
}

// AddTracker persists a new tracker. A zero ID is assigned; a zero CreatedAt
// is stamped with the storage clock.
func (s *Storage) AddTracker(t Tracker) (*Tracker, error) {
	if err := validateTracker(&t); err != nil {
		return nil, err
	}
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = s.Now()
	}

	store, err := s.LoadTrackers()
	if err != nil {
		return nil, err
	}
	for _, existing := range store.Trackers {
		if existing.ID == t.ID {
			return nil, fmt.Errorf("tracker already exists: %s", t.ID)
		}
	}

	store.Trackers = append(store.Trackers, t)
	if err := s.SaveTrackers(store); err != nil {
		return nil, err
	}
	return &t, nil
}

// UpdateTracker replaces a tracker wholesale, matched by ID.
func (s *Storage) UpdateTracker(t Tracker) error {
	if err := validateTracker(&t); err != nil {
		return err
	}

	store, err := s.LoadTrackers()
	if err != nil {
		return err
	}
	for i := range store.Trackers {
		if store.Trackers[i].ID == t.ID {
			if t.CreatedAt.IsZero() {
				t.CreatedAt = store.Trackers[i].CreatedAt
			}
			store.Trackers[i] = t
			return s.SaveTrackers(store)
		}
	}
	return fmt.Errorf("tracker not found: %s", t.ID)
}

// DeleteTracker removes a tracker and all of its completion records.
func (s *Storage) DeleteTracker(id uuid.UUID) error {
	store, err := s.LoadTrackers()
	if err != nil {
		return err
	}

	found := false
	for i := range store.Trackers {
		if store.Trackers[i].ID == id {
			store.Trackers = append(store.Trackers[:i], store.Trackers[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("tracker not found: %s", id)
	}
	if err := s.SaveTrackers(store); err != nil {
		return err
	}

	records, err := s.LoadRecords()
	if err != nil {
		return err
	}
	kept := records.Records[:0]
	for _, r := range records.Records {
		if r.TrackerID != id {
			kept = append(kept, r)
		}
	}
	records.Records = kept
	return s.SaveRecords(records)
}

// TogglePin flips a tracker's pinned flag, producing a new value.
// Pinning affects grouping only; the stored category is untouched.
func (s *Storage) TogglePin(id uuid.UUID) (*Tracker, error) {
	store, err := s.LoadTrackers()
	if err != nil {
		return nil, err
	}
	for i := range store.Trackers {
		if store.Trackers[i].ID == id {
			store.Trackers[i].Pinned = !store.Trackers[i].Pinned
			if err := s.SaveTrackers(store); err != nil {
				return nil, err
			}
			t := store.Trackers[i]
			return &t, nil
		}
	}
	return nil, fmt.Errorf("tracker not found: %s", id)
}

// AddCategory creates a new category with the given title.
func (s *Storage) AddCategory(title string) (*TrackerCategory, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("category title is required")
	}
	if utf8.RuneCountInString(title) > maxCategoryTitleLen {
		return nil, fmt.Errorf("category title too long (max %d)", maxCategoryTitleLen)
	}

	store, err := s.LoadTrackers()
	if err != nil {
		return nil, err
	}
	for _, c := range store.Categories {
		if c.Title == title {
			return nil, fmt.Errorf("category already exists: %s", title)
		}
	}

	cat := TrackerCategory{ID: uuid.New(), Title: title}
	store.Categories = append(store.Categories, cat)
	if err := s.SaveTrackers(store); err != nil {
		return nil, err
	}
	return &cat, nil
}

// Categories returns all known categories, the reserved default included.
func (s *Storage) Categories() []TrackerCategory {
	store, _ := s.LoadTrackers()
	return store.Categories
}

// RenameCategory changes a category's title everywhere it appears.
// The reserved default category cannot be renamed.
func (s *Storage) RenameCategory(id uuid.UUID, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("category title is required")
	}

	store, err := s.LoadTrackers()
	if err != nil {
		return err
	}
	for i := range store.Categories {
		if store.Categories[i].ID != id {
			continue
		}
		if store.Categories[i].Title == DefaultCategoryTitle {
			return fmt.Errorf("cannot rename the %s category", DefaultCategoryTitle)
		}
		store.Categories[i].Title = title
		// Categories live by value inside trackers too.
		for j := range store.Trackers {
			if store.Trackers[j].Category.ID == id {
				store.Trackers[j].Category.Title = title
			}
		}
		return s.SaveTrackers(store)
	}
	return fmt.Errorf("category not found: %s", id)
}

// ============================================================================
// Completion records
// ============================================================================

// LoadRecords reads all completion records from disk.
func (s *Storage) LoadRecords() (*RecordStore, error) {
	store := RecordStore{Records: []TrackerRecord{}}
	err := s.loadJSONWithRecovery("records.json", &store)
	return &store, err
}

// SaveRecords writes completion records to disk.
func (s *Storage) SaveRecords(store *RecordStore) error {
	return s.writeJSONAtomic("records.json", store)
}

// FetchAllRecords returns a snapshot of every completion record.
func (s *Storage) FetchAllRecords() []TrackerRecord {
	store, _ := s.LoadRecords()
	return store.Records
}

func dayKey(date time.Time) string {
	return date.Format(DateFormat)
}

// IsCompleted reports whether the tracker has a record on date's calendar day.
func (s *Storage) IsCompleted(date time.Time, trackerID uuid.UUID) bool {
	store, err := s.LoadRecords()
	if err != nil {
		return false
	}
	key := dayKey(date)
	for _, r := range store.Records {
		if r.TrackerID == trackerID && r.Date == key {
			return true
		}
	}
	return false
}

// CompletedDays returns the total completion count for one tracker.
func (s *Storage) CompletedDays(trackerID uuid.UUID) int {
	store, err := s.LoadRecords()
	if err != nil {
		return 0
	}
	n := 0
	for _, r := range store.Records {
		if r.TrackerID == trackerID {
			n++
		}
	}
	return n
}

// AddRecord marks the tracker complete on date's calendar day. Adding an
// already-present record is a no-op, preserving the one-per-day invariant.
func (s *Storage) AddRecord(trackerID uuid.UUID, date time.Time) error {
	store, err := s.LoadRecords()
	if err != nil {
		return err
	}
	key := dayKey(date)
	for _, r := range store.Records {
		if r.TrackerID == trackerID && r.Date == key {
			return nil
		}
	}

	store.Records = append(store.Records, TrackerRecord{TrackerID: trackerID, Date: key})
	if err := s.SaveRecords(store); err != nil {
		return err
	}
	s.notifyRecordChange(RecordChange{TrackerID: trackerID, Date: key, Completed: true})
	return nil
}

// RemoveRecord un-marks the tracker on date's calendar day. Removing an
// absent record is a no-op.
func (s *Storage) RemoveRecord(trackerID uuid.UUID, date time.Time) error {
	store, err := s.LoadRecords()
	if err != nil {
		return err
	}
	key := dayKey(date)
	kept := store.Records[:0]
	removed := false
	for _, r := range store.Records {
		if r.TrackerID == trackerID && r.Date == key {
			removed = true
			continue
		}
		kept = append(kept, r)
	}
	if !removed {
		return nil
	}

	store.Records = kept
	if err := s.SaveRecords(store); err != nil {
		return err
	}
	s.notifyRecordChange(RecordChange{TrackerID: trackerID, Date: key, Completed: false})
	return nil
}

func (s *Storage) notifyRecordChange(ch RecordChange) {
	if s.onRecordChange != nil {
		s.onRecordChange(ch)
	}
}

// ============================================================================
// Settings
// ============================================================================

// LoadSettings reads persisted UI state. Missing or invalid values fall back
// to defaults (FilterAll).
func (s *Storage) LoadSettings() *Settings {
	settings := Settings{}
	_ = s.loadJSONWithRecovery("settings.json", &settings)
	if !settings.LastFilter.Valid() {
		settings.LastFilter = FilterAll
	}
	return &settings
}

// SaveSettings persists UI state.
func (s *Storage) SaveSettings(settings *Settings) error {
	return s.writeJSONAtomic("settings.json", settings)
}

package stats

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"streaks/internal/fsutil"
)

const (
	// DefaultExpiration is how long a computed result stays valid.
	DefaultExpiration = 300 * time.Second

	cacheVersion  = 1
	cacheFileName = "statscache.json"
	cacheFilePerm = os.FileMode(0600)
)

// cacheFile is the durable cache layout. A version mismatch invalidates
// unconditionally.
type cacheFile struct {
	Version    int            `json:"version"`
	Statistics StatisticsData `json:"statistics"`
	Timestamp  time.Time      `json:"timestamp"`
}

// Cache is a two-tier statistics cache: an in-memory fast path and a durable
// fallback file used only for cold-start recovery. Decode failures and stale
// or mismatched versions are discarded silently; the cache never surfaces
// errors, a miss just means recomputation.
type Cache struct {
	path       string
	expiration time.Duration
	now        func() time.Time

	mu       sync.Mutex
	data     *StatisticsData
	cachedAt time.Time
}

// NewCache creates a cache persisting to dir/statscache.json. A non-positive
// expiration falls back to DefaultExpiration.
func NewCache(dir string, expiration time.Duration) *Cache {
	if expiration <= 0 {
		expiration = DefaultExpiration
	}
	return &Cache{
		path:       filepath.Join(dir, cacheFileName),
		expiration: expiration,
		now:        time.Now,
	}
}

// SetNowFunc overrides the cache clock. Passing nil resets it to time.Now.
func (c *Cache) SetNowFunc(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if now == nil {
		c.now = time.Now
		return
	}
	c.now = now
}

// Get returns the cached statistics if still inside the expiration window,
// consulting memory first and the durable file only on a memory miss.
func (c *Cache) Get() (StatisticsData, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.data != nil && !c.expired(c.cachedAt) {
		return *c.data, true
	}

	file, ok := c.readFile()
	if !ok {
		return StatisticsData{}, false
	}
	if c.expired(file.Timestamp) {
		c.clearLocked()
		return StatisticsData{}, false
	}

	c.data = &file.Statistics
	c.cachedAt = file.Timestamp
	return file.Statistics, true
}

// Put stores a freshly computed result in both tiers, stamped now.
func (c *Cache) Put(data StatisticsData) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.data = &data
	c.cachedAt = now

	encoded, err := json.Marshal(cacheFile{
		Version:    cacheVersion,
		Statistics: data,
		Timestamp:  now,
	})
	if err != nil {
		return
	}
	// Durable tier is best effort; the in-memory tier already holds the result.
	_ = fsutil.WriteFileAtomic(c.path, encoded, cacheFilePerm)
}

// Clear drops both tiers, guaranteeing the next Get misses.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearLocked()
}

func (c *Cache) clearLocked() {
	c.data = nil
	c.cachedAt = time.Time{}
	_ = os.Remove(c.path)
}

func (c *Cache) expired(timestamp time.Time) bool {
	return c.now().Sub(timestamp) > c.expiration
}

// readFile loads and validates the durable tier. An unreadable file, bad
// JSON, or a version mismatch discards the file and reports a miss.
func (c *Cache) readFile() (cacheFile, bool) {
	raw, err := os.ReadFile(c.path)
	if err != nil {
		return cacheFile{}, false
	}

	var file cacheFile
	if err := json.Unmarshal(raw, &file); err != nil {
		c.clearLocked()
		return cacheFile{}, false
	}
	if file.Version != cacheVersion {
		c.clearLocked()
		return cacheFile{}, false
	}
	return file, true
}

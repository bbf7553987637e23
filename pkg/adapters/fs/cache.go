package fs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// indexEntry records what the store knows about one note file.
type indexEntry struct {
	Key          string    `json:"key"`
	Created      time.Time `json:"created"`
	LastModified time.Time `json:"lastModified"`
}

// index represents the persistent cache state.
type index struct {
	Version int                    `json:"version"`
	Entries map[string]*indexEntry `json:"entries"` // Key is the file name
	dirty   bool
	mu      sync.RWMutex
}

// cache keeps the first-seen time of every file so keys enumerate in
// creation order across restarts.
type cache struct {
	Path  string // Path to {systemDir}/index.json
	index *index
}

// newCache initializes a cache at the given path.
func newCache(dir, systemDir string) *cache {
	return &cache{
		Path: filepath.Join(dir, systemDir, "index.json"),
		index: &index{
			Version: 1,
			Entries: make(map[string]*indexEntry),
		},
	}
}

// Load reads the cache from disk. If not found or invalid, returns empty index (no error).
func (c *cache) Load() error {
	c.index.mu.Lock()
	defer c.index.mu.Unlock()

	data, err := os.ReadFile(c.Path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read cache: %w", err)
	}

	if err := json.Unmarshal(data, c.index); err != nil {
		// Corruption self-heals: the next scan rebuilds the index.
		c.index.Entries = make(map[string]*indexEntry)
		return nil
	}
	if c.index.Entries == nil {
		c.index.Entries = make(map[string]*indexEntry)
	}

	c.index.dirty = false
	return nil
}

// Save persists the cache to disk if it's dirty.
func (c *cache) Save() error {
	c.index.mu.RLock()
	if !c.index.dirty {
		c.index.mu.RUnlock()
		return nil
	}
	data, err := json.MarshalIndent(c.index, "", "  ")
	c.index.mu.RUnlock()

	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(c.Path), 0755); err != nil {
		return err
	}

	if err := writeFileAtomic(c.Path, data, 0644); err != nil {
		return err
	}

	c.index.mu.Lock()
	c.index.dirty = false
	c.index.mu.Unlock()

	return nil
}

// Get retrieves an entry if it exists and is fresh.
// Returns nil and false if miss or stale.
func (c *cache) Get(name string, currentMtime time.Time) (*indexEntry, bool) {
	c.index.mu.RLock()
	defer c.index.mu.RUnlock()

	entry, ok := c.index.Entries[name]
	if !ok {
		return nil, false
	}
	if !entry.LastModified.Equal(currentMtime) {
		return entry, false
	}
	return entry, true
}

// Touch records a file, keeping its original creation time when known.
func (c *cache) Touch(name, key string, mtime time.Time) {
	c.index.mu.Lock()
	defer c.index.mu.Unlock()

	entry, ok := c.index.Entries[name]
	if !ok {
		c.index.Entries[name] = &indexEntry{Key: key, Created: mtime, LastModified: mtime}
		c.index.dirty = true
		return
	}
	if !entry.LastModified.Equal(mtime) {
		entry.LastModified = mtime
		c.index.dirty = true
	}
}

// Prune removes entries that are not in the 'keep' set.
func (c *cache) Prune(keep map[string]bool) {
	c.index.mu.Lock()
	defer c.index.mu.Unlock()

	for name := range c.index.Entries {
		if !keep[name] {
			delete(c.index.Entries, name)
			c.index.dirty = true
		}
	}
}

// Delete removes a single entry from the cache.
func (c *cache) Delete(name string) {
	c.index.mu.Lock()
	defer c.index.mu.Unlock()

	if _, ok := c.index.Entries[name]; ok {
		delete(c.index.Entries, name)
		c.index.dirty = true
	}
}

// Entries returns a snapshot of all entries.
func (c *cache) Entries() []indexEntry {
	c.index.mu.RLock()
	defer c.index.mu.RUnlock()

	out := make([]indexEntry, 0, len(c.index.Entries))
	for _, e := range c.index.Entries {
		out = append(out, *e)
	}
	return out
}

// Len returns the number of entries in the cache.
func (c *cache) Len() int {
	c.index.mu.RLock()
	defer c.index.mu.RUnlock()
	return len(c.index.Entries)
}

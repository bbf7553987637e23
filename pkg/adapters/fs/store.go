// Package fs implements core.KeyValue on a directory: one file per key.
//
// Keys are query-escaped into file names with a ".txt" suffix, so note keys
// like "note-10/17/2026, 3:04:05 PM" are safe on every filesystem. Writes go
// through a temp file and a rename. A small index under the system directory
// remembers when each key first appeared so enumeration follows creation order.
package fs

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/voxnote/pkg/core"
)

const (
	// FileExt is appended to every escaped key.
	FileExt = ".txt"
	// DefaultSystemDir holds the store's own bookkeeping.
	DefaultSystemDir = ".voxnote"
)

// Store implements core.KeyValue using the filesystem.
type Store struct {
	Path   string
	cache  *cache
	config Config

	mu            sync.RWMutex
	loaded        bool
	watcherActive bool
	lastEvent     *time.Time
}

// Config holds the configuration for the filesystem store.
type Config struct {
	Path         string
	MustExist    bool
	ReadOnly     bool
	SystemDir    string // e.g. ".voxnote"
	Logger       *slog.Logger
	ErrorHandler func(error) // Called for watcher failures; defaults to logging
}

// NewStore creates a new filesystem-backed store.
func NewStore(config Config) *Store {
	if config.SystemDir == "" {
		config.SystemDir = DefaultSystemDir
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	return &Store{
		Path:   config.Path,
		config: config,
		cache:  newCache(config.Path, config.SystemDir),
	}
}

// Initialize creates the directory unless it must already exist.
func (s *Store) Initialize(ctx context.Context) error {
	if s.config.MustExist || s.config.ReadOnly {
		info, err := os.Stat(s.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("store path does not exist: %s", s.Path)
		}
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("store path is not a directory: %s", s.Path)
		}
	} else {
		if err := os.MkdirAll(s.Path, 0755); err != nil {
			return fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	return s.loadCache()
}

func (s *Store) loadCache() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		return nil
	}
	if err := s.cache.Load(); err != nil {
		return err
	}
	s.loaded = true
	return nil
}

// FileName maps a key to the file holding its value.
func FileName(key string) string {
	return url.QueryEscape(key) + FileExt
}

// KeyFromFileName reverses FileName. ok is false for files the store did
// not write (temp files, foreign files).
func KeyFromFileName(name string) (key string, ok bool) {
	if strings.HasPrefix(name, TempFilePrefix) || !strings.HasSuffix(name, FileExt) {
		return "", false
	}
	key, err := url.QueryUnescape(strings.TrimSuffix(name, FileExt))
	if err != nil {
		return "", false
	}
	return key, true
}

// Get reads the value stored under key.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.Path, FileName(key)))
	if err != nil {
		if os.IsNotExist(err) {
			return "", core.ErrNotFound
		}
		return "", fmt.Errorf("failed to read %q: %w", key, err)
	}
	return string(data), nil
}

// Set writes value under key atomically.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	name := FileName(key)
	fullPath := filepath.Join(s.Path, name)
	if err := writeFileAtomic(fullPath, []byte(value), 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	if info, err := os.Stat(fullPath); err == nil {
		s.cache.Touch(name, key, info.ModTime())
		s.saveCache()
	}
	return nil
}

// Remove deletes the file holding key. Missing files are ignored.
func (s *Store) Remove(ctx context.Context, key string) error {
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}

	name := FileName(key)
	if err := os.Remove(filepath.Join(s.Path, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %q: %w", key, err)
	}

	s.cache.Delete(name)
	s.saveCache()
	return nil
}

// Keys lists the directory and returns keys in creation order.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	if err := s.loadCache(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list store: %w", err)
	}

	seen := make(map[string]bool, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() {
			continue
		}
		key, ok := KeyFromFileName(entry.Name())
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			// Removed while listing.
			continue
		}
		seen[entry.Name()] = true
		if _, fresh := s.cache.Get(entry.Name(), info.ModTime()); !fresh {
			s.cache.Touch(entry.Name(), key, info.ModTime())
		}
	}
	s.cache.Prune(seen)
	s.saveCache()

	indexed := s.cache.Entries()
	sort.Slice(indexed, func(i, j int) bool {
		if indexed[i].Created.Equal(indexed[j].Created) {
			return indexed[i].Key < indexed[j].Key
		}
		return indexed[i].Created.Before(indexed[j].Created)
	})

	keys := make([]string, 0, len(indexed))
	for _, e := range indexed {
		keys = append(keys, e.Key)
	}
	return keys, nil
}

func (s *Store) saveCache() {
	if s.config.ReadOnly {
		return
	}
	if err := s.cache.Save(); err != nil {
		s.config.Logger.Warn("failed to save index", "error", err)
	}
}

var _ core.KeyValue = (*Store)(nil)
var _ core.Watchable = (*Store)(nil)

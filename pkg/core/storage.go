package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
)

// KeyPrefix marks the keys that hold notes. Keys without it are left alone.
const KeyPrefix = "note-"

// Storage persists notes in a KeyValue store, one pair per note:
// key = KeyPrefix + timestamp, value = raw content.
type Storage struct {
	kv KeyValue
}

// NewStorage creates a Storage on top of kv.
func NewStorage(kv KeyValue) *Storage {
	return &Storage{kv: kv}
}

// Put stores content under timestamp, overwriting any previous note.
func (s *Storage) Put(ctx context.Context, timestamp, content string) error {
	if err := s.kv.Set(ctx, KeyPrefix+timestamp, content); err != nil {
		return fmt.Errorf("failed to store note %q: %w", timestamp, err)
	}
	return nil
}

// Get returns the note stored under timestamp.
func (s *Storage) Get(ctx context.Context, timestamp string) (Note, error) {
	content, err := s.kv.Get(ctx, KeyPrefix+timestamp)
	if err != nil {
		return Note{}, err
	}
	return Note{Timestamp: timestamp, Content: content}, nil
}

// GetAll scans every key, keeps the ones carrying KeyPrefix and strips it to
// recover the timestamp. Notes come back in storage iteration order.
func (s *Storage) GetAll(ctx context.Context) ([]Note, error) {
	keys, err := s.kv.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate keys: %w", err)
	}

	var notes []Note
	for _, key := range keys {
		if !strings.HasPrefix(key, KeyPrefix) {
			continue
		}
		content, err := s.kv.Get(ctx, key)
		if err != nil {
			// Removed between the scan and the read.
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("failed to read %q: %w", key, err)
		}
		notes = append(notes, Note{
			Timestamp: strings.TrimPrefix(key, KeyPrefix),
			Content:   content,
		})
	}
	return notes, nil
}

// Remove deletes the note stored under timestamp. Absent notes are ignored.
func (s *Storage) Remove(ctx context.Context, timestamp string) error {
	if err := s.kv.Remove(ctx, KeyPrefix+timestamp); err != nil {
		return fmt.Errorf("failed to remove note %q: %w", timestamp, err)
	}
	return nil
}

// Watch relays note changes from a Watchable store, translating raw keys back
// into timestamps. The pattern applies to timestamps.
func (s *Storage) Watch(ctx context.Context, pattern string) (<-chan Event, error) {
	w, ok := s.kv.(Watchable)
	if !ok {
		return nil, ErrNotWatchable
	}
	if pattern != "" && !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, doublestar.ErrBadPattern)
	}

	upstream, err := w.Watch(ctx, "")
	if err != nil {
		return nil, err
	}

	out := make(chan Event, 16)
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-upstream:
				if !ok {
					return nil
				}
				if !strings.HasPrefix(e.Key, KeyPrefix) {
					continue
				}
				e.Key = strings.TrimPrefix(e.Key, KeyPrefix)
				if !matchTimestamp(pattern, e.Key) {
					continue
				}
				select {
				case out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return out, nil
}

// matchTimestamp reports whether timestamp matches the glob pattern.
// An empty pattern matches everything.
func matchTimestamp(pattern, timestamp string) bool {
	if pattern == "" {
		return true
	}
	ok, err := doublestar.Match(pattern, timestamp)
	return err == nil && ok
}

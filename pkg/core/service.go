package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// Service handles the business logic for notes.
type Service struct {
	kv      KeyValue
	storage *Storage
	format  *TimestampFormat
	now     func() time.Time
	logger  *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithClock overrides the wall clock used to stamp new notes.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// WithTimestampFormat sets the locale-aware key format.
func WithTimestampFormat(f *TimestampFormat) ServiceOption {
	return func(s *Service) {
		s.format = f
	}
}

// WithServiceLogger sets the logger for the service.
func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates a new Service.
func NewService(kv KeyValue, opts ...ServiceOption) *Service {
	s := &Service{
		kv:      kv,
		storage: NewStorage(kv),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.format == nil {
		s.format, _ = NewTimestampFormat("")
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	return s
}

// Initialize prepares the underlying store.
func (s *Service) Initialize(ctx context.Context) error {
	return s.kv.Initialize(ctx)
}

// Close releases the store when it holds connections.
func (s *Service) Close() error {
	if c, ok := s.kv.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// SaveCurrent stores text as a new note keyed by the current time.
// Only the empty string is rejected; whitespace is kept as dictated.
func (s *Service) SaveCurrent(ctx context.Context, text string) (Note, error) {
	if len(text) == 0 {
		return Note{}, ErrEmptyNote
	}

	note := Note{
		Timestamp: s.format.Format(s.now()),
		Content:   text,
	}
	if err := s.storage.Put(ctx, note.Timestamp, note.Content); err != nil {
		return Note{}, err
	}

	s.logger.Debug("note saved", "timestamp", note.Timestamp, "length", len(text))
	return note, nil
}

// Get retrieves a note by its timestamp.
func (s *Service) Get(ctx context.Context, timestamp string) (Note, error) {
	if timestamp == "" {
		return Note{}, errors.New("note timestamp cannot be empty")
	}
	return s.storage.Get(ctx, timestamp)
}

// ListAll returns every stored note. Storage is queried each time the
// sequence is ranged over; order follows the store and is not chronological.
func (s *Service) ListAll(ctx context.Context) iter.Seq2[Note, error] {
	return s.Match(ctx, "")
}

// Match is ListAll restricted to timestamps matching a doublestar glob.
// Timestamps may contain "/", which the glob treats as a separator.
func (s *Service) Match(ctx context.Context, pattern string) iter.Seq2[Note, error] {
	return func(yield func(Note, error) bool) {
		if pattern != "" && !doublestar.ValidatePattern(pattern) {
			yield(Note{}, fmt.Errorf("invalid pattern %q: %w", pattern, doublestar.ErrBadPattern))
			return
		}

		notes, err := s.storage.GetAll(ctx)
		if err != nil {
			yield(Note{}, err)
			return
		}
		for _, n := range notes {
			if !matchTimestamp(pattern, n.Timestamp) {
				continue
			}
			if !yield(n, nil) {
				return
			}
		}
	}
}

// Delete removes a note. Deleting an unknown timestamp succeeds.
func (s *Service) Delete(ctx context.Context, timestamp string) error {
	if err := s.storage.Remove(ctx, timestamp); err != nil {
		return err
	}
	s.logger.Debug("note deleted", "timestamp", timestamp)
	return nil
}

// Watch observes note changes if the store supports it.
func (s *Service) Watch(ctx context.Context, pattern string) (<-chan Event, error) {
	return s.storage.Watch(ctx, pattern)
}

// Collect drains a note sequence into a slice, stopping at the first error.
func Collect(seq iter.Seq2[Note, error]) ([]Note, error) {
	var notes []Note
	for n, err := range seq {
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, nil
}

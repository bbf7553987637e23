// Package session wraps a continuous speech recognizer into a simple
// start/stop/accumulate contract.
//
// A Session owns the transcription buffer. Recognizer events are consumed by
// Handle, the session's state-transition function; Start pumps the
// recognizer's channel into it, and tests can feed it directly.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/voxnote/pkg/core"
	"github.com/aretw0/voxnote/pkg/speech"
)

// Phase is the capture state of a session.
type Phase int

const (
	Idle Phase = iota
	Listening
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Listening:
		return "listening"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Session accumulates transcripts from one recognizer.
// Only one capture may be active at a time.
type Session struct {
	recognizer speech.Recognizer
	continuous bool
	onStatus   func(Status)
	logger     *slog.Logger

	mu         sync.Mutex
	phase      Phase
	text       string
	capture    int           // increments on every Start; events from older captures are dropped
	idle       chan struct{} // closed when the current capture ends
	appended   int
	suppressed int
}

// Option configures a Session.
type Option func(*Session)

// WithStatusHandler registers the receiver of status messages.
// It is called without the session lock held.
func WithStatusHandler(fn func(Status)) Option {
	return func(s *Session) {
		s.onStatus = fn
	}
}

// WithLogger sets the logger for the session.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithContinuous controls whether the recognizer keeps listening across
// pauses. Defaults to true.
func WithContinuous(continuous bool) Option {
	return func(s *Session) {
		s.continuous = continuous
	}
}

// New creates an idle Session with an empty buffer.
func New(recognizer speech.Recognizer, opts ...Option) *Session {
	s := &Session{
		recognizer: recognizer,
		continuous: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	return s
}

// Start begins a capture. A non-empty buffer gets a separating space so the
// new dictation continues the note.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.phase == Listening {
		s.mu.Unlock()
		return core.ErrSessionActive
	}
	if s.recognizer == nil {
		s.mu.Unlock()
		return fmt.Errorf("speech recognition: %w", core.ErrCapabilityUnavailable)
	}

	events, err := s.recognizer.Start(ctx, s.continuous)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to start recognizer: %w", err)
	}

	if len(s.text) > 0 {
		s.text += " "
	}
	s.phase = Listening
	s.idle = make(chan struct{})
	s.capture++
	capture := s.capture
	s.mu.Unlock()

	s.logger.Debug("capture started", "capture", capture)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		for e := range events {
			s.handle(capture, e)
		}
		s.handle(capture, speech.Ended{})
		return nil
	}, lifecycle.WithErrorHandler(func(err error) {
		s.logger.Error("session pump panic", "error", err)
	}))

	return nil
}

// Stop ends the capture. Stopping an idle session is a no-op.
func (s *Session) Stop(ctx context.Context) error {
	s.mu.Lock()
	wasListening := s.phase == Listening
	s.endCaptureLocked()
	s.mu.Unlock()

	if !wasListening {
		return nil
	}

	s.logger.Debug("capture stopped")
	if err := s.recognizer.Stop(ctx); err != nil {
		return fmt.Errorf("failed to stop recognizer: %w", err)
	}
	return nil
}

// Handle applies a recognizer event to the current capture.
func (s *Session) Handle(e speech.Event) {
	s.mu.Lock()
	capture := s.capture
	s.mu.Unlock()

	s.handle(capture, e)
}

func (s *Session) handle(capture int, e speech.Event) {
	s.mu.Lock()
	if capture != s.capture {
		s.mu.Unlock()
		return
	}

	var status *Status
	switch ev := e.(type) {
	case speech.Started:
		st := NewStatus(StatusActivated)
		status = &st

	case speech.Result:
		transcript, ok := ev.Transcript()
		switch {
		case !ok:
			s.logger.Debug("result without transcript", "index", ev.Index)
		case ev.RepeatsFirst():
			s.suppressed++
			s.logger.Debug("suppressed repeated first result", "transcript", transcript)
		default:
			s.text += transcript
			s.appended++
		}

	case speech.SpeechEnd:
		s.endCaptureLocked()
		st := NewStatus(StatusSilence)
		status = &st

	case speech.Error:
		st := NewStatus(StatusNoSpeech)
		if ev.Kind != speech.ErrNoSpeech {
			st = NewStatus(StatusError)
			if ev.Message != "" {
				st.Message = fmt.Sprintf("%s (%s: %s)", st.Message, ev.Kind, ev.Message)
			} else {
				st.Message = fmt.Sprintf("%s (%s)", st.Message, ev.Kind)
			}
			s.logger.Warn("recognizer error", "kind", ev.Kind, "message", ev.Message)
		}
		status = &st

	case speech.Ended:
		s.endCaptureLocked()
	}
	s.mu.Unlock()

	if status != nil && s.onStatus != nil {
		s.onStatus(*status)
	}
}

func (s *Session) endCaptureLocked() {
	if s.phase != Listening {
		return
	}
	s.phase = Idle
	close(s.idle)
}

// Wait blocks until the current capture ends or ctx is done.
// It returns immediately when the session is idle.
func (s *Session) Wait(ctx context.Context) error {
	s.mu.Lock()
	if s.phase == Idle {
		s.mu.Unlock()
		return nil
	}
	idle := s.idle
	s.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Phase returns the capture state.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Text returns the accumulated buffer.
func (s *Session) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

// SetText replaces the buffer, e.g. after the user edited the dictation.
func (s *Session) SetText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text = text
}

// Reset clears the buffer.
func (s *Session) Reset() {
	s.SetText("")
}

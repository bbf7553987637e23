// Package notebook is the note-taking surface: it ties a dictation session to
// the note service and the playback adapter, and reports what happened as
// status messages.
package notebook

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"sync"

	"github.com/aretw0/voxnote/pkg/core"
	"github.com/aretw0/voxnote/pkg/session"
	"github.com/aretw0/voxnote/pkg/speech"
)

// Notebook coordinates dictation, persistence and playback.
type Notebook struct {
	service *core.Service
	session *session.Session
	player  *speech.Player
	voice   speech.Voice
	caps    speech.Capabilities
	logger  *slog.Logger

	mu       sync.RWMutex
	onStatus func(session.Status)
	last     session.Status
}

// Option configures a Notebook.
type Option func(*Notebook)

// WithStatusHandler registers the receiver of status messages.
func WithStatusHandler(fn func(session.Status)) Option {
	return func(n *Notebook) {
		n.onStatus = fn
	}
}

// WithLogger sets the logger for the notebook and its session.
func WithLogger(logger *slog.Logger) Option {
	return func(n *Notebook) {
		n.logger = logger
	}
}

// WithVoice overrides the playback voice.
func WithVoice(voice speech.Voice) Option {
	return func(n *Notebook) {
		n.voice = voice
	}
}

// New builds a Notebook. rec and synth may be nil when the host lacks the
// capability; the notebook then runs degraded.
func New(service *core.Service, rec speech.Recognizer, synth speech.Synthesizer, opts ...Option) *Notebook {
	n := &Notebook{
		service: service,
		caps:    speech.Probe(rec, synth),
		voice:   speech.DefaultVoice,
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.logger == nil {
		n.logger = slog.New(slog.DiscardHandler)
	}
	n.player = speech.NewPlayer(synth, n.logger).WithVoice(n.voice)
	n.session = session.New(rec,
		session.WithStatusHandler(n.emit),
		session.WithLogger(n.logger),
	)
	if !n.caps.Supported() {
		n.logger.Debug("speech recognition unavailable, dictation disabled")
	}
	return n
}

func (n *Notebook) emit(s session.Status) {
	n.mu.Lock()
	n.last = s
	fn := n.onStatus
	n.mu.Unlock()

	n.logger.Debug("status", "kind", s.Kind)
	if fn != nil {
		fn(s)
	}
}

// Supported reports whether dictation is available.
func (n *Notebook) Supported() bool {
	return n.caps.Supported()
}

// Capabilities returns the probed host capabilities.
func (n *Notebook) Capabilities() speech.Capabilities {
	return n.caps
}

// Status returns the last status message emitted.
func (n *Notebook) Status() session.Status {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.last
}

// Session exposes the underlying dictation session.
func (n *Notebook) Session() *session.Session {
	return n.session
}

// Service exposes the underlying note service.
func (n *Notebook) Service() *core.Service {
	return n.service
}

// Start begins dictation.
func (n *Notebook) Start(ctx context.Context) error {
	if !n.caps.Supported() {
		n.logger.Warn("speech recognition unavailable, dictation disabled")
		n.emit(session.NewStatus(session.StatusUnsupported))
		return fmt.Errorf("speech recognition: %w", core.ErrCapabilityUnavailable)
	}
	return n.session.Start(ctx)
}

// Close ends any running capture and releases the store.
func (n *Notebook) Close() error {
	if err := n.session.Stop(context.Background()); err != nil {
		n.logger.Debug("failed to stop session on close", "error", err)
	}
	return n.service.Close()
}

// Stop pauses dictation, keeping the buffer.
func (n *Notebook) Stop(ctx context.Context) error {
	if err := n.session.Stop(ctx); err != nil {
		return err
	}
	n.emit(session.NewStatus(session.StatusPaused))
	return nil
}

// Text returns the dictated text not yet saved.
func (n *Notebook) Text() string {
	return n.session.Text()
}

// Edit replaces the dictated text.
func (n *Notebook) Edit(text string) {
	n.session.SetText(text)
}

// Save ends dictation and stores the buffer as a note. An empty buffer is
// reported through the "empty" status and core.ErrEmptyNote; the buffer is
// cleared only after a successful save.
func (n *Notebook) Save(ctx context.Context) (core.Note, error) {
	if err := n.session.Stop(ctx); err != nil {
		n.logger.Warn("failed to stop session before save", "error", err)
	}

	note, err := n.service.SaveCurrent(ctx, n.session.Text())
	if errors.Is(err, core.ErrEmptyNote) {
		n.emit(session.NewStatus(session.StatusEmpty))
		return core.Note{}, err
	}
	if err != nil {
		return core.Note{}, err
	}

	n.session.Reset()
	n.emit(session.NewStatus(session.StatusSaved))
	return note, nil
}

// Discard stops dictation and drops the buffer.
func (n *Notebook) Discard(ctx context.Context) error {
	err := n.session.Stop(ctx)
	n.session.Reset()
	return err
}

// List returns every stored note. See core.Service.ListAll.
func (n *Notebook) List(ctx context.Context) iter.Seq2[core.Note, error] {
	return n.service.ListAll(ctx)
}

// Match returns the notes whose timestamp matches pattern.
func (n *Notebook) Match(ctx context.Context, pattern string) iter.Seq2[core.Note, error] {
	return n.service.Match(ctx, pattern)
}

// Delete removes a note. Unknown timestamps are not an error.
func (n *Notebook) Delete(ctx context.Context, timestamp string) error {
	return n.service.Delete(ctx, timestamp)
}

// Speak reads a stored note aloud without waiting for playback.
func (n *Notebook) Speak(ctx context.Context, timestamp string) error {
	note, err := n.service.Get(ctx, timestamp)
	if err != nil {
		return err
	}
	n.player.Speak(ctx, note.Content)
	return nil
}

// Read reads arbitrary text aloud without waiting for playback.
func (n *Notebook) Read(ctx context.Context, text string) {
	n.player.Speak(ctx, text)
}

// Say reads text aloud and waits for playback to finish.
func (n *Notebook) Say(ctx context.Context, text string) error {
	return n.player.Say(ctx, text)
}

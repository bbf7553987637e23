package voxnote

import (
	"log/slog"
	"time"

	"github.com/aretw0/voxnote/internal/platform"
	"github.com/aretw0/voxnote/pkg/adapters/redis"
	"github.com/aretw0/voxnote/pkg/adapters/s3"
	"github.com/aretw0/voxnote/pkg/core"
	"github.com/aretw0/voxnote/pkg/notebook"
	"github.com/aretw0/voxnote/pkg/session"
	"github.com/aretw0/voxnote/pkg/speech"
)

// --- Types ---

// Note is a public alias for the stored note.
type Note = core.Note

// Status is a public alias for the dictation status message.
type Status = session.Status

// Voice is a public alias for the playback voice parameters.
type Voice = speech.Voice

// --- Configuration ---

// Option defines a functional option for configuring voxnote.
type Option = platform.Option

// WithLogger sets the logger shared by every component.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithKeyValue injects a custom key-value store.
func WithKeyValue(kv core.KeyValue) Option {
	return platform.WithKeyValue(kv)
}

// WithAdapter selects the storage adapter by name ("fs", "memory", "redis", "s3").
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithLocale sets the locale used to format note timestamps.
func WithLocale(locale string) Option {
	return platform.WithLocale(locale)
}

// WithClock replaces time.Now for note timestamps.
func WithClock(now func() time.Time) Option {
	return platform.WithClock(now)
}

// WithRecognizer sets the host speech recognizer.
func WithRecognizer(rec speech.Recognizer) Option {
	return platform.WithRecognizer(rec)
}

// WithSynthesizer sets the host speech synthesizer.
func WithSynthesizer(synth speech.Synthesizer) Option {
	return platform.WithSynthesizer(synth)
}

// WithVoice overrides the playback voice.
func WithVoice(voice Voice) Option {
	return platform.WithVoice(voice)
}

// WithSystemDir sets the hidden directory of the fs adapter (default ".voxnote").
func WithSystemDir(name string) Option {
	return platform.WithSystemDir(name)
}

// WithMustExist ensures the notes directory must already exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithReadOnly enables read-only mode.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithDevSafety controls the sandbox used under `go run` and `go test`.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// WithWatcherErrorHandler registers a callback for directory watcher errors.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// WithRedis configures the "redis" adapter.
func WithRedis(cfg redis.Config) Option {
	return platform.WithRedis(cfg)
}

// WithS3 configures the "s3" adapter.
func WithS3(cfg s3.Config) Option {
	return platform.WithS3(cfg)
}

// --- Factory ---

// New creates a note service.
func New(uri string, opts ...Option) (*core.Service, error) {
	return platform.New(uri, opts...)
}

// Init opens a key-value store explicitly.
func Init(uri string, opts ...Option) (core.KeyValue, error) {
	return platform.Init(uri, opts...)
}

// NewNotebook creates a Notebook. statusHandler may be nil.
func NewNotebook(uri string, statusHandler func(Status), opts ...Option) (*notebook.Notebook, error) {
	return platform.NewNotebook(uri, statusHandler, opts...)
}

// --- Safety & Utils ---

// ResolvePath determines the actual notes directory based on safety rules.
func ResolvePath(userPath string, forceTemp bool) string {
	return platform.ResolvePath(userPath, forceTemp)
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}

// FindRoot looks upwards for a directory holding notes.
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}

// DefaultPath picks the notes directory when none is configured.
func DefaultPath() (string, error) {
	return platform.DefaultPath()
}

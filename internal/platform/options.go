package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/voxnote/pkg/adapters/redis"
	"github.com/aretw0/voxnote/pkg/adapters/s3"
	"github.com/aretw0/voxnote/pkg/core"
	"github.com/aretw0/voxnote/pkg/speech"
)

// options holds the internal configuration for voxnote.
type options struct {
	kv          core.KeyValue
	logger      *slog.Logger
	adapter     string
	locale      string
	clock       func() time.Time
	recognizer  speech.Recognizer
	synthesizer speech.Synthesizer
	voice       *speech.Voice

	// fs
	systemDir    string
	mustExist    bool
	readOnly     bool
	forceTemp    bool
	devSafety    bool
	errorHandler func(error)

	redis redis.Config
	s3    s3.Config
}

// Option defines a functional option for configuring voxnote.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter:   "fs",
		devSafety: true,
	}
}

func apply(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger shared by every component.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithKeyValue injects a custom key-value store (e.g. mock).
// If provided, the adapter selection is skipped.
func WithKeyValue(kv core.KeyValue) Option {
	return func(o *options) {
		o.kv = kv
	}
}

// WithAdapter selects the storage adapter by name: "fs", "memory", "redis"
// or "s3". Defaults to "fs".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithLocale sets the locale used to format note timestamps (e.g. "de-DE").
// Empty means American English.
func WithLocale(locale string) Option {
	return func(o *options) {
		o.locale = locale
	}
}

// WithClock replaces time.Now for note timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.clock = now
	}
}

// WithRecognizer sets the host speech recognizer. Without one, dictation is
// reported as unsupported.
func WithRecognizer(rec speech.Recognizer) Option {
	return func(o *options) {
		o.recognizer = rec
	}
}

// WithSynthesizer sets the host speech synthesizer used for playback.
func WithSynthesizer(synth speech.Synthesizer) Option {
	return func(o *options) {
		o.synthesizer = synth
	}
}

// WithVoice overrides the playback voice.
func WithVoice(voice speech.Voice) Option {
	return func(o *options) {
		o.voice = &voice
	}
}

// WithSystemDir sets the hidden directory the fs adapter keeps its index in.
func WithSystemDir(name string) Option {
	return func(o *options) {
		o.systemDir = name
	}
}

// WithMustExist ensures the notes directory must already exist.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.mustExist = must
	}
}

// WithReadOnly enables read-only mode.
// In this mode:
// 1. Save and Delete return core.ErrReadOnly.
// 2. The notes directory is never created.
// 3. Index updates are not persisted to disk.
// 4. The dev sandbox is bypassed (uses the real path).
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.readOnly = enabled
	}
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.forceTemp = force
	}
}

// WithDevSafety controls the sandbox used when running via `go run` or
// `go test`. By default (true), the notes directory is redirected into a
// temporary directory so development never touches real notes.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.devSafety = enabled
	}
}

// WithWatcherErrorHandler registers a callback for errors occurring while a
// directory is watched.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.errorHandler = fn
	}
}

// WithRedis configures the "redis" adapter.
func WithRedis(cfg redis.Config) Option {
	return func(o *options) {
		o.redis = cfg
	}
}

// WithS3 configures the "s3" adapter.
func WithS3(cfg s3.Config) Option {
	return func(o *options) {
		o.s3 = cfg
	}
}

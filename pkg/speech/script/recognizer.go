// Package script provides a Recognizer that replays transcript events from a
// text stream.
//
// Each line of input is either a JSON object describing one recognizer event
// or plain text taken as one newly recognized utterance:
//
//	{"type":"result","index":1,"results":[["hello"],["hello"]]}
//	{"type":"result","transcript":"buy milk"}
//	{"type":"error","error":"no-speech"}
//	{"type":"speechend"}
//	{"type":"end"}
//	remember the keys
//
// It lets the CLI dictate from stdin or a file and makes sessions testable
// without a microphone.
package script

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/aretw0/lifecycle"
	"github.com/goccy/go-json"

	"github.com/aretw0/voxnote/pkg/speech"
)

// ErrAlreadyStarted is returned by Start while a capture is running.
var ErrAlreadyStarted = errors.New("recognizer already started")

type line struct {
	text string
	err  error
}

// payload is the JSON form of a scripted event.
type payload struct {
	Type       string     `json:"type"`
	Index      int        `json:"index"`
	Results    [][]string `json:"results"`
	Transcript string     `json:"transcript"`
	Error      string     `json:"error"`
	Message    string     `json:"message"`
}

// Recognizer implements speech.Recognizer over an io.Reader.
// The reader is consumed once; a Stop followed by Start resumes where the
// previous capture left off.
type Recognizer struct {
	src    io.Reader
	lines  chan line
	once   sync.Once
	logger *slog.Logger

	mu         sync.Mutex
	cancel     context.CancelFunc
	generation int
}

// Option configures a Recognizer.
type Option func(*Recognizer)

// WithLogger sets the logger for the recognizer.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Recognizer) {
		r.logger = logger
	}
}

// New creates a Recognizer reading from src.
func New(src io.Reader, opts ...Option) *Recognizer {
	r := &Recognizer{
		src:   src,
		lines: make(chan line),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.New(slog.DiscardHandler)
	}
	return r
}

// Start implements speech.Recognizer.
func (r *Recognizer) Start(ctx context.Context, continuous bool) (<-chan speech.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil {
		return nil, ErrAlreadyStarted
	}
	r.once.Do(r.startReader)

	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.generation++
	gen := r.generation

	out := make(chan speech.Event, 8)
	lifecycle.Go(runCtx, func(ctx context.Context) error {
		defer r.finish(gen)
		defer close(out)
		return r.run(ctx, out, continuous)
	}, lifecycle.WithErrorHandler(func(err error) {
		r.logger.Error("script recognizer failed", "error", err)
	}))
	return out, nil
}

// Stop implements speech.Recognizer.
func (r *Recognizer) Stop(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	return nil
}

func (r *Recognizer) finish(gen int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.generation == gen && r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

// startReader pumps lines from src. Reads block, so the pump outlives any
// single capture and is shared by all of them.
func (r *Recognizer) startReader() {
	lifecycle.Go(context.Background(), func(ctx context.Context) error {
		defer close(r.lines)
		scanner := bufio.NewScanner(r.src)
		for scanner.Scan() {
			r.lines <- line{text: scanner.Text()}
		}
		if err := scanner.Err(); err != nil {
			r.lines <- line{err: err}
		}
		return nil
	})
}

func (r *Recognizer) run(ctx context.Context, out chan<- speech.Event, continuous bool) error {
	var results [][]string

	emit := func(e speech.Event) bool {
		select {
		case out <- e:
			return true
		case <-ctx.Done():
			return false
		}
	}

	if !emit(speech.Started{}) {
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case l, ok := <-r.lines:
			if !ok {
				emit(speech.Ended{})
				return nil
			}
			if l.err != nil {
				emit(speech.Ended{})
				return fmt.Errorf("failed to read script: %w", l.err)
			}

			event, err := parseLine(l.text, &results)
			if err != nil {
				r.logger.Warn("skipping malformed script line", "line", l.text, "error", err)
				continue
			}
			if event == nil {
				continue
			}
			if !emit(event) {
				return nil
			}

			switch event.(type) {
			case speech.SpeechEnd:
				emit(speech.Ended{})
				return nil
			case speech.Ended:
				return nil
			case speech.Result:
				if !continuous {
					emit(speech.Ended{})
					return nil
				}
			}
		}
	}
}

// parseLine turns one script line into an event. Plain utterances and
// "transcript" shorthands are appended to results, which accumulates the
// capture's result list the way hosts report it. A nil event means the line
// carries nothing.
func parseLine(text string, results *[][]string) (speech.Event, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, nil
	}

	if !strings.HasPrefix(trimmed, "{") {
		// Hosts separate consecutive results of a capture with a leading space.
		if len(*results) > 0 {
			trimmed = " " + trimmed
		}
		return appendResult(results, trimmed), nil
	}

	var p payload
	if err := json.Unmarshal([]byte(trimmed), &p); err != nil {
		return nil, err
	}

	switch p.Type {
	case "start":
		return speech.Started{}, nil
	case "result":
		if len(p.Results) > 0 {
			*results = p.Results
			return speech.Result{Index: p.Index, Results: p.Results}, nil
		}
		if p.Transcript != "" {
			return appendResult(results, p.Transcript), nil
		}
		return nil, errors.New("result without transcript")
	case "speechend":
		return speech.SpeechEnd{}, nil
	case "end":
		return speech.Ended{}, nil
	case "error":
		return speech.Error{Kind: speech.ErrorKind(p.Error), Message: p.Message}, nil
	default:
		return nil, fmt.Errorf("unknown event type %q", p.Type)
	}
}

func appendResult(results *[][]string, transcript string) speech.Result {
	*results = append(*results, []string{transcript})
	snapshot := make([][]string, len(*results))
	copy(snapshot, *results)
	return speech.Result{Index: len(snapshot) - 1, Results: snapshot}
}

var _ speech.Recognizer = (*Recognizer)(nil)

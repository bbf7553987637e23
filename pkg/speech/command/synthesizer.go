// Package command provides a Synthesizer backed by a local text-to-speech
// binary found on PATH.
package command

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aretw0/voxnote/pkg/core"
	"github.com/aretw0/voxnote/pkg/speech"
)

// Engines lists the supported binaries in order of preference.
var Engines = []string{"espeak-ng", "espeak", "spd-say", "say"}

// Synthesizer implements speech.Synthesizer by running a TTS binary.
type Synthesizer struct {
	path   string
	engine string
	run    func(ctx context.Context, path string, args ...string) error
}

// Detect looks for the first available engine on PATH.
func Detect() (*Synthesizer, error) {
	for _, name := range Engines {
		if path, err := exec.LookPath(name); err == nil {
			return New(path), nil
		}
	}
	return nil, fmt.Errorf("no speech synthesizer found on PATH (tried %s): %w",
		strings.Join(Engines, ", "), core.ErrCapabilityUnavailable)
}

// New creates a Synthesizer for the binary at path. The engine dialect is
// inferred from the file name; unknown names get espeak flags.
func New(path string) *Synthesizer {
	engine := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return &Synthesizer{
		path:   path,
		engine: engine,
		run:    runCommand,
	}
}

// Engine returns the binary name the arguments are built for.
func (s *Synthesizer) Engine() string {
	return s.engine
}

// Speak implements speech.Synthesizer. It blocks until the binary exits.
func (s *Synthesizer) Speak(ctx context.Context, text string, voice speech.Voice) error {
	if err := s.run(ctx, s.path, s.Args(text, voice)...); err != nil {
		return fmt.Errorf("%s failed: %w", s.engine, err)
	}
	return nil
}

// Args maps voice parameters onto the engine's flags. Volume and rate are
// relative to 1; pitch is relative to 1 and clamped to the engine range.
func (s *Synthesizer) Args(text string, voice speech.Voice) []string {
	switch s.engine {
	case "spd-say":
		return []string{
			"--wait",
			"-i", itoa(clamp((voice.Volume-1)*100, -100, 100)),
			"-r", itoa(clamp((voice.Rate-1)*100, -100, 100)),
			"-p", itoa(clamp((voice.Pitch-1)*50, -100, 100)),
			"--", text,
		}
	case "say":
		return []string{
			"-r", itoa(clamp(175*voice.Rate, 1, 700)),
			text,
		}
	default:
		return []string{
			"-a", itoa(clamp(100*voice.Volume, 0, 200)),
			"-s", itoa(clamp(175*voice.Rate, 80, 500)),
			"-p", itoa(clamp(50*voice.Pitch, 0, 99)),
			"--", text,
		}
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func itoa(v float64) string {
	return strconv.Itoa(int(math.Round(v)))
}

func runCommand(ctx context.Context, path string, args ...string) error {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}

var _ speech.Synthesizer = (*Synthesizer)(nil)

package speech

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/voxnote/pkg/core"
)

// Voice holds the synthesis parameters.
type Voice struct {
	Volume float64 `json:"volume" yaml:"volume" mapstructure:"volume"`
	Rate   float64 `json:"rate" yaml:"rate" mapstructure:"rate"`
	Pitch  float64 `json:"pitch" yaml:"pitch" mapstructure:"pitch"`
}

// DefaultVoice reads notes at normal volume and speed with a raised pitch.
var DefaultVoice = Voice{Volume: 1, Rate: 1, Pitch: 3}

// Synthesizer is the host text-to-speech capability.
type Synthesizer interface {
	Speak(ctx context.Context, text string, voice Voice) error
}

// Player reads text aloud through a Synthesizer.
type Player struct {
	synth  Synthesizer
	voice  Voice
	logger *slog.Logger
}

// NewPlayer creates a Player using DefaultVoice.
func NewPlayer(synth Synthesizer, logger *slog.Logger) *Player {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Player{synth: synth, voice: DefaultVoice, logger: logger}
}

// WithVoice returns a copy of the player using voice.
func (p *Player) WithVoice(voice Voice) *Player {
	cp := *p
	cp.voice = voice
	return &cp
}

// Voice returns the parameters the player speaks with.
func (p *Player) Voice() Voice {
	return p.voice
}

// Speak reads text aloud without waiting for playback. Synthesis failures are
// logged, never returned: availability is checked at startup, not here.
func (p *Player) Speak(ctx context.Context, text string) {
	if p.synth == nil {
		return
	}
	lifecycle.Go(ctx, func(ctx context.Context) error {
		if err := p.synth.Speak(ctx, text, p.voice); err != nil {
			p.logger.Warn("speech synthesis failed", "error", err)
		}
		return nil
	}, lifecycle.WithErrorHandler(func(err error) {
		p.logger.Error("speech synthesis panic", "error", err)
	}))
}

// Say reads text aloud and blocks until playback ends.
func (p *Player) Say(ctx context.Context, text string) error {
	if p.synth == nil {
		return fmt.Errorf("speech synthesis: %w", core.ErrCapabilityUnavailable)
	}
	return p.synth.Speak(ctx, text, p.voice)
}

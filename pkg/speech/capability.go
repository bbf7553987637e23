package speech

import (
	"errors"
	"fmt"

	"github.com/aretw0/voxnote/pkg/core"
)

// Capabilities records which host speech capabilities are present.
// It is computed once at startup and threaded through configuration.
type Capabilities struct {
	Recognition bool `json:"recognition"`
	Synthesis   bool `json:"synthesis"`
}

// Probe builds Capabilities from the capabilities that could be constructed.
func Probe(rec Recognizer, synth Synthesizer) Capabilities {
	return Capabilities{
		Recognition: rec != nil,
		Synthesis:   synth != nil,
	}
}

// Supported reports whether the dictation interface can be offered at all.
func (c Capabilities) Supported() bool {
	return c.Recognition
}

// Err returns nil when every capability is present, otherwise an error
// wrapping core.ErrCapabilityUnavailable that names the missing ones.
func (c Capabilities) Err() error {
	var errs []error
	if !c.Recognition {
		errs = append(errs, fmt.Errorf("speech recognition: %w", core.ErrCapabilityUnavailable))
	}
	if !c.Synthesis {
		errs = append(errs, fmt.Errorf("speech synthesis: %w", core.ErrCapabilityUnavailable))
	}
	return errors.Join(errs...)
}

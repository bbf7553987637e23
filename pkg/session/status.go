package session

// StatusKind classifies a status message.
type StatusKind string

const (
	StatusActivated   StatusKind = "activated"
	StatusSilence     StatusKind = "silence"
	StatusNoSpeech    StatusKind = "no-speech"
	StatusError       StatusKind = "error"
	StatusPaused      StatusKind = "paused"
	StatusSaved       StatusKind = "saved"
	StatusEmpty       StatusKind = "empty"
	StatusUnsupported StatusKind = "unsupported"
)

// Status is a human readable message about the dictation state.
type Status struct {
	Kind    StatusKind `json:"kind"`
	Message string     `json:"message"`
}

func (s Status) String() string {
	return s.Message
}

var messages = map[StatusKind]string{
	StatusActivated:   "Voice recognition activated. Try speaking into the microphone.",
	StatusSilence:     "You were quiet for a while so voice recognition turned itself off.",
	StatusNoSpeech:    "No speech was detected. Try again.",
	StatusError:       "Voice recognition failed.",
	StatusPaused:      "Voice recognition paused.",
	StatusSaved:       "Note saved successfully.",
	StatusEmpty:       "Could not save empty note. Please add a message to your note.",
	StatusUnsupported: "Speech recognition is not supported on this system.",
}

// NewStatus returns the standard message for kind.
func NewStatus(kind StatusKind) Status {
	return Status{Kind: kind, Message: messages[kind]}
}

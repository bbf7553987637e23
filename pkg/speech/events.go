package speech

// Event is a message emitted by a Recognizer.
type Event interface {
	isEvent()
}

// Started signals that the recognizer is capturing audio.
type Started struct{}

// Result carries every result captured since Start. Index points at the
// result that changed; each result holds one or more alternative transcripts,
// best first.
type Result struct {
	Index   int
	Results [][]string
}

// SpeechEnd signals that the host stopped capturing after a stretch of silence.
type SpeechEnd struct{}

// Ended signals that the recognizer is no longer capturing, for any reason.
type Ended struct{}

// ErrorKind names a recognizer failure.
type ErrorKind string

const (
	ErrNoSpeech       ErrorKind = "no-speech"
	ErrAborted        ErrorKind = "aborted"
	ErrAudioCapture   ErrorKind = "audio-capture"
	ErrNotAllowed     ErrorKind = "not-allowed"
	ErrNetwork        ErrorKind = "network"
	ErrServiceBlocked ErrorKind = "service-not-allowed"
)

// Error reports a non-fatal recognizer failure.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (Started) isEvent()   {}
func (Result) isEvent()    {}
func (SpeechEnd) isEvent() {}
func (Ended) isEvent()     {}
func (Error) isEvent()     {}

// Transcript returns the best alternative of the result at Index.
func (r Result) Transcript() (string, bool) {
	return r.transcriptAt(r.Index)
}

// RepeatsFirst reports the mobile quirk where the first utterance is
// delivered a second time as result 1.
func (r Result) RepeatsFirst() bool {
	if r.Index != 1 {
		return false
	}
	current, ok := r.transcriptAt(1)
	if !ok {
		return false
	}
	first, ok := r.transcriptAt(0)
	return ok && current == first
}

func (r Result) transcriptAt(i int) (string, bool) {
	if i < 0 || i >= len(r.Results) || len(r.Results[i]) == 0 {
		return "", false
	}
	return r.Results[i][0], true
}

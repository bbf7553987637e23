// Package speech defines the host speech capabilities voxnote relies on.
//
// A Recognizer turns microphone input into a stream of Events; a Synthesizer
// reads text aloud. Both are provided by the host (a browser bridge, a local
// binary, a scripted replay) and are probed once at startup.
package speech

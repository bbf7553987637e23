// Package voxnote is the composition root of the voxnote note taker.
//
// It connects the note service and the dictation session (domain) with the
// storage adapters and host speech capabilities (infrastructure) using the
// hexagonal layout: pkg/core holds the domain and its ports, pkg/adapters the
// key-value stores, pkg/speech the recognizer and synthesizer ports.
//
// Notes are stored one per key, "note-" followed by the locale-formatted time
// they were saved at. Any store offering get, set, remove and key listing
// works: a directory (default), Redis, an S3 bucket or memory.
//
// Usage:
//
//	nb, err := voxnote.NewNotebook("./notes",
//		func(s voxnote.Status) { fmt.Println(s) },
//		voxnote.WithLocale("en-GB"),
//		voxnote.WithRecognizer(script.New(os.Stdin)),
//	)
//
//	_ = nb.Start(ctx)         // dictate
//	note, err := nb.Save(ctx) // persist and clear the buffer
//	nb.Speak(ctx, note.Timestamp)
package voxnote

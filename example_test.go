package voxnote_test

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/aretw0/voxnote"
	"github.com/aretw0/voxnote/pkg/core"
	"github.com/aretw0/voxnote/pkg/speech/script"
)

func clock() time.Time {
	return time.Date(2026, 10, 17, 9, 5, 3, 0, time.UTC)
}

// Example_basic saves a note, lists it and deletes it.
func Example_basic() {
	ctx := context.Background()

	svc, err := voxnote.New("", voxnote.WithAdapter("memory"), voxnote.WithClock(clock))
	if err != nil {
		log.Fatal(err)
	}

	note, err := svc.SaveCurrent(ctx, "water the plants")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(note.Timestamp)

	for n, err := range svc.ListAll(ctx) {
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("%s: %s\n", n.Timestamp, n.Content)
	}

	if err := svc.Delete(ctx, note.Timestamp); err != nil {
		log.Fatal(err)
	}
	notes, _ := core.Collect(svc.ListAll(ctx))
	fmt.Println(len(notes))

	// Output:
	// 10/17/2026, 9:05:03 AM
	// 10/17/2026, 9:05:03 AM: water the plants
	// 0
}

// Example_dictation feeds a scripted transcript through a notebook.
func Example_dictation() {
	ctx := context.Background()
	transcript := strings.NewReader("remember the keys\nand the wallet\n")

	nb, err := voxnote.NewNotebook("",
		func(s voxnote.Status) { fmt.Println(s) },
		voxnote.WithAdapter("memory"),
		voxnote.WithLocale("en-GB"),
		voxnote.WithClock(clock),
		voxnote.WithRecognizer(script.New(transcript)),
	)
	if err != nil {
		log.Fatal(err)
	}

	if err := nb.Start(ctx); err != nil {
		log.Fatal(err)
	}
	_ = nb.Session().Wait(ctx)

	note, err := nb.Save(ctx)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%s: %s\n", note.Timestamp, note.Content)

	// Output:
	// Voice recognition activated. Try speaking into the microphone.
	// Note saved successfully.
	// 17/10/2026, 09:05:03: remember the keys and the wallet
}

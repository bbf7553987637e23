package notebook_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/voxnote/pkg/adapters/memory"
	"github.com/aretw0/voxnote/pkg/core"
	"github.com/aretw0/voxnote/pkg/notebook"
	"github.com/aretw0/voxnote/pkg/session"
	"github.com/aretw0/voxnote/pkg/speech"
	"github.com/aretw0/voxnote/pkg/speech/script"
)

type spokenLog struct {
	mu    sync.Mutex
	texts []string
	voice speech.Voice
}

func (l *spokenLog) Speak(ctx context.Context, text string, voice speech.Voice) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.texts = append(l.texts, text)
	l.voice = voice
	return nil
}

func (l *spokenLog) spoken() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.texts...)
}

func TestNotebook_Close(t *testing.T) {
	nb, _ := newNotebook(t, "still talking\n", nil)
	require.NoError(t, nb.Start(context.Background()))

	require.NoError(t, nb.Close())
	assert.Equal(t, session.Idle, nb.Session().Phase())
}

type statusLog struct {
	mu    sync.Mutex
	kinds []session.StatusKind
}

func (l *statusLog) record(s session.Status) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.kinds = append(l.kinds, s.Kind)
}

func (l *statusLog) has(kind session.StatusKind) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, k := range l.kinds {
		if k == kind {
			return true
		}
	}
	return false
}

func fixedClock() time.Time {
	return time.Date(2026, 10, 17, 15, 4, 5, 0, time.UTC)
}

func newNotebook(t *testing.T, transcript string, synth speech.Synthesizer, opts ...notebook.Option) (*notebook.Notebook, *statusLog) {
	t.Helper()
	svc := core.NewService(memory.New(), core.WithClock(fixedClock))
	log := &statusLog{}
	var rec speech.Recognizer
	if transcript != "" {
		rec = script.New(strings.NewReader(transcript))
	}
	opts = append(opts, notebook.WithStatusHandler(log.record))
	return notebook.New(svc, rec, synth, opts...), log
}

func TestNotebook_DictateAndSave(t *testing.T) {
	ctx := context.Background()
	nb, log := newNotebook(t, "buy milk\nand eggs\n", nil)

	require.True(t, nb.Supported())
	require.NoError(t, nb.Start(ctx))
	require.NoError(t, nb.Session().Wait(ctx))

	assert.Equal(t, "buy milk and eggs", nb.Text())
	assert.True(t, log.has(session.StatusActivated))

	note, err := nb.Save(ctx)
	require.NoError(t, err)
	assert.Equal(t, "10/17/2026, 3:04:05 PM", note.Timestamp)
	assert.Equal(t, "buy milk and eggs", note.Content)
	assert.Empty(t, nb.Text(), "buffer resets after save")
	assert.Equal(t, session.StatusSaved, nb.Status().Kind)

	notes, err := core.Collect(nb.List(ctx))
	require.NoError(t, err)
	assert.Equal(t, []core.Note{note}, notes)
}

func TestNotebook_SaveEmptyKeepsState(t *testing.T) {
	nb, _ := newNotebook(t, "", nil)

	_, err := nb.Save(context.Background())
	assert.ErrorIs(t, err, core.ErrEmptyNote)
	assert.Equal(t, session.StatusEmpty, nb.Status().Kind)
	assert.Equal(t, "Could not save empty note. Please add a message to your note.", nb.Status().Message)
}

func TestNotebook_SaveWhitespaceIsAccepted(t *testing.T) {
	nb, _ := newNotebook(t, "", nil)
	nb.Edit(" ")

	note, err := nb.Save(context.Background())
	require.NoError(t, err)
	assert.Equal(t, " ", note.Content)
}

func TestNotebook_UnsupportedRecognizer(t *testing.T) {
	nb, log := newNotebook(t, "", nil)

	assert.False(t, nb.Supported())
	err := nb.Start(context.Background())
	assert.ErrorIs(t, err, core.ErrCapabilityUnavailable)
	assert.True(t, log.has(session.StatusUnsupported))

	// Typed notes still work while degraded.
	nb.Edit("typed instead")
	_, err = nb.Save(context.Background())
	assert.NoError(t, err)
}

func TestNotebook_StopReportsPaused(t *testing.T) {
	nb, _ := newNotebook(t, "", nil)
	require.NoError(t, nb.Stop(context.Background()))
	assert.Equal(t, session.StatusPaused, nb.Status().Kind)
	assert.Equal(t, "Voice recognition paused.", nb.Status().Message)
}

func TestNotebook_DiscardDropsBuffer(t *testing.T) {
	nb, _ := newNotebook(t, "", nil)
	nb.Edit("never mind")

	require.NoError(t, nb.Discard(context.Background()))
	assert.Empty(t, nb.Text())
}

func TestNotebook_SpeakAndDelete(t *testing.T) {
	ctx := context.Background()
	synth := &spokenLog{}
	nb, _ := newNotebook(t, "", synth)

	nb.Edit("call mom")
	note, err := nb.Save(ctx)
	require.NoError(t, err)

	require.NoError(t, nb.Speak(ctx, note.Timestamp))
	require.Eventually(t, func() bool {
		return len(synth.spoken()) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"call mom"}, synth.spoken())
	assert.Equal(t, speech.DefaultVoice, synth.voice)

	require.NoError(t, nb.Delete(ctx, note.Timestamp))
	require.NoError(t, nb.Delete(ctx, note.Timestamp))
	assert.ErrorIs(t, nb.Speak(ctx, note.Timestamp), core.ErrNotFound)
}

func TestNotebook_ReadUsesConfiguredVoice(t *testing.T) {
	synth := &spokenLog{}
	voice := speech.Voice{Volume: 0.5, Rate: 1.2, Pitch: 1}
	nb, _ := newNotebook(t, "", synth, notebook.WithVoice(voice))

	require.NoError(t, nb.Say(context.Background(), "hello"))
	assert.Equal(t, []string{"hello"}, synth.spoken())
	assert.Equal(t, voice, synth.voice)
}

func TestNotebook_State(t *testing.T) {
	nb, _ := newNotebook(t, "", nil)

	state, ok := nb.State().(notebook.NotebookState)
	require.True(t, ok)
	assert.False(t, state.Capabilities.Recognition)
	assert.Equal(t, speech.DefaultVoice, state.Voice)
	assert.Equal(t, "notebook", nb.ComponentType())
}

package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/voxnote/pkg/core"
	"github.com/aretw0/voxnote/pkg/session"
	"github.com/aretw0/voxnote/pkg/speech"
)

// fakeRecognizer hands out one channel per capture and closes it on Stop.
type fakeRecognizer struct {
	mu       sync.Mutex
	ch       chan speech.Event
	starts   int
	stops    int
	startErr error
}

func (f *fakeRecognizer) Start(ctx context.Context, continuous bool) (<-chan speech.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startErr != nil {
		return nil, f.startErr
	}
	f.starts++
	f.ch = make(chan speech.Event, 16)
	return f.ch, nil
}

func (f *fakeRecognizer) Stop(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
	if f.ch != nil {
		close(f.ch)
		f.ch = nil
	}
	return nil
}

func (f *fakeRecognizer) emit(e speech.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ch <- e
}

func (f *fakeRecognizer) end() {
	f.mu.Lock()
	defer f.mu.Unlock()
	close(f.ch)
	f.ch = nil
}

type statusLog struct {
	mu       sync.Mutex
	statuses []session.Status
}

func (l *statusLog) record(s session.Status) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.statuses = append(l.statuses, s)
}

func (l *statusLog) kinds() []session.StatusKind {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []session.StatusKind
	for _, s := range l.statuses {
		out = append(out, s.Kind)
	}
	return out
}

func result(index int, transcripts ...string) speech.Result {
	r := speech.Result{Index: index}
	for _, t := range transcripts {
		r.Results = append(r.Results, []string{t})
	}
	return r
}

func TestSession_StartStopAlternates(t *testing.T) {
	rec := &fakeRecognizer{}
	s := session.New(rec)
	ctx := context.Background()

	assert.Equal(t, session.Idle, s.Phase())
	require.NoError(t, s.Stop(ctx), "stop while idle must succeed")
	assert.Equal(t, 0, rec.stops)

	for i := 0; i < 3; i++ {
		require.NoError(t, s.Start(ctx))
		assert.Equal(t, session.Listening, s.Phase())

		assert.ErrorIs(t, s.Start(ctx), core.ErrSessionActive)

		require.NoError(t, s.Stop(ctx))
		assert.Equal(t, session.Idle, s.Phase())
		require.NoError(t, s.Stop(ctx))
	}
	assert.Equal(t, 3, rec.starts)
	assert.Equal(t, 3, rec.stops)
}

func TestSession_AccumulatesResults(t *testing.T) {
	s := session.New(&fakeRecognizer{})

	s.Handle(result(0, "buy milk"))
	s.Handle(result(1, "buy milk", " and eggs"))
	s.Handle(result(2, "buy milk", " and eggs", " and bread"))

	assert.Equal(t, "buy milk and eggs and bread", s.Text())
}

func TestSession_SuppressesMobileRepeat(t *testing.T) {
	s := session.New(&fakeRecognizer{})

	s.Handle(result(0, "hello"))
	s.Handle(result(1, "hello", "hello"))

	assert.Equal(t, "hello", s.Text(), "the repeated first result must be appended once")
	state := s.State().(session.SessionState)
	assert.Equal(t, 1, state.Appended)
	assert.Equal(t, 1, state.Suppressed)
}

func TestSession_RepeatsElsewhereAreKept(t *testing.T) {
	s := session.New(&fakeRecognizer{})

	s.Handle(result(0, "a"))
	s.Handle(result(1, "a", "b"))
	s.Handle(result(2, "a", "b", "b"))

	assert.Equal(t, "abb", s.Text())
}

func TestSession_ResultWithoutTranscript(t *testing.T) {
	s := session.New(&fakeRecognizer{})
	s.Handle(speech.Result{Index: 4})
	assert.Empty(t, s.Text())
}

func TestSession_SeparatesCaptures(t *testing.T) {
	rec := &fakeRecognizer{}
	s := session.New(rec)
	ctx := context.Background()

	require.NoError(t, s.Start(ctx))
	s.Handle(result(0, "first"))
	require.NoError(t, s.Stop(ctx))

	require.NoError(t, s.Start(ctx))
	s.Handle(result(0, "second"))
	require.NoError(t, s.Stop(ctx))

	assert.Equal(t, "first second", s.Text())
}

func TestSession_NoSeparatorOnEmptyBuffer(t *testing.T) {
	rec := &fakeRecognizer{}
	s := session.New(rec)

	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Stop(context.Background()))
	assert.Empty(t, s.Text())
}

func TestSession_PumpsRecognizerEvents(t *testing.T) {
	rec := &fakeRecognizer{}
	log := &statusLog{}
	s := session.New(rec, session.WithStatusHandler(log.record))

	require.NoError(t, s.Start(context.Background()))
	rec.emit(speech.Started{})
	rec.emit(result(0, "dictated"))
	rec.emit(speech.SpeechEnd{})

	require.Eventually(t, func() bool {
		return len(log.kinds()) == 2
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, session.Idle, s.Phase())
	assert.Equal(t, "dictated", s.Text())
	assert.Equal(t, []session.StatusKind{session.StatusActivated, session.StatusSilence}, log.kinds())
	assert.Equal(t,
		"You were quiet for a while so voice recognition turned itself off.",
		log.statuses[1].Message)
}

func TestSession_EndOfStreamReturnsToIdle(t *testing.T) {
	rec := &fakeRecognizer{}
	s := session.New(rec)

	require.NoError(t, s.Start(context.Background()))
	rec.end()

	require.Eventually(t, func() bool {
		return s.Phase() == session.Idle
	}, time.Second, 5*time.Millisecond)

	// A fresh capture is allowed once the host ended the previous one.
	require.NoError(t, s.Start(context.Background()))
}

func TestSession_NoSpeechIsRecoverable(t *testing.T) {
	rec := &fakeRecognizer{}
	log := &statusLog{}
	s := session.New(rec, session.WithStatusHandler(log.record))

	require.NoError(t, s.Start(context.Background()))
	s.Handle(speech.Error{Kind: speech.ErrNoSpeech})

	assert.Equal(t, session.Listening, s.Phase())
	assert.Equal(t, []session.StatusKind{session.StatusNoSpeech}, log.kinds())
	assert.Equal(t, "No speech was detected. Try again.", log.statuses[0].Message)
}

func TestSession_OtherErrorsSurfaceAsStatus(t *testing.T) {
	log := &statusLog{}
	s := session.New(&fakeRecognizer{}, session.WithStatusHandler(log.record))

	s.Handle(speech.Error{Kind: speech.ErrAudioCapture, Message: "no microphone"})

	require.Equal(t, []session.StatusKind{session.StatusError}, log.kinds())
	assert.Contains(t, log.statuses[0].Message, "audio-capture")
	assert.Contains(t, log.statuses[0].Message, "no microphone")
}

func TestSession_DropsEventsFromOldCaptures(t *testing.T) {
	rec := &fakeRecognizer{}
	s := session.New(rec)
	ctx := context.Background()

	require.NoError(t, s.Start(ctx))
	require.NoError(t, s.Stop(ctx))
	require.NoError(t, s.Start(ctx))

	// The first pump ends with a synthetic Ended that must not stop the second capture.
	require.Never(t, func() bool {
		return s.Phase() == session.Idle
	}, 50*time.Millisecond, 5*time.Millisecond)
}

func TestSession_StartFailures(t *testing.T) {
	s := session.New(nil)
	assert.ErrorIs(t, s.Start(context.Background()), core.ErrCapabilityUnavailable)

	boom := errors.New("microphone busy")
	s = session.New(&fakeRecognizer{startErr: boom})
	s.SetText("kept")
	err := s.Start(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, session.Idle, s.Phase())
	assert.Equal(t, "kept", s.Text(), "a failed start must not touch the buffer")
}

func TestSession_SetTextAndReset(t *testing.T) {
	s := session.New(&fakeRecognizer{})
	s.Handle(result(0, "draft"))
	s.SetText("edited")
	assert.Equal(t, "edited", s.Text())

	s.Reset()
	assert.Empty(t, s.Text())
	assert.Equal(t, "session", s.ComponentType())
}

func TestSession_WaitReturnsWhenCaptureEnds(t *testing.T) {
	rec := &fakeRecognizer{}
	s := session.New(rec)
	ctx := context.Background()

	require.NoError(t, s.Wait(ctx), "idle session does not block")

	require.NoError(t, s.Start(ctx))
	done := make(chan error, 1)
	go func() { done <- s.Wait(ctx) }()

	rec.emit(speech.SpeechEnd{})

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after speech ended")
	}
}

func TestSession_WaitHonoursContext(t *testing.T) {
	s := session.New(&fakeRecognizer{})
	require.NoError(t, s.Start(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, s.Wait(ctx), context.DeadlineExceeded)
}

package fs

import (
	"sync"
	"time"

	"github.com/aretw0/voxnote/pkg/core"
)

// debouncer coalesces bursts of events on the same key into one delivery.
// A CREATE followed by MODIFY stays a CREATE; otherwise the latest type wins.
type debouncer struct {
	delay   time.Duration
	mu      sync.Mutex
	pending map[string]*pendingEvent
	stopped bool
	wg      sync.WaitGroup
}

type pendingEvent struct {
	event core.Event
	timer *time.Timer
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:   delay,
		pending: make(map[string]*pendingEvent),
	}
}

// add schedules emit for e after the delay, merging with any pending event on
// the same key.
func (d *debouncer) add(e core.Event, emit func(core.Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	if p, ok := d.pending[e.Key]; ok {
		if !(p.event.Type == core.EventCreate && e.Type == core.EventModify) {
			p.event.Type = e.Type
		}
		p.event.At = e.At
		p.timer.Reset(d.delay)
		return
	}

	p := &pendingEvent{event: e}
	d.pending[e.Key] = p
	d.wg.Add(1)
	p.timer = time.AfterFunc(d.delay, func() {
		defer d.wg.Done()

		d.mu.Lock()
		event := p.event
		delete(d.pending, e.Key)
		d.mu.Unlock()

		emit(event)
	})
}

// stopAndWait stops accepting events and waits up to timeout for scheduled
// deliveries. Timers that never fired are dropped.
func (d *debouncer) stopAndWait(timeout time.Duration) {
	d.mu.Lock()
	d.stopped = true
	for key, p := range d.pending {
		if p.timer.Stop() {
			delete(d.pending, key)
			d.wg.Done()
		}
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
	}
}

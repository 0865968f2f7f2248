package transport

import (
	"io"
	"math"
	"sync"
)

// emitter feeds an event channel from several goroutines and drops events
// sent after it has been closed. Once abandon is closed, events that would
// block are dropped too. A nil abandon never drops.
type emitter struct {
	mu      sync.Mutex
	ch      chan Event
	abandon <-chan struct{}
	closed  bool
}

func newEmitter(buffer int, abandon <-chan struct{}) *emitter {
	return &emitter{ch: make(chan Event, buffer), abandon: abandon}
}

func (e *emitter) emit(ev Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	select {
	case e.ch <- ev:
		return
	default:
	}
	select {
	case e.ch <- ev:
	case <-e.abandon:
	}
}

func (e *emitter) state(s Snapshot) {
	e.emit(Event{Kind: EventStateChange, Snapshot: s})
}

func (e *emitter) close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.closed {
		e.closed = true
		close(e.ch)
	}
}

// progressReader wraps the request body and reports a percentage each time
// the transport reads from it. Nothing is reported when total is unknown.
type progressReader struct {
	reader io.Reader
	total  int64
	sent   int64
	report func(percent int)
}

// Read implements io.Reader
func (pr *progressReader) Read(p []byte) (n int, err error) {
	n, err = pr.reader.Read(p)
	if n > 0 && pr.total > 0 {
		pr.sent += int64(n)
		pr.report(Percent(pr.sent, pr.total))
	}
	return n, err
}

// Percent returns round(sent*100/total)
func Percent(sent, total int64) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(sent) * 100 / float64(total)))
}

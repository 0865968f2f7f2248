package transport

// EventKind tags an upload Event
type EventKind int

const (
	EventProgress EventKind = iota
	EventStateChange
)

// String returns the string representation of EventKind
func (k EventKind) String() string {
	switch k {
	case EventProgress:
		return "Progress"
	case EventStateChange:
		return "StateChange"
	default:
		return "Unknown"
	}
}

// Event is one item of an upload's event stream: either a progress
// percentage or a ready-state snapshot.
type Event struct {
	Kind     EventKind
	Percent  int
	Snapshot Snapshot
}

// ProgressFunc receives upload progress in percent (0-100)
type ProgressFunc func(percent int)

// ReadyStateFunc receives every ready-state transition
type ReadyStateFunc func(snapshot Snapshot)

// dispatch delivers events to the callbacks, one at a time and in order,
// and closes done after the stream ends.
func dispatch(events <-chan Event, onProgress ProgressFunc, onReadyStateChange ReadyStateFunc, done chan<- struct{}) {
	defer close(done)

	for e := range events {
		switch e.Kind {
		case EventProgress:
			if onProgress != nil {
				onProgress(e.Percent)
			}
		case EventStateChange:
			if onReadyStateChange != nil {
				onReadyStateChange(e.Snapshot)
			}
		}
	}
}

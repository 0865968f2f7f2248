package transport

import "net/http"

// ReadyState mirrors the connection states a browser XHR reports
type ReadyState int

const (
	Unsent ReadyState = iota
	Opened
	HeadersReceived
	Loading
	Done
)

// String returns the string representation of ReadyState
func (s ReadyState) String() string {
	switch s {
	case Unsent:
		return "Unsent"
	case Opened:
		return "Opened"
	case HeadersReceived:
		return "HeadersReceived"
	case Loading:
		return "Loading"
	case Done:
		return "Done"
	default:
		return "Unknown"
	}
}

// Snapshot is the connection status passed to ready-state observers.
// Response is only set once State is Done. A transport failure is reported
// as Done with StatusCode 0 and Err set.
type Snapshot struct {
	State      ReadyState
	StatusCode int
	Status     string
	Header     http.Header
	Response   []byte
	Err        error
}

// OK reports whether the snapshot is a completed 2xx response
func (s Snapshot) OK() bool {
	return s.State == Done && s.Err == nil && s.StatusCode >= 200 && s.StatusCode < 300
}

// Package transport performs multipart file uploads over HTTP and reports
// progress and ready-state transitions to the caller.
package transport

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"

	"fileupload/internal/file"
)

const eventBuffer = 16

// DefaultMethod is used when an UploadRequest names no method
const DefaultMethod = http.MethodPost

// UploadRequest describes one upload attempt. It is built from validated
// files only and is not modified by the Uploader.
type UploadRequest struct {
	URI     string
	Method  string
	Headers map[string]string
	Files   []file.Descriptor
}

// Doer sends HTTP requests. *http.Client implements it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Uploader sends UploadRequests. It keeps no state between uploads, so
// concurrent uploads proceed independently.
type Uploader struct {
	client Doer
}

// NewUploader creates an uploader. A nil client means http.DefaultClient.
func NewUploader(client Doer) *Uploader {
	if client == nil {
		client = http.DefaultClient
	}
	return &Uploader{client: client}
}

// Upload starts req and returns immediately. onProgress and
// onReadyStateChange (either may be nil) are called from a single goroutine
// in the order the transport produces events. The returned channel is closed
// after the last callback has returned. There is no retry and no timeout;
// the upload ends early only if ctx is cancelled.
func (u *Uploader) Upload(ctx context.Context, req UploadRequest, onProgress ProgressFunc, onReadyStateChange ReadyStateFunc) <-chan struct{} {
	done := make(chan struct{})
	// The dispatcher drains every event, so nothing is ever dropped here.
	go dispatch(u.start(ctx, req, nil), onProgress, onReadyStateChange, done)
	return done
}

// Stream starts req and returns its event stream. The channel is closed
// after the Done snapshot. A caller that stops reading early must cancel
// ctx; from then on events that do not fit the buffer are dropped so the
// upload can wind down.
func (u *Uploader) Stream(ctx context.Context, req UploadRequest) <-chan Event {
	return u.start(ctx, req, ctx.Done())
}

func (u *Uploader) start(ctx context.Context, req UploadRequest, abandon <-chan struct{}) <-chan Event {
	em := newEmitter(eventBuffer, abandon)
	go u.run(ctx, req, em)
	return em.ch
}

func (u *Uploader) run(ctx context.Context, req UploadRequest, em *emitter) {
	defer em.close()

	method := req.Method
	if method == "" {
		method = DefaultMethod
	}

	body := newMultipartBody(req.Files)
	reader := body.Reader()
	defer reader.Close()

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URI, &progressReader{
		reader: reader,
		total:  body.length,
		report: func(percent int) {
			em.emit(Event{Kind: EventProgress, Percent: percent})
		},
	})
	if err != nil {
		em.state(Snapshot{State: Done, Err: fmt.Errorf("failed to open upload request: %w", err)})
		return
	}
	em.state(Snapshot{State: Opened})

	// Headers go on only after the request is opened.
	httpReq.Header.Set("Content-Type", body.ContentType())
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}
	httpReq.ContentLength = body.length

	log.Printf("Uploading %d file(s) to %s %s", len(req.Files), method, req.URI)

	resp, err := u.client.Do(httpReq)
	if err != nil {
		em.state(Snapshot{State: Done, Err: fmt.Errorf("upload failed: %w", err)})
		return
	}
	defer resp.Body.Close()

	snapshot := Snapshot{
		State:      HeadersReceived,
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Header:     resp.Header.Clone(),
	}
	em.state(snapshot)

	snapshot.State = Loading
	em.state(snapshot)

	data, err := io.ReadAll(resp.Body)
	snapshot.State = Done
	snapshot.Response = data
	if err != nil {
		snapshot.Err = fmt.Errorf("failed to read upload response: %w", err)
	}
	em.state(snapshot)
}

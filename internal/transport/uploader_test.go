package transport

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fileupload/internal/file"
)

type receivedPart struct {
	field       string
	fileName    string
	contentType string
	data        string
}

type recorder struct {
	mu            sync.Mutex
	method        string
	header        http.Header
	contentLength int64
	parts         []receivedPart
}

func (rec *recorder) handler(status int, reply string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec.mu.Lock()
		defer rec.mu.Unlock()

		rec.method = r.Method
		rec.header = r.Header.Clone()
		rec.contentLength = r.ContentLength

		mr, err := r.MultipartReader()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		for {
			p, err := mr.NextPart()
			if err == io.EOF {
				break
			}
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			data, _ := io.ReadAll(p)
			rec.parts = append(rec.parts, receivedPart{
				field:       p.FormName(),
				fileName:    p.FileName(),
				contentType: p.Header.Get("Content-Type"),
				data:        string(data),
			})
		}

		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}
}

func collect(t *testing.T, events <-chan Event) []Event {
	t.Helper()
	var out []Event
	timeout := time.After(10 * time.Second)
	for {
		select {
		case e, ok := <-events:
			if !ok {
				return out
			}
			out = append(out, e)
		case <-timeout:
			t.Fatal("upload did not finish")
			return nil
		}
	}
}

func states(events []Event) []ReadyState {
	var out []ReadyState
	for _, e := range events {
		if e.Kind == EventStateChange {
			out = append(out, e.Snapshot.State)
		}
	}
	return out
}

func progress(events []Event) []int {
	var out []int
	for _, e := range events {
		if e.Kind == EventProgress {
			out = append(out, e.Percent)
		}
	}
	return out
}

func last(events []Event) Snapshot {
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].Kind == EventStateChange {
			return events[i].Snapshot
		}
	}
	return Snapshot{}
}

func TestUploadSendsMultipartWithHeaders(t *testing.T) {
	rec := &recorder{}
	srv := httptest.NewServer(rec.handler(http.StatusCreated, `{"ok":true}`))
	defer srv.Close()

	big := bytes.Repeat([]byte("abcdefgh"), 64*1024)
	req := UploadRequest{
		URI:    srv.URL + "/upload",
		Method: http.MethodPut,
		Headers: map[string]string{
			"Authorization": "Bearer token",
			"X-Upload-Tag":  "reports",
		},
		Files: []file.Descriptor{
			file.NewMemory("report.pdf", []byte("%PDF-1.4"), "application/pdf"),
			file.NewMemory(`we"ird.png`, big, "image/png"),
		},
	}

	events := collect(t, NewUploader(srv.Client()).Stream(context.Background(), req))

	assert.Equal(t, []ReadyState{Opened, HeadersReceived, Loading, Done}, states(events))

	final := last(events)
	require.NoError(t, final.Err)
	assert.Equal(t, http.StatusCreated, final.StatusCode)
	assert.Equal(t, `{"ok":true}`, string(final.Response))
	assert.True(t, final.OK())

	pct := progress(events)
	require.NotEmpty(t, pct)
	assert.Equal(t, 100, pct[len(pct)-1])
	for i := 1; i < len(pct); i++ {
		assert.GreaterOrEqual(t, pct[i], pct[i-1])
	}

	// every progress tick precedes the response
	sawHeaders := false
	for _, e := range events {
		if e.Kind == EventStateChange && e.Snapshot.State == HeadersReceived {
			sawHeaders = true
		}
		if e.Kind == EventProgress {
			assert.False(t, sawHeaders, "progress after response headers")
		}
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Equal(t, http.MethodPut, rec.method)
	assert.Equal(t, "Bearer token", rec.header.Get("Authorization"))
	assert.Equal(t, "reports", rec.header.Get("X-Upload-Tag"))
	assert.True(t, strings.HasPrefix(rec.header.Get("Content-Type"), "multipart/form-data; boundary="))
	assert.Greater(t, rec.contentLength, int64(len(big)))

	require.Len(t, rec.parts, 2)
	assert.Equal(t, receivedPart{"report.pdf", "report.pdf", "application/pdf", "%PDF-1.4"}, rec.parts[0])
	assert.Equal(t, `we"ird.png`, rec.parts[1].field)
	assert.Equal(t, `we"ird.png`, rec.parts[1].fileName)
	assert.Equal(t, string(big), rec.parts[1].data)
}

func TestUploadCallbacksInOrder(t *testing.T) {
	rec := &recorder{}
	srv := httptest.NewServer(rec.handler(http.StatusOK, "done"))
	defer srv.Close()

	var (
		mu       sync.Mutex
		order    []string
		percents []int
		final    Snapshot
	)
	onProgress := func(p int) {
		mu.Lock()
		defer mu.Unlock()
		order = append(order, "progress")
		percents = append(percents, p)
	}
	onState := func(s Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		order = append(order, s.State.String())
		final = s
	}

	req := UploadRequest{
		URI:   srv.URL,
		Files: []file.Descriptor{file.NewMemory("a.txt", []byte("hello"), "")},
	}
	done := NewUploader(nil).Upload(context.Background(), req, onProgress, onState)

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("upload did not finish")
	}

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, order)
	assert.Equal(t, "Opened", order[0])
	assert.Equal(t, "Done", order[len(order)-1])
	assert.Equal(t, 100, percents[len(percents)-1])
	assert.Equal(t, "done", string(final.Response))

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Equal(t, http.MethodPost, rec.method)
	require.Len(t, rec.parts, 1)
	assert.Equal(t, file.DefaultContentType, rec.parts[0].contentType)
}

func TestUploadNilCallbacks(t *testing.T) {
	srv := httptest.NewServer((&recorder{}).handler(http.StatusOK, ""))
	defer srv.Close()

	req := UploadRequest{URI: srv.URL, Files: []file.Descriptor{file.NewMemory("a.pdf", []byte("x"), "")}}
	select {
	case <-NewUploader(nil).Upload(context.Background(), req, nil, nil):
	case <-time.After(10 * time.Second):
		t.Fatal("upload did not finish")
	}
}

func TestUploadServerErrorIsPassedThrough(t *testing.T) {
	srv := httptest.NewServer((&recorder{}).handler(http.StatusInternalServerError, "boom"))
	defer srv.Close()

	req := UploadRequest{URI: srv.URL, Files: []file.Descriptor{file.NewMemory("a.pdf", []byte("x"), "")}}
	events := collect(t, NewUploader(nil).Stream(context.Background(), req))

	final := last(events)
	assert.Equal(t, Done, final.State)
	assert.NoError(t, final.Err)
	assert.Equal(t, http.StatusInternalServerError, final.StatusCode)
	assert.Equal(t, "boom", string(final.Response))
	assert.False(t, final.OK())
}

func TestUploadTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	req := UploadRequest{URI: url, Files: []file.Descriptor{file.NewMemory("a.pdf", []byte("x"), "")}}
	events := collect(t, NewUploader(nil).Stream(context.Background(), req))

	assert.Equal(t, []ReadyState{Opened, Done}, states(events))
	final := last(events)
	assert.Error(t, final.Err)
	assert.Equal(t, 0, final.StatusCode)
	assert.Nil(t, final.Response)
}

func TestUploadInvalidMethod(t *testing.T) {
	req := UploadRequest{URI: "http://127.0.0.1:1", Method: "BAD METHOD"}
	events := collect(t, NewUploader(nil).Stream(context.Background(), req))

	assert.Equal(t, []ReadyState{Done}, states(events))
	assert.Error(t, last(events).Err)
}

// sizeless reports an unknown size, so no progress can be computed
type sizeless struct {
	file.Descriptor
}

func (sizeless) Size() int64 { return -1 }

func TestUploadUnknownSizeReportsNoProgress(t *testing.T) {
	rec := &recorder{}
	srv := httptest.NewServer(rec.handler(http.StatusOK, "ok"))
	defer srv.Close()

	req := UploadRequest{
		URI:   srv.URL,
		Files: []file.Descriptor{sizeless{file.NewMemory("stream.pdf", []byte("chunked body"), "")}},
	}
	events := collect(t, NewUploader(nil).Stream(context.Background(), req))

	assert.Empty(t, progress(events))
	assert.True(t, last(events).OK())

	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.Len(t, rec.parts, 1)
	assert.Equal(t, "chunked body", rec.parts[0].data)
}

func TestConcurrentUploadsAreIndependent(t *testing.T) {
	srv := httptest.NewServer((&recorder{}).handler(http.StatusOK, "ok"))
	defer srv.Close()

	u := NewUploader(nil)
	var wg sync.WaitGroup
	results := make([]Snapshot, 4)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := UploadRequest{URI: srv.URL, Files: []file.Descriptor{file.NewMemory("f.png", []byte("data"), "")}}
			var events []Event
			for e := range u.Stream(context.Background(), req) {
				events = append(events, e)
			}
			results[i] = last(events)
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.True(t, r.OK())
	}
}

// byteDoer reads the request body one byte at a time, so every byte turns
// into a progress event, and ignores the request context.
type byteDoer struct {
	returned chan struct{}
}

func (d *byteDoer) Do(r *http.Request) (*http.Response, error) {
	defer close(d.returned)
	buf := make([]byte, 1)
	for {
		if _, err := r.Body.Read(buf); err != nil {
			break
		}
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Status:     "200 OK",
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader("")),
	}, nil
}

func TestStreamWindsDownWhenAbandoned(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	doer := &byteDoer{returned: make(chan struct{})}
	events := NewUploader(doer).Stream(ctx, UploadRequest{
		URI:   "http://example.invalid/upload",
		Files: []file.Descriptor{file.NewMemory("big.pdf", bytes.Repeat([]byte("x"), 512), "")},
	})

	// Nobody reads: the buffer fills and the body reader stalls.
	require.Eventually(t, func() bool { return len(events) == eventBuffer }, 5*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-doer.returned:
	case <-time.After(5 * time.Second):
		t.Fatal("upload still blocked after cancel")
	}

	got := collect(t, events)
	require.Len(t, got, eventBuffer)
	assert.Equal(t, Opened, got[0].Snapshot.State)
}

func TestPartHeaderEscapesLineBreaks(t *testing.T) {
	h := partHeader(file.NewMemory("evil\r\nX-Injected: 1.pdf", nil, "application/pdf"))

	assert.Equal(t,
		`form-data; name="evil%0D%0AX-Injected: 1.pdf"; filename="evil%0D%0AX-Injected: 1.pdf"`,
		h.Get("Content-Disposition"))
	assert.Empty(t, h.Get("X-Injected"))
}

func TestUploadFileNameWithLineBreaks(t *testing.T) {
	rec := &recorder{}
	srv := httptest.NewServer(rec.handler(http.StatusOK, "ok"))
	defer srv.Close()

	events := collect(t, NewUploader(nil).Stream(context.Background(), UploadRequest{
		URI:   srv.URL,
		Files: []file.Descriptor{file.NewMemory("a\nb.pdf", []byte("body"), "application/pdf")},
	}))
	require.True(t, last(events).OK())

	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.Len(t, rec.parts, 1)
	assert.Equal(t, "a%0Ab.pdf", rec.parts[0].fileName)
	assert.Equal(t, "application/pdf", rec.parts[0].contentType)
	assert.Equal(t, "body", rec.parts[0].data)
}

func TestMultipartContentLength(t *testing.T) {
	body := newMultipartBody([]file.Descriptor{
		file.NewMemory("a.pdf", []byte("first"), "application/pdf"),
		file.NewMemory("b.png", bytes.Repeat([]byte{1}, 4096), "image/png"),
	})

	rc := body.Reader()
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.EqualValues(t, len(data), body.length)
}

func TestMultipartEmptyFileList(t *testing.T) {
	body := newMultipartBody(nil)

	rc := body.Reader()
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.EqualValues(t, len(data), body.length)
}

func TestPercent(t *testing.T) {
	tests := []struct {
		sent, total int64
		want        int
	}{
		{0, 100, 0},
		{1, 3, 33},
		{2, 3, 67},
		{1, 200, 1},
		{999, 1000, 100},
		{1000, 1000, 100},
		{5, 0, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Percent(tt.sent, tt.total), "%d/%d", tt.sent, tt.total)
	}
}

func TestReadyStateString(t *testing.T) {
	assert.Equal(t, "Unsent", Unsent.String())
	assert.Equal(t, "HeadersReceived", HeadersReceived.String())
	assert.Equal(t, "Unknown", ReadyState(42).String())
	assert.Equal(t, "Progress", EventProgress.String())
}

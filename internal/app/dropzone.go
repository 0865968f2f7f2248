package app

import (
	"context"
	"maps"
	"slices"
	"strings"
	"sync"

	"fileupload/internal/config"
	"fileupload/internal/file"
	"fileupload/internal/transport"
	"fileupload/internal/validation"
)

// MsgURIRequired is recorded when files arrive but no upload URI is configured
const MsgURIRequired = "Upload URI is required"

// Callbacks are the notifications a DropZone emits. Any of them may be nil.
// All but OnAcceptedFiles run on the uploader's event goroutine.
type Callbacks struct {
	OnAcceptedFiles    func(files []file.Descriptor)
	OnProgress         func(percent int)
	OnReadyStateChange func(snapshot transport.Snapshot)
	OnResponse         func(response []byte)
}

// DropZone takes files picked or dropped by the user, validates them and
// uploads the accepted ones. Only one upload runs at a time.
type DropZone struct {
	mu        sync.Mutex
	cfg       config.UploadConfig
	validator *validation.Validator
	uploader  Uploader
	callbacks Callbacks

	warnings       []validation.Warning
	uploadingFiles []file.Descriptor
	inProgress     bool
	finished       chan struct{}
}

// NewDropZone creates a drop zone
func NewDropZone(cfg config.UploadConfig, validator *validation.Validator, uploader Uploader, callbacks Callbacks) *DropZone {
	return &DropZone{
		cfg:       cfg,
		validator: validator,
		uploader:  uploader,
		callbacks: callbacks,
	}
}

// HandleFiles processes a picked or dropped file list and reports whether an
// upload was started. It does nothing while an upload is in progress.
func (d *DropZone) HandleFiles(ctx context.Context, files []file.Descriptor) bool {
	d.mu.Lock()

	if d.inProgress {
		d.mu.Unlock()
		return false
	}

	d.warnings = nil

	if strings.TrimSpace(d.cfg.URI) == "" {
		d.warnings = append(d.warnings, validation.Warning{Message: MsgURIRequired})
		d.mu.Unlock()
		return false
	}

	if len(files) == 0 {
		d.mu.Unlock()
		return false
	}

	accepted, _ := d.validator.Partition(files)
	d.warnings = d.validator.Warnings()
	if len(accepted) == 0 {
		d.mu.Unlock()
		return false
	}

	d.uploadingFiles = accepted
	d.inProgress = true
	finished := make(chan struct{})
	d.finished = finished

	req := transport.UploadRequest{
		URI:     d.cfg.URI,
		Method:  d.cfg.Method,
		Headers: maps.Clone(d.cfg.Headers),
		Files:   slices.Clone(accepted),
	}
	d.mu.Unlock()

	if d.callbacks.OnAcceptedFiles != nil {
		d.callbacks.OnAcceptedFiles(slices.Clone(accepted))
	}

	done := d.uploader.Upload(ctx, req, d.monitorProgress, d.monitorReadyState)
	go func() {
		<-done
		close(finished)
	}()

	return true
}

func (d *DropZone) monitorProgress(percent int) {
	if d.callbacks.OnProgress != nil {
		d.callbacks.OnProgress(percent)
	}

	if percent >= 100 {
		d.setInProgress(false)
	}
}

func (d *DropZone) monitorReadyState(snapshot transport.Snapshot) {
	if d.callbacks.OnReadyStateChange != nil {
		d.callbacks.OnReadyStateChange(snapshot)
	}

	if len(snapshot.Response) > 0 && d.callbacks.OnResponse != nil {
		d.callbacks.OnResponse(snapshot.Response)
	}

	// A failed upload never reaches 100%.
	if snapshot.State == transport.Done {
		d.setInProgress(false)
	}
}

func (d *DropZone) setInProgress(v bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.inProgress = v
}

// InProgress reports whether an upload is running
func (d *DropZone) InProgress() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.inProgress
}

// Warnings returns the warnings of the last HandleFiles call
func (d *DropZone) Warnings() []validation.Warning {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.warnings)
}

// UploadingFiles returns the files of the most recent upload
func (d *DropZone) UploadingFiles() []file.Descriptor {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.uploadingFiles)
}

// Wait blocks until every event of the most recent upload has been
// delivered, or ctx ends. It returns immediately if no upload was started.
func (d *DropZone) Wait(ctx context.Context) error {
	d.mu.Lock()
	finished := d.finished
	d.mu.Unlock()

	if finished == nil {
		return nil
	}

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

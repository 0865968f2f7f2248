package app

import (
	"context"
	"errors"
	"fmt"

	"fileupload/internal/config"
	"fileupload/internal/file"
	"fileupload/internal/transport"
	"fileupload/internal/validation"
)

// ErrNothingUploaded is returned when no file passed validation
var ErrNothingUploaded = errors.New("no files were uploaded")

// UploadOptions configures one upload session
type UploadOptions struct {
	Paths []string // Required: files to upload, in order
}

// UploaderApp drives a drop zone from the command line
type UploaderApp struct {
	config      *config.Config
	fileService file.Service
	validator   *validation.Validator
	uploader    Uploader
	ui          ProgressUI
}

// NewUploaderApp creates a new uploader application
func NewUploaderApp(
	cfg *config.Config,
	fileService file.Service,
	validator *validation.Validator,
	uploader Uploader,
	ui ProgressUI,
) *UploaderApp {
	return &UploaderApp{
		config:      cfg,
		fileService: fileService,
		validator:   validator,
		uploader:    uploader,
		ui:          ui,
	}
}

// Run uploads the files named in opts and returns once the upload has
// finished. A non-2xx answer or a transport failure is returned as an error.
func (a *UploaderApp) Run(ctx context.Context, opts *UploadOptions) error {
	if len(opts.Paths) == 0 {
		return fmt.Errorf("at least one file is required")
	}

	files, err := a.fileService.OpenAll(opts.Paths)
	if err != nil {
		return err
	}

	var final transport.Snapshot
	dropZone := NewDropZone(a.config.Upload, a.validator, a.uploader, Callbacks{
		OnAcceptedFiles: a.ui.StartProgress,
		OnProgress:      a.ui.UpdateProgress,
		OnReadyStateChange: func(s transport.Snapshot) {
			if s.State == transport.Done {
				final = s
			}
		},
	})

	started := dropZone.HandleFiles(ctx, files)
	if warnings := dropZone.Warnings(); len(warnings) > 0 {
		a.ui.ShowWarnings(warnings)
	}
	if !started {
		return ErrNothingUploaded
	}
	a.ui.ShowMessage(fmt.Sprintf("Sending %d file(s) to %s", len(dropZone.UploadingFiles()), a.config.Upload.URI))

	if err := dropZone.Wait(ctx); err != nil {
		return err
	}

	a.ui.CompleteProgress()
	a.ui.ShowResponse(final)

	if final.Err != nil {
		return final.Err
	}
	if !final.OK() {
		return fmt.Errorf("upload rejected by server: %s", final.Status)
	}
	return nil
}

// CheckResult is the outcome of a validation-only pass
type CheckResult struct {
	Accepted []file.Descriptor
	Rejected []file.Descriptor
	Warnings []validation.Warning
}

// Check validates the files named in opts without uploading them
func (a *UploaderApp) Check(opts *UploadOptions) (*CheckResult, error) {
	files, err := a.fileService.OpenAll(opts.Paths)
	if err != nil {
		return nil, err
	}

	accepted, rejected := a.validator.Partition(files)
	return &CheckResult{
		Accepted: accepted,
		Rejected: rejected,
		Warnings: a.validator.Warnings(),
	}, nil
}

// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package app

import (
	"context"

	"fileupload/internal/file"
	"fileupload/internal/transport"
	"fileupload/internal/validation"
)

// Uploader starts an upload and reports its events through the callbacks
type Uploader interface {
	Upload(ctx context.Context, req transport.UploadRequest, onProgress transport.ProgressFunc, onReadyStateChange transport.ReadyStateFunc) <-chan struct{}
}

// ProgressUI renders an upload session to the user
type ProgressUI interface {
	// ShowMessage displays a message to the user
	ShowMessage(message string)

	// ShowWarnings displays the validation warnings of the last pass
	ShowWarnings(warnings []validation.Warning)

	// StartProgress announces the files about to be uploaded
	StartProgress(files []file.Descriptor)

	// UpdateProgress displays the upload percentage
	UpdateProgress(percent int)

	// CompleteProgress finishes the progress display
	CompleteProgress()

	// ShowResponse displays the final response of the upload
	ShowResponse(snapshot transport.Snapshot)
}

// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package file

import (
	"io"
)

// Service handles file operations for uploads and the receiving sink
type Service interface {
	// Open describes the file at filePath without reading it
	Open(filePath string) (Descriptor, error)

	// OpenAll describes every path, in order
	OpenAll(filePaths []string) ([]Descriptor, error)

	// CreateWriter creates a file for writing
	CreateWriter(dstPath string) (FileWriter, error)

	// Checksum returns the hex SHA-256 of the file at filePath
	Checksum(filePath string) (string, error)
}

// Descriptor is a file selected for upload. The module never creates or
// removes the underlying data.
type Descriptor interface {
	// Name returns the base file name
	Name() string

	// Size returns the file size in bytes, or -1 if unknown
	Size() int64

	// ContentType returns the MIME type used for the multipart part
	ContentType() string

	// Open returns a fresh reader over the file content
	Open() (io.ReadCloser, error)
}

// FileWriter represents a file opened for writing
type FileWriter interface {
	io.Writer
	io.Closer

	// Path returns the file path
	Path() string
}

// ContentTypeResolver maps a file name to a MIME type, returning "" when unknown
type ContentTypeResolver func(fileName string) string

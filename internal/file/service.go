// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package file

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
)

// DefaultContentType is used when no resolver knows the file type
const DefaultContentType = "application/octet-stream"

// fileService implements Service
type fileService struct {
	resolve ContentTypeResolver
}

// NewFileService creates a new file service. resolve may be nil.
func NewFileService(resolve ContentTypeResolver) Service {
	return &fileService{resolve: resolve}
}

// Open describes the file at filePath without reading it
func (f *fileService) Open(filePath string) (Descriptor, error) {
	stat, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}
	if stat.IsDir() {
		return nil, fmt.Errorf("%s is a directory", filePath)
	}

	return &diskFile{
		path:        filePath,
		name:        stat.Name(),
		size:        stat.Size(),
		contentType: f.contentType(stat.Name()),
	}, nil
}

// OpenAll describes every path, in order
func (f *fileService) OpenAll(filePaths []string) ([]Descriptor, error) {
	files := make([]Descriptor, 0, len(filePaths))
	for _, p := range filePaths {
		d, err := f.Open(p)
		if err != nil {
			return nil, err
		}
		files = append(files, d)
	}
	return files, nil
}

// CreateWriter creates a file for writing
func (f *fileService) CreateWriter(dstPath string) (FileWriter, error) {
	// Create directory if it doesn't exist
	dir := filepath.Dir(dstPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(dstPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	return &fileWriter{
		file: file,
		path: dstPath,
	}, nil
}

// Checksum calculates SHA-256 checksum of a file
func (f *fileService) Checksum(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file for checksum: %w", err)
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", fmt.Errorf("failed to read file for checksum: %w", err)
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}

func (f *fileService) contentType(name string) string {
	if f.resolve != nil {
		if ct := f.resolve(name); ct != "" {
			return ct
		}
	}
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return DefaultContentType
}

// NewMemory returns a descriptor over an in-memory buffer
func NewMemory(name string, data []byte, contentType string) Descriptor {
	if contentType == "" {
		contentType = DefaultContentType
	}
	return &memFile{name: name, data: data, contentType: contentType}
}

// diskFile implements Descriptor for a file on disk
type diskFile struct {
	path        string
	name        string
	size        int64
	contentType string
}

func (d *diskFile) Name() string        { return d.name }
func (d *diskFile) Size() int64         { return d.size }
func (d *diskFile) ContentType() string { return d.contentType }
func (d *diskFile) Path() string        { return d.path }

func (d *diskFile) Open() (io.ReadCloser, error) {
	file, err := os.Open(d.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// memFile implements Descriptor for in-memory content
type memFile struct {
	name        string
	data        []byte
	contentType string
}

func (m *memFile) Name() string        { return m.name }
func (m *memFile) Size() int64         { return int64(len(m.data)) }
func (m *memFile) ContentType() string { return m.contentType }

func (m *memFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(m.data)), nil
}

// fileWriter implements FileWriter interface
type fileWriter struct {
	file *os.File
	path string
}

func (f *fileWriter) Write(p []byte) (n int, err error) {
	return f.file.Write(p)
}

func (f *fileWriter) Close() error {
	return f.file.Close()
}

func (f *fileWriter) Path() string {
	return f.path
}

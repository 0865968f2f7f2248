// Package sink is a development endpoint that accepts the multipart uploads
// produced by the uploader, stores them on disk and answers with JSON.
package sink

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fileupload/internal/config"
	"fileupload/internal/file"
	"fileupload/pkg/types"
	"fileupload/pkg/utils"
)

var (
	ErrNoFiles     = errors.New("request contains no files")
	ErrBadFileName = errors.New("invalid file name")
)

// Server stores uploaded files under Dir/<id>/<name>
type Server struct {
	cfg      config.ServerConfig
	files    file.Service
	registry *prometheus.Registry
	metrics  *Metrics
}

// NewServer creates a sink with its own metrics registry
func NewServer(cfg config.ServerConfig, files file.Service) *Server {
	registry := prometheus.NewRegistry()
	return &Server{
		cfg:      cfg,
		files:    files,
		registry: registry,
		metrics:  NewMetrics(registry),
	}
}

// Handler returns the sink routes
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	base := strings.TrimSuffix(s.cfg.Path, "/")
	uploadPath := base
	if uploadPath == "" {
		uploadPath = "/"
	}
	r.Post(uploadPath, s.handleUpload)
	r.Put(uploadPath, s.handleUpload)
	r.Patch(uploadPath, s.handleUpload)
	r.Get(base+"/{id}", s.handleShow)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	return r
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if s.cfg.MaxBodySize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodySize)
	}

	id, err := utils.GenerateCode(utils.UploadIDLength)
	if err != nil {
		s.fail(w, http.StatusInternalServerError, "failed to allocate upload id", err)
		return
	}

	stored, err := s.store(r, id)
	if err != nil {
		status := http.StatusInternalServerError
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			status = http.StatusRequestEntityTooLarge
		case errors.Is(err, http.ErrNotMultipart), errors.Is(err, http.ErrMissingBoundary),
			errors.Is(err, ErrNoFiles), errors.Is(err, ErrBadFileName):
			status = http.StatusBadRequest
		}
		_ = os.RemoveAll(filepath.Join(s.cfg.Dir, id))
		s.fail(w, status, "upload failed", err)
		return
	}

	s.metrics.observeRequest("stored")
	log.Printf("Stored upload %s: %d file(s)", id, len(stored))
	s.writeJSON(w, http.StatusOK, types.UploadResult{ID: id, Files: stored})
}

// store streams every file part of r to disk
func (s *Server) store(r *http.Request, id string) ([]types.FileMetadata, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, err
	}

	var stored []types.FileMetadata
	taken := make(map[string]bool)
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read part: %w", err)
		}
		if part.FileName() == "" {
			part.Close()
			continue
		}

		name, err := storedName(part.FileName(), taken)
		if err != nil {
			part.Close()
			return nil, err
		}
		meta, err := s.storePart(name, part.Header.Get("Content-Type"), part, id)
		part.Close()
		if err != nil {
			return nil, err
		}
		stored = append(stored, meta)
	}

	if len(stored) == 0 {
		return nil, ErrNoFiles
	}
	return stored, nil
}

// storedName strips directories from a part's file name and, when an
// earlier part of the same upload already took that name, appends " (n)"
// before the extension.
func storedName(fileName string, taken map[string]bool) (string, error) {
	name := filepath.Base(fileName)
	if name == "." || name == ".." || name == string(filepath.Separator) {
		return "", fmt.Errorf("%w: %q", ErrBadFileName, name)
	}

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	candidate := name
	for n := 1; taken[candidate]; n++ {
		candidate = fmt.Sprintf("%s (%d)%s", stem, n, ext)
	}
	taken[candidate] = true
	return candidate, nil
}

func (s *Server) storePart(name, contentType string, src io.Reader, id string) (types.FileMetadata, error) {
	dst := filepath.Join(s.cfg.Dir, id, name)
	writer, err := s.files.CreateWriter(dst)
	if err != nil {
		return types.FileMetadata{}, err
	}

	n, err := io.Copy(writer, src)
	if closeErr := writer.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return types.FileMetadata{}, fmt.Errorf("failed to write %s: %w", name, err)
	}

	checksum, err := s.files.Checksum(dst)
	if err != nil {
		return types.FileMetadata{}, err
	}

	s.metrics.observeFile(n)
	if contentType == "" {
		contentType = file.DefaultContentType
	}
	return types.FileMetadata{Name: name, Size: n, MimeType: contentType, Checksum: checksum}, nil
}

func (s *Server) handleShow(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !utils.IsValidCode(id) {
		s.fail(w, http.StatusBadRequest, "invalid upload id", nil)
		return
	}

	dir := filepath.Join(s.cfg.Dir, id)
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		s.fail(w, http.StatusNotFound, "upload not found", nil)
		return
	}
	if err != nil {
		s.fail(w, http.StatusInternalServerError, "failed to list upload", err)
		return
	}

	result := types.UploadResult{ID: id}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			s.fail(w, http.StatusInternalServerError, "failed to list upload", err)
			return
		}
		checksum, err := s.files.Checksum(filepath.Join(dir, entry.Name()))
		if err != nil {
			s.fail(w, http.StatusInternalServerError, "failed to list upload", err)
			return
		}
		contentType := mime.TypeByExtension(filepath.Ext(entry.Name()))
		if contentType == "" {
			contentType = file.DefaultContentType
		}
		result.Files = append(result.Files, types.FileMetadata{
			Name:     entry.Name(),
			Size:     info.Size(),
			MimeType: contentType,
			Checksum: checksum,
		})
	}

	s.writeJSON(w, http.StatusOK, result)
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func (s *Server) fail(w http.ResponseWriter, status int, message string, err error) {
	resp := errorResponse{Error: message}
	if err != nil {
		resp.Message = err.Error()
		log.Printf("%s: %v", message, err)
	}
	if status != http.StatusNotFound {
		s.metrics.observeRequest(http.StatusText(status))
	}
	s.writeJSON(w, status, resp)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := utils.EncodeJSON(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

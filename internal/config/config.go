package config

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/hashicorp/go-multierror"

	"fileupload/internal/validation"
)

var (
	ErrInvalidMethod      = errors.New("upload method must be POST, PUT or PATCH")
	ErrInvalidMaxFileSize = errors.New("max file size must be greater than 0")
	ErrInvalidUploadURI   = errors.New("upload URI must be an absolute http(s) URL")
	ErrNoExtensions       = errors.New("at least one accepted extension must be configured")
	ErrEmptyExtension     = errors.New("accepted extensions must not be empty")
	ErrInvalidServerPath  = errors.New("server path must start with '/'")
	ErrInvalidServerAddr  = errors.New("server address must be set")
)

// DefaultMaxFileSize is the size limit applied when none is configured
const DefaultMaxFileSize int64 = 10 * 1000 * 1000

// Config holds all application configuration
type Config struct {
	Upload     UploadConfig               `mapstructure:"upload" json:"upload"`
	Extensions []validation.ExtensionRule `mapstructure:"extensions" json:"extensions"`
	Server     ServerConfig               `mapstructure:"server" json:"server"`
}

// UploadConfig is the per-widget upload configuration. An empty URI is not a
// configuration error: it surfaces as a warning when files are handled.
type UploadConfig struct {
	URI           string            `mapstructure:"uri" json:"uri"`
	Method        string            `mapstructure:"method" json:"method"`
	Headers       map[string]string `mapstructure:"headers" json:"headers"`
	AllowMultiple bool              `mapstructure:"allow_multiple" json:"allow_multiple"`
	MaxFileSize   int64             `mapstructure:"max_file_size" json:"max_file_size"`
}

// ServerConfig holds the receiving sink configuration
type ServerConfig struct {
	Addr        string `mapstructure:"addr" json:"addr"`
	Dir         string `mapstructure:"dir" json:"dir"`
	Path        string `mapstructure:"path" json:"path"`
	MaxBodySize int64  `mapstructure:"max_body_size" json:"max_body_size"`
}

// NewDefaultConfig returns a configuration with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Upload: UploadConfig{
			URI:           "",
			Method:        http.MethodPost,
			Headers:       map[string]string{},
			AllowMultiple: false,
			MaxFileSize:   DefaultMaxFileSize,
		},
		Extensions: append([]validation.ExtensionRule(nil), validation.DefaultExtensions...),
		Server: ServerConfig{
			Addr:        "127.0.0.1:8080",
			Dir:         "uploads",
			Path:        "/upload",
			MaxBodySize: 100 << 20, // 100 MB
		},
	}
}

// Validate ensures the configuration is valid, reporting every problem found
func (c *Config) Validate() error {
	var result *multierror.Error

	switch strings.ToUpper(c.Upload.Method) {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
	default:
		result = multierror.Append(result, fmt.Errorf("%w: %q", ErrInvalidMethod, c.Upload.Method))
	}
	if c.Upload.MaxFileSize <= 0 {
		result = multierror.Append(result, ErrInvalidMaxFileSize)
	}
	if c.Upload.URI != "" {
		u, err := url.Parse(c.Upload.URI)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			result = multierror.Append(result, fmt.Errorf("%w: %q", ErrInvalidUploadURI, c.Upload.URI))
		}
	}
	if len(c.Extensions) == 0 {
		result = multierror.Append(result, ErrNoExtensions)
	}
	for i, rule := range c.Extensions {
		if strings.TrimSpace(rule.Ext) == "" {
			result = multierror.Append(result, fmt.Errorf("%w (entry %d)", ErrEmptyExtension, i))
		}
	}
	if c.Server.Addr == "" {
		result = multierror.Append(result, ErrInvalidServerAddr)
	}
	if !strings.HasPrefix(c.Server.Path, "/") {
		result = multierror.Append(result, fmt.Errorf("%w: %q", ErrInvalidServerPath, c.Server.Path))
	}

	return result.ErrorOrNil()
}

// ValidatorOptions returns the validation options described by c
func (c *Config) ValidatorOptions() []validation.Option {
	return []validation.Option{
		validation.WithExtensions(c.Extensions),
		validation.WithMaxFileSize(c.Upload.MaxFileSize),
		validation.WithAllowMultiple(c.Upload.AllowMultiple),
	}
}

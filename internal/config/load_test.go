package config

import (
	"bytes"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fileupload/internal/validation"
)

func readYAML(t *testing.T, doc string) *viper.Viper {
	t.Helper()
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(bytes.NewBufferString(doc)))
	return v
}

func TestLoadOverlaysDefaults(t *testing.T) {
	v := readYAML(t, `
upload:
  uri: https://files.example.com/upload
  method: PUT
  allow_multiple: true
  headers:
    authorization: Bearer abc
extensions:
  - ext: csv
    mime: text/csv
server:
  dir: /tmp/incoming
`)

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "https://files.example.com/upload", cfg.Upload.URI)
	assert.Equal(t, "PUT", cfg.Upload.Method)
	assert.True(t, cfg.Upload.AllowMultiple)
	assert.Equal(t, "Bearer abc", cfg.Upload.Headers["authorization"])
	assert.Equal(t, DefaultMaxFileSize, cfg.Upload.MaxFileSize)
	assert.Equal(t, []validation.ExtensionRule{{Ext: "csv", MIME: "text/csv"}}, cfg.Extensions)
	assert.Equal(t, "/tmp/incoming", cfg.Server.Dir)
	assert.Equal(t, "/upload", cfg.Server.Path)
}

func TestLoadEmpty(t *testing.T) {
	cfg, err := Load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, NewDefaultConfig(), cfg)
}

func TestLoadRejectsInvalid(t *testing.T) {
	v := readYAML(t, `
upload:
  max_file_size: -5
`)

	_, err := Load(v)
	assert.ErrorIs(t, err, ErrInvalidMaxFileSize)
}

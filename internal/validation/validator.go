// Package validation decides which selected files may be uploaded and
// records human-readable warnings for the ones that may not.
package validation

import (
	"slices"

	"fileupload/internal/file"
)

// Warning messages recorded by the validator
const (
	MsgExtensionRequired = "A file extension is required"
	MsgSizeLimit         = "File exceeds size limit"
	MsgOnlyOneFile       = "Only one file is allowed"
	MsgNoValidFiles      = "There were no valid files"
)

// Warning is a non-fatal validation message and the files it concerns
type Warning struct {
	Message string
	Files   []file.Descriptor
}

// Validator checks files against an extension allow-list and a size limit.
// The warning list belongs to the current pass; a Validator must not be
// used by two passes at once.
type Validator struct {
	rules         []ExtensionRule
	maxFileSize   int64
	allowMultiple bool
	warnings      []Warning
}

// Option configures a Validator
type Option func(*Validator)

// WithExtensions replaces the default allow-list
func WithExtensions(rules []ExtensionRule) Option {
	return func(v *Validator) {
		v.rules = slices.Clone(rules)
	}
}

// WithMaxFileSize sets the largest accepted file size in bytes
func WithMaxFileSize(size int64) Option {
	return func(v *Validator) {
		v.maxFileSize = size
	}
}

// WithAllowMultiple enables multiple-file mode
func WithAllowMultiple(allow bool) Option {
	return func(v *Validator) {
		v.allowMultiple = allow
	}
}

// NewValidator creates a validator using DefaultExtensions, single-file mode
// and no practical size limit unless overridden by opts.
func NewValidator(opts ...Option) *Validator {
	v := &Validator{
		rules:       slices.Clone(DefaultExtensions),
		maxFileSize: 1<<63 - 1,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// ValidateExtension reports whether fileName ends in an allowed extension
func (v *Validator) ValidateExtension(fileName string) bool {
	ext := FileExtension(fileName)
	if ext == "" {
		v.warn(MsgExtensionRequired)
		return false
	}
	_, ok := v.lookup(ext)
	return ok
}

// ValidateSize reports whether f is no larger than maxSize
func (v *Validator) ValidateSize(f file.Descriptor, maxSize int64) bool {
	if f.Size() > maxSize {
		v.warn(MsgSizeLimit, f)
		return false
	}
	return true
}

// ValidateFile applies both checks. Both always run so every applicable
// warning is recorded.
func (v *Validator) ValidateFile(f file.Descriptor) bool {
	extOK := v.ValidateExtension(f.Name())
	sizeOK := v.ValidateSize(f, v.maxFileSize)
	return extOK && sizeOK
}

// Partition starts a new validation pass and splits files into accepted and
// rejected sets, preserving input order.
func (v *Validator) Partition(files []file.Descriptor) (accepted, rejected []file.Descriptor) {
	v.Reset()

	if len(files) == 0 {
		return nil, nil
	}

	if len(files) > 1 && !v.allowMultiple {
		v.warn(MsgOnlyOneFile, files...)
		return nil, nil
	}

	for _, f := range files {
		if v.ValidateFile(f) {
			accepted = append(accepted, f)
		} else {
			rejected = append(rejected, f)
		}
	}

	if len(accepted) == 0 {
		v.warn(MsgNoValidFiles, rejected...)
	}

	return accepted, rejected
}

// Reset clears the warnings of the previous pass
func (v *Validator) Reset() {
	v.warnings = nil
}

// Warnings returns a copy of the warnings recorded in the current pass
func (v *Validator) Warnings() []Warning {
	return slices.Clone(v.warnings)
}

// Rule returns the allow-list entry matching fileName's extension
func (v *Validator) Rule(fileName string) (ExtensionRule, bool) {
	ext := FileExtension(fileName)
	if ext == "" {
		return ExtensionRule{}, false
	}
	return v.lookup(ext)
}

// MimeType returns the configured MIME type for fileName, or ""
func (v *Validator) MimeType(fileName string) string {
	rule, _ := v.Rule(fileName)
	return rule.MIME
}

// Extensions returns a copy of the allow-list
func (v *Validator) Extensions() []ExtensionRule {
	return slices.Clone(v.rules)
}

// MaxFileSize returns the configured size limit
func (v *Validator) MaxFileSize() int64 {
	return v.maxFileSize
}

// AllowMultiple reports whether multiple-file mode is on
func (v *Validator) AllowMultiple() bool {
	return v.allowMultiple
}

func (v *Validator) lookup(ext string) (ExtensionRule, bool) {
	ext = normalizeExt(ext)
	for _, r := range v.rules {
		if normalizeExt(r.Ext) == ext {
			return r, true
		}
	}
	return ExtensionRule{}, false
}

func (v *Validator) warn(msg string, files ...file.Descriptor) {
	v.warnings = append(v.warnings, Warning{Message: msg, Files: slices.Clone(files)})
}

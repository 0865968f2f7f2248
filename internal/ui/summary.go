package ui

import (
	"fmt"
	"strings"

	"fileupload/internal/file"
	"fileupload/internal/transport"
	"fileupload/internal/validation"
	"fileupload/pkg/types"
	"fileupload/pkg/utils"
)

// maxRawResponse bounds how much of a non-JSON response body is shown
const maxRawResponse = 512

// WarningLines renders validation warnings, one message per line followed
// by the files it concerns.
func WarningLines(warnings []validation.Warning) []string {
	var lines []string
	for _, w := range warnings {
		lines = append(lines, w.Message)
		for _, f := range w.Files {
			lines = append(lines, "  - "+FileLine(f))
		}
	}
	return lines
}

// FileLine renders a file name with its size
func FileLine(f file.Descriptor) string {
	if f.Size() < 0 {
		return f.Name()
	}
	return fmt.Sprintf("%s (%s)", f.Name(), utils.FormatFileSize(f.Size()))
}

// TotalSize sums the known sizes of files
func TotalSize(files []file.Descriptor) int64 {
	var total int64
	for _, f := range files {
		if f.Size() > 0 {
			total += f.Size()
		}
	}
	return total
}

// ResponseLines renders the final snapshot of an upload. A sink response is
// listed file by file; any other body is shown raw.
func ResponseLines(s transport.Snapshot) []string {
	if s.Err != nil {
		return []string{fmt.Sprintf("Upload failed: %v", s.Err)}
	}

	lines := []string{fmt.Sprintf("Server answered %s", s.Status)}
	if len(s.Response) == 0 {
		return lines
	}

	if result, err := utils.DecodeJSON[types.UploadResult](s.Response); err == nil && result.ID != "" {
		lines = append(lines, fmt.Sprintf("Upload ID: %s", result.ID))
		for _, f := range result.Files {
			lines = append(lines, fmt.Sprintf("+ %s %s sha256:%s", f.Name, utils.FormatFileSize(f.Size), f.Checksum))
		}
		return lines
	}

	body := strings.TrimSpace(string(s.Response))
	if len(body) > maxRawResponse {
		body = body[:maxRawResponse] + "..."
	}
	return append(lines, body)
}

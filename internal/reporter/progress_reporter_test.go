package reporter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"fileupload/internal/file"
	"fileupload/internal/transport"
	"fileupload/internal/validation"
)

func progressLines(out string) []string {
	var lines []string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "Progress: ") {
			lines = append(lines, line)
		}
	}
	return lines
}

func TestUpdateProgressSteps(t *testing.T) {
	var out bytes.Buffer
	pr := NewProgressReporter(&out, 25)

	for _, p := range []int{0, 3, 10, 26, 26, 49, 50, 99, 100, 100} {
		pr.UpdateProgress(p)
	}

	assert.Equal(t, []string{
		"Progress: 0%",
		"Progress: 26%",
		"Progress: 50%",
		"Progress: 99%",
		"Progress: 100%",
	}, progressLines(out.String()))
}

func TestDefaultStep(t *testing.T) {
	pr := NewProgressReporter(&bytes.Buffer{}, 0)
	assert.Equal(t, DefaultStep, pr.step)
}

func TestReporterSession(t *testing.T) {
	var out bytes.Buffer
	pr := NewProgressReporter(&out, DefaultStep)

	pr.ShowWarnings([]validation.Warning{{Message: validation.MsgExtensionRequired}})
	pr.StartProgress([]file.Descriptor{
		file.NewMemory("a.pdf", make([]byte, 1000), ""),
		file.NewMemory("b.png", make([]byte, 500), ""),
	})
	pr.UpdateProgress(100)
	pr.CompleteProgress()
	pr.ShowResponse(transport.Snapshot{State: transport.Done, StatusCode: 204, Status: "204 No Content"})

	text := out.String()
	assert.Contains(t, text, "warning: A file extension is required\n")
	assert.Contains(t, text, "Starting upload: 2 file(s), 1.500 KB\n")
	assert.Contains(t, text, "  a.pdf (1.000 KB)\n")
	assert.Contains(t, text, "Progress: 100%\n")
	assert.Contains(t, text, "Server answered 204 No Content\n")
	assert.Contains(t, text, "Duration: ")
}

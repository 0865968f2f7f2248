package reporter

import (
	"fmt"
	"io"
	"log"
	"time"

	"fileupload/internal/file"
	"fileupload/internal/transport"
	"fileupload/internal/ui"
	"fileupload/internal/validation"
	"fileupload/pkg/utils"
)

// DefaultStep is the percentage interval between two progress lines
const DefaultStep = 10

// ProgressReporter prints an upload session as plain lines, for output that
// is not a terminal
type ProgressReporter struct {
	out        io.Writer
	step       int
	last       int
	totalBytes int64
	startTime  time.Time
}

// NewProgressReporter creates a reporter writing to out. A step below 1
// falls back to DefaultStep.
func NewProgressReporter(out io.Writer, step int) *ProgressReporter {
	if step < 1 {
		step = DefaultStep
	}
	return &ProgressReporter{out: out, step: step, last: -1}
}

// ShowMessage displays a message to the user
func (pr *ProgressReporter) ShowMessage(message string) {
	log.Printf("%s\n", message)
}

// ShowWarnings prints one line per warning and file
func (pr *ProgressReporter) ShowWarnings(warnings []validation.Warning) {
	for _, line := range ui.WarningLines(warnings) {
		fmt.Fprintf(pr.out, "warning: %s\n", line)
	}
}

// StartProgress prints the files about to be uploaded
func (pr *ProgressReporter) StartProgress(files []file.Descriptor) {
	pr.totalBytes = ui.TotalSize(files)
	pr.startTime = time.Now()
	pr.last = -1

	fmt.Fprintf(pr.out, "Starting upload: %d file(s), %s\n", len(files), utils.FormatFileSize(pr.totalBytes))
	for _, f := range files {
		fmt.Fprintf(pr.out, "  %s\n", ui.FileLine(f))
	}
}

// UpdateProgress prints a line each time percent crosses a step boundary.
// 100 is always printed once.
func (pr *ProgressReporter) UpdateProgress(percent int) {
	if percent <= pr.last {
		return
	}
	if percent < 100 && pr.last >= 0 && percent/pr.step == pr.last/pr.step {
		return
	}
	pr.last = percent
	fmt.Fprintf(pr.out, "Progress: %d%%\n", percent)
}

// CompleteProgress is a no-op; every line is already final
func (pr *ProgressReporter) CompleteProgress() {}

// ShowResponse prints the transfer summary
func (pr *ProgressReporter) ShowResponse(snapshot transport.Snapshot) {
	fmt.Fprintln(pr.out, "=========================================================")
	for _, line := range ui.ResponseLines(snapshot) {
		fmt.Fprintln(pr.out, line)
	}
	if !pr.startTime.IsZero() {
		fmt.Fprintf(pr.out, "Duration: %.2f seconds\n", time.Since(pr.startTime).Seconds())
	}
	fmt.Fprintln(pr.out, "=========================================================")
}

package ui

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"fileupload/internal/file"
	"fileupload/internal/transport"
	"fileupload/internal/validation"
	"fileupload/pkg/utils"
)

var (
	warnColor    = color.New(color.FgYellow)
	successColor = color.New(color.FgGreen)
	failColor    = color.New(color.FgRed)
)

// ConsoleUI renders an upload session with a progress bar
type ConsoleUI struct {
	out        io.Writer
	bar        *progressbar.ProgressBar
	files      []file.Descriptor
	totalBytes int64
	startTime  time.Time
}

// NewConsoleUI creates a console UI writing to out
func NewConsoleUI(out io.Writer) *ConsoleUI {
	return &ConsoleUI{out: out}
}

// ShowMessage displays a message to the user
func (c *ConsoleUI) ShowMessage(message string) {
	log.Printf("%s\n", message)
}

// ShowWarnings displays validation warnings in colour
func (c *ConsoleUI) ShowWarnings(warnings []validation.Warning) {
	for _, w := range warnings {
		warnColor.Fprintf(c.out, "! %s\n", w.Message)
		for _, f := range w.Files {
			fmt.Fprintf(c.out, "    %s\n", FileLine(f))
		}
	}
}

// StartProgress lists the accepted files and prepares the progress bar
func (c *ConsoleUI) StartProgress(files []file.Descriptor) {
	c.files = files
	c.totalBytes = TotalSize(files)
	c.startTime = time.Now()

	fmt.Fprintf(c.out, "Uploading %d file(s), %s\n", len(files), utils.FormatFileSize(c.totalBytes))
	for _, f := range files {
		fmt.Fprintf(c.out, "  %s\n", FileLine(f))
	}

	c.initProgressBar()
}

// initProgressBar initializes the progress bar with default settings
func (c *ConsoleUI) initProgressBar() {
	if c.bar != nil {
		return
	}

	c.bar = progressbar.NewOptions(100,
		progressbar.OptionSetDescription("Uploading"),
		progressbar.OptionSetWriter(c.out),
		progressbar.OptionSetWidth(50),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionUseANSICodes(true),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(false),
	)
}

// UpdateProgress moves the bar to percent
func (c *ConsoleUI) UpdateProgress(percent int) {
	c.initProgressBar()

	_ = c.bar.Set(percent)
	if c.totalBytes > 0 {
		sent := c.totalBytes * int64(percent) / 100
		c.bar.Describe(fmt.Sprintf("Uploading (%s/%s)",
			utils.FormatFileSize(sent), utils.FormatFileSize(c.totalBytes)))
	}
}

// CompleteProgress marks the progress as complete
func (c *ConsoleUI) CompleteProgress() {
	if c.bar == nil {
		return
	}
	_ = c.bar.Finish()
}

// ShowResponse displays a summary of the finished upload
func (c *ConsoleUI) ShowResponse(snapshot transport.Snapshot) {
	lines := ResponseLines(snapshot)

	fmt.Fprintf(c.out, "\n=============================================\n")
	if snapshot.OK() {
		successColor.Fprintln(c.out, lines[0])
	} else {
		failColor.Fprintln(c.out, lines[0])
	}
	for _, line := range lines[1:] {
		fmt.Fprintln(c.out, line)
	}
	if !c.startTime.IsZero() {
		fmt.Fprintf(c.out, "+ Transfer time: %s\n", time.Since(c.startTime).Round(time.Millisecond))
	}
	fmt.Fprintf(c.out, "=============================================\n")
}

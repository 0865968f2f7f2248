package cmd

import (
	"fmt"
	"io"
	"os"

	"fileupload/internal/app"
	"fileupload/internal/ui"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check [files...]",
	Short: "Validate files without uploading them",
	Long: `Run the same extension and size checks the upload command runs, print the
accepted files and every warning, and exit non-zero when no file would be
uploaded. Upload flags from the config file (max_file_size, allow_multiple)
apply.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := collectPaths(args, os.Stdin)
		if err != nil {
			return err
		}

		validator, fileService, uploader := createServices()
		checker := app.NewUploaderApp(cfg, fileService, validator, uploader, nil)
		result, err := checker.Check(&app.UploadOptions{Paths: paths})
		if err != nil {
			return err
		}

		printCheckResult(cmd.OutOrStdout(), result)
		if len(result.Accepted) == 0 {
			return app.ErrNothingUploaded
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

// printCheckResult prints accepted files in green and warnings in yellow
func printCheckResult(out io.Writer, result *app.CheckResult) {
	accepted := color.New(color.FgGreen)
	warning := color.New(color.FgYellow)

	for _, f := range result.Accepted {
		accepted.Fprintf(out, "ok   %s\n", ui.FileLine(f))
	}
	for _, line := range ui.WarningLines(result.Warnings) {
		warning.Fprintf(out, "warn %s\n", line)
	}
	fmt.Fprintf(out, "%d accepted, %d rejected\n", len(result.Accepted), len(result.Rejected))
}

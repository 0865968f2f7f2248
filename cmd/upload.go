package cmd

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"fileupload/internal/app"
	"fileupload/internal/config"
	"fileupload/internal/reporter"
	"fileupload/internal/ui"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type UploadFlags struct {
	URI           string
	Method        string
	Headers       map[string]string
	AllowMultiple bool
	MaxFileSize   int64
	Plain         bool
}

var uploadFlags UploadFlags

// uploadCmd represents the upload command
var uploadCmd = &cobra.Command{
	Use:   "upload [files...]",
	Short: "Validate files and upload them as one multipart request",
	Long: `Upload files to an HTTP endpoint. This will:

1. Check every file against the extension allow-list and size limit
2. Print a warning for each rejected file
3. Send the accepted files as one multipart/form-data request
4. Show upload progress and the server response

File paths are taken from the arguments, or read one per line from standard
input when nothing is given and input is piped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := collectPaths(args, os.Stdin)
		if err != nil {
			return err
		}
		return runUploaderApp(paths, &uploadFlags)
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd)

	defaults := config.NewDefaultConfig().Upload

	// Define flags with struct binding
	uploadCmd.Flags().StringVarP(&uploadFlags.URI, "uri", "u", "", "Upload URI (required unless set in config)")
	uploadCmd.Flags().StringVarP(&uploadFlags.Method, "method", "X", defaults.Method, "HTTP method (POST, PUT or PATCH)")
	uploadCmd.Flags().StringToStringVarP(&uploadFlags.Headers, "header", "H", nil, "Request header as key=value (repeatable)")
	uploadCmd.Flags().BoolVarP(&uploadFlags.AllowMultiple, "multiple", "m", false, "Allow more than one file per upload")
	uploadCmd.Flags().Int64Var(&uploadFlags.MaxFileSize, "max-size", defaults.MaxFileSize, "Maximum size of one file in bytes")
	uploadCmd.Flags().BoolVar(&uploadFlags.Plain, "plain", false, "Print plain progress lines instead of a progress bar")

	// Bind flags to viper for config file and environment variable support
	viper.BindPFlag("upload.uri", uploadCmd.Flags().Lookup("uri"))
	viper.BindPFlag("upload.method", uploadCmd.Flags().Lookup("method"))
	viper.BindPFlag("upload.headers", uploadCmd.Flags().Lookup("header"))
	viper.BindPFlag("upload.allow_multiple", uploadCmd.Flags().Lookup("multiple"))
	viper.BindPFlag("upload.max_file_size", uploadCmd.Flags().Lookup("max-size"))
}

// collectPaths returns args, or the non-empty lines of in when args is
// empty and in is not a terminal
func collectPaths(args []string, in *os.File) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if isatty.IsTerminal(in.Fd()) || isatty.IsCygwinTerminal(in.Fd()) {
		return nil, fmt.Errorf("at least one file is required")
	}
	return readPaths(in)
}

// readPaths reads one path per line, skipping blank lines
func readPaths(r io.Reader) ([]string, error) {
	var paths []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			paths = append(paths, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read file list: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("at least one file is required")
	}
	return paths, nil
}

// newProgressUI picks a progress bar for terminals and plain lines otherwise
func newProgressUI(plain bool, out *os.File) app.ProgressUI {
	if plain || !isatty.IsTerminal(out.Fd()) {
		return reporter.NewProgressReporter(out, reporter.DefaultStep)
	}
	return ui.NewConsoleUI(out)
}

// runUploaderApp creates and runs the uploader application
func runUploaderApp(paths []string, flags *UploadFlags) error {
	ctx := createContext()
	validator, fileService, uploader := createServices()

	log.Printf("Uploading %d path(s) to %s", len(paths), cfg.Upload.URI)

	// Create upload options from arguments
	opts := &app.UploadOptions{
		Paths: paths,
	}

	uploaderApp := app.NewUploaderApp(cfg, fileService, validator, uploader, newProgressUI(flags.Plain, os.Stdout))
	return uploaderApp.Run(ctx, opts)
}

package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"fileupload/internal/validation"
	"fileupload/pkg/utils"

	"github.com/spf13/cobra"
)

// extensionsCmd represents the extensions command
var extensionsCmd = &cobra.Command{
	Use:   "extensions",
	Short: "List the accepted file extensions and their MIME types",
	RunE: func(cmd *cobra.Command, args []string) error {
		validator, _, _ := createServices()
		return printExtensions(cmd.OutOrStdout(), validator)
	},
}

func init() {
	rootCmd.AddCommand(extensionsCmd)
}

func printExtensions(out io.Writer, validator *validation.Validator) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "EXTENSION\tMIME TYPE")
	for _, rule := range validator.Extensions() {
		fmt.Fprintf(w, ".%s\t%s\n", rule.Ext, rule.MIME)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	multiple := "single file"
	if validator.AllowMultiple() {
		multiple = "multiple files"
	}
	fmt.Fprintf(out, "\nMax file size: %s, %s per upload\n", utils.FormatFileSize(validator.MaxFileSize()), multiple)
	return nil
}

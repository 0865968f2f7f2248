package cmd

import (
	"log"

	"fileupload/internal/app"
	"fileupload/internal/config"
	"fileupload/internal/file"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type ServeFlags struct {
	Addr string
	Dir  string
	Path string
}

var serveFlags ServeFlags

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a local endpoint that accepts multipart uploads",
	Long: `Run an HTTP endpoint that accepts the uploads this tool produces. This will:

1. Listen on --addr and accept POST, PUT or PATCH on --path
2. Store each uploaded part under --dir/<id>/<file name>
3. Answer with the upload id, file sizes and SHA-256 checksums
4. Serve GET <path>/<id> for stored uploads and /metrics for Prometheus`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log.Printf("Starting upload sink on %s", cfg.Server.Addr)
		return runServerApp()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	defaults := config.NewDefaultConfig().Server

	// Define flags with struct binding
	serveCmd.Flags().StringVarP(&serveFlags.Addr, "addr", "a", defaults.Addr, "Listen address")
	serveCmd.Flags().StringVarP(&serveFlags.Dir, "dir", "d", defaults.Dir, "Directory to store uploads in")
	serveCmd.Flags().StringVarP(&serveFlags.Path, "path", "p", defaults.Path, "URL path accepting uploads")

	// Bind flags to viper for config file and environment variable support
	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	viper.BindPFlag("server.dir", serveCmd.Flags().Lookup("dir"))
	viper.BindPFlag("server.path", serveCmd.Flags().Lookup("path"))
}

// runServerApp creates and runs the sink application
func runServerApp() error {
	ctx := createContext()

	serverApp := app.NewServerApp(cfg, file.NewFileService(nil))
	return serverApp.Run(ctx)
}

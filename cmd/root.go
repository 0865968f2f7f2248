package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"fileupload/internal/config"
	"fileupload/internal/file"
	"fileupload/internal/transport"
	"fileupload/internal/validation"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfg     *config.Config
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fileupload",
	Short: "fileupload - validate and upload files over HTTP multipart",
	Long: `fileupload is a command-line drop zone. Files named on the command line are
checked against an extension allow-list and a size limit, then sent to an
upload URI as a single multipart/form-data request with live progress.

Usage:
  Upload files:         fileupload upload --uri https://host/upload a.pdf b.png
  Check files only:     fileupload check a.pdf b.png
  List extensions:      fileupload extensions
  Run a local receiver: fileupload serve --dir ./uploads`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize viper configuration
		initConfig()

		loaded, err := config.Load(viper.GetViper())
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

func init() {
	// Add global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.fileupload.yaml)")

	// Set up viper environment variable support, e.g. FILEUPLOAD_UPLOAD_URI
	viper.SetEnvPrefix("FILEUPLOAD")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			log.Printf("Warning: Could not find home directory: %v", err)
			return
		}

		// Search config in home directory with name ".fileupload" (without extension)
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".fileupload")
	}

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil {
		log.Printf("Using config file: %s", viper.ConfigFileUsed())
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// createContext creates a context that cancels on interrupt signals
func createContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	// Setup signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	return ctx
}

// createServices creates and wires up the services shared by the commands
func createServices() (*validation.Validator, file.Service, *transport.Uploader) {
	validator := validation.NewValidator(cfg.ValidatorOptions()...)
	fileService := file.NewFileService(validator.MimeType)
	uploader := transport.NewUploader(nil)

	return validator, fileService, uploader
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/entrhq/screenboard/pkg/config"
	"github.com/entrhq/screenboard/pkg/logging"
	"github.com/entrhq/screenboard/pkg/pipeline"
)

var runFlags struct {
	configPath string
	baseURL    string
	outDir     string
	headed     bool
	debug      bool
	only       string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a batch capture over the configured matrix",
	RunE:  runBatch,
}

func init() {
	runCmd.Flags().StringVarP(&runFlags.configPath, "config", "c", "", "config overlay file (default: screenboard.json if present)")
	runCmd.Flags().StringVar(&runFlags.baseURL, "base-url", "", "override the app base URL")
	runCmd.Flags().StringVarP(&runFlags.outDir, "out", "o", "", "override the output directory")
	runCmd.Flags().BoolVar(&runFlags.headed, "headed", false, "run the browser with a visible window")
	runCmd.Flags().BoolVar(&runFlags.debug, "debug", false, "log every capture")
	runCmd.Flags().StringVar(&runFlags.only, "only", "", "restrict to screens whose id matches this glob")
	rootCmd.AddCommand(runCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	if runFlags.debug && logLevel == "info" {
		logLevel = "debug"
	}
	logger := logging.New(logging.Options{Level: logLevel, JSON: logJSON})

	cfg, err := loadConfig(runFlags.configPath)
	if err != nil {
		return err
	}
	config.Normalize(&cfg)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	_, err = pipeline.Run(ctx, &cfg, pipeline.Options{
		BaseURL:  runFlags.baseURL,
		Headless: !runFlags.headed,
		OutDir:   runFlags.outDir,
		Only:     runFlags.only,
		Debug:    runFlags.debug,
		Logger:   logger,
	})
	return err
}

// loadConfig loads the overlay file onto an empty base. An explicit path is
// required to exist; the default overlay is optional.
func loadConfig(path string) (config.Config, error) {
	explicit := path != ""
	if path == "" {
		path = config.OverlayFileName
	}

	if _, err := os.Stat(path); err != nil {
		if explicit {
			return config.Config{}, fmt.Errorf("config %s: %w", path, err)
		}
		return config.Config{}, nil
	}

	overlay, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	return config.Merge(config.Config{}, overlay), nil
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/entrhq/screenboard/pkg/api"
	"github.com/entrhq/screenboard/pkg/logging"
	"github.com/entrhq/screenboard/pkg/session"
)

var serveFlags struct {
	configPath string
	port       int
	headed     bool
	outDir     string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the interactive capture and recording session",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveFlags.configPath, "config", "c", "", "config overlay file (default: screenboard.json if present)")
	serveCmd.Flags().IntVarP(&serveFlags.port, "port", "p", 4700, "port to listen on")
	serveCmd.Flags().BoolVar(&serveFlags.headed, "headed", true, "run the browser with a visible window")
	serveCmd.Flags().StringVarP(&serveFlags.outDir, "out", "o", "", "override the output directory")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := logging.New(logging.Options{Level: logLevel, JSON: logJSON})
	log := logging.ForComponent(logger, "serve")

	cfg, err := loadConfig(serveFlags.configPath)
	if err != nil {
		return err
	}

	controller := session.New(cfg, session.Options{
		OutDir:   serveFlags.outDir,
		SavePath: serveFlags.configPath,
		Headless: !serveFlags.headed,
		Logger:   logger,
	})
	defer controller.Close()

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", serveFlags.port),
		Handler: api.NewRouter(controller, log),
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", server.Addr).Info("listening")
		errCh <- server.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.WithField("signal", sig.String()).Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("server shutdown failed")
	}
	return nil
}

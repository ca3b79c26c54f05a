package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/wilsvd/teiparse/internal/api"
	"github.com/wilsvd/teiparse/internal/service"
)

const (
	shutdownTimeout   = 15 * time.Second
	readHeaderTimeout = 10 * time.Second
	aliveCheckTimeout = 5 * time.Second
)

var serveListen string

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "Address to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the upload API",
	Long: `Serve the HTTP API.

Routes:
  POST /upload         multipart PDF upload (field "file"), returns the document
  GET  /validate_url   checks ?url= points at a reachable PDF
  GET  /healthz        liveness

Examples:
  tp serve
  tp serve --listen 127.0.0.1:8080`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	if serveListen != "" {
		cfg.Listen = serveListen
	}
	if !verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	grobidClient := newGROBIDClient(cfg)
	svc := &service.Service{
		Parser: mustNewParser(),
		GROBID: grobidClient,
		Cache:  mustOpenCache(cfg),
	}
	if svc.Cache != nil {
		defer svc.Cache.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	aliveCtx, cancel := context.WithTimeout(ctx, aliveCheckTimeout)
	if err := grobidClient.IsAlive(aliveCtx); err != nil {
		log.Warn().Err(err).Str("grobid", grobidClient.BaseURL()).Msg("GROBID is not answering; uploads will fail until it does")
	}
	cancel()

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           api.NewRouter(&api.Handler{Service: svc, MaxUploadBytes: cfg.MaxUploadBytes}),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("listen", cfg.Listen).Str("grobid", grobidClient.BaseURL()).Msg("serving")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			exitWithError(ExitError, "serving: %v", err)
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			exitWithError(ExitError, "shutdown: %v", err)
		}
	}
	return nil
}

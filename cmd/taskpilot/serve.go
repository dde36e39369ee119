package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"taskpilot/internal/breakdown"
	"taskpilot/internal/config"
	"taskpilot/internal/planner"
	"taskpilot/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if serveAddr != "" {
			cfg.Server.Addr = serveAddr
		}

		logger, err := zap.NewProduction()
		if err != nil {
			return fmt.Errorf("create logger: %w", err)
		}
		defer logger.Sync()
		log := logger.Sugar()

		generator, err := newGenerator(cfg)
		if err != nil {
			return err
		}

		st, db, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		srv := server.New(
			st,
			breakdown.New(generator, st, log),
			planner.New(generator, st, log),
			generator,
			log,
		)

		httpServer := &http.Server{
			Addr:    cfg.Server.Addr,
			Handler: srv,
		}

		errCh := make(chan error, 1)
		go func() {
			log.Infow("server listening", "addr", cfg.Server.Addr)
			errCh <- httpServer.ListenAndServe()
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return fmt.Errorf("server: %w", err)
		case sig := <-sigCh:
			log.Infow("shutting down", "signal", sig)
		}

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides config)")
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iwvelando/emissions-forecast/internal/config"
	"github.com/iwvelando/emissions-forecast/internal/server"
	"github.com/iwvelando/emissions-forecast/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

type serveOptions struct {
	address      string
	serverConfig string
}

func newServeCmd(root *rootOptions) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the forecasting API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.address, "address", "", "listen address override (default from server config, then "+constants.DefaultServerAddress+")")
	cmd.Flags().StringVar(&opts.serverConfig, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	return cmd
}

func runServe(cmd *cobra.Command, root *rootOptions, opts *serveOptions) error {
	a, err := root.load(cmd)
	if err != nil {
		return err
	}

	serverConf, err := server.LoadConfig(opts.serverConfig)
	if err != nil {
		return err
	}
	if opts.address != "" {
		serverConf.Address = opts.address
	}

	// Server logging settings replace the application ones when present.
	if serverConf.Logging != (config.LoggingConfig{}) {
		logger, err := initializeLogger(serverConf.Logging, root.logLevel)
		if err != nil {
			return fmt.Errorf("failed to initialize server logger: %w", err)
		}
		_ = a.logger.Sync()
		a.logger = logger
	}
	defer func() {
		_ = a.logger.Sync()
	}()

	svc, err := a.service()
	if err != nil {
		return err
	}

	handler := server.NewHandler(a.logger, svc, server.Options{
		Version:        version,
		RequestTimeout: serverConf.Timeout(),
		AllowedOrigins: serverConf.AllowedOrigins,
	})

	ln, err := net.Listen("tcp", serverConf.Address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", serverConf.Address, err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runServer(ctx, a.logger, &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: serverConf.Timeout(),
	}, ln)
}

// runServer serves on ln until ctx is done, then shuts the server down
// gracefully.
func runServer(ctx context.Context, logger *zap.Logger, srv *http.Server, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("op", "main.serve"),
			zap.String("address", ln.Addr().String()),
		)
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down server",
		zap.String("op", "main.serve"),
	)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

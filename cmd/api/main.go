package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/yigit/unirecords/internal/pkg/logger"
	"github.com/yigit/unirecords/internal/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("Server exited with errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"voice-domme/internal/config"
	"voice-domme/internal/discord"
	"voice-domme/internal/logging"
	"voice-domme/internal/storage"
	v "voice-domme/internal/version"

	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		log.Error().Err(err).Msg("Discord bot error")
		os.Exit(1)
	}
	log.Info().Msg("Discord bot exited cleanly")
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		logging.Setup(logging.Options{})
		return err
	}

	logging.Setup(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	log.Info().Msgf("Starting %v bot...", v.AppName)

	store, err := storage.New(cfg.StoragePath)
	if err != nil {
		return fmt.Errorf("failed to open storage %s: %w", cfg.StoragePath, err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to flush storage")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return discord.New(cfg, store).Run(ctx)
}

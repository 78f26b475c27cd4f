// Command server runs the video search and download backend.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/baropoint-debug/youtube-downloader-supabase/internal/api"
	"github.com/baropoint-debug/youtube-downloader-supabase/internal/config"
	"github.com/baropoint-debug/youtube-downloader-supabase/internal/download"
	"github.com/baropoint-debug/youtube-downloader-supabase/internal/retry"
	"github.com/baropoint-debug/youtube-downloader-supabase/internal/store"
	"github.com/baropoint-debug/youtube-downloader-supabase/internal/ytdlp"
	"github.com/baropoint-debug/youtube-downloader-supabase/internal/youtube"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("load configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	retryCfg := retry.DefaultConfig()
	retryCfg.MaxRetries = cfg.MaxRetries
	retryCfg.InitialBackoff = cfg.InitialBackoff
	retryCfg.MaxBackoff = cfg.MaxBackoff

	var provider youtube.Provider
	providerReady := false
	if cfg.YouTubeAPIKey != "" {
		p, err := youtube.NewDataAPIProvider(ctx, cfg.YouTubeAPIKey, retryCfg, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("create youtube provider")
		}
		provider = p
		providerReady = true
	} else {
		logger.Warn().Msg("no YouTube API key configured, search will serve mock results")
		provider = youtube.UnconfiguredProvider{}
	}

	st, err := store.NewPostgres(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect to database")
	}
	defer st.Close()
	if !st.Connected() {
		logger.Warn().Msg("no database configured, user features are disabled")
	}

	if _, err := download.EnsureFolder(cfg.DownloadFolder); err != nil {
		logger.Warn().Err(err).Str("folder", cfg.DownloadFolder).Msg("download folder unavailable")
	}

	extractor := ytdlp.New(cfg.YtdlpPath, cfg.YtdlpTimeout)
	resolver := youtube.NewResolver(provider, logger)
	fetcher := youtube.NewMetadataFetcher(provider, extractor, logger)
	orchestrator := youtube.NewOrchestrator(provider, resolver, fetcher, logger)
	coordinator := download.NewCoordinator(extractor, fetcher, st, logger)

	server := api.NewServer(api.Options{
		Search:         orchestrator,
		Fetcher:        fetcher,
		Provider:       provider,
		Coordinator:    coordinator,
		Store:          st,
		DownloadFolder: cfg.DownloadFolder,
		ProviderReady:  providerReady,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           server.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.ListenAddr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	case err := <-errCh:
		logger.Error().Err(err).Msg("server failed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}

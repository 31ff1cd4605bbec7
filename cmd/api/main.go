package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ApexAI/internal/config"
	"ApexAI/internal/geminiservice"
	"ApexAI/internal/server"
	"ApexAI/internal/utility"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// gracefulShutdown waits for ctx to end, then gives in-flight requests 5 seconds to finish.
func gracefulShutdown(ctx context.Context, stop context.CancelFunc, apiServer *http.Server) error {
	<-ctx.Done()

	log.Info().Msg("shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
		return err
	}

	log.Info().Msg("Server exiting")
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	utility.SetupLogger(cfg.LogLevel, cfg.LogFormat)

	// A missing key is not fatal; every plan request fails until it is set.
	if cfg.HasAPIKey() {
		log.Info().Int("key_length", len(cfg.GeminiAPIKey)).Msg("GEMINI_API_KEY loaded")
	} else {
		log.Warn().Msg("GEMINI_API_KEY not found in environment variables")
	}

	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gemini, err := geminiservice.NewClient(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("could not initialize Gemini client")
	}
	defer gemini.Close()

	gen := geminiservice.WithCache(gemini, cfg.PlanCacheSize, cfg.PlanCacheTTL)
	planner := geminiservice.NewPlanner(gen)
	apiServer := server.New(cfg, planner, cfg.PlanCacheSize > 0).NewHTTPServer()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().
			Str("addr", apiServer.Addr).
			Str("model", gemini.Model()).
			Int("plan_cache_size", cfg.PlanCacheSize).
			Msg("Apex AI server listening")
		if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return gracefulShutdown(gCtx, stop, apiServer)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("http server error")
		os.Exit(1)
	}
	log.Info().Msg("Graceful shutdown complete.")
}

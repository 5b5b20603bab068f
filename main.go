package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/vrsandeep/showtime-go/internal/api"
	"github.com/vrsandeep/showtime-go/internal/config"
	"github.com/vrsandeep/showtime-go/internal/core"
	"github.com/vrsandeep/showtime-go/internal/jobs"
	"github.com/vrsandeep/showtime-go/internal/logging"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// Initialize the core application components
	app, err := core.New(version)
	if err != nil {
		log.Fatal().Err(err).Msg("Fatal error during application setup")
	}
	defer app.Close()

	logging.Init(app.Config().Log)
	config.Watch(func(cfg *config.Config) {
		logging.SetLevel(cfg.Log.Level)
	})

	// --- First User Provisioning ---
	password, err := app.Bootstrap()
	if err != nil {
		log.Fatal().Err(err).Msg("Could not provision the first household")
	}
	if password != "" {
		log.Warn().Msg("==================================================")
		log.Warn().Msg("Default admin user created.")
		log.Warn().Str("username", core.DefaultAdmin).Str("password", password).Msg("Please change this password immediately.")
		log.Warn().Msg("==================================================")
	}

	scheduler := jobs.StartJobs(app)

	// Setup the API server
	server := api.NewServer(app)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", app.Config().Port),
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	// --- Graceful Shutdown ---
	go func() {
		log.Info().Str("addr", httpServer.Addr).Str("version", version).Msg("Starting web server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Could not start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting.")
}

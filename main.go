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

	"github.com/isdelr/todo-be/internal/api"
	"github.com/isdelr/todo-be/internal/auth"
	"github.com/isdelr/todo-be/internal/config"
	"github.com/isdelr/todo-be/internal/database"
	"github.com/isdelr/todo-be/internal/logger"
	"github.com/isdelr/todo-be/internal/maintenance"
	"github.com/isdelr/todo-be/internal/services"
	"github.com/isdelr/todo-be/internal/store"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.Init(cfg.LogLevel, cfg.LogPretty)

	// Set up database
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	tokens, err := auth.NewTokenService(auth.TokenConfig{
		SecretKey: cfg.SecretKey,
		Algorithm: cfg.Algorithm,
		Lifetime:  cfg.AccessTokenLifetime(),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize token service")
	}
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)

	// Set up services
	accounts := store.NewAccountStore()
	eventService := services.NewEventService(db, store.NewEventStore())
	userService := services.NewUserService(db, accounts, eventService, hasher, tokens)
	taskStore := store.NewTaskStore()
	taskService := services.NewTaskService(db, taskStore, eventService)

	// Set up the background trash purger
	var purger *maintenance.TrashPurger
	if cfg.TrashPurgeSchedule != "" {
		purger = maintenance.NewTrashPurger(db, taskStore, cfg.TrashRetention())
		if err := purger.Start(cfg.TrashPurgeSchedule); err != nil {
			log.Fatal().Err(err).Msg("Failed to start trash purger")
		}
	}

	router := api.NewRouter(api.Dependencies{
		DB:             db,
		Resolver:       auth.NewResolver(tokens, accounts),
		Users:          userService,
		Tasks:          taskService,
		Events:         eventService,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Str("driver", db.Driver).Msg("Server starting")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	if purger != nil {
		purger.Stop(ctx)
	}

	log.Info().Msg("Server exiting")
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"inventory-api/internal/cache"
	"inventory-api/internal/config"
	"inventory-api/internal/db"
	"inventory-api/internal/logger"
	"inventory-api/internal/router"
	"inventory-api/internal/store"
)

func main() {
	cfg := config.LoadConfig()

	log := logger.InitLogger(cfg.Env)
	log.Info().Msg("Starting inventory API")

	database := db.InitDB(cfg.DBUrl)
	defer database.Close()

	db.RunMigrations(database)

	redisClient := cache.NewClient(cfg.RedisAddr, log)
	productCache := cache.NewProductCache(redisClient, log)

	mysqlStore := store.NewMySQL(database)

	r := router.SetupRouter(cfg, router.Stores{
		Users:    mysqlStore,
		Products: mysqlStore,
		Pinger:   mysqlStore,
	}, productCache, log)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Info().Msgf("Server listening on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	log.Info().Msg("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}

	log.Info().Msg("Server stopped")
}

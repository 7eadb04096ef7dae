package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/bedriftsgrafen/bedriftsgrafen-api/internal/cache"
	"github.com/bedriftsgrafen/bedriftsgrafen-api/internal/config"
	"github.com/bedriftsgrafen/bedriftsgrafen-api/internal/filter"
	"github.com/bedriftsgrafen/bedriftsgrafen-api/internal/handler"
	filtersHandler "github.com/bedriftsgrafen/bedriftsgrafen-api/internal/handler/filters"
	savedFilterHandler "github.com/bedriftsgrafen/bedriftsgrafen-api/internal/handler/savedfilter"
	searchHandler "github.com/bedriftsgrafen/bedriftsgrafen-api/internal/handler/search"
	"github.com/bedriftsgrafen/bedriftsgrafen-api/internal/middleware"
	"github.com/bedriftsgrafen/bedriftsgrafen-api/internal/registry"
	"github.com/bedriftsgrafen/bedriftsgrafen-api/internal/repository/postgres"
	"github.com/bedriftsgrafen/bedriftsgrafen-api/internal/router"
	savedFilterService "github.com/bedriftsgrafen/bedriftsgrafen-api/internal/service/savedfilter"
	searchService "github.com/bedriftsgrafen/bedriftsgrafen-api/internal/service/search"
	"github.com/bedriftsgrafen/bedriftsgrafen-api/pkg/logger"
	"github.com/bedriftsgrafen/bedriftsgrafen-api/pkg/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil || cfg.Log.Level == "" {
		level = zerolog.InfoLevel
	}
	appLogger := logger.NewLogger(&logger.Config{
		Level:      level,
		TimeFormat: time.RFC3339,
		Pretty:     cfg.Log.Pretty,
	})
	log.Logger = *appLogger.Zerolog()

	db, err := postgres.NewDB(postgres.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Name:     cfg.Database.Name,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := postgres.EnsureSchema(context.Background(), db); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure database schema")
	}

	m := metrics.NewMetrics("bedriftsgrafen")

	reqCache, err := cache.New(cache.Config{
		URL:          cfg.Redis.URL,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, appLogger.Zerolog(), m)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer reqCache.Close()

	registryClient := registry.NewClient(registry.Config{
		BaseURL:        cfg.Registry.BaseURL,
		TimeoutSeconds: cfg.Registry.TimeoutSeconds,
		SearchCacheTTL: time.Duration(cfg.Registry.SearchCacheTTLSeconds) * time.Second,
	}, reqCache, appLogger.Zerolog(), m)

	sessionTTL := time.Duration(cfg.Session.TTLMinutes) * time.Minute
	if sessionTTL <= 0 {
		sessionTTL = 30 * time.Minute
	}
	sessions := filter.NewSessions(sessionTTL, m)

	savedFilterRepo := postgres.NewSavedFilterRepository(db)
	savedFilterSvc := savedFilterService.NewService(savedFilterRepo)
	searchSvc := searchService.NewService(registryClient)

	r := router.NewRouter(router.Config{
		RateLimit: rate.Limit(cfg.RateLimit.RequestsPerSecond),
		RateBurst: cfg.RateLimit.Burst,
		CORS:      middleware.DefaultCORSConfig(),
		Session:   middleware.SessionConfig{JWTSecret: cfg.Session.JWTSecret},
	},
		handler.NewHealthHandler(),
		filtersHandler.NewHandler(sessions, m),
		searchHandler.NewHandler(searchSvc, sessions),
		savedFilterHandler.NewHandler(savedFilterSvc, sessions, m),
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()
	log.Info().Int("port", cfg.Server.Port).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"favsvc/docs"
	"favsvc/internal/auth"
	"favsvc/internal/cache"
	"favsvc/internal/catalog"
	"favsvc/internal/config"
	"favsvc/internal/db"
	"favsvc/internal/handler"
	"favsvc/internal/logger"
	"favsvc/internal/repository"
	"favsvc/internal/router"
	"favsvc/internal/service"
	"favsvc/internal/session"
)

// @title Favorites API
// @version 1.0
// @description Login sessions and per-user favorite items.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey SessionAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token, or send the pn_session cookie.
func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel)

	if cfg.SessionSecret == "change-me" {
		log.Warn().Msg("SESSION_SECRET is the default value; set it outside development")
	}

	gormDB, err := db.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("database init")
	}

	if cfg.ResetDB {
		log.Warn().Msg("RESET_DB=true detected, dropping all tables")
		if err := db.Reset(gormDB); err != nil {
			log.Fatal().Err(err).Msg("reset database")
		}
	}

	if err := db.Migrate(gormDB); err != nil {
		log.Fatal().Err(err).Msg("auto-migrate")
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()

	pingCtx, cancel := context.WithTimeout(context.Background(), cfg.StorageTimeout)
	if err := cacheClient.Ping(pingCtx); err != nil {
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("session store unreachable at startup")
	}
	cancel()

	hasher, err := auth.NewPasswordHasher(auth.DefaultArgon2Params)
	if err != nil {
		log.Fatal().Err(err).Msg("password hasher init")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	favoriteRepo := repository.NewFavoriteRepository(gormDB)

	// Initialize session components
	jwtService := auth.NewJWTService(cfg.SessionSecret)
	tokenStore := auth.NewTokenStore(cacheClient)
	sessions := session.NewManager(jwtService, tokenStore, cfg.SessionTTL)

	// Initialize services
	authService := service.NewAuthService(userRepo, hasher, sessions)
	var itemCatalog catalog.ContentCatalog
	if cfg.CatalogURL != "" {
		itemCatalog = catalog.NewHTTPCatalog(cfg.CatalogURL, cfg.CatalogTimeout)
	}
	favoriteService := service.NewFavoriteService(favoriteRepo, authService, itemCatalog)

	e := echo.New()
	router.Register(
		e,
		cfg,
		sessions,
		handler.NewAuthHandler(authService, cfg.SessionTTL),
		handler.NewFavoriteHandler(favoriteService),
	)

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "https://"), "http://")
	} else {
		docs.SwaggerInfo.Host = "localhost:" + cfg.ServerPort
	}
	log.Info().Str("url", "http://"+docs.SwaggerInfo.Host+"/swagger/index.html").Msg("swagger documentation available")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		addr := ":" + cfg.ServerPort
		log.Info().Str("addr", addr).Msg("server starting")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server start")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	log.Info().Msg("server stopped")
}

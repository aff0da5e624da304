package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/sweetlab/sweet_shop/internal/config"
	"github.com/sweetlab/sweet_shop/internal/db"
	"github.com/sweetlab/sweet_shop/internal/events"
	"github.com/sweetlab/sweet_shop/internal/httpserver"
	"github.com/sweetlab/sweet_shop/internal/logging"
	authmw "github.com/sweetlab/sweet_shop/internal/middleware/auth"
	"github.com/sweetlab/sweet_shop/internal/middleware/loggingmw"
	"github.com/sweetlab/sweet_shop/internal/repo"
	"github.com/sweetlab/sweet_shop/internal/search"
	"github.com/sweetlab/sweet_shop/internal/service"
	"github.com/sweetlab/sweet_shop/internal/tokens"
)

func main() {
	cfg := config.Load()
	config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")

	logger := logging.New(cfg.LogLevel)

	ctx := context.Background()
	database, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}
	if err := db.Migrate(database); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}

	producer := events.NewProducer(cfg.KafkaBrokers)

	var index *search.Index
	if cfg.ESURL != "" {
		esClient, err := search.NewClient(cfg)
		if err != nil {
			log.Fatalf("elasticsearch init failed: %v", err)
		}
		index = &search.Index{ES: esClient, Name: "sweets"}
	}

	gormRepo := &repo.GormRepo{DB: database}
	tokenSvc := &tokens.Service{Secret: cfg.JWTSecret, TTL: cfg.TokenTTL}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = httpserver.NewHTTPErrorHandler(cfg.Development())
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.AllowedOrigin},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	e.Use(loggingmw.RequestLogger(logger))

	deps := httpserver.Deps{
		AuthHandler: &httpserver.AuthHTTP{
			Svc: &service.AuthService{Repo: gormRepo, Tokens: tokenSvc, Producer: producer},
		},
		SweetHandler: &httpserver.SweetHTTP{
			Svc: &service.SweetService{Repo: gormRepo, Producer: producer, Index: index},
		},
		Auth: &authmw.Middleware{Tokens: tokenSvc, Repo: gormRepo},
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()
	logger.Info("server started", "port", cfg.ServerPort, "env", cfg.Env)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := database.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := producer.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	logger.Info("shutdown complete")
}

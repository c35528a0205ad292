package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/nkazancev/shop_wishlist/internal/config"
	"github.com/nkazancev/shop_wishlist/internal/es"
	"github.com/nkazancev/shop_wishlist/internal/httpserver"
	"github.com/nkazancev/shop_wishlist/internal/logging"
	loggingmw "github.com/nkazancev/shop_wishlist/internal/middleware/logging"
	"github.com/nkazancev/shop_wishlist/internal/mykafka"
	"github.com/nkazancev/shop_wishlist/internal/repo"
	"github.com/nkazancev/shop_wishlist/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := logging.New(cfg.LOG_LEVEL)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := config.InitDB(initCtx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	var producer *mykafka.Producer
	if cfg.KAFKA_ADDRESS != "" {
		producer = mykafka.NewProducer([]string{cfg.KAFKA_ADDRESS})
	}

	gormRepo := &repo.GormRepo{DB: db}

	wishlistService := &service.WishlistService{
		Repo:     gormRepo,
		Producer: producer,
	}

	deps := &httpserver.Deps{
		WishlistHandler: &httpserver.WishlistHTTP{Svc: wishlistService},
		AuthHandler:     &httpserver.AuthHTTP{Repo: gormRepo, JWTSecret: []byte(cfg.JWT_SECRET)},
		JWTSecret:       []byte(cfg.JWT_SECRET),
	}

	if cfg.ES_URL != "" {
		esClient, err := es.NewClient(cfg)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
		deps.SearchHandler = &httpserver.SearchHTTP{ES: esClient, Index: "product"}
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	httpserver.Register(e, deps)

	port := cfg.SERVER_PORT
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting wishlist service", "port", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	}

	if err := producer.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	logger.Info("shutdown complete")
}

package main

import (
	"fmt"
	"os"
	"time"

	"pms-service/internal/auth"
	"pms-service/internal/config"
	"pms-service/internal/db"
	"pms-service/internal/exifmeta"
	httphandler "pms-service/internal/http"
	"pms-service/internal/http/middleware"
	"pms-service/internal/logger"
	"pms-service/internal/repository"
	"pms-service/internal/service"
	"pms-service/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	appLogger := logger.New(cfg.Environment)

	database, err := db.New(cfg, appLogger)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to connect database")
	}

	store, err := storage.NewLocalStore(cfg.Upload.Dir, cfg.Upload.MaxSizeBytes)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to init photo storage")
	}

	workOrderRepo := repository.NewWorkOrderRepository(database)
	readingRepo := repository.NewOdometerReadingRepository(database)
	photoRepo := repository.NewWorkOrderPhotoRepository(database)
	alertRepo := repository.NewFraudAlertRepository(database)

	extractor := exifmeta.NewExtractor(appLogger)

	workOrderService := service.NewWorkOrderService(workOrderRepo, alertRepo, time.Now)
	readingService := service.NewReadingService(readingRepo, workOrderRepo, alertRepo, appLogger, time.Now)
	photoService := service.NewPhotoService(photoRepo, workOrderRepo, alertRepo, extractor, store, appLogger, time.Now)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)

	handler := httphandler.NewHandler(workOrderService, readingService, photoService, appLogger)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	appLogger.Info().Str("addr", addr).Msg("starting pms service")

	if err := router.Run(addr); err != nil {
		appLogger.Error().Err(err).Msg("failed to start server")
		os.Exit(1)
	}
}

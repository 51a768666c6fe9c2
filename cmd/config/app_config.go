package config

import (
	"Lote-Tracker/internal/api/handlers"
	"Lote-Tracker/internal/api/routes"
	"Lote-Tracker/internal/metrics"
	"Lote-Tracker/internal/middleware"
	"Lote-Tracker/internal/utils"
	"Lote-Tracker/internal/utils/storage"
	"Lote-Tracker/pkg/batch"
	"Lote-Tracker/pkg/classifier"
	"Lote-Tracker/pkg/images"
	"Lote-Tracker/pkg/stats"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: !utils.IsProduction(),
		BodyLimit:         utils.GetConfigInt("BODY_LIMIT_MB", 64) << 20,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate
	appMetrics := metrics.NewMetrics()

	// setting up request ids and logging; CORS and the limiter are added by routes
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))

	logFile := utils.GetConfig("LOG_FILE")
	if err := os.MkdirAll(filepath.Dir(logFile), os.ModePerm); err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		logFile,
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		Format:     "${time} | ${locals:requestid} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${error}\n",
		TimeFormat: "2006-01-02 15:04:05",
		Output:     file,
	}))

	app.Use(appMetrics.Middleware())

	// 0 disables rate limiting
	rateLimitMax, err := strconv.Atoi(utils.GetConfig("RATE_LIMIT_MAX"))
	if err != nil {
		return nil, err
	}

	// utils
	s3 := storage.NewAwsS3()

	// Repository
	batchRepository := batch.NewBatchRepository(db)
	imageRepository := images.NewImageRepository(db)

	// Service
	classifierClient := classifier.NewClassifierClient(appMetrics)
	batchService := batch.NewBatchService(batchRepository, s3)
	imageService := images.NewImageService(imageRepository, s3, appMetrics)
	statsService := stats.NewStatsService(batchRepository, imageRepository, classifierClient)

	// Handler
	batchHandler := handlers.NewBatchHandler(batchService, validator)
	imageHandler := handlers.NewImageHandler(imageService)
	statsHandler := handlers.NewStatsHandler(statsService)

	// routes
	routesConfig := routes.Config{
		App:          app,
		BatchHandler: batchHandler,
		ImageHandler: imageHandler,
		StatsHandler: statsHandler,
		Middleware:   middlewares,
		Metrics:      appMetrics,
		RateLimitMax: rateLimitMax,
	}
	routesConfig.Setup()
	return app, nil
}

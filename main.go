package main

import (
	"context"

	"PlantKeeper/config"
	"PlantKeeper/controllers"
	"PlantKeeper/middlewares"
	"PlantKeeper/repositories"
	"PlantKeeper/services"
	"PlantKeeper/services/backup"
	"PlantKeeper/services/reminder"
	"PlantKeeper/storage"
	"PlantKeeper/utils"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

func init() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(logrus.InfoLevel)
}

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		logrus.Warn("No .env file found, relying on environment")
	}

	cfg := config.LoadConfig()
	if cfg.JWTSecret == "" {
		logrus.Fatal("JWT_SECRET must be configured")
	}

	// Initialize database connection
	db, err := repositories.InitDB(cfg.DSN())
	if err != nil {
		logrus.Fatal("Failed to initialize database: ", err)
	}
	store := repositories.NewStore(db)

	// Initialize blob storage for plant photos
	var blobStorage storage.Storage
	switch cfg.StorageType {
	case "r2":
		r2Storage, err := storage.NewR2Storage()
		if err != nil {
			logrus.Fatal("Failed to configure Cloudflare R2: ", err)
		}
		blobStorage = r2Storage
	default:
		blobStorage = storage.NewLocalStorage(cfg.UploadDir)
	}

	// Initialize services
	jwtManager := utils.NewJWTManager(cfg.JWTSecret)
	authService := services.NewAuthService(store, jwtManager)
	backupService := backup.NewService(store, blobStorage)

	// Initialize controllers
	authController := controllers.NewAuthController(authService)
	plantController := controllers.NewPlantController(store)
	locationController := controllers.NewLocationController(store)
	careController := controllers.NewCareController(store)
	notificationController := controllers.NewNotificationController(store)
	backupController := controllers.NewBackupController(backupService)

	authMiddleware := middlewares.NewAuthMiddleware(jwtManager, store.Users())

	// Background watering reminders
	scheduler := reminder.NewScheduler(store, reminder.LogNotifier{}, reminder.SystemClock())
	schedulerCtx, stopScheduler := context.WithCancel(context.Background())
	defer stopScheduler()
	go scheduler.Run(schedulerCtx)

	e := echo.New()
	e.HideBanner = true
	e.Use(middlewares.Recovery())
	e.Use(middlewares.ErrorHandler())

	// Public routes
	e.POST("/register", authController.Register)
	e.POST("/login", authController.Login)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Protected routes
	api := e.Group("", authMiddleware.RequireAuth())
	api.GET("/plants", plantController.List)
	api.POST("/plants", plantController.Create)
	api.GET("/plants/:id", plantController.Get)
	api.PUT("/plants/:id", plantController.Update)
	api.DELETE("/plants/:id", plantController.Delete)
	api.POST("/plants/:id/water", plantController.Water)
	api.GET("/plants/:id/health", careController.ListHealth)
	api.POST("/plants/:id/health", careController.CreateHealth)
	api.GET("/plants/:id/care", careController.ListCare)
	api.POST("/plants/:id/care", careController.CreateCare)
	api.GET("/locations", locationController.List)
	api.POST("/locations", locationController.Create)
	api.DELETE("/locations/:id", locationController.Delete)
	api.GET("/settings/notifications", notificationController.Get)
	api.PUT("/settings/notifications", notificationController.Update)
	api.GET("/backup/export", backupController.Export)
	api.POST("/backup/import", backupController.Import)

	if err := e.Start(cfg.ListenAddr); err != nil {
		logrus.Fatal("Failed to start server: ", err)
	}
}

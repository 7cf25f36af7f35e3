package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"toy-store/config"
	_ "toy-store/docs"
	"toy-store/middleware"
	"toy-store/routes"
)

// @title Toy Store API
// @version 1.0
// @description Storefront API: carts, shipping, checkout and PayU payments.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.LoadConfig()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	logger, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	db, err := config.ConnectDB(cfg)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer config.CloseDB()

	if err := config.RunMigrations(cfg); err != nil {
		logger.Fatal("migrations failed", zap.Error(err))
	}

	rdb := config.ConnectRedis(cfg)
	defer config.CloseRedis()

	app := routes.NewApp(cfg, db, rdb, logger)
	defer app.Close()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.CORSMiddleware(cfg))
	routes.SetupRoutes(router, app.Handlers, app.Options)

	port := ":" + cfg.Port
	logger.Info("server starting",
		zap.String("port", port),
		zap.String("env", cfg.AppEnv),
		zap.String("swagger", "http://localhost:"+cfg.Port+"/swagger/index.html"),
	)

	if err := router.Run(port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

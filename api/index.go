package api

import (
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"toy-store/config"
	"toy-store/middleware"
	"toy-store/routes"
)

var (
	router *gin.Engine
	once   sync.Once
)

func initApp() {
	once.Do(func() {
		gin.SetMode(gin.ReleaseMode)

		cfg := config.LoadConfig()
		logger, err := config.NewLogger(cfg)
		if err != nil {
			log.Printf("Failed to create logger: %v", err)
			logger = zap.NewNop()
		}

		db, err := config.ConnectDB(cfg)
		if err != nil {
			logger.Fatal("database connection failed", zap.Error(err))
		}
		rdb := config.ConnectRedis(cfg)

		app := routes.NewApp(cfg, db, rdb, logger)

		router = gin.New()
		router.Use(gin.Recovery())
		router.Use(middleware.RequestLogger(logger))
		router.Use(middleware.CORSMiddleware(cfg))

		routes.SetupRoutes(router, app.Handlers, app.Options)
	})
}

func Handler(w http.ResponseWriter, r *http.Request) {
	initApp()
	router.ServeHTTP(w, r)
}

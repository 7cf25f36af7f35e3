package middleware

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"toy-store/config"
)

func CORSMiddleware(cfg *config.Config) gin.HandlerFunc {
	allowedOrigins := []string{
		"http://localhost:3000",
	}

	for _, origin := range []string{cfg.StorefrontURL, cfg.OriginURL} {
		if origin != "" && origin != allowedOrigins[0] {
			allowedOrigins = append(allowedOrigins, origin)
		}
	}

	return cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", CartHeader, RevalidateHeader},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	})
}

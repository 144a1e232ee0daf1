package main

import (
	"classifieds/pkg/config"
	"classifieds/pkg/logger"
	marketplaceApp "classifieds/services/marketplace/internal/app"

	"github.com/gin-gonic/gin"
)

// @title           Classifieds Marketplace API
// @version         1.0
// @description     Listings, moderation, media uploads with watermarking, favorites and messaging.

// @contact.name   API Support

// @host      localhost:8001
// @BasePath  /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	if cfg.JWTSecret == config.DefaultJWTSecret || cfg.JWTSecret == "" {
		panic("JWT_SECRET must be set in environment variables")
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	log := logger.NewWithOptions(logger.Options{
		Development: cfg.IsDevelopment(),
		SentryDSN:   cfg.SentryDSN,
	})

	marketplaceApp.Run(cfg, log)
}

package internal

import (
	"time"

	"classifieds/pkg/middleware"
	marketplaceHTTP "classifieds/services/marketplace/internal/controller/http"
	"classifieds/services/marketplace/internal/entity"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "classifieds/services/marketplace/docs" // Swagger docs
)

func NewRouter(c *Container) *gin.Engine {
	cfg := c.Config
	log := c.Logger

	authHandler := marketplaceHTTP.NewAuthHandler(c.Auth, log)
	uploadHandler := marketplaceHTTP.NewUploadHandler(c.Upload, cfg.MaxUploadBytes, log)
	listingHandler := marketplaceHTTP.NewListingHandler(c.Listings, log)
	adminHandler := marketplaceHTTP.NewAdminHandler(c.Moderation, c.Listings, c.Users, c.Media, log)
	favoriteHandler := marketplaceHTTP.NewFavoriteHandler(c.Favorites, log)
	messageHandler := marketplaceHTTP.NewMessageHandler(c.Messages, c.Gate, log)
	statsHandler := marketplaceHTTP.NewStatsHandler(c.Stats, log)

	r := gin.Default()

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Stored files are served as they are on disk.
	r.Static("/uploads", c.Store.BaseDir())

	api := r.Group("/api")
	api.Use(middleware.RateLimitMiddleware(c.Redis, 100, time.Minute))

	{
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
		api.GET("/listings", listingHandler.ListListings)
		api.GET("/listings/:id", listingHandler.GetListing)
		api.GET("/stats", statsHandler.GetStats)
		api.GET("/locations", statsHandler.GetLocations)
		api.GET("/ws", messageHandler.HandleWebSocket)
	}

	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(c.Authenticator()))

	{
		authed.GET("/auth/me", authHandler.Me)
		authed.POST("/upload", uploadHandler.Upload)

		authed.POST("/listings", listingHandler.CreateListing)
		authed.GET("/listings/user/me", listingHandler.GetMyListings)
		authed.PUT("/listings/:id", listingHandler.UpdateListing)
		authed.DELETE("/listings/:id", listingHandler.DeleteListing)

		authed.POST("/favorites", favoriteHandler.AddFavorite)
		authed.GET("/favorites", favoriteHandler.ListFavorites)
		authed.DELETE("/favorites/:listing_id", favoriteHandler.RemoveFavorite)

		authed.POST("/messages", messageHandler.SendMessage)
		authed.GET("/messages", messageHandler.ListMessages)
		authed.GET("/messages/conversation/:listing_id", messageHandler.GetConversation)
		authed.PUT("/messages/:id/read", messageHandler.MarkRead)
	}

	admin := authed.Group("/admin")
	admin.Use(middleware.RequireRoles(string(entity.RoleAdmin)))

	{
		admin.GET("/listings", adminHandler.ListListings)
		admin.POST("/listings/:id/status", adminHandler.ModerateListing)
		admin.PUT("/listings/:id/featured", adminHandler.SetFeatured)
		admin.GET("/users", adminHandler.ListUsers)
		admin.PUT("/users/:id/verify", adminHandler.VerifyUser)
		admin.PUT("/users/:id/vip", adminHandler.GrantVIP)
		admin.PUT("/users/:id/role", adminHandler.SetRole)
		admin.DELETE("/users/:id", adminHandler.DeleteUser)
		admin.GET("/media", adminHandler.ListMedia)
		admin.POST("/media/:id/reprocess", adminHandler.ReprocessMedia)
	}

	return r
}

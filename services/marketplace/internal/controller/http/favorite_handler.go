package http

import (
	"net/http"

	"classifieds/pkg/logger"
	"classifieds/services/marketplace/internal/usecase"

	"github.com/gin-gonic/gin"
)

type FavoriteHandler struct {
	favoriteUseCase usecase.FavoriteUseCase
	logger          *logger.Logger
}

func NewFavoriteHandler(favoriteUseCase usecase.FavoriteUseCase, logger *logger.Logger) *FavoriteHandler {
	return &FavoriteHandler{favoriteUseCase: favoriteUseCase, logger: logger}
}

// AddFavorite godoc
// @Summary      Add a favorite
// @Tags         favorites
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        listing_id formData string true "Listing ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /favorites [post]
func (h *FavoriteHandler) AddFavorite(c *gin.Context) {
	listingID := c.PostForm("listing_id")
	if listingID == "" {
		badRequest(c, "listing_id is required")
		return
	}

	added, err := h.favoriteUseCase.AddFavorite(c.Request.Context(), actorFrom(c), listingID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to add favorite")
		return
	}
	if !added {
		c.JSON(http.StatusOK, gin.H{"message": "Already favorited"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Added to favorites"})
}

// RemoveFavorite godoc
// @Summary      Remove a favorite
// @Tags         favorites
// @Produce      json
// @Security     BearerAuth
// @Param        listing_id path string true "Listing ID"
// @Success      200  {object}  map[string]string
// @Router       /favorites/{listing_id} [delete]
func (h *FavoriteHandler) RemoveFavorite(c *gin.Context) {
	if err := h.favoriteUseCase.RemoveFavorite(c.Request.Context(), actorFrom(c), c.Param("listing_id")); err != nil {
		respondError(c, h.logger, err, "Failed to remove favorite")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Removed from favorites"})
}

// ListFavorites godoc
// @Summary      Favorite listings
// @Tags         favorites
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  entity.Listing
// @Router       /favorites [get]
func (h *FavoriteHandler) ListFavorites(c *gin.Context) {
	listings, err := h.favoriteUseCase.ListFavorites(c.Request.Context(), actorFrom(c))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch favorites")
		return
	}
	c.JSON(http.StatusOK, listingsOrEmpty(listings))
}

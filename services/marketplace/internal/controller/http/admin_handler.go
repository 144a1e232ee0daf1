package http

import (
	"net/http"

	"classifieds/pkg/logger"
	"classifieds/services/marketplace/internal/entity"
	"classifieds/services/marketplace/internal/usecase"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	moderationUseCase usecase.ModerationUseCase
	listingUseCase    usecase.ListingUseCase
	userUseCase       usecase.UserAdminUseCase
	mediaUseCase      usecase.MediaUseCase
	logger            *logger.Logger
}

func NewAdminHandler(
	moderationUseCase usecase.ModerationUseCase,
	listingUseCase usecase.ListingUseCase,
	userUseCase usecase.UserAdminUseCase,
	mediaUseCase usecase.MediaUseCase,
	logger *logger.Logger,
) *AdminHandler {
	return &AdminHandler{
		moderationUseCase: moderationUseCase,
		listingUseCase:    listingUseCase,
		userUseCase:       userUseCase,
		mediaUseCase:      mediaUseCase,
		logger:            logger,
	}
}

type ModerateRequest struct {
	Status string `json:"status" binding:"required"`
}

type FeaturedRequest struct {
	Featured *bool `json:"featured" binding:"required"`
}

type VerifyRequest struct {
	Verified *bool `json:"verified" binding:"required"`
}

type VIPRequest struct {
	Days *int `json:"days" binding:"required"`
}

type RoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// ListListings godoc
// @Summary      Listings by status
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        status query string false "pending (default), approved or rejected"
// @Success      200  {array}   entity.Listing
// @Failure      403  {object}  map[string]string
// @Router       /admin/listings [get]
func (h *AdminHandler) ListListings(c *gin.Context) {
	listings, err := h.moderationUseCase.ListByStatus(c.Request.Context(), actorFrom(c), entity.ListingStatus(c.Query("status")))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch listings")
		return
	}
	c.JSON(http.StatusOK, listingsOrEmpty(listings))
}

// ModerateListing godoc
// @Summary      Set listing status
// @Description  Any status to any status, including re-approving rejected listings.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Listing ID"
// @Param        request body ModerateRequest true "Target status"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /admin/listings/{id}/status [post]
func (h *AdminHandler) ModerateListing(c *gin.Context) {
	var req ModerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	listing, err := h.moderationUseCase.ModerateListing(c.Request.Context(), actorFrom(c), c.Param("id"), entity.ListingStatus(req.Status))
	if err != nil {
		respondError(c, h.logger, err, "Failed to update listing status")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Listing " + string(listing.Status), "listing": listing})
}

// SetFeatured godoc
// @Summary      Feature or unfeature a listing
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Listing ID"
// @Param        request body FeaturedRequest true "Featured flag"
// @Success      200  {object}  entity.Listing
// @Router       /admin/listings/{id}/featured [put]
func (h *AdminHandler) SetFeatured(c *gin.Context) {
	var req FeaturedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	listing, err := h.listingUseCase.SetFeatured(c.Request.Context(), actorFrom(c), c.Param("id"), *req.Featured)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update listing")
		return
	}
	c.JSON(http.StatusOK, listing)
}

// ListUsers godoc
// @Summary      All users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   entity.User
// @Router       /admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.userUseCase.ListUsers(c.Request.Context(), actorFrom(c))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch users")
		return
	}
	if users == nil {
		users = []*entity.User{}
	}
	c.JSON(http.StatusOK, users)
}

// VerifyUser godoc
// @Summary      Set verified badge
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User ID"
// @Param        request body VerifyRequest true "Badge"
// @Success      200  {object}  entity.User
// @Router       /admin/users/{id}/verify [put]
func (h *AdminHandler) VerifyUser(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	user, err := h.userUseCase.SetVerified(c.Request.Context(), actorFrom(c), c.Param("id"), *req.Verified)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// GrantVIP godoc
// @Summary      Grant or revoke VIP
// @Description  days=0 revokes.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User ID"
// @Param        request body VIPRequest true "Days"
// @Success      200  {object}  entity.User
// @Router       /admin/users/{id}/vip [put]
func (h *AdminHandler) GrantVIP(c *gin.Context) {
	var req VIPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	user, err := h.userUseCase.GrantVIP(c.Request.Context(), actorFrom(c), c.Param("id"), *req.Days)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// SetRole godoc
// @Summary      Change a user's role
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User ID"
// @Param        request body RoleRequest true "Role"
// @Success      200  {object}  entity.User
// @Router       /admin/users/{id}/role [put]
func (h *AdminHandler) SetRole(c *gin.Context) {
	var req RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	user, err := h.userUseCase.SetRole(c.Request.Context(), actorFrom(c), c.Param("id"), entity.Role(req.Role))
	if err != nil {
		respondError(c, h.logger, err, "Failed to update user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteUser godoc
// @Summary      Delete a user
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User ID"
// @Success      200  {object}  map[string]string
// @Router       /admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	if err := h.userUseCase.DeleteUser(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		respondError(c, h.logger, err, "Failed to delete user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

// ListMedia godoc
// @Summary      Uploaded media by watermark status
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        status query string false "pending, done, failed or skipped"
// @Success      200  {array}   entity.MediaAsset
// @Router       /admin/media [get]
func (h *AdminHandler) ListMedia(c *gin.Context) {
	assets, err := h.mediaUseCase.ListMedia(c.Request.Context(), actorFrom(c), entity.WatermarkStatus(c.Query("status")))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch media")
		return
	}
	if assets == nil {
		assets = []*entity.MediaAsset{}
	}
	c.JSON(http.StatusOK, assets)
}

// ReprocessMedia godoc
// @Summary      Retry a failed watermark
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Asset ID"
// @Success      202  {object}  entity.MediaAsset
// @Failure      400  {object}  map[string]string
// @Router       /admin/media/{id}/reprocess [post]
func (h *AdminHandler) ReprocessMedia(c *gin.Context) {
	asset, err := h.mediaUseCase.Reprocess(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to reprocess media")
		return
	}
	c.JSON(http.StatusAccepted, asset)
}

package http

import (
	"net/http"

	"classifieds/pkg/logger"
	"classifieds/services/marketplace/internal/entity"
	"classifieds/services/marketplace/internal/usecase"

	"github.com/gin-gonic/gin"
)

type ListingHandler struct {
	listingUseCase usecase.ListingUseCase
	logger         *logger.Logger
}

func NewListingHandler(listingUseCase usecase.ListingUseCase, logger *logger.Logger) *ListingHandler {
	return &ListingHandler{
		listingUseCase: listingUseCase,
		logger:         logger,
	}
}

// CreateListing godoc
// @Summary      Create a listing
// @Description  Creates a listing in pending status. location, pricing_tiers and services are JSON-encoded form fields; images and videos are URLs returned by /upload.
// @Tags         listings
// @Accept       multipart/form-data
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        title formData string true "Title"
// @Param        description formData string false "Description"
// @Param        price formData number true "Price"
// @Param        location formData string false "JSON {country,region,city,district}"
// @Param        category formData string false "Category"
// @Param        phone formData string false "Contact phone"
// @Param        email formData string false "Contact email"
// @Param        pricing_tiers formData string false "JSON [{hours,price}]"
// @Param        services formData string false "JSON [string]"
// @Param        images formData []string false "Image URLs"
// @Param        videos formData []string false "Video URLs"
// @Success      201  {object}  entity.Listing
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /listings [post]
func (h *ListingHandler) CreateListing(c *gin.Context) {
	fields, err := bindListingFields(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	input, err := fields.input()
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	listing, err := h.listingUseCase.CreateListing(c.Request.Context(), actorFrom(c), input)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create listing")
		return
	}

	c.JSON(http.StatusCreated, listing)
}

// ListListings godoc
// @Summary      List approved listings
// @Tags         listings
// @Produce      json
// @Param        category query string false "Category"
// @Param        location query string false "Matches country, region, city or district"
// @Param        min_price query number false "Minimum price"
// @Param        max_price query number false "Maximum price"
// @Param        search query string false "Search in title and description"
// @Param        featured query bool false "Only featured"
// @Param        user_id query string false "Owner"
// @Param        limit query int false "Max results (default 50, max 100)"
// @Success      200  {array}   entity.Listing
// @Failure      400  {object}  map[string]string
// @Router       /listings [get]
func (h *ListingHandler) ListListings(c *gin.Context) {
	filter, err := listingFilter(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	listings, err := h.listingUseCase.ListPublic(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch listings")
		return
	}
	c.JSON(http.StatusOK, listingsOrEmpty(listings))
}

// GetListing godoc
// @Summary      Get a listing
// @Description  Returns the listing and counts the view.
// @Tags         listings
// @Produce      json
// @Param        id path string true "Listing ID"
// @Success      200  {object}  entity.Listing
// @Failure      404  {object}  map[string]string
// @Router       /listings/{id} [get]
func (h *ListingHandler) GetListing(c *gin.Context) {
	listing, err := h.listingUseCase.GetListing(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch listing")
		return
	}
	c.JSON(http.StatusOK, listing)
}

// GetMyListings godoc
// @Summary      Own listings
// @Description  All listings of the caller in every status.
// @Tags         listings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   entity.Listing
// @Router       /listings/user/me [get]
func (h *ListingHandler) GetMyListings(c *gin.Context) {
	listings, err := h.listingUseCase.ListOwn(c.Request.Context(), actorFrom(c))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch listings")
		return
	}
	c.JSON(http.StatusOK, listingsOrEmpty(listings))
}

// UpdateListing godoc
// @Summary      Update a listing
// @Description  Owner or admin. Only supplied fields change; status is never changed here.
// @Tags         listings
// @Accept       multipart/form-data
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Listing ID"
// @Success      200  {object}  entity.Listing
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /listings/{id} [put]
func (h *ListingHandler) UpdateListing(c *gin.Context) {
	fields, err := bindListingFields(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	listing, err := h.listingUseCase.UpdateListing(c.Request.Context(), actorFrom(c), c.Param("id"), fields.patch())
	if err != nil {
		respondError(c, h.logger, err, "Failed to update listing")
		return
	}
	c.JSON(http.StatusOK, listing)
}

// DeleteListing godoc
// @Summary      Delete a listing
// @Tags         listings
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Listing ID"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /listings/{id} [delete]
func (h *ListingHandler) DeleteListing(c *gin.Context) {
	if err := h.listingUseCase.DeleteListing(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		respondError(c, h.logger, err, "Failed to delete listing")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Listing deleted"})
}

func listingsOrEmpty(listings []*entity.Listing) []*entity.Listing {
	if listings == nil {
		return []*entity.Listing{}
	}
	return listings
}

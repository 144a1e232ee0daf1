package http

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"classifieds/services/marketplace/internal/entity"
	"classifieds/services/marketplace/internal/usecase"

	"github.com/gin-gonic/gin"
)

// listingFields is the wire form of a listing write. Nil means absent.
type listingFields struct {
	Title        *string               `json:"title"`
	Description  *string               `json:"description"`
	Price        *float64              `json:"price"`
	Location     *entity.Location      `json:"location"`
	Category     *string               `json:"category"`
	Phone        *string               `json:"phone"`
	Email        *string               `json:"email"`
	Images       *[]string             `json:"images"`
	Videos       *[]string             `json:"videos"`
	PricingTiers *[]entity.PricingTier `json:"pricing_tiers"`
	Services     *[]string             `json:"services"`
}

// bindListingFields reads a JSON body or a form. In forms location,
// pricing_tiers and services are JSON strings; any malformed value fails the
// request.
func bindListingFields(c *gin.Context) (*listingFields, error) {
	if strings.HasPrefix(c.ContentType(), "application/json") {
		var f listingFields
		if err := c.ShouldBindJSON(&f); err != nil {
			return nil, fmt.Errorf("invalid JSON body: %v", err)
		}
		return &f, nil
	}

	f := &listingFields{
		Title:       formString(c, "title"),
		Description: formString(c, "description"),
		Category:    formString(c, "category"),
		Phone:       formString(c, "phone"),
		Email:       formString(c, "email"),
		Images:      formList(c, "images"),
		Videos:      formList(c, "videos"),
	}

	if raw := formString(c, "price"); raw != nil {
		price, err := strconv.ParseFloat(strings.TrimSpace(*raw), 64)
		if err != nil {
			return nil, fmt.Errorf("price must be a number")
		}
		f.Price = &price
	}
	if err := formJSON(c, "location", &f.Location); err != nil {
		return nil, err
	}
	if err := formJSON(c, "pricing_tiers", &f.PricingTiers); err != nil {
		return nil, err
	}
	if err := formJSON(c, "services", &f.Services); err != nil {
		return nil, err
	}
	return f, nil
}

func formString(c *gin.Context, key string) *string {
	if v, ok := c.GetPostForm(key); ok {
		return &v
	}
	return nil
}

// formList accepts repeated "key" or "key[]" fields.
func formList(c *gin.Context, key string) *[]string {
	values, ok := c.GetPostFormArray(key)
	if bracketed, okB := c.GetPostFormArray(key + "[]"); okB {
		values = append(values, bracketed...)
		ok = true
	}
	if !ok {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return &out
}

func formJSON[T any](c *gin.Context, key string, dst **T) error {
	raw, ok := c.GetPostForm(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return nil
	}
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return fmt.Errorf("%s must be valid JSON: %v", key, err)
	}
	*dst = &v
	return nil
}

func (f *listingFields) input() (usecase.ListingInput, error) {
	if f.Title == nil || f.Price == nil {
		return usecase.ListingInput{}, fmt.Errorf("title and price are required")
	}
	in := usecase.ListingInput{
		Title: *f.Title,
		Price: *f.Price,
	}
	if f.Description != nil {
		in.Description = *f.Description
	}
	if f.Location != nil {
		in.Location = *f.Location
	}
	if f.Category != nil {
		in.Category = *f.Category
	}
	if f.Phone != nil {
		in.Phone = *f.Phone
	}
	if f.Email != nil {
		in.Email = *f.Email
	}
	if f.Images != nil {
		in.Images = *f.Images
	}
	if f.Videos != nil {
		in.Videos = *f.Videos
	}
	if f.PricingTiers != nil {
		in.PricingTiers = *f.PricingTiers
	}
	if f.Services != nil {
		in.Services = *f.Services
	}
	return in, nil
}

func (f *listingFields) patch() usecase.ListingPatch {
	return usecase.ListingPatch{
		Title:        f.Title,
		Description:  f.Description,
		Price:        f.Price,
		Location:     f.Location,
		Category:     f.Category,
		Phone:        f.Phone,
		Email:        f.Email,
		Images:       f.Images,
		Videos:       f.Videos,
		PricingTiers: f.PricingTiers,
		Services:     f.Services,
	}
}

// listingFilter parses the public query string.
func listingFilter(c *gin.Context) (entity.ListingFilter, error) {
	filter := entity.ListingFilter{
		UserID:   c.Query("user_id"),
		Category: c.Query("category"),
		Location: c.Query("location"),
		Search:   c.Query("search"),
	}

	for key, dst := range map[string]**float64{"min_price": &filter.MinPrice, "max_price": &filter.MaxPrice} {
		if raw := c.Query(key); raw != "" {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return filter, fmt.Errorf("%s must be a number", key)
			}
			*dst = &v
		}
	}
	if raw := c.Query("featured"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, fmt.Errorf("featured must be true or false")
		}
		filter.Featured = &v
	}
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return filter, fmt.Errorf("limit must be a non-negative integer")
		}
		filter.Limit = v
	}
	return filter, nil
}

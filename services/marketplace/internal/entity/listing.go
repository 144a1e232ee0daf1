package entity

import (
	"strings"
	"time"
)

type ListingStatus string

const (
	StatusPending  ListingStatus = "pending"
	StatusApproved ListingStatus = "approved"
	StatusRejected ListingStatus = "rejected"
)

// Valid restricts moderation to the closed set of statuses.
func (s ListingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

type Location struct {
	Country  string `json:"country"`
	Region   string `json:"region"`
	City     string `json:"city"`
	District string `json:"district"`
}

func (l Location) String() string {
	var parts []string
	for _, p := range []string{l.District, l.City, l.Region, l.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

type PricingTier struct {
	Hours float64 `json:"hours"`
	Price float64 `json:"price"`
}

type Listing struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Price        float64       `json:"price"`
	Location     Location      `json:"location"`
	Category     string        `json:"category"`
	Phone        string        `json:"phone,omitempty"`
	Email        string        `json:"email,omitempty"`
	Images       []string      `json:"images"`
	Videos       []string      `json:"videos"`
	PricingTiers []PricingTier `json:"pricing_tiers"`
	Services     []string      `json:"services"`
	UserID       string        `json:"user_id"`
	UserName     string        `json:"user_name"`
	Featured     bool          `json:"featured"`
	Status       ListingStatus `json:"status"`
	Views        int           `json:"views"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// MediaURLs returns images followed by videos.
func (l *Listing) MediaURLs() []string {
	urls := make([]string, 0, len(l.Images)+len(l.Videos))
	urls = append(urls, l.Images...)
	return append(urls, l.Videos...)
}

const (
	DefaultListingLimit = 50
	MaxListingLimit     = 100
	AdminListingLimit   = 1000
)

type ListingFilter struct {
	Status   *ListingStatus
	UserID   string
	Category string
	Location string
	Search   string
	MinPrice *float64
	MaxPrice *float64
	Featured *bool
	Limit    int
}

// NormalizedLimit returns Limit, or the default when unset.
func (f ListingFilter) NormalizedLimit() int {
	if f.Limit <= 0 {
		return DefaultListingLimit
	}
	return f.Limit
}

// ClampLimit bounds a caller-supplied page size for public queries.
func ClampLimit(n int) int {
	switch {
	case n <= 0:
		return DefaultListingLimit
	case n > MaxListingLimit:
		return MaxListingLimit
	default:
		return n
	}
}

type Stats struct {
	TotalListings int64 `json:"total_listings"`
	TotalUsers    int64 `json:"total_users"`
}

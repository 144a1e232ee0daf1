package usecase

import (
	"context"
	"encoding/json"
	"time"

	"classifieds/services/marketplace/internal/entity"

	"github.com/redis/go-redis/v9"
)

const ListingEventsChannel = "listing_events"

type ListingEvents interface {
	ListingApproved(ctx context.Context, listing *entity.Listing) error
}

type listingEvent struct {
	Type      string    `json:"type"`
	ListingID string    `json:"listing_id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	At        time.Time `json:"at"`
}

type redisListingEvents struct {
	client *redis.Client
}

// NewListingEvents publishes on Redis; a nil client drops events.
func NewListingEvents(client *redis.Client) ListingEvents {
	if client == nil {
		return noopListingEvents{}
	}
	return &redisListingEvents{client: client}
}

func (e *redisListingEvents) ListingApproved(ctx context.Context, listing *entity.Listing) error {
	payload, err := json.Marshal(listingEvent{
		Type:      "listing.approved",
		ListingID: listing.ID,
		UserID:    listing.UserID,
		Title:     listing.Title,
		At:        time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return e.client.Publish(ctx, ListingEventsChannel, payload).Err()
}

type noopListingEvents struct{}

func (noopListingEvents) ListingApproved(context.Context, *entity.Listing) error { return nil }

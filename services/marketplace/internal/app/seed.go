package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"classifieds/pkg/config"
	"classifieds/pkg/logger"
	"classifieds/pkg/mediastore"
	"classifieds/pkg/queue"
	"classifieds/services/marketplace/internal/entity"
	"classifieds/services/marketplace/internal/usecase"
)

type SeedOptions struct {
	// ImageURL is fetched once per listing; empty seeds listings without
	// photos.
	ImageURL string
	Password string
}

type seedListing struct {
	title    string
	category string
	price    float64
	location entity.Location
	services []string
}

type seedUser struct {
	email    string
	name     string
	listings []seedListing
}

var seedUsers = []seedUser{
	{"alice@test.com", "Alice", []seedListing{
		{"City bike, 21 speed", "transport", 180, entity.Location{Country: "USA", Region: "California", City: "Los Angeles", District: "Hollywood"}, nil},
		{"Oak dining table", "furniture", 420, entity.Location{Country: "USA", Region: "California", City: "San Francisco"}, nil},
	}},
	{"bob@test.com", "Bob", []seedListing{
		{"Guitar lessons", "services", 35, entity.Location{Country: "United Kingdom", Region: "England", City: "London"}, []string{"beginner", "online"}},
		{"Vintage camera", "electronics", 90, entity.Location{Country: "Germany", Region: "Berlin", City: "Berlin"}, nil},
	}},
	{"charlie@test.com", "Charlie", []seedListing{
		{"Apartment cleaning", "services", 25, entity.Location{Country: "France", Region: "Ile-de-France", City: "Paris"}, []string{"weekly", "deep clean"}},
	}},
}

// Seed creates demo users and listings through the regular use cases and
// approves every listing as the configured admin. Users that already exist
// are reused; users that already own listings are skipped.
func Seed(ctx context.Context, cfg *config.Config, log *logger.Logger, opts SeedOptions) error {
	if cfg.AdminEmail == "" {
		return errors.New("ADMIN_EMAIL is required to approve seeded listings")
	}
	repos, closeStore, err := openRepositories(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore(context.Background())

	store, err := mediastore.NewFS(mediastore.Config{
		BaseDir:   cfg.UploadsDir,
		URLPrefix: cfg.PublicBaseURL + "/uploads",
	})
	if err != nil {
		return err
	}

	pool := queue.NewPool(cfg.WatermarkWorkers, cfg.WatermarkQueueSize, log)
	container, err := NewContainer(cfg, log, Backends{
		Repos:     repos,
		Store:     store,
		Publisher: pool,
		Engine:    newEngine(cfg),
	})
	if err != nil {
		return err
	}
	if err := pool.Consume(container.Processor.Handle); err != nil {
		return err
	}
	defer func() {
		drainCtx, cancel := context.WithTimeout(context.Background(), workerDrainTimeout)
		defer cancel()
		if err := pool.Shutdown(drainCtx); err != nil {
			log.Error("Watermark workers did not drain: %v", err)
		}
	}()

	return seedData(ctx, container, opts)
}

func seedData(ctx context.Context, container *Container, opts SeedOptions) error {
	cfg, log := container.Config, container.Logger
	if opts.Password == "" {
		opts.Password = "password123"
	}

	admin, err := seedAccount(ctx, container.Auth, cfg.AdminEmail, "Admin", opts.Password)
	if err != nil {
		return fmt.Errorf("admin account: %w", err)
	}
	if err := container.Auth.BootstrapAdmin(ctx, cfg.AdminEmail); err != nil {
		return err
	}
	adminActor := entity.Actor{UserID: admin.ID, Role: entity.RoleAdmin}

	httpClient := &http.Client{Timeout: 30 * time.Second}

	for _, su := range seedUsers {
		user, err := seedAccount(ctx, container.Auth, su.email, su.name, opts.Password)
		if err != nil {
			log.Error("Failed to create user %s: %v", su.email, err)
			continue
		}
		actor := entity.Actor{UserID: user.ID, Role: user.Role}

		own, err := container.Listings.ListOwn(ctx, actor)
		if err != nil {
			return err
		}
		if len(own) > 0 {
			log.Info("User %s already has listings, skipping", su.email)
			continue
		}

		for i, sl := range su.listings {
			input := usecase.ListingInput{
				Title:       sl.title,
				Description: fmt.Sprintf("%s, offered by %s", sl.title, su.name),
				Price:       sl.price,
				Location:    sl.location,
				Category:    sl.category,
				Email:       su.email,
				Services:    sl.services,
			}
			if opts.ImageURL != "" {
				asset, err := seedImage(ctx, httpClient, container.Upload, user.ID, opts.ImageURL, i)
				if err != nil {
					log.Warn("Failed to fetch image for %q: %v", sl.title, err)
				} else {
					input.Images = []string{asset.URL}
				}
			}

			listing, err := container.Listings.CreateListing(ctx, actor, input)
			if err != nil {
				log.Error("Failed to create listing %q: %v", sl.title, err)
				continue
			}
			if _, err := container.Moderation.ModerateListing(ctx, adminActor, listing.ID, entity.StatusApproved); err != nil {
				log.Error("Failed to approve listing %s: %v", listing.ID, err)
				continue
			}
			log.Info("Created listing: %s by %s", listing.Title, su.name)
		}
	}
	return nil
}

func seedAccount(ctx context.Context, auth usecase.AuthUseCase, email, name, password string) (*entity.User, error) {
	user, _, err := auth.Register(ctx, email, password, name)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, entity.ErrValidation) {
		return nil, err
	}
	user, _, err = auth.Login(ctx, email, password)
	return user, err
}

func seedImage(ctx context.Context, client *http.Client, upload usecase.UploadUseCase, ownerID, imageURL string, index int) (*entity.MediaAsset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image source returned status %d", resp.StatusCode)
	}
	return upload.Accept(ctx, ownerID, resp.Body, fmt.Sprintf("seed_%d.jpg", index))
}

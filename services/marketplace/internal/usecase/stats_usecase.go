package usecase

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"classifieds/pkg/logger"
	"classifieds/services/marketplace/internal/entity"
	"classifieds/services/marketplace/internal/repo"

	"github.com/redis/go-redis/v9"
)

const (
	statsCacheKey = "stats:summary"
	statsCacheTTL = 60 * time.Second
)

//go:embed locations.json
var locationsJSON []byte

// LocationCatalog maps country to region to city to districts.
type LocationCatalog map[string]map[string]map[string][]string

type StatsUseCase interface {
	GetStats(ctx context.Context) (*entity.Stats, error)
	Locations() LocationCatalog
}

type statsUseCase struct {
	listingRepo repo.ListingRepository
	userRepo    repo.UserRepository
	redis       *redis.Client
	catalog     LocationCatalog
	logger      *logger.Logger
}

func NewStatsUseCase(listingRepo repo.ListingRepository, userRepo repo.UserRepository, redisClient *redis.Client, logger *logger.Logger) (StatsUseCase, error) {
	var catalog LocationCatalog
	if err := json.Unmarshal(locationsJSON, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse location catalog: %w", err)
	}
	return &statsUseCase{
		listingRepo: listingRepo,
		userRepo:    userRepo,
		redis:       redisClient,
		catalog:     catalog,
		logger:      logger,
	}, nil
}

func (uc *statsUseCase) GetStats(ctx context.Context) (*entity.Stats, error) {
	if uc.redis != nil {
		if cached, err := uc.redis.Get(ctx, statsCacheKey).Bytes(); err == nil {
			var stats entity.Stats
			if err := json.Unmarshal(cached, &stats); err == nil {
				return &stats, nil
			}
		}
	}

	listings, err := uc.listingRepo.CountByStatus(ctx, entity.StatusApproved)
	if err != nil {
		return nil, err
	}
	users, err := uc.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	stats := &entity.Stats{TotalListings: listings, TotalUsers: users}

	if uc.redis != nil {
		if payload, err := json.Marshal(stats); err == nil {
			if err := uc.redis.Set(ctx, statsCacheKey, payload, statsCacheTTL).Err(); err != nil {
				uc.logger.Warn("Failed to cache stats: %v", err)
			}
		}
	}
	return stats, nil
}

func (uc *statsUseCase) Locations() LocationCatalog {
	return uc.catalog
}

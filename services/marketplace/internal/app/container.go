package internal

import (
	"context"

	"classifieds/pkg/config"
	"classifieds/pkg/jwt"
	"classifieds/pkg/logger"
	"classifieds/pkg/mediastore"
	"classifieds/pkg/middleware"
	"classifieds/pkg/queue"
	"classifieds/services/marketplace/internal/repo"
	"classifieds/services/marketplace/internal/usecase"

	"github.com/redis/go-redis/v9"
)

// Container holds the wired use cases shared by the router and the workers.
type Container struct {
	Config *config.Config
	Logger *logger.Logger
	Redis  *redis.Client
	Store  *mediastore.FS

	Gate       *usecase.AccessGate
	Auth       usecase.AuthUseCase
	Users      usecase.UserAdminUseCase
	Listings   usecase.ListingUseCase
	Moderation usecase.ModerationUseCase
	Favorites  usecase.FavoriteUseCase
	Messages   usecase.MessageUseCase
	Media      usecase.MediaUseCase
	Stats      usecase.StatsUseCase
	Upload     usecase.UploadUseCase
	Processor  *usecase.WatermarkProcessor
}

// Backends are the infrastructure pieces chosen at startup. Redis and Mirror
// may be nil.
type Backends struct {
	Repos     repo.Repositories
	Store     *mediastore.FS
	Publisher queue.Publisher
	Engine    usecase.Watermarker
	Mirror    usecase.Mirror
	Redis     *redis.Client
}

func NewContainer(cfg *config.Config, log *logger.Logger, b Backends) (*Container, error) {
	tokens := jwt.NewServiceWithTTL(cfg.JWTSecret, cfg.JWTTTL)
	repos := b.Repos

	stats, err := usecase.NewStatsUseCase(repos.Listings, repos.Users, b.Redis, log)
	if err != nil {
		return nil, err
	}

	return &Container{
		Config: cfg,
		Logger: log,
		Redis:  b.Redis,
		Store:  b.Store,

		Gate:       usecase.NewAccessGate(tokens, repos.Users),
		Auth:       usecase.NewAuthUseCase(repos.Users, tokens, cfg.AdminEmail, log),
		Users:      usecase.NewUserAdminUseCase(repos.Users, log),
		Listings:   usecase.NewListingUseCase(repos.Listings, repos.Users, repos.Media, b.Store, log),
		Moderation: usecase.NewModerationUseCase(repos.Listings, usecase.NewListingEvents(b.Redis), log),
		Favorites:  usecase.NewFavoriteUseCase(repos.Favorites, repos.Listings),
		Messages:   usecase.NewMessageUseCase(repos.Messages, repos.Users, repos.Listings, usecase.NewMessageNotifier(b.Redis, log), log),
		Media:      usecase.NewMediaUseCase(repos.Media, b.Publisher, log),
		Stats:      stats,
		Upload:     usecase.NewUploadUseCase(b.Store, repos.Media, b.Publisher, log),
		Processor:  usecase.NewWatermarkProcessor(b.Engine, repos.Media, b.Mirror, log),
	}, nil
}

// Authenticator adapts the access gate to the auth middleware.
func (c *Container) Authenticator() middleware.Authenticator {
	return middleware.AuthenticatorFunc(func(ctx context.Context, token string) (middleware.Principal, error) {
		actor, err := c.Gate.Actor(ctx, token)
		if err != nil {
			return middleware.Principal{}, err
		}
		return middleware.Principal{UserID: actor.UserID, Role: string(actor.Role)}, nil
	})
}

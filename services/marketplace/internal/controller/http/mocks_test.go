package http

import (
	"context"
	"io"

	"classifieds/pkg/logger"
	"classifieds/services/marketplace/internal/entity"
	"classifieds/services/marketplace/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
)

type MockListingUseCase struct {
	mock.Mock
}

var _ usecase.ListingUseCase = (*MockListingUseCase)(nil)

func (m *MockListingUseCase) CreateListing(ctx context.Context, actor entity.Actor, input usecase.ListingInput) (*entity.Listing, error) {
	args := m.Called(actor, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Listing), args.Error(1)
}

func (m *MockListingUseCase) GetListing(ctx context.Context, listingID string) (*entity.Listing, error) {
	args := m.Called(listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Listing), args.Error(1)
}

func (m *MockListingUseCase) ListPublic(ctx context.Context, filter entity.ListingFilter) ([]*entity.Listing, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Listing), args.Error(1)
}

func (m *MockListingUseCase) ListOwn(ctx context.Context, actor entity.Actor) ([]*entity.Listing, error) {
	args := m.Called(actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Listing), args.Error(1)
}

func (m *MockListingUseCase) UpdateListing(ctx context.Context, actor entity.Actor, listingID string, patch usecase.ListingPatch) (*entity.Listing, error) {
	args := m.Called(actor, listingID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Listing), args.Error(1)
}

func (m *MockListingUseCase) DeleteListing(ctx context.Context, actor entity.Actor, listingID string) error {
	args := m.Called(actor, listingID)
	return args.Error(0)
}

func (m *MockListingUseCase) SetFeatured(ctx context.Context, actor entity.Actor, listingID string, featured bool) (*entity.Listing, error) {
	args := m.Called(actor, listingID, featured)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Listing), args.Error(1)
}

type MockModerationUseCase struct {
	mock.Mock
}

var _ usecase.ModerationUseCase = (*MockModerationUseCase)(nil)

func (m *MockModerationUseCase) ModerateListing(ctx context.Context, actor entity.Actor, listingID string, status entity.ListingStatus) (*entity.Listing, error) {
	args := m.Called(actor, listingID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Listing), args.Error(1)
}

func (m *MockModerationUseCase) ListByStatus(ctx context.Context, actor entity.Actor, status entity.ListingStatus) ([]*entity.Listing, error) {
	args := m.Called(actor, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Listing), args.Error(1)
}

type MockUploadUseCase struct {
	mock.Mock
}

var _ usecase.UploadUseCase = (*MockUploadUseCase)(nil)

// Accept drains the reader so tests can assert on the streamed bytes.
func (m *MockUploadUseCase) Accept(ctx context.Context, ownerID string, r io.Reader, filename string) (*entity.MediaAsset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	args := m.Called(ownerID, string(data), filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.MediaAsset), args.Error(1)
}

type MockFavoriteUseCase struct {
	mock.Mock
}

var _ usecase.FavoriteUseCase = (*MockFavoriteUseCase)(nil)

func (m *MockFavoriteUseCase) AddFavorite(ctx context.Context, actor entity.Actor, listingID string) (bool, error) {
	args := m.Called(actor, listingID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFavoriteUseCase) RemoveFavorite(ctx context.Context, actor entity.Actor, listingID string) error {
	args := m.Called(actor, listingID)
	return args.Error(0)
}

func (m *MockFavoriteUseCase) ListFavorites(ctx context.Context, actor entity.Actor) ([]*entity.Listing, error) {
	args := m.Called(actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Listing), args.Error(1)
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func withActor(userID string, role entity.Role, h gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("user_role", string(role))
		h(c)
	}
}

func testLogger() *logger.Logger {
	return logger.NewWithOptions(logger.Options{Development: true, Output: io.Discard})
}

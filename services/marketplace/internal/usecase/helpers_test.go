package usecase

import (
	"context"
	"io"
	"testing"

	"classifieds/pkg/logger"
	"classifieds/pkg/mediastore"
	"classifieds/pkg/queue"
	"classifieds/pkg/watermark"
	"classifieds/services/marketplace/internal/entity"
	"classifieds/services/marketplace/internal/model"
	"classifieds/services/marketplace/internal/repo"
	"classifieds/services/marketplace/internal/repo/persistent"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func testLogger() *logger.Logger {
	return logger.NewWithOptions(logger.Options{Development: true, Output: io.Discard})
}

func setupRepos(t *testing.T) repo.Repositories {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(model.All()...))
	return persistent.NewRepositories(db)
}

func setupStore(t *testing.T) *mediastore.FS {
	t.Helper()
	store, err := mediastore.NewFS(mediastore.Config{BaseDir: t.TempDir(), URLPrefix: "http://test/uploads"})
	require.NoError(t, err)
	return store
}

func createUser(t *testing.T, repos repo.Repositories, email string, role entity.Role) *entity.User {
	t.Helper()
	user := &entity.User{Email: email, Name: email, Password: "x", Role: role}
	require.NoError(t, repos.Users.Create(context.Background(), user))
	return user
}

func actorFor(u *entity.User) entity.Actor {
	return entity.Actor{UserID: u.ID, Role: u.Role}
}

type MockPublisher struct {
	mock.Mock
}

var _ queue.Publisher = (*MockPublisher)(nil)

func (m *MockPublisher) Publish(ctx context.Context, job queue.WatermarkJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

type MockWatermarker struct {
	mock.Mock
}

var _ Watermarker = (*MockWatermarker)(nil)

func (m *MockWatermarker) Apply(ctx context.Context, path string, kind watermark.Kind) error {
	args := m.Called(ctx, path, kind)
	return args.Error(0)
}

type MockMirror struct {
	mock.Mock
}

func (m *MockMirror) UploadPath(ctx context.Context, path string) (string, error) {
	args := m.Called(ctx, path)
	return args.String(0), args.Error(1)
}

type MockListingEvents struct {
	mock.Mock
}

var _ ListingEvents = (*MockListingEvents)(nil)

func (m *MockListingEvents) ListingApproved(ctx context.Context, listing *entity.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

package usecase

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"classifieds/pkg/queue"
	"classifieds/services/marketplace/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUploadUseCase_AcceptSchedulesOneJob(t *testing.T) {
	repos := setupRepos(t)
	store := setupStore(t)
	publisher := new(MockPublisher)
	uc := NewUploadUseCase(store, repos.Media, publisher, testLogger())

	publisher.On("Publish", mock.Anything, mock.MatchedBy(func(job queue.WatermarkJob) bool {
		return job.Kind == "image" && strings.HasSuffix(job.Path, ".jpg")
	})).Return(nil).Once()

	asset, err := uc.Accept(context.Background(), "user-1", strings.NewReader("jpeg bytes"), "Holiday.JPG")
	require.NoError(t, err)

	assert.Equal(t, entity.MediaImage, asset.Kind)
	assert.Equal(t, ".jpg", asset.Extension)
	assert.Equal(t, entity.WatermarkPending, asset.WatermarkStatus)
	assert.Equal(t, int64(len("jpeg bytes")), asset.Size)
	assert.Equal(t, store.URL(asset.Name), asset.URL)
	assert.NotContains(t, asset.Name, "Holiday")

	data, err := os.ReadFile(store.Path(asset.Name))
	require.NoError(t, err)
	assert.Equal(t, "jpeg bytes", string(data))

	publisher.AssertExpectations(t)
}

func TestUploadUseCase_OtherKindIsSkipped(t *testing.T) {
	repos := setupRepos(t)
	publisher := new(MockPublisher)
	uc := NewUploadUseCase(setupStore(t), repos.Media, publisher, testLogger())

	asset, err := uc.Accept(context.Background(), "user-1", strings.NewReader("%PDF"), "doc.pdf")
	require.NoError(t, err)

	assert.Equal(t, entity.MediaOther, asset.Kind)
	assert.Equal(t, entity.WatermarkSkipped, asset.WatermarkStatus)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestUploadUseCase_OddFilenamesAreStillStored(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		wantExt  string
		wantKind entity.MediaKind
	}{
		{"backslash in extension", `notes.tx\t`, "", entity.MediaOther},
		{"overlong extension", "file." + strings.Repeat("x", 260), "", entity.MediaOther},
		{"no extension", "README", "", entity.MediaOther},
		{"non-ascii extension", "photo.jpég", "", entity.MediaOther},
		{"directory components", "../../etc/photo.jpg", ".jpg", entity.MediaImage},
		{"upper case", "CLIP.MOV", ".mov", entity.MediaVideo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repos := setupRepos(t)
			publisher := new(MockPublisher)
			publisher.On("Publish", mock.Anything, mock.Anything).Return(nil).Maybe()
			uc := NewUploadUseCase(setupStore(t), repos.Media, publisher, testLogger())

			asset, err := uc.Accept(context.Background(), "user-1", strings.NewReader("payload"), tt.filename)
			require.NoError(t, err)

			assert.Equal(t, tt.wantExt, asset.Extension)
			assert.Equal(t, tt.wantKind, asset.Kind)
			assert.True(t, strings.HasSuffix(asset.Name, tt.wantExt))
			assert.NotContains(t, asset.Name, "/")

			data, err := os.ReadFile(asset.Path)
			require.NoError(t, err)
			assert.Equal(t, "payload", string(data))
		})
	}
}

func TestUploadUseCase_EnqueueFailureMarksAsset(t *testing.T) {
	repos := setupRepos(t)
	publisher := new(MockPublisher)
	uc := NewUploadUseCase(setupStore(t), repos.Media, publisher, testLogger())
	publisher.On("Publish", mock.Anything, mock.Anything).Return(queue.ErrQueueFull)

	asset, err := uc.Accept(context.Background(), "user-1", strings.NewReader("video"), "clip.mp4")
	require.NoError(t, err)

	stored, err := repos.Media.GetByID(context.Background(), asset.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.WatermarkFailed, stored.WatermarkStatus)
	assert.Contains(t, stored.WatermarkError, "enqueue")
}

func TestUploadUseCase_PublishOutlivesRequest(t *testing.T) {
	repos := setupRepos(t)
	publisher := new(MockPublisher)
	uc := NewUploadUseCase(setupStore(t), repos.Media, publisher, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	publisher.On("Publish", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		cancel()
		assert.NoError(t, args.Get(0).(context.Context).Err())
	}).Return(nil)

	_, err := uc.Accept(ctx, "user-1", strings.NewReader("png"), "a.png")
	require.NoError(t, err)
}

type brokenReader struct{}

func (brokenReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestUploadUseCase_StorageFailure(t *testing.T) {
	repos := setupRepos(t)
	store := setupStore(t)
	publisher := new(MockPublisher)
	uc := NewUploadUseCase(store, repos.Media, publisher, testLogger())

	_, err := uc.Accept(context.Background(), "user-1", brokenReader{}, "a.jpg")
	assert.ErrorIs(t, err, entity.ErrStorageIO)

	entries, err := os.ReadDir(store.BaseDir())
	require.NoError(t, err)
	assert.Empty(t, entries)

	assets, err := repos.Media.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, assets)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestWatermarkProcessor_RecordsOutcome(t *testing.T) {
	ctx := context.Background()
	repos := setupRepos(t)
	engine := new(MockWatermarker)
	mirror := new(MockMirror)
	processor := NewWatermarkProcessor(engine, repos.Media, mirror, testLogger())

	ok := &entity.MediaAsset{Name: "ok.jpg", Path: "/data/ok.jpg", Kind: entity.MediaImage, WatermarkStatus: entity.WatermarkPending}
	bad := &entity.MediaAsset{Name: "bad.mp4", Path: "/data/bad.mp4", Kind: entity.MediaVideo, WatermarkStatus: entity.WatermarkPending}
	require.NoError(t, repos.Media.Create(ctx, ok))
	require.NoError(t, repos.Media.Create(ctx, bad))

	engine.On("Apply", mock.Anything, "/data/ok.jpg", mock.Anything).Return(nil)
	engine.On("Apply", mock.Anything, "/data/bad.mp4", mock.Anything).Return(errors.New("ffmpeg: exit status 1"))
	mirror.On("UploadPath", mock.Anything, "/data/ok.jpg").Return("https://bucket/ok.jpg", nil)

	require.NoError(t, processor.Handle(ctx, queue.WatermarkJob{AssetID: ok.ID, Path: ok.Path, Kind: "image"}))
	require.NoError(t, processor.Handle(ctx, queue.WatermarkJob{AssetID: bad.ID, Path: bad.Path, Kind: "video"}))

	gotOK, err := repos.Media.GetByID(ctx, ok.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.WatermarkDone, gotOK.WatermarkStatus)
	assert.Equal(t, "https://bucket/ok.jpg", gotOK.MirrorURL)

	gotBad, err := repos.Media.GetByID(ctx, bad.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.WatermarkFailed, gotBad.WatermarkStatus)
	assert.Contains(t, gotBad.WatermarkError, "exit status 1")

	mirror.AssertNumberOfCalls(t, "UploadPath", 1)
}

func TestMediaUseCase_Reprocess(t *testing.T) {
	ctx := context.Background()
	repos := setupRepos(t)
	publisher := new(MockPublisher)
	uc := NewMediaUseCase(repos.Media, publisher, testLogger())
	admin := entity.Actor{UserID: "admin", Role: entity.RoleAdmin}

	failed := &entity.MediaAsset{Name: "f.jpg", Path: "/data/f.jpg", Kind: entity.MediaImage, WatermarkStatus: entity.WatermarkFailed, WatermarkError: "boom"}
	done := &entity.MediaAsset{Name: "d.jpg", Path: "/data/d.jpg", Kind: entity.MediaImage, WatermarkStatus: entity.WatermarkDone}
	require.NoError(t, repos.Media.Create(ctx, failed))
	require.NoError(t, repos.Media.Create(ctx, done))

	publisher.On("Publish", mock.Anything, queue.WatermarkJob{AssetID: failed.ID, Path: "/data/f.jpg", Kind: "image"}).Return(nil).Once()

	_, err := uc.Reprocess(ctx, entity.Actor{UserID: "u", Role: entity.RoleUser}, failed.ID)
	assert.ErrorIs(t, err, entity.ErrForbidden)

	_, err = uc.Reprocess(ctx, admin, done.ID)
	assert.ErrorIs(t, err, entity.ErrValidation)

	_, err = uc.Reprocess(ctx, admin, "missing")
	assert.ErrorIs(t, err, entity.ErrNotFound)

	asset, err := uc.Reprocess(ctx, admin, failed.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.WatermarkPending, asset.WatermarkStatus)
	assert.Empty(t, asset.WatermarkError)

	failedOnly, err := uc.ListMedia(ctx, admin, entity.WatermarkFailed)
	require.NoError(t, err)
	assert.Empty(t, failedOnly)

	_, err = uc.ListMedia(ctx, admin, entity.WatermarkStatus("weird"))
	assert.ErrorIs(t, err, entity.ErrValidation)

	publisher.AssertExpectations(t)
}

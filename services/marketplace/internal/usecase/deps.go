package usecase

import (
	"context"
	"io"

	"classifieds/pkg/jwt"
	"classifieds/pkg/watermark"
)

// MediaStore is the filesystem behind /uploads.
type MediaStore interface {
	Save(ctx context.Context, r io.Reader, ext string) (string, int64, error)
	Path(name string) string
	URL(name string) string
	NameFromURL(url string) (string, bool)
	Delete(name string) error
}

type Watermarker interface {
	Apply(ctx context.Context, path string, kind watermark.Kind) error
}

// Mirror copies finalized files to object storage.
type Mirror interface {
	UploadPath(ctx context.Context, path string) (string, error)
}

type TokenService interface {
	GenerateToken(userID, role string) (string, error)
	ValidateToken(token string) (*jwt.Claims, error)
}

package entity

import "time"

type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
	MediaOther MediaKind = "other"
)

type WatermarkStatus string

const (
	WatermarkPending WatermarkStatus = "pending"
	WatermarkDone    WatermarkStatus = "done"
	WatermarkFailed  WatermarkStatus = "failed"
	WatermarkSkipped WatermarkStatus = "skipped"
)

func (s WatermarkStatus) Valid() bool {
	switch s {
	case WatermarkPending, WatermarkDone, WatermarkFailed, WatermarkSkipped:
		return true
	}
	return false
}

// MediaAsset is a stored upload. The file at URL is either the original or
// the fully watermarked replacement.
type MediaAsset struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Path            string          `json:"-"`
	URL             string          `json:"url"`
	Extension       string          `json:"extension"`
	Kind            MediaKind       `json:"type"`
	Size            int64           `json:"size"`
	OwnerID         string          `json:"owner_id"`
	ListingID       string          `json:"listing_id,omitempty"`
	WatermarkStatus WatermarkStatus `json:"watermark_status"`
	WatermarkError  string          `json:"watermark_error,omitempty"`
	MirrorURL       string          `json:"mirror_url,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

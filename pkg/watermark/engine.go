// Package watermark burns a brand mark into stored images and videos. Results
// replace the original file atomically; on any failure the original stays.
package watermark

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
)

var (
	ErrTransform       = errors.New("watermark failed")
	ErrFontUnavailable = errors.New("watermark font unavailable")
)

type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
	KindOther Kind = "other"
)

var (
	imageExtensions = map[string]bool{"jpg": true, "jpeg": true, "png": true, "webp": true}
	videoExtensions = map[string]bool{"mp4": true, "mov": true, "avi": true, "webm": true}
)

// Classify maps a file name to a media kind using the extension allow-lists.
func Classify(filename string) Kind {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	switch {
	case imageExtensions[ext]:
		return KindImage
	case videoExtensions[ext]:
		return KindVideo
	default:
		return KindOther
	}
}

type Position string

const (
	PositionCenter      Position = "center"
	PositionBottomRight Position = "bottom-right"
)

func ParsePosition(s string) Position {
	if Position(s) == PositionBottomRight {
		return PositionBottomRight
	}
	return PositionCenter
}

type Options struct {
	Text     string
	Position Position
	// FontPath overrides the embedded Go Bold face. An unreadable path fails
	// every job rather than silently falling back.
	FontPath     string
	Opacity      float64
	FFmpegPath   string
	VideoTimeout time.Duration
}

type Engine struct {
	opts Options

	fontOnce sync.Once
	font     *opentype.Font
	fontErr  error

	fontFileOnce sync.Once
	fontFile     string
	fontFileErr  error
}

func New(opts Options) *Engine {
	if opts.Text == "" {
		opts.Text = "classifieds"
	}
	if opts.Position == "" {
		opts.Position = PositionCenter
	}
	if opts.Opacity <= 0 || opts.Opacity > 1 {
		opts.Opacity = 0.55
	}
	if opts.FFmpegPath == "" {
		opts.FFmpegPath = "ffmpeg"
	}
	if opts.VideoTimeout <= 0 {
		opts.VideoTimeout = 10 * time.Minute
	}
	return &Engine{opts: opts}
}

func (e *Engine) Options() Options {
	return e.opts
}

// Apply watermarks the file at path in place. Running it twice on the same
// file draws a second mark.
func (e *Engine) Apply(ctx context.Context, path string, kind Kind) error {
	var err error
	switch kind {
	case KindImage:
		err = e.applyImage(path)
	case KindVideo:
		err = e.applyVideo(ctx, path)
	default:
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrTransform, filepath.Base(path), err)
	}
	return nil
}

func (e *Engine) loadFont() (*opentype.Font, error) {
	e.fontOnce.Do(func() {
		data := gobold.TTF
		if e.opts.FontPath != "" {
			raw, err := os.ReadFile(e.opts.FontPath)
			if err != nil {
				e.fontErr = fmt.Errorf("%w: %v", ErrFontUnavailable, err)
				return
			}
			data = raw
		}
		f, err := opentype.Parse(data)
		if err != nil {
			e.fontErr = fmt.Errorf("%w: %v", ErrFontUnavailable, err)
			return
		}
		e.font = f
	})
	return e.font, e.fontErr
}

// fontFilePath returns a font file usable by ffmpeg's drawtext filter.
func (e *Engine) fontFilePath() (string, error) {
	if e.opts.FontPath != "" {
		if _, err := os.Stat(e.opts.FontPath); err != nil {
			return "", fmt.Errorf("%w: %v", ErrFontUnavailable, err)
		}
		return e.opts.FontPath, nil
	}
	e.fontFileOnce.Do(func() {
		f, err := os.CreateTemp("", "watermark-font-*.ttf")
		if err != nil {
			e.fontFileErr = fmt.Errorf("%w: %v", ErrFontUnavailable, err)
			return
		}
		defer f.Close()
		if _, err := f.Write(gobold.TTF); err != nil {
			e.fontFileErr = fmt.Errorf("%w: %v", ErrFontUnavailable, err)
			return
		}
		e.fontFile = f.Name()
	})
	return e.fontFile, e.fontFileErr
}

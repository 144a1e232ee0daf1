package watermark

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/webp"

	"classifieds/pkg/mediastore"
)

const (
	minFontSize    = 24
	fontSizeFactor = 0.08
	jpegQuality    = 92
)

func (e *Engine) applyImage(path string) error {
	ext := strings.ToLower(filepath.Ext(path))

	src, err := decodeImage(path, ext)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	marked, err := e.drawMark(src)
	if err != nil {
		return err
	}

	return mediastore.ReplaceFile(path, func(w *os.File) error {
		switch ext {
		case ".webp":
			return nativewebp.Encode(w, marked, nil)
		case ".png":
			return imaging.Encode(w, marked, imaging.PNG)
		default:
			return imaging.Encode(w, marked, imaging.JPEG, imaging.JPEGQuality(jpegQuality))
		}
	})
}

func decodeImage(path, ext string) (image.Image, error) {
	if ext != ".webp" {
		return imaging.Open(path, imaging.AutoOrientation(true))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return webp.Decode(f)
}

// drawMark renders the text over a translucent box on a copy of src.
func (e *Engine) drawMark(src image.Image) (*image.NRGBA, error) {
	ft, err := e.loadFont()
	if err != nil {
		return nil, err
	}

	canvas := imaging.Clone(src)
	b := canvas.Bounds()
	w, h := b.Dx(), b.Dy()

	size := math.Max(minFontSize, fontSizeFactor*float64(min(w, h)))
	face, err := opentype.NewFace(ft, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFontUnavailable, err)
	}
	defer face.Close()

	metrics := face.Metrics()
	ascent := metrics.Ascent.Ceil()
	textW := font.MeasureString(face, e.opts.Text).Ceil()
	textH := ascent + metrics.Descent.Ceil()

	pad := int(size * 0.4)
	boxW, boxH := textW+2*pad, textH+2*pad

	var x0, y0 int
	switch e.opts.Position {
	case PositionBottomRight:
		margin := max(8, min(w, h)/40)
		x0, y0 = w-boxW-margin, h-boxH-margin
	default:
		x0, y0 = (w-boxW)/2, (h-boxH)/2
	}
	x0, y0 = max(0, x0), max(0, y0)

	box := image.Rect(x0, y0, x0+boxW, y0+boxH).Add(b.Min).Intersect(b)
	boxAlpha := uint8(math.Round(255 * e.opts.Opacity * 0.6))
	draw.Draw(canvas, box, image.NewUniform(color.NRGBA{A: boxAlpha}), image.Point{}, draw.Over)

	textAlpha := uint8(math.Round(255 * math.Min(1, e.opts.Opacity+0.3)))
	d := font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(color.NRGBA{R: 255, G: 255, B: 255, A: textAlpha}),
		Face: face,
		Dot:  fixed.P(b.Min.X+x0+pad, b.Min.Y+y0+pad+ascent),
	}
	d.DrawString(e.opts.Text)

	return canvas, nil
}

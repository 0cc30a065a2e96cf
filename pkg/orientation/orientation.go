package orientation

import (
	"context"
	"image"
	"image/draw"
	"log/slog"

	"github.com/adrianliechti/libretto/pkg/ocr"
)

const (
	// MinAngle and MaxAngle bound a near-vertical line, in degrees.
	MinAngle = 75.0
	MaxAngle = 105.0

	// Threshold is the share of vertical lines above which a page is turned.
	Threshold = 0.6
)

// Corrector turns pages whose text runs mostly top to bottom. It never
// fails: without geometry, or on any OCR error, the page is returned as is.
type Corrector struct {
	ocr ocr.Provider

	logger *slog.Logger
}

func New(provider ocr.Provider, options ...Option) *Corrector {
	c := &Corrector{
		ocr: provider,

		logger: slog.Default(),
	}

	for _, option := range options {
		option(c)
	}

	return c
}

// Supported reports whether the OCR engine can deliver line geometry.
func (c *Corrector) Supported() bool {
	return c.ocr != nil && c.ocr.Capabilities().Geometry
}

// Correct returns the page rotated 90° clockwise when it is detected as
// vertical, otherwise the page itself. The second value tells whether a
// rotation happened.
func (c *Corrector) Correct(ctx context.Context, img image.Image) (image.Image, bool) {
	if img == nil || !c.Supported() {
		return img, false
	}

	result, err := c.ocr.Recognize(ctx, img, &ocr.RecognizeOptions{Geometry: true})

	if err != nil {
		c.logger.WarnContext(ctx, "orientation detection failed", "error", err)
		return img, false
	}

	fraction, ok := VerticalFraction(result.Lines)

	if !ok || fraction <= Threshold {
		return img, false
	}

	c.logger.DebugContext(ctx, "rotating page", "vertical", fraction)

	return Rotate90(img), true
}

// VerticalFraction returns the share of lines whose angle lies within
// [MinAngle, MaxAngle]. Lines without usable geometry count towards the
// total but never as vertical. It reports false when there are no lines.
func VerticalFraction(lines []ocr.Line) (float64, bool) {
	if len(lines) == 0 {
		return 0, false
	}

	vertical := 0

	for _, l := range lines {
		angle, ok := l.Angle()

		if !ok {
			continue
		}

		if angle >= MinAngle && angle <= MaxAngle {
			vertical++
		}
	}

	return float64(vertical) / float64(len(lines)), true
}

// Rotate90 rotates the image 90° clockwise; the canvas grows to fit, so a
// w×h page becomes h×w.
func Rotate90(img image.Image) image.Image {
	src := img.Bounds()

	dst := image.NewRGBA(image.Rect(0, 0, src.Dy(), src.Dx()))

	rgba, ok := img.(*image.RGBA)

	if !ok || src.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, src.Dx(), src.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, src.Min, draw.Src)
	}

	w, h := src.Dx(), src.Dy()

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			si := rgba.PixOffset(x, y)
			di := dst.PixOffset(h-1-y, x)

			copy(dst.Pix[di:di+4], rgba.Pix[si:si+4])
		}
	}

	return dst
}

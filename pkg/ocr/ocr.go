package ocr

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"math"
	"strings"
)

// Provider turns a page image into text. Engines that can report per-line
// geometry advertise it through Capabilities so orientation detection can
// use it; the others return text only.
type Provider interface {
	Recognize(ctx context.Context, img image.Image, options *RecognizeOptions) (*Result, error)

	Capabilities() Capabilities
}

type Capabilities struct {
	Geometry bool
}

var (
	ErrRecognize = errors.New("ocr failed")
)

type RecognizeOptions struct {
	Languages []string

	// Geometry asks for line polygons. Engines without geometry ignore it.
	Geometry bool
}

type Result struct {
	Text string

	Lines []Line
}

type Line struct {
	Text string

	Polygon [][2]float64 // [[x1, y1], [x2, y2], [x3, y3], ...]
}

// Angle returns the absolute direction of the line's first polygon edge in
// degrees (0 horizontal, 90 vertical, up to 180).
func (l Line) Angle() (float64, bool) {
	if len(l.Polygon) < 2 {
		return 0, false
	}

	p1, p2 := l.Polygon[0], l.Polygon[1]

	angle := math.Atan2(p2[1]-p1[1], p2[0]-p1[0]) * 180 / math.Pi

	return math.Abs(angle), true
}

// JoinLines builds the page text from recognized lines, separated by spaces.
func JoinLines(lines []Line) string {
	var parts []string

	for _, l := range lines {
		if text := strings.TrimSpace(l.Text); text != "" {
			parts = append(parts, text)
		}
	}

	return strings.Join(parts, " ")
}

// EncodePNG serializes a page for engines that take encoded images.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer

	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

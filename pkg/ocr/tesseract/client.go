package tesseract

import (
	"context"
	"fmt"
	"image"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/adrianliechti/libretto/pkg/ocr"

	"github.com/otiai10/gosseract/v2"
)

var _ ocr.Provider = &Client{}

// Client runs the local Tesseract engine. A single engine handle is reused
// for every page; calls are serialized because Tesseract handles are not
// safe for concurrent use.
type Client struct {
	mu     sync.Mutex
	client *gosseract.Client

	languages []string
}

func New(options ...Option) (*Client, error) {
	c := &Client{
		languages: []string{"ita", "eng"},
	}

	for _, option := range options {
		option(c)
	}

	c.client = gosseract.NewClient()

	if err := c.client.SetLanguage(c.languages...); err != nil {
		c.client.Close()
		return nil, err
	}

	return c, nil
}

func (c *Client) Capabilities() ocr.Capabilities {
	return ocr.Capabilities{
		Geometry: true,
	}
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.client.Close()
}

func (c *Client) Recognize(ctx context.Context, img image.Image, options *ocr.RecognizeOptions) (*ocr.Result, error) {
	if options == nil {
		options = new(ocr.RecognizeOptions)
	}

	data, err := ocr.EncodePNG(img)

	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if len(options.Languages) > 0 && !slices.Equal(options.Languages, c.languages) {
		if err := c.client.SetLanguage(options.Languages...); err != nil {
			return nil, fmt.Errorf("%w: set languages: %w", ocr.ErrRecognize, err)
		}

		defer c.client.SetLanguage(c.languages...)
	}

	if err := c.client.SetImageFromBytes(data); err != nil {
		return nil, fmt.Errorf("%w: set image: %w", ocr.ErrRecognize, err)
	}

	boxes, err := c.client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)

	if err != nil {
		text, err := c.client.Text()

		if err != nil {
			return nil, fmt.Errorf("%w: %w", ocr.ErrRecognize, err)
		}

		return &ocr.Result{
			Text: strings.TrimSpace(text),
		}, nil
	}

	lines := convertLines(boxes)

	return &ocr.Result{
		Text:  ocr.JoinLines(lines),
		Lines: lines,
	}, nil
}

func convertLines(boxes []gosseract.BoundingBox) []ocr.Line {
	lines := make([]ocr.Line, 0, len(boxes))

	for _, b := range boxes {
		text := strings.TrimSpace(b.Word)

		if text == "" {
			continue
		}

		lines = append(lines, ocr.Line{
			Text:    text,
			Polygon: linePolygon(b.Box, text),
		})
	}

	return lines
}

// verticalAspect is the height/width ratio from which a line box is taken to
// run top to bottom.
const verticalAspect = 2.0

// linePolygon turns an axis-aligned line box into a polygon whose first edge
// follows the reading direction: left to right for wide boxes, bottom to top
// for tall narrow ones. Single-rune lines always read left to right.
func linePolygon(r image.Rectangle, text string) [][2]float64 {
	minX, minY := float64(r.Min.X), float64(r.Min.Y)
	maxX, maxY := float64(r.Max.X), float64(r.Max.Y)

	if utf8.RuneCountInString(text) > 1 && float64(r.Dy()) > verticalAspect*float64(r.Dx()) {
		return [][2]float64{
			{minX, maxY},
			{minX, minY},
			{maxX, minY},
			{maxX, maxY},
		}
	}

	return [][2]float64{
		{minX, minY},
		{maxX, minY},
		{maxX, maxY},
		{minX, maxY},
	}
}

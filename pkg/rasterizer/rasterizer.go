package rasterizer

import (
	"context"
	"errors"
	"image"

	"github.com/adrianliechti/libretto/pkg/document"
)

type Provider interface {
	Rasterize(ctx context.Context, doc document.Document, options *RasterizeOptions) ([]image.Image, error)
}

const DefaultDPI = 300

var (
	ErrDocumentOpen = errors.New("cannot open document")
)

type RasterizeOptions struct {
	DPI int
}

// Resolution returns the configured DPI or DefaultDPI.
func (o *RasterizeOptions) Resolution() int {
	if o == nil || o.DPI <= 0 {
		return DefaultDPI
	}

	return o.DPI
}

package fitz

import (
	"context"
	"fmt"
	"image"

	"github.com/adrianliechti/libretto/pkg/document"
	"github.com/adrianliechti/libretto/pkg/rasterizer"

	"github.com/gen2brain/go-fitz"
)

var _ rasterizer.Provider = &Client{}

// Client renders pages with MuPDF.
type Client struct {
}

func New() (*Client, error) {
	return &Client{}, nil
}

func (c *Client) Rasterize(ctx context.Context, doc document.Document, options *rasterizer.RasterizeOptions) ([]image.Image, error) {
	if len(doc.Content) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", rasterizer.ErrDocumentOpen, doc.Name)
	}

	pdf, err := fitz.NewFromMemory(doc.Content)

	if err != nil {
		return nil, fmt.Errorf("%w: %w", rasterizer.ErrDocumentOpen, err)
	}

	defer pdf.Close()

	count := pdf.NumPage()

	if count == 0 {
		return nil, fmt.Errorf("%w: %s has no pages", rasterizer.ErrDocumentOpen, doc.Name)
	}

	dpi := float64(options.Resolution())

	pages := make([]image.Image, 0, count)

	for n := 0; n < count; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		img, err := pdf.ImageDPI(n, dpi)

		if err != nil {
			return nil, fmt.Errorf("render page %d: %w", n+1, err)
		}

		pages = append(pages, img)
	}

	return pages, nil
}

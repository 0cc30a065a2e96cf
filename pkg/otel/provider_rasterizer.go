package otel

import (
	"context"
	"image"
	"io"

	"github.com/adrianliechti/libretto/pkg/document"
	"github.com/adrianliechti/libretto/pkg/rasterizer"

	"go.opentelemetry.io/otel"
)

type Rasterizer interface {
	Observable
	rasterizer.Provider
}

type observableRasterizer struct {
	provider string

	rasterizer rasterizer.Provider
}

func NewRasterizer(provider string, p rasterizer.Provider) Rasterizer {
	return &observableRasterizer{
		rasterizer: p,

		provider: provider,
	}
}

func (p *observableRasterizer) otelSetup() {
}

func (p *observableRasterizer) Close() error {
	if closer, ok := p.rasterizer.(io.Closer); ok {
		return closer.Close()
	}

	return nil
}

func (p *observableRasterizer) Rasterize(ctx context.Context, doc document.Document, options *rasterizer.RasterizeOptions) ([]image.Image, error) {
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "rasterize "+p.provider)
	defer span.End()

	span.SetAttributes(String("document.name", doc.Name))

	pages, err := p.rasterizer.Rasterize(ctx, doc, options)

	if err != nil {
		recordError(span, err)
		return nil, err
	}

	span.SetAttributes(Int("document.pages", len(pages)))

	return pages, nil
}

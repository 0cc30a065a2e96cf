package otel

import (
	"context"
	"image"
	"io"

	"github.com/adrianliechti/libretto/pkg/ocr"

	"go.opentelemetry.io/otel"
)

type OCR interface {
	Observable
	ocr.Provider
}

type observableOCR struct {
	provider string

	ocr ocr.Provider
}

func NewOCR(provider string, p ocr.Provider) OCR {
	return &observableOCR{
		ocr: p,

		provider: provider,
	}
}

func (p *observableOCR) otelSetup() {
}

func (p *observableOCR) Close() error {
	if closer, ok := p.ocr.(io.Closer); ok {
		return closer.Close()
	}

	return nil
}

func (p *observableOCR) Capabilities() ocr.Capabilities {
	return p.ocr.Capabilities()
}

func (p *observableOCR) Recognize(ctx context.Context, img image.Image, options *ocr.RecognizeOptions) (*ocr.Result, error) {
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "recognize "+p.provider)
	defer span.End()

	result, err := p.ocr.Recognize(ctx, img, options)

	if err != nil {
		recordError(span, err)
		return nil, err
	}

	span.SetAttributes(
		Int("ocr.text.length", len(result.Text)),
		Int("ocr.lines", len(result.Lines)),
	)

	return result, nil
}

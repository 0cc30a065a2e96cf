package limiter

import (
	"context"
	"image"
	"io"

	"github.com/adrianliechti/libretto/pkg/ocr"

	"golang.org/x/time/rate"
)

type OCR interface {
	Limiter
	ocr.Provider
}

type limitedOCR struct {
	limiter  *rate.Limiter
	provider ocr.Provider
}

func NewOCR(l *rate.Limiter, p ocr.Provider) OCR {
	return &limitedOCR{
		limiter:  l,
		provider: p,
	}
}

func (p *limitedOCR) limiterSetup() {
}

func (p *limitedOCR) Close() error {
	if closer, ok := p.provider.(io.Closer); ok {
		return closer.Close()
	}

	return nil
}

func (p *limitedOCR) Capabilities() ocr.Capabilities {
	return p.provider.Capabilities()
}

func (p *limitedOCR) Recognize(ctx context.Context, img image.Image, options *ocr.RecognizeOptions) (*ocr.Result, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	return p.provider.Recognize(ctx, img, options)
}

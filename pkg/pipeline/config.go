package pipeline

import (
	"log/slog"
)

type Option func(*Pipeline)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithDPI sets the rasterization resolution.
func WithDPI(dpi int) Option {
	return func(p *Pipeline) {
		p.dpi = dpi
	}
}

// WithLanguages passes language hints to the OCR engine.
func WithLanguages(languages ...string) Option {
	return func(p *Pipeline) {
		p.languages = languages
	}
}

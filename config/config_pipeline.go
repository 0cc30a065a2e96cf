package config

import (
	"log/slog"

	"github.com/adrianliechti/libretto/pkg/extractor"
	"github.com/adrianliechti/libretto/pkg/pipeline"
	"github.com/adrianliechti/libretto/pkg/scorer"
)

// Pipeline assembles a pipeline from the configured providers. The
// providers are shared, so a pipeline is cheap to build per batch.
func (cfg *Config) Pipeline() (*pipeline.Pipeline, error) {
	s, err := scorer.New(cfg.Keywords)

	if err != nil {
		return nil, err
	}

	e, err := extractor.New(cfg.completer, extractor.WithMaterials(cfg.Materials...))

	if err != nil {
		return nil, err
	}

	return pipeline.New(cfg.rasterizer, cfg.ocr, s, e,
		pipeline.WithDPI(cfg.DPI),
		pipeline.WithLanguages(cfg.Languages...),
		pipeline.WithLogger(slog.Default()),
	)
}

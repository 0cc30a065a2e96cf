package config

import (
	"errors"
	"strings"

	"github.com/adrianliechti/libretto/pkg/otel"
	"github.com/adrianliechti/libretto/pkg/rasterizer"
	"github.com/adrianliechti/libretto/pkg/rasterizer/fitz"
	"github.com/adrianliechti/libretto/pkg/rasterizer/poppler"
)

type rasterizerConfig struct {
	Type string `yaml:"type"`

	DPI    int    `yaml:"dpi"`
	Binary string `yaml:"binary"`
}

func (cfg *Config) Rasterizer() rasterizer.Provider {
	return cfg.rasterizer
}

func (cfg *Config) registerRasterizer(f *configFile) error {
	config := f.Rasterizer

	if config.Type == "" {
		config.Type = "fitz"
	}

	if config.DPI > 0 {
		cfg.DPI = config.DPI
	}

	r, err := createRasterizer(config)

	if err != nil {
		return err
	}

	if _, ok := r.(otel.Rasterizer); !ok {
		r = otel.NewRasterizer(strings.ToLower(config.Type), r)
	}

	cfg.RegisterRasterizer(r)

	return nil
}

func createRasterizer(cfg rasterizerConfig) (rasterizer.Provider, error) {
	switch strings.ToLower(cfg.Type) {
	case "fitz", "mupdf":
		return fitz.New()

	case "poppler", "pdftoppm":
		return popplerRasterizer(cfg)

	default:
		return nil, errors.New("invalid rasterizer type: " + cfg.Type)
	}
}

func popplerRasterizer(cfg rasterizerConfig) (rasterizer.Provider, error) {
	var options []poppler.Option

	if cfg.Binary != "" {
		options = append(options, poppler.WithBinary(cfg.Binary))
	}

	return poppler.New(options...)
}

func (cfg *Config) RegisterRasterizer(p rasterizer.Provider) {
	cfg.rasterizer = p
}

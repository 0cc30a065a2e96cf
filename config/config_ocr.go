package config

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/adrianliechti/libretto/pkg/limiter"
	"github.com/adrianliechti/libretto/pkg/ocr"
	"github.com/adrianliechti/libretto/pkg/ocr/azure"
	"github.com/adrianliechti/libretto/pkg/ocr/mistral"
	"github.com/adrianliechti/libretto/pkg/ocr/tesseract"
	"github.com/adrianliechti/libretto/pkg/ocr/vision"
	"github.com/adrianliechti/libretto/pkg/otel"

	"golang.org/x/time/rate"
)

type ocrConfig struct {
	Type string `yaml:"type"`

	URL   string `yaml:"url"`
	Token string `yaml:"token"`
	Model string `yaml:"model"`

	Credentials string `yaml:"credentials"`

	Languages []string `yaml:"languages"`

	Limit *int `yaml:"limit"`
}

type ocrContext struct {
	Limiter *rate.Limiter
}

func (cfg *Config) OCR() ocr.Provider {
	return cfg.ocr
}

func (cfg *Config) registerOCR(f *configFile) error {
	config := f.OCR

	if config.Type == "" {
		config.Type = "tesseract"
	}

	context := ocrContext{
		Limiter: createLimiter(config.Limit),
	}

	p, err := createOCR(config)

	if err != nil {
		return err
	}

	cfg.RegisterOCR(wrapOCR(strings.ToLower(config.Type), context.Limiter, p))
	cfg.Languages = config.Languages

	return nil
}

func wrapOCR(name string, l *rate.Limiter, p ocr.Provider) ocr.Provider {
	if _, ok := p.(limiter.OCR); !ok {
		p = limiter.NewOCR(l, p)
	}

	if _, ok := p.(otel.OCR); !ok {
		p = otel.NewOCR(name, p)
	}

	return p
}

func createOCR(cfg ocrConfig) (ocr.Provider, error) {
	switch strings.ToLower(cfg.Type) {
	case "tesseract":
		return tesseractOCR(cfg)

	case "vision", "google":
		return visionOCR(cfg)

	case "azure":
		return azureOCR(cfg)

	case "mistral":
		return mistralOCR(cfg)

	default:
		return nil, errors.New("invalid ocr type: " + cfg.Type)
	}
}

func tesseractOCR(cfg ocrConfig) (ocr.Provider, error) {
	var options []tesseract.Option

	if len(cfg.Languages) > 0 {
		options = append(options, tesseract.WithLanguages(cfg.Languages...))
	}

	return tesseract.New(options...)
}

func visionOCR(cfg ocrConfig) (ocr.Provider, error) {
	var options []vision.Option

	if cfg.URL != "" {
		options = append(options, vision.WithURL(cfg.URL))
	}

	if cfg.Token != "" {
		options = append(options, vision.WithToken(cfg.Token))
	}

	if cfg.Credentials != "" {
		data, err := os.ReadFile(cfg.Credentials)

		if err != nil {
			return nil, err
		}

		options = append(options, vision.WithCredentials(data))
	}

	if len(cfg.Languages) > 0 {
		options = append(options, vision.WithLanguages(cfg.Languages...))
	}

	return vision.New(context.Background(), options...)
}

func azureOCR(cfg ocrConfig) (ocr.Provider, error) {
	var options []azure.Option

	if cfg.Token != "" {
		options = append(options, azure.WithToken(cfg.Token))
	}

	return azure.New(cfg.URL, options...)
}

func mistralOCR(cfg ocrConfig) (ocr.Provider, error) {
	var options []mistral.Option

	if cfg.URL != "" {
		options = append(options, mistral.WithURL(cfg.URL))
	}

	if cfg.Token != "" {
		options = append(options, mistral.WithToken(cfg.Token))
	}

	if cfg.Model != "" {
		options = append(options, mistral.WithModel(cfg.Model))
	}

	return mistral.New(options...)
}

func (cfg *Config) RegisterOCR(p ocr.Provider) {
	cfg.ocr = p
}

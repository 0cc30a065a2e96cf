package config

import (
	"errors"
	"strings"

	"github.com/adrianliechti/libretto/pkg/limiter"
	"github.com/adrianliechti/libretto/pkg/otel"
	"github.com/adrianliechti/libretto/pkg/provider"
	"github.com/adrianliechti/libretto/pkg/provider/anthropic"
	"github.com/adrianliechti/libretto/pkg/provider/google"
	"github.com/adrianliechti/libretto/pkg/provider/openai"

	"golang.org/x/time/rate"
)

type completerConfig struct {
	Type string `yaml:"type"`

	URL   string `yaml:"url"`
	Token string `yaml:"token"`
	Model string `yaml:"model"`

	Limit *int `yaml:"limit"`
}

type completerContext struct {
	Limiter *rate.Limiter
}

func (cfg *Config) Completer() provider.Completer {
	return cfg.completer
}

func (cfg *Config) registerCompleter(f *configFile) error {
	config := f.Completer

	if config.Type == "" {
		config.Type = "openai"
	}

	context := completerContext{
		Limiter: createLimiter(config.Limit),
	}

	completer, err := createCompleter(config)

	if err != nil {
		return err
	}

	if _, ok := completer.(limiter.Completer); !ok {
		completer = limiter.NewCompleter(context.Limiter, completer)
	}

	if _, ok := completer.(otel.Completer); !ok {
		completer = otel.NewCompleter(strings.ToLower(config.Type), config.Model, completer)
	}

	cfg.RegisterCompleter(completer)

	return nil
}

func createCompleter(cfg completerConfig) (provider.Completer, error) {
	switch strings.ToLower(cfg.Type) {
	case "openai":
		return openaiCompleter(cfg)

	case "anthropic":
		return anthropicCompleter(cfg)

	case "google", "gemini":
		return googleCompleter(cfg)

	default:
		return nil, errors.New("invalid completer type: " + cfg.Type)
	}
}

func openaiCompleter(cfg completerConfig) (provider.Completer, error) {
	var options []openai.Option

	if cfg.Token != "" {
		options = append(options, openai.WithToken(cfg.Token))
	}

	return openai.NewCompleter(cfg.URL, cfg.Model, options...)
}

func anthropicCompleter(cfg completerConfig) (provider.Completer, error) {
	var options []anthropic.Option

	if cfg.Token != "" {
		options = append(options, anthropic.WithToken(cfg.Token))
	}

	return anthropic.NewCompleter(cfg.URL, cfg.Model, options...)
}

func googleCompleter(cfg completerConfig) (provider.Completer, error) {
	var options []google.Option

	if cfg.URL != "" {
		options = append(options, google.WithURL(cfg.URL))
	}

	if cfg.Token != "" {
		options = append(options, google.WithToken(cfg.Token))
	}

	return google.NewCompleter(cfg.Model, options...)
}

func (cfg *Config) RegisterCompleter(p provider.Completer) {
	cfg.completer = p
}

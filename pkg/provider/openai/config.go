package openai

import (
	"net/http"
	"strings"

	"github.com/openai/openai-go/v3/option"
)

const (
	defaultURL   = "https://api.openai.com/v1/"
	defaultModel = "gpt-4o"
)

type Config struct {
	url string

	token string
	model string

	// detail is the vision fidelity for image parts: low, high or auto
	detail string

	client *http.Client
}

type Option func(*Config)

func WithClient(client *http.Client) Option {
	return func(c *Config) {
		c.client = client
	}
}

func WithToken(token string) Option {
	return func(c *Config) {
		c.token = token
	}
}

// WithImageDetail trades accuracy on dense scans for fewer input tokens.
func WithImageDetail(detail string) Option {
	return func(c *Config) {
		c.detail = detail
	}
}

func (c *Config) Options() []option.RequestOption {
	if c.url == "" {
		c.url = defaultURL
	}

	if c.client == nil {
		c.client = http.DefaultClient
	}

	c.url = strings.TrimRight(c.url, "/") + "/"

	if strings.Contains(c.url, "openai.azure.com") || strings.Contains(c.url, "cognitiveservices.azure.com") {
		options := make([]option.RequestOption, 0)

		options = append(options,
			option.WithBaseURL(c.url),
			option.WithHTTPClient(c.client),

			option.WithQueryAdd("api-version", "preview"),
		)

		if c.token != "" {
			options = append(options, option.WithHeader("Api-Key", c.token))
		}

		return options
	}

	options := []option.RequestOption{
		option.WithBaseURL(c.url),
		option.WithHTTPClient(c.client),
	}

	if c.token != "" {
		options = append(options, option.WithAPIKey(c.token))
	}

	return options
}

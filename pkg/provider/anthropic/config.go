package anthropic

import (
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	defaultURL   = "https://api.anthropic.com/"
	defaultModel = "claude-sonnet-4-5"

	// the messages API requires an explicit output limit
	defaultMaxTokens = 4096
)

type Config struct {
	url string

	token string
	model string

	maxTokens int

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

// WithMaxTokens sets the output limit used when a request does not set one.
func WithMaxTokens(tokens int) Option {
	return func(c *Config) {
		c.maxTokens = tokens
	}
}

func (cfg *Config) Options() []option.RequestOption {
	url := cfg.url

	if url == "" {
		url = defaultURL
	}

	options := []option.RequestOption{
		option.WithBaseURL(strings.TrimRight(url, "/") + "/"),
	}

	if cfg.client != nil {
		options = append(options, option.WithHTTPClient(cfg.client))
	}

	if cfg.token != "" {
		options = append(options, option.WithAPIKey(cfg.token))
	}

	return options
}

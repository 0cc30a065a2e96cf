package vision

import (
	"net/http"

	"google.golang.org/api/option"
)

type Config struct {
	url string

	token       string
	credentials []byte

	languages []string

	client *http.Client
}

type Option func(*Config)

func WithURL(url string) Option {
	return func(c *Config) {
		c.url = url
	}
}

// WithToken authenticates with an API key.
func WithToken(token string) Option {
	return func(c *Config) {
		c.token = token
	}
}

// WithCredentials authenticates with a service account JSON key.
func WithCredentials(data []byte) Option {
	return func(c *Config) {
		c.credentials = data
	}
}

func WithLanguages(languages ...string) Option {
	return func(c *Config) {
		c.languages = languages
	}
}

func WithClient(client *http.Client) Option {
	return func(c *Config) {
		c.client = client
	}
}

func (c *Config) Options() []option.ClientOption {
	var options []option.ClientOption

	if c.url != "" {
		options = append(options, option.WithEndpoint(c.url))
	}

	if c.client != nil {
		options = append(options, option.WithHTTPClient(c.client))
	}

	switch {
	case len(c.credentials) > 0:
		options = append(options, option.WithCredentialsJSON(c.credentials))

	case c.token != "":
		options = append(options, option.WithAPIKey(c.token))
	}

	return options
}

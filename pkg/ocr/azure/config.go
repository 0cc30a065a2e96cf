package azure

import (
	"net/http"
	"time"
)

type Option func(*Client)

func WithClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithInterval sets how often a running analysis is polled.
func WithInterval(interval time.Duration) Option {
	return func(c *Client) {
		c.interval = interval
	}
}

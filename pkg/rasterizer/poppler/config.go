package poppler

type Option func(*Client)

func WithBinary(path string) Option {
	return func(c *Client) {
		c.binary = path
	}
}

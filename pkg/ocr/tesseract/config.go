package tesseract

type Option func(*Client)

// WithLanguages sets the traineddata languages, e.g. "ita", "eng".
func WithLanguages(languages ...string) Option {
	return func(c *Client) {
		if len(languages) > 0 {
			c.languages = languages
		}
	}
}

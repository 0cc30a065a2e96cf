package orientation

import (
	"log/slog"
)

type Option func(*Corrector)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Corrector) {
		c.logger = logger
	}
}

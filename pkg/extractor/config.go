package extractor

type Option func(*Extractor)

// WithMaterials sets the allowed material qualities listed in the prompt.
func WithMaterials(materials ...string) Option {
	return func(e *Extractor) {
		e.materials = materials
	}
}

func WithTemperature(temperature float32) Option {
	return func(e *Extractor) {
		e.temperature = temperature
	}
}

func WithMaxTokens(tokens int) Option {
	return func(e *Extractor) {
		e.maxTokens = tokens
	}
}

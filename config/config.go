package config

import (
	"bytes"
	"errors"
	"io"
	"os"

	"github.com/adrianliechti/libretto/pkg/auth"
	"github.com/adrianliechti/libretto/pkg/extractor"
	"github.com/adrianliechti/libretto/pkg/ocr"
	"github.com/adrianliechti/libretto/pkg/provider"
	"github.com/adrianliechti/libretto/pkg/rasterizer"

	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"
)

// DefaultKeywords are the terms that mark the page holding the materials
// table.
var DefaultKeywords = []string{
	"fasciame",
	"fondo",
	"fondi",
	"materiali impiegati",
	"spessore",
	"KW",
	"prove",
	"Fe",
	"calotta",
	"tronchetti",
	"membratura",
	"costruttore",
	"temp",
	"temperatura",
	"qualita",
	"talloni di saldatura",
	"nominale",
}

type Config struct {
	Address string

	Authorizers []auth.Provider

	DPI       int
	Languages []string

	Keywords  []string
	Materials []string

	rasterizer rasterizer.Provider
	ocr        ocr.Provider
	completer  provider.Completer
}

// Parse reads a YAML config file. An empty path yields the defaults.
func Parse(path string) (*Config, error) {
	file := &configFile{}

	if path != "" {
		f, err := parseFile(path)

		if err != nil {
			return nil, err
		}

		file = f
	}

	c := &Config{
		Address: ":8080",

		DPI: rasterizer.DefaultDPI,

		Keywords:  DefaultKeywords,
		Materials: extractor.DefaultMaterials,
	}

	if file.Address != "" {
		c.Address = file.Address
	}

	if len(file.Keywords) > 0 {
		c.Keywords = file.Keywords
	}

	if len(file.Materials) > 0 {
		c.Materials = file.Materials
	}

	if err := c.registerAuthorizer(file); err != nil {
		return nil, err
	}

	if err := c.registerRasterizer(file); err != nil {
		return nil, err
	}

	if err := c.registerOCR(file); err != nil {
		return nil, err
	}

	if err := c.registerCompleter(file); err != nil {
		return nil, err
	}

	return c, nil
}

// Close releases engines holding native resources.
func (c *Config) Close() error {
	var result error

	for _, p := range []any{c.rasterizer, c.ocr, c.completer} {
		if closer, ok := p.(io.Closer); ok {
			result = errors.Join(result, closer.Close())
		}
	}

	return result
}

type configFile struct {
	Address string `yaml:"address"`

	Authorizers []authorizerConfig `yaml:"authorizers"`

	Rasterizer rasterizerConfig `yaml:"rasterizer"`
	OCR        ocrConfig        `yaml:"ocr"`
	Completer  completerConfig  `yaml:"completer"`

	Keywords  []string `yaml:"keywords"`
	Materials []string `yaml:"materials"`
}

func parseFile(path string) (*configFile, error) {
	data, err := os.ReadFile(path)

	if err != nil {
		return nil, err
	}

	data = []byte(os.ExpandEnv(string(data)))

	var config configFile

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	return &config, nil
}

func createLimiter(limit *int) *rate.Limiter {
	if limit == nil {
		return nil
	}

	return rate.NewLimiter(rate.Limit(*limit), *limit)
}

package config

import (
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/adrianliechti/libretto/pkg/document"
	"github.com/adrianliechti/libretto/pkg/extractor"
	"github.com/adrianliechti/libretto/pkg/ocr"
	"github.com/adrianliechti/libretto/pkg/otel"
	"github.com/adrianliechti/libretto/pkg/rasterizer"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestParse(t *testing.T) {
	t.Setenv("TEST_OPENAI_TOKEN", "sk-test")

	path := writeConfig(t, `
address: ":9090"

rasterizer:
  type: fitz
  dpi: 200

ocr:
  type: azure
  url: https://example.cognitiveservices.azure.com
  token: secret
  languages: [it]
  limit: 5

completer:
  type: openai
  model: gpt-4o
  token: ${TEST_OPENAI_TOKEN}

keywords:
  - fasciame
  - fondo
`)

	cfg, err := Parse(path)
	require.NoError(t, err)

	require.Equal(t, ":9090", cfg.Address)
	require.Equal(t, 200, cfg.DPI)
	require.Equal(t, []string{"it"}, cfg.Languages)
	require.Equal(t, []string{"fasciame", "fondo"}, cfg.Keywords)
	require.Equal(t, extractor.DefaultMaterials, cfg.Materials)

	require.NotNil(t, cfg.Rasterizer())
	require.NotNil(t, cfg.Completer())
	require.True(t, cfg.OCR().Capabilities().Geometry)

	p, err := cfg.Pipeline()
	require.NoError(t, err)
	require.NotNil(t, p)
}

func TestParseUnknownField(t *testing.T) {
	path := writeConfig(t, `
rasterizer:
  type: fitz
  scale: 2
`)

	_, err := Parse(path)
	require.Error(t, err)
}

func TestParseInvalidType(t *testing.T) {
	tests := map[string]string{
		"rasterizer": "rasterizer:\n  type: ghostscript\n",
		"ocr":        "ocr:\n  type: paddle\n",
		"completer":  "ocr:\n  type: mistral\ncompleter:\n  type: llama\n",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(writeConfig(t, content))
			require.ErrorContains(t, err, "invalid "+name+" type")
		})
	}
}

func TestParseMissingFile(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestCreateLimiter(t *testing.T) {
	require.Nil(t, createLimiter(nil))

	limit := 3
	l := createLimiter(&limit)

	require.NotNil(t, l)
	require.Equal(t, 3, l.Burst())
}

type closingOCR struct {
	closed int
}

func (c *closingOCR) Capabilities() ocr.Capabilities {
	return ocr.Capabilities{Geometry: true}
}

func (c *closingOCR) Recognize(ctx context.Context, img image.Image, options *ocr.RecognizeOptions) (*ocr.Result, error) {
	return &ocr.Result{}, nil
}

func (c *closingOCR) Close() error {
	c.closed++
	return nil
}

type closingRasterizer struct {
	err error
}

func (c *closingRasterizer) Rasterize(ctx context.Context, doc document.Document, options *rasterizer.RasterizeOptions) ([]image.Image, error) {
	return nil, nil
}

func (c *closingRasterizer) Close() error {
	return c.err
}

func TestCloseReachesWrappedEngines(t *testing.T) {
	engine := &closingOCR{}

	cfg := &Config{}
	cfg.RegisterOCR(wrapOCR("tesseract", createLimiter(nil), engine))
	cfg.RegisterRasterizer(otel.NewRasterizer("fitz", &closingRasterizer{err: errors.New("busy")}))

	err := cfg.Close()

	require.Equal(t, 1, engine.closed)
	require.ErrorContains(t, err, "busy")
}

func TestCloseEmpty(t *testing.T) {
	require.NoError(t, (&Config{}).Close())
}

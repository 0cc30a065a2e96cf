package poppler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/adrianliechti/libretto/pkg/document"
	"github.com/adrianliechti/libretto/pkg/rasterizer"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var _ rasterizer.Provider = &Client{}

// Client renders pages with the poppler pdftoppm binary. The document is
// validated and its pages are counted with pdfcpu first, so broken files
// fail fast without spawning a process.
type Client struct {
	binary string
}

func New(options ...Option) (*Client, error) {
	api.DisableConfigDir()

	c := &Client{
		binary: "pdftoppm",
	}

	for _, option := range options {
		option(c)
	}

	if _, err := exec.LookPath(c.binary); err != nil {
		return nil, errors.New("pdftoppm not found, install poppler-utils")
	}

	return c, nil
}

func (c *Client) Rasterize(ctx context.Context, doc document.Document, options *rasterizer.RasterizeOptions) ([]image.Image, error) {
	count, err := PageCount(doc.Content)

	if err != nil {
		return nil, fmt.Errorf("%w: %w", rasterizer.ErrDocumentOpen, err)
	}

	if count == 0 {
		return nil, fmt.Errorf("%w: %s has no pages", rasterizer.ErrDocumentOpen, doc.Name)
	}

	dir, err := os.MkdirTemp("", "libretto-")

	if err != nil {
		return nil, err
	}

	defer os.RemoveAll(dir)

	input := filepath.Join(dir, "input.pdf")

	if err := os.WriteFile(input, doc.Content, 0o600); err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, c.binary,
		"-png",
		"-r", strconv.Itoa(options.Resolution()),
		input,
		filepath.Join(dir, "page"),
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: pdftoppm: %s", rasterizer.ErrDocumentOpen, strings.TrimSpace(stderr.String()))
	}

	files, err := pageFiles(dir)

	if err != nil {
		return nil, err
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s rendered no pages", rasterizer.ErrDocumentOpen, doc.Name)
	}

	pages := make([]image.Image, 0, len(files))

	for _, name := range files {
		img, err := decodePNG(name)

		if err != nil {
			return nil, err
		}

		pages = append(pages, img)
	}

	return pages, nil
}

// PageCount validates the PDF and returns its number of pages.
func PageCount(data []byte) (int, error) {
	if len(data) == 0 {
		return 0, errors.New("empty document")
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	return api.PageCount(bytes.NewReader(data), conf)
}

// pageFiles returns the rendered pages ordered by page number. pdftoppm pads
// the number depending on the page count (page-1.png, page-01.png, ...).
func pageFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)

	if err != nil {
		return nil, err
	}

	type page struct {
		number int
		path   string
	}

	var pages []page

	for _, e := range entries {
		name := e.Name()

		if !strings.HasPrefix(name, "page-") || !strings.HasSuffix(name, ".png") {
			continue
		}

		number, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, "page-"), ".png"))

		if err != nil {
			continue
		}

		pages = append(pages, page{number, filepath.Join(dir, name)})
	}

	slices.SortFunc(pages, func(a, b page) int {
		return a.number - b.number
	})

	result := make([]string, 0, len(pages))

	for _, p := range pages {
		result = append(result, p.path)
	}

	return result, nil
}

func decodePNG(path string) (image.Image, error) {
	f, err := os.Open(path)

	if err != nil {
		return nil, err
	}

	defer f.Close()

	return png.Decode(f)
}

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"

	"github.com/adrianliechti/libretto/pkg/document"
	"github.com/adrianliechti/libretto/pkg/ocr"
	"github.com/adrianliechti/libretto/pkg/orientation"
	"github.com/adrianliechti/libretto/pkg/rasterizer"
	"github.com/adrianliechti/libretto/pkg/scorer"
	"github.com/adrianliechti/libretto/pkg/table"
	"github.com/adrianliechti/libretto/pkg/text"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

var (
	ErrCanceled = errors.New("processing canceled")
)

// Extractor reads the table values from the selected page.
type Extractor interface {
	Extract(ctx context.Context, img image.Image, text, name string) (table.Row, error)
}

// Page is a rendered page while its document is being scored.
type Page struct {
	Index int
	Image image.Image

	Text  string
	Score int
}

type RunOptions struct {
	// Progress is called after every document with the number of documents
	// done and the batch size. A non-nil error stops the batch.
	Progress func(done, total int) error

	Token *Token
}

type Pipeline struct {
	rasterizer rasterizer.Provider
	ocr        ocr.Provider

	scorer    *scorer.Scorer
	corrector *orientation.Corrector
	extractor Extractor

	dpi       int
	languages []string

	logger *slog.Logger
}

func New(r rasterizer.Provider, o ocr.Provider, s *scorer.Scorer, e Extractor, options ...Option) (*Pipeline, error) {
	if r == nil {
		return nil, errors.New("invalid rasterizer")
	}

	if o == nil {
		return nil, errors.New("invalid ocr provider")
	}

	if s == nil {
		return nil, errors.New("invalid scorer")
	}

	if e == nil {
		return nil, errors.New("invalid extractor")
	}

	p := &Pipeline{
		rasterizer: r,
		ocr:        o,

		scorer:    s,
		extractor: e,

		dpi: rasterizer.DefaultDPI,

		logger: slog.Default(),
	}

	for _, option := range options {
		option(p)
	}

	p.corrector = orientation.New(o, orientation.WithLogger(p.logger))

	return p, nil
}

// Run processes the sources in order and returns one row per finished
// document. When stopped early it returns the rows so far with ErrCanceled.
func (p *Pipeline) Run(ctx context.Context, sources []document.Source, options *RunOptions) (*table.Table, error) {
	if options == nil {
		options = new(RunOptions)
	}

	id := uuid.NewString()
	total := len(sources)

	logger := p.logger.With("run", id)
	logger.InfoContext(ctx, "starting batch", "documents", total)

	result := table.New(total)

	// stages already running are never interrupted
	work := context.WithoutCancel(ctx)

	for i, source := range sources {
		if options.Token.Canceled() {
			logger.InfoContext(ctx, "batch canceled", "done", i, "total", total)
			return result, ErrCanceled
		}

		if err := ctx.Err(); err != nil {
			logger.InfoContext(ctx, "batch canceled", "done", i, "total", total, "error", err)
			return result, fmt.Errorf("%w: %w", ErrCanceled, err)
		}

		doc, err := source.Load()

		if err != nil {
			logger.WarnContext(ctx, "unable to read document", "document", source.Name, "error", err)
			result.Append(table.Empty(source.Name))
		} else {
			row, _ := p.Process(work, doc)
			result.Append(row)
		}

		if options.Progress != nil {
			if err := options.Progress(i+1, total); err != nil {
				logger.InfoContext(ctx, "batch stopped", "done", i+1, "total", total, "error", err)

				if errors.Is(err, ErrCanceled) {
					return result, err
				}

				return result, fmt.Errorf("%w: %w", ErrCanceled, err)
			}
		}
	}

	logger.InfoContext(ctx, "batch finished", "documents", total)

	return result, nil
}

// Process runs a single document. The row always carries the document name;
// on any failure its data fields are empty and the trace holds the error.
func (p *Pipeline) Process(ctx context.Context, doc document.Document) (table.Row, *Trace) {
	trace := newTrace(doc.Name)
	logger := p.logger.With("document", doc.Name)

	fail := func(err error) (table.Row, *Trace) {
		trace.Err = err
		trace.enter(StateFinalized)

		logger.WarnContext(ctx, "document failed", "state", trace.States[len(trace.States)-2], "error", err)

		return table.Empty(doc.Name), trace
	}

	images, err := p.rasterizer.Rasterize(ctx, doc, &rasterizer.RasterizeOptions{
		DPI: p.dpi,
	})

	if err != nil {
		return fail(err)
	}

	if len(images) == 0 {
		return fail(fmt.Errorf("%w: no pages", rasterizer.ErrDocumentOpen))
	}

	trace.Pages = len(images)
	trace.enter(StateRasterized)

	candidates := make([]Page, 0, len(images))

	for i, img := range images {
		page := Page{
			Index: i,
			Image: img,
		}

		recognized, err := p.recognize(ctx, downscale(img))

		if err != nil {
			logger.WarnContext(ctx, "page recognition failed", "page", i, "error", err)
		} else {
			page.Text = recognized
			page.Score = p.scorer.Score(recognized)
		}

		logger.DebugContext(ctx, "page scored", "page", i, "score", page.Score)

		candidates = append(candidates, page)
	}

	trace.Scores = scores(candidates)
	trace.enter(StateScored)

	index, err := scorer.Select(trace.Scores)

	if err != nil {
		trace.enter(StateNoPageFound)
		return fail(err)
	}

	best := candidates[index]

	// release every other page before the slow stages
	images = nil
	candidates = nil

	target := best.Image
	content := text.Fold(best.Text)

	trace.Page = index
	trace.enter(StateSelected)

	logger.InfoContext(ctx, "page selected", "page", index, "score", best.Score)

	// without line geometry this leaves the page as is
	target, trace.Rotated = p.corrector.Correct(ctx, target)
	trace.enter(StateCorrected)

	row, err := p.extractor.Extract(ctx, target, content, doc.Name)

	if err != nil {
		trace.enter(StateExtractionFailed)
		return fail(err)
	}

	row.Name = doc.Name

	trace.enter(StateExtracted)
	trace.enter(StateFinalized)

	logger.InfoContext(ctx, "document extracted",
		"shell_thickness", row.ShellThickness,
		"shell_quality", row.ShellQuality,
		"head_thickness", row.HeadThickness,
		"head_quality", row.HeadQuality,
	)

	return row, trace
}

func (p *Pipeline) recognize(ctx context.Context, img image.Image) (string, error) {
	result, err := p.ocr.Recognize(ctx, img, &ocr.RecognizeOptions{
		Languages: p.languages,
	})

	if err != nil {
		return "", err
	}

	return result.Text, nil
}

func scores(pages []Page) []int {
	result := make([]int, len(pages))

	for i, p := range pages {
		result[i] = p.Score
	}

	return result
}

// downscale returns a half-resolution copy used for scoring.
func downscale(img image.Image) image.Image {
	b := img.Bounds()

	w := max(b.Dx()/2, 1)
	h := max(b.Dy()/2, 1)

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)

	return dst
}

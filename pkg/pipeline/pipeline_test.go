package pipeline

import (
	"context"
	"errors"
	"image"
	"strings"
	"testing"

	"github.com/adrianliechti/libretto/pkg/document"
	"github.com/adrianliechti/libretto/pkg/ocr"
	"github.com/adrianliechti/libretto/pkg/rasterizer"
	"github.com/adrianliechti/libretto/pkg/scorer"
	"github.com/adrianliechti/libretto/pkg/table"

	"github.com/stretchr/testify/require"
)

// Document content lists the page texts separated by "|". The rasterizer
// encodes the page index in the image width so the OCR fake can find the
// text again after downscaling.
const pageWidth = 40

type fakeRasterizer struct {
	texts []string
}

func (f *fakeRasterizer) Rasterize(ctx context.Context, doc document.Document, options *rasterizer.RasterizeOptions) ([]image.Image, error) {
	content := string(doc.Content)

	if content == "broken" {
		return nil, rasterizer.ErrDocumentOpen
	}

	f.texts = strings.Split(content, "|")

	var pages []image.Image

	for i := range f.texts {
		pages = append(pages, image.NewGray(image.Rect(0, 0, pageWidth*(i+1), 20)))
	}

	return pages, nil
}

type fakeOCR struct {
	source *fakeRasterizer

	geometry bool
	lines    []ocr.Line

	failures map[string]bool

	recognized  []int
	orientation int
}

func (f *fakeOCR) Capabilities() ocr.Capabilities {
	return ocr.Capabilities{Geometry: f.geometry}
}

func (f *fakeOCR) Recognize(ctx context.Context, img image.Image, options *ocr.RecognizeOptions) (*ocr.Result, error) {
	if options != nil && options.Geometry {
		f.orientation++
		return &ocr.Result{Lines: f.lines}, nil
	}

	index := img.Bounds().Dx()/(pageWidth/2) - 1
	f.recognized = append(f.recognized, index)

	text := f.source.texts[index]

	if f.failures[text] {
		return nil, ocr.ErrRecognize
	}

	return &ocr.Result{Text: text}, nil
}

type fakeExtractor struct {
	err error

	calls []string
	texts []string
	sizes []image.Point
}

func (f *fakeExtractor) Extract(ctx context.Context, img image.Image, text, name string) (table.Row, error) {
	f.calls = append(f.calls, name)
	f.texts = append(f.texts, text)
	f.sizes = append(f.sizes, img.Bounds().Size())

	if f.err != nil {
		return table.Empty(name), f.err
	}

	return table.Row{
		Name: name,

		ShellThickness: "6",
		ShellQuality:   "Fe 52/c",

		HeadThickness: "6",
		HeadQuality:   "Fe 52/c",
	}, nil
}

type fixture struct {
	rasterizer *fakeRasterizer
	ocr        *fakeOCR
	extractor  *fakeExtractor

	pipeline *Pipeline
}

func setup(t *testing.T) *fixture {
	r := &fakeRasterizer{}
	o := &fakeOCR{source: r}
	e := &fakeExtractor{}

	s, err := scorer.New([]string{"fasciame", "fondo", "spessore"})
	require.NoError(t, err)

	p, err := New(r, o, s, e)
	require.NoError(t, err)

	return &fixture{
		rasterizer: r,
		ocr:        o,
		extractor:  e,

		pipeline: p,
	}
}

func source(name, content string) document.Source {
	return document.FromReader(name, strings.NewReader(content))
}

func TestProcessSelectsBestPage(t *testing.T) {
	f := setup(t)

	doc := document.Document{
		Name:    "a.pdf",
		Content: []byte("copertina|fasciame fondo spessore|fondo|spessore fondo fasciame"),
	}

	row, trace := f.pipeline.Process(context.Background(), doc)

	require.NoError(t, trace.Err)
	require.Equal(t, []int{0, 3, 1, 3}, trace.Scores)
	require.Equal(t, 1, trace.Page)
	require.Equal(t, 4, trace.Pages)

	require.Equal(t, []int{0, 1, 2, 3}, f.ocr.recognized)
	require.Equal(t, []string{"fasciame fondo spessore"}, f.extractor.texts)
	require.Equal(t, image.Pt(2*pageWidth, 20), f.extractor.sizes[0])

	require.Equal(t, "a.pdf", row.Name)
	require.Equal(t, "Fe 52/c", row.HeadQuality)

	require.Equal(t, []State{StatePending, StateRasterized, StateScored, StateSelected, StateCorrected, StateExtracted, StateFinalized}, trace.States)
	require.False(t, trace.Rotated)
	require.Zero(t, f.ocr.orientation)
}

func TestProcessPassesFoldedText(t *testing.T) {
	f := setup(t)

	_, trace := f.pipeline.Process(context.Background(), document.Document{
		Name:    "f.pdf",
		Content: []byte("indice|Qualità FASCIAME Spessore"),
	})

	require.NoError(t, trace.Err)
	require.Equal(t, 1, trace.Page)
	require.Equal(t, []string{"qualita fasciame spessore"}, f.extractor.texts)
}

func TestProcessNoRelevantPage(t *testing.T) {
	f := setup(t)
	f.ocr.geometry = true

	doc := document.Document{
		Name:    "b.pdf",
		Content: []byte("copertina|indice"),
	}

	row, trace := f.pipeline.Process(context.Background(), doc)

	require.ErrorIs(t, trace.Err, scorer.ErrNoRelevantPage)
	require.True(t, trace.Reached(StateNoPageFound))
	require.False(t, trace.Reached(StateCorrected))
	require.Equal(t, StateFinalized, trace.State())

	require.Empty(t, f.extractor.calls)
	require.Zero(t, f.ocr.orientation)

	require.Equal(t, table.Empty("b.pdf"), row)
}

func TestProcessRecognitionFailureScoresZero(t *testing.T) {
	f := setup(t)
	f.ocr.failures = map[string]bool{"fasciame fondo spessore": true}

	doc := document.Document{
		Name:    "c.pdf",
		Content: []byte("fasciame fondo spessore|fondo"),
	}

	_, trace := f.pipeline.Process(context.Background(), doc)

	require.NoError(t, trace.Err)
	require.Equal(t, []int{0, 1}, trace.Scores)
	require.Equal(t, 1, trace.Page)
}

func TestProcessRotatesVerticalPage(t *testing.T) {
	f := setup(t)
	f.ocr.geometry = true
	f.ocr.lines = []ocr.Line{
		{Text: "FASCIAME", Polygon: [][2]float64{{0, 100}, {0, 0}, {10, 0}, {10, 100}}},
	}

	doc := document.Document{
		Name:    "d.pdf",
		Content: []byte("fasciame"),
	}

	_, trace := f.pipeline.Process(context.Background(), doc)

	require.NoError(t, trace.Err)
	require.True(t, trace.Rotated)
	require.True(t, trace.Reached(StateCorrected))
	require.Equal(t, 1, f.ocr.orientation)

	require.Equal(t, image.Pt(20, pageWidth), f.extractor.sizes[0])
}

func TestProcessExtractionFailure(t *testing.T) {
	f := setup(t)
	f.extractor.err = errors.New("boom")

	row, trace := f.pipeline.Process(context.Background(), document.Document{
		Name:    "e.pdf",
		Content: []byte("fasciame"),
	})

	require.Error(t, trace.Err)
	require.True(t, trace.Reached(StateExtractionFailed))
	require.Equal(t, table.Empty("e.pdf"), row)
}

func TestRunIsolatesFailures(t *testing.T) {
	f := setup(t)

	sources := []document.Source{
		source("a.pdf", "fasciame"),
		source("b.pdf", "broken"),
		source("c.pdf", "copertina"),
		{Name: "d.pdf"},
		source("e.pdf", "fondo"),
	}

	var progress [][2]int

	result, err := f.pipeline.Run(context.Background(), sources, &RunOptions{
		Progress: func(done, total int) error {
			progress = append(progress, [2]int{done, total})
			return nil
		},
	})

	require.NoError(t, err)

	rows := result.Rows()
	require.Len(t, rows, 5)

	for i, name := range []string{"a.pdf", "b.pdf", "c.pdf", "d.pdf", "e.pdf"} {
		require.Equal(t, name, rows[i].Name)
	}

	require.False(t, rows[0].IsEmpty())
	require.True(t, rows[1].IsEmpty())
	require.True(t, rows[2].IsEmpty())
	require.True(t, rows[3].IsEmpty())
	require.False(t, rows[4].IsEmpty())

	require.Equal(t, [][2]int{{1, 5}, {2, 5}, {3, 5}, {4, 5}, {5, 5}}, progress)
	require.Equal(t, []string{"a.pdf", "e.pdf"}, f.extractor.calls)
}

func TestRunCancelWithToken(t *testing.T) {
	f := setup(t)
	token := NewToken()

	var sources []document.Source

	for _, name := range []string{"1.pdf", "2.pdf", "3.pdf", "4.pdf", "5.pdf"} {
		sources = append(sources, source(name, "fasciame"))
	}

	result, err := f.pipeline.Run(context.Background(), sources, &RunOptions{
		Token: token,

		Progress: func(done, total int) error {
			if done == 2 {
				token.Cancel()
			}

			return nil
		},
	})

	require.ErrorIs(t, err, ErrCanceled)
	require.Equal(t, 2, result.Len())
	require.Equal(t, "2.pdf", result.Rows()[1].Name)
	require.Len(t, f.extractor.calls, 2)
}

func TestRunCancelFromProgress(t *testing.T) {
	f := setup(t)

	sources := []document.Source{
		source("1.pdf", "fasciame"),
		source("2.pdf", "fasciame"),
		source("3.pdf", "fasciame"),
	}

	result, err := f.pipeline.Run(context.Background(), sources, &RunOptions{
		Progress: func(done, total int) error {
			return ErrCanceled
		},
	})

	require.ErrorIs(t, err, ErrCanceled)
	require.Equal(t, 1, result.Len())
}

func TestRunCancelWithContext(t *testing.T) {
	f := setup(t)

	ctx, cancel := context.WithCancel(context.Background())

	sources := []document.Source{
		source("1.pdf", "fasciame"),
		source("2.pdf", "fasciame"),
	}

	result, err := f.pipeline.Run(ctx, sources, &RunOptions{
		Progress: func(done, total int) error {
			cancel()
			return nil
		},
	})

	require.ErrorIs(t, err, ErrCanceled)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, result.Len())
	require.False(t, result.Rows()[0].IsEmpty())
}

func TestNewInvalid(t *testing.T) {
	_, err := New(nil, nil, nil, nil)
	require.Error(t, err)
}

package extractor

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/adrianliechti/libretto/pkg/provider"

	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	content string
	err     error

	messages []provider.Message
	options  *provider.CompleteOptions
}

func (f *fakeCompleter) Complete(ctx context.Context, messages []provider.Message, options *provider.CompleteOptions) (*provider.Completion, error) {
	f.messages = messages
	f.options = options

	if f.err != nil {
		return nil, f.err
	}

	return &provider.Completion{
		Reason: provider.CompletionReasonStop,

		Message: &provider.Message{
			Role:    provider.MessageRoleAssistant,
			Content: []provider.Content{provider.TextContent(f.content)},
		},
	}, nil
}

func TestParse(t *testing.T) {
	t.Run("backfills head quality", func(t *testing.T) {
		row, err := Parse(`{"Fasciame Spessore": "6", "Qualita Fasciame": "Fe 52/c", "Fondo Spessore": "6", "Qualita Fondo": ""}`)

		require.NoError(t, err)
		require.Equal(t, "6", row.ShellThickness)
		require.Equal(t, "Fe 52/c", row.ShellQuality)
		require.Equal(t, "6", row.HeadThickness)
		require.Equal(t, "Fe 52/c", row.HeadQuality)
	})

	t.Run("keeps head quality", func(t *testing.T) {
		row, err := Parse(`{"Fasciame Spessore": "5", "Qualita Fasciame": "Fe 42/c", "Fondo Spessore": "5.5", "Qualita Fondo": "P 355 N"}`)

		require.NoError(t, err)
		require.Equal(t, "P 355 N", row.HeadQuality)
	})

	t.Run("whitespace counts as empty", func(t *testing.T) {
		row, err := Parse(`{"Qualita Fasciame": "Fe 44/D", "Qualita Fondo": "  "}`)

		require.NoError(t, err)
		require.Equal(t, "Fe 44/D", row.HeadQuality)
	})

	t.Run("no thickness backfill", func(t *testing.T) {
		row, err := Parse(`{"Fasciame Spessore": "6", "Qualita Fasciame": "", "Fondo Spessore": "", "Qualita Fondo": ""}`)

		require.NoError(t, err)
		require.Equal(t, "", row.HeadThickness)
		require.Equal(t, "", row.HeadQuality)
	})

	t.Run("strips code fences", func(t *testing.T) {
		row, err := Parse("```json\n{\"Fasciame Spessore\": \"7\", \"Qualita Fasciame\": \"Fe 52/2\"}\n```")

		require.NoError(t, err)
		require.Equal(t, "7", row.ShellThickness)
		require.Equal(t, "Fe 52/2", row.HeadQuality)
	})

	t.Run("accepts numbers", func(t *testing.T) {
		row, err := Parse(`{"Fasciame Spessore": 6, "Fondo Spessore": 5.5}`)

		require.NoError(t, err)
		require.Equal(t, "6", row.ShellThickness)
		require.Equal(t, "5.5", row.HeadThickness)
	})

	t.Run("rejects malformed json", func(t *testing.T) {
		_, err := Parse(`Fasciame Spessore: 6`)
		require.ErrorIs(t, err, ErrParse)
	})

	t.Run("rejects unexpected types", func(t *testing.T) {
		_, err := Parse(`{"Fasciame Spessore": ["6"]}`)
		require.ErrorIs(t, err, ErrParse)
	})
}

func TestExtract(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 4, 4))

	t.Run("builds request", func(t *testing.T) {
		completer := &fakeCompleter{
			content: `{"Fasciame Spessore": "6", "Qualita Fasciame": "Fe 52/c", "Fondo Spessore": "6", "Qualita Fondo": ""}`,
		}

		e, err := New(completer, WithMaterials("Fe 52/c", "P 355 N"))
		require.NoError(t, err)

		row, err := e.Extract(context.Background(), img, "FASCIAME 6 Fe 52/c", "a.pdf")
		require.NoError(t, err)

		require.Equal(t, "a.pdf", row.Name)
		require.Equal(t, "Fe 52/c", row.HeadQuality)

		require.Len(t, completer.messages, 2)
		require.Equal(t, provider.MessageRoleSystem, completer.messages[0].Role)
		require.Equal(t, instructions, completer.messages[0].Text())

		user := completer.messages[1]
		require.Len(t, user.Content, 2)
		require.Contains(t, user.Content[0].Text, "FASCIAME 6 Fe 52/c")
		require.Contains(t, user.Content[0].Text, "- P 355 N")
		require.NotNil(t, user.Content[1].File)
		require.Equal(t, "image/png", user.Content[1].File.ContentType)

		require.Equal(t, provider.CompletionFormatJSON, completer.options.Format)
		require.Equal(t, 1000, *completer.options.MaxTokens)
		require.InDelta(t, 0.1, *completer.options.Temperature, 0.0001)
		require.NotNil(t, completer.options.Schema)
		require.Equal(t, "object", completer.options.Schema.Schema["type"])
	})

	t.Run("request failure yields empty row", func(t *testing.T) {
		failure := errors.New("boom")

		e, err := New(&fakeCompleter{err: failure})
		require.NoError(t, err)

		row, err := e.Extract(context.Background(), img, "", "b.pdf")
		require.ErrorIs(t, err, failure)

		require.Equal(t, "b.pdf", row.Name)
		require.True(t, row.IsEmpty())
	})

	t.Run("parse failure yields empty row", func(t *testing.T) {
		e, err := New(&fakeCompleter{content: "non lo so"})
		require.NoError(t, err)

		row, err := e.Extract(context.Background(), img, "", "c.pdf")
		require.ErrorIs(t, err, ErrParse)

		require.Equal(t, "c.pdf", row.Name)
		require.True(t, row.IsEmpty())
	})
}

func TestNewInvalid(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
}

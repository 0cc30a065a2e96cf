package extractor

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/adrianliechti/libretto/pkg/ocr"
	"github.com/adrianliechti/libretto/pkg/provider"
	"github.com/adrianliechti/libretto/pkg/table"
	"github.com/adrianliechti/libretto/pkg/template"

	"github.com/google/jsonschema-go/jsonschema"
)

var (
	//go:embed prompt.md
	prompt string

	ErrParse = errors.New("unable to parse extraction response")
)

const instructions = "Sei un assistente che estrae dati tecnici da tabelle complesse."

const (
	KeyShellThickness = "Fasciame Spessore"
	KeyShellQuality   = "Qualita Fasciame"
	KeyHeadThickness  = "Fondo Spessore"
	KeyHeadQuality    = "Qualita Fondo"
)

// DefaultMaterials is the list of recognized steel qualities.
var DefaultMaterials = []string{
	"Fe 510,2KW",
	"Fe 510,2 KG",
	"Fe 410,2 KW",
	"Fe 410,2 KG",
	"P 355 N",
	"Fe 52/2",
	"Fe 52/c",
	"Fe 42/c",
	"Fe 42/d",
	"Fe 460,2KW",
	"Fe 360,2KG",
	"Fe 460,2KG",
	"Fe 44/c",
	"Fe 42/I",
	"Fe 52/D",
	"Fe 44/D",
}

type response struct {
	ShellThickness string `json:"Fasciame Spessore" jsonschema:"nominal shell thickness in mm"`
	ShellQuality   string `json:"Qualita Fasciame" jsonschema:"shell material quality"`
	HeadThickness  string `json:"Fondo Spessore" jsonschema:"nominal head thickness in mm"`
	HeadQuality    string `json:"Qualita Fondo" jsonschema:"head material quality"`
}

// Extractor asks a vision-capable model for the shell and head values of a
// single page.
type Extractor struct {
	completer provider.Completer

	prompt *template.Template
	schema *provider.Schema

	materials []string

	temperature float32
	maxTokens   int
}

func New(completer provider.Completer, options ...Option) (*Extractor, error) {
	if completer == nil {
		return nil, errors.New("invalid completer")
	}

	t, err := template.NewTemplate(prompt)

	if err != nil {
		return nil, err
	}

	schema, err := responseSchema()

	if err != nil {
		return nil, err
	}

	e := &Extractor{
		completer: completer,

		prompt: t,
		schema: schema,

		materials: DefaultMaterials,

		temperature: 0.1,
		maxTokens:   1000,
	}

	for _, option := range options {
		option(e)
	}

	return e, nil
}

// Extract always returns a row carrying name. On failure the four data
// fields are empty and the error says why.
func (e *Extractor) Extract(ctx context.Context, img image.Image, text, name string) (table.Row, error) {
	row := table.Empty(name)

	input, err := e.prompt.Execute(map[string]any{
		"Text":      text,
		"Materials": e.materials,
	})

	if err != nil {
		return row, err
	}

	data, err := ocr.EncodePNG(img)

	if err != nil {
		return row, err
	}

	messages := []provider.Message{
		provider.SystemMessage(instructions),
		provider.UserMessage(
			provider.TextContent(input),
			provider.FileContent(&provider.File{
				Name: "page.png",

				Content:     data,
				ContentType: "image/png",
			}),
		),
	}

	completion, err := e.completer.Complete(ctx, messages, &provider.CompleteOptions{
		MaxTokens:   &e.maxTokens,
		Temperature: &e.temperature,

		Format: provider.CompletionFormatJSON,
		Schema: e.schema,
	})

	if err != nil {
		return row, fmt.Errorf("extraction request failed: %w", err)
	}

	if completion.Message == nil {
		return row, fmt.Errorf("%w: empty response", ErrParse)
	}

	result, err := Parse(completion.Message.Text())

	if err != nil {
		return row, err
	}

	result.Name = name

	return result, nil
}

// Parse decodes a model reply into a row. Code fences are stripped, values
// may be strings or numbers, and an empty head quality inherits the shell
// quality.
func Parse(content string) (table.Row, error) {
	content = strings.TrimSpace(content)
	content = strings.ReplaceAll(content, "```json", "")
	content = strings.ReplaceAll(content, "```", "")
	content = strings.TrimSpace(content)

	var values map[string]any

	if err := json.Unmarshal([]byte(content), &values); err != nil {
		return table.Row{}, fmt.Errorf("%w: %w", ErrParse, err)
	}

	var row table.Row

	fields := map[string]*string{
		KeyShellThickness: &row.ShellThickness,
		KeyShellQuality:   &row.ShellQuality,
		KeyHeadThickness:  &row.HeadThickness,
		KeyHeadQuality:    &row.HeadQuality,
	}

	for key, target := range fields {
		val, err := toString(values[key])

		if err != nil {
			return table.Row{}, fmt.Errorf("%w: %q: %w", ErrParse, key, err)
		}

		*target = val
	}

	if strings.TrimSpace(row.HeadQuality) == "" && strings.TrimSpace(row.ShellQuality) != "" {
		row.HeadQuality = row.ShellQuality
	}

	return row, nil
}

func toString(val any) (string, error) {
	switch v := val.(type) {
	case nil:
		return "", nil

	case string:
		return v, nil

	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil

	default:
		return "", fmt.Errorf("unexpected type %T", val)
	}
}

func responseSchema() (*provider.Schema, error) {
	schema, err := jsonschema.For[response](nil)

	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(schema)

	if err != nil {
		return nil, err
	}

	var result map[string]any

	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}

	strict := true

	return &provider.Schema{
		Name:        "pressure_vessel",
		Description: "Shell and head thickness and material quality",

		Strict: &strict,
		Schema: result,
	}, nil
}

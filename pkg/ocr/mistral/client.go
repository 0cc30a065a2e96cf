package mistral

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"strings"

	"github.com/adrianliechti/libretto/pkg/ocr"
	"github.com/adrianliechti/libretto/pkg/text"
)

var _ ocr.Provider = &Client{}

// Client calls the Mistral OCR endpoint. The engine answers in markdown,
// which is flattened to plain text; no line geometry is available.
type Client struct {
	client *http.Client

	url   string
	token string

	model string
}

func New(options ...Option) (*Client, error) {
	c := &Client{
		client: http.DefaultClient,

		url: "https://api.mistral.ai/v1/",

		model: "mistral-ocr-latest",
	}

	for _, option := range options {
		option(c)
	}

	return c, nil
}

func (c *Client) Capabilities() ocr.Capabilities {
	return ocr.Capabilities{}
}

func (c *Client) Recognize(ctx context.Context, img image.Image, options *ocr.RecognizeOptions) (*ocr.Result, error) {
	data, err := ocr.EncodePNG(img)

	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"model": c.model,

		"document": map[string]any{
			"type":      "image_url",
			"image_url": "data:image/png;base64," + base64.StdEncoding.EncodeToString(data),
		},
	}

	payload, _ := json.Marshal(body)

	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(c.url, "/")+"/ocr", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)

	if err != nil {
		return nil, fmt.Errorf("%w: %w", ocr.ErrRecognize, err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %w", ocr.ErrRecognize, convertError(resp))
	}

	var response Response

	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("%w: %w", ocr.ErrRecognize, err)
	}

	return convertResult(&response), nil
}

func convertResult(response *Response) *ocr.Result {
	var parts []string

	for _, p := range response.Pages {
		if p.Markdown == "" {
			continue
		}

		parts = append(parts, text.PlainText(p.Markdown))
	}

	return &ocr.Result{
		Text: strings.Join(strings.Fields(strings.Join(parts, " ")), " "),
	}
}

func convertError(resp *http.Response) error {
	data, _ := io.ReadAll(resp.Body)

	if len(data) == 0 {
		return errors.New(http.StatusText(resp.StatusCode))
	}

	return errors.New(string(data))
}

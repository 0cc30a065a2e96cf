package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/adrianliechti/libretto/pkg/ocr"
)

var _ ocr.Provider = &Client{}

// Client calls the Azure Document Intelligence read model. Lines come back
// with polygons, so this engine supports orientation detection.
type Client struct {
	client *http.Client

	url   string
	token string

	interval time.Duration
}

func New(url string, options ...Option) (*Client, error) {
	if url == "" {
		return nil, errors.New("invalid url")
	}

	c := &Client{
		client: http.DefaultClient,

		url: url,

		interval: 2 * time.Second,
	}

	for _, option := range options {
		option(c)
	}

	return c, nil
}

func (c *Client) Capabilities() ocr.Capabilities {
	return ocr.Capabilities{
		Geometry: true,
	}
}

func (c *Client) Recognize(ctx context.Context, img image.Image, options *ocr.RecognizeOptions) (*ocr.Result, error) {
	if options == nil {
		options = new(ocr.RecognizeOptions)
	}

	data, err := ocr.EncodePNG(img)

	if err != nil {
		return nil, err
	}

	u, _ := url.Parse(strings.TrimRight(c.url, "/") + "/documentintelligence/documentModels/prebuilt-read:analyze")

	query := u.Query()
	query.Set("api-version", "2024-11-30")

	if len(options.Languages) > 0 {
		query.Set("locale", options.Languages[0])
	}

	u.RawQuery = query.Encode()

	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(data))
	req.Header.Set("Content-Type", "image/png")
	req.Header.Set("Ocp-Apim-Subscription-Key", c.token)

	resp, err := c.client.Do(req)

	if err != nil {
		return nil, fmt.Errorf("%w: %w", ocr.ErrRecognize, err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		return nil, fmt.Errorf("%w: %w", ocr.ErrRecognize, convertError(resp))
	}

	operationURL := resp.Header.Get("Operation-Location")

	if operationURL == "" {
		return nil, fmt.Errorf("%w: missing operation location", ocr.ErrRecognize)
	}

	operation, err := c.poll(ctx, operationURL)

	if err != nil {
		return nil, fmt.Errorf("%w: %w", ocr.ErrRecognize, err)
	}

	return convertResult(operation), nil
}

func (c *Client) poll(ctx context.Context, operationURL string) (*AnalyzeOperation, error) {
	for {
		req, _ := http.NewRequestWithContext(ctx, http.MethodGet, operationURL, nil)
		req.Header.Set("Ocp-Apim-Subscription-Key", c.token)

		operation, err := c.fetch(req)

		if err != nil {
			return nil, err
		}

		if operation.Status == OperationStatusRunning || operation.Status == OperationStatusNotStarted {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()

			case <-time.After(c.interval):
			}

			continue
		}

		if operation.Status != OperationStatusSucceeded {
			return nil, errors.New("operation " + string(operation.Status))
		}

		return operation, nil
	}
}

func (c *Client) fetch(req *http.Request) (*AnalyzeOperation, error) {
	resp, err := c.client.Do(req)

	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, convertError(resp)
	}

	var operation AnalyzeOperation

	if err := json.NewDecoder(resp.Body).Decode(&operation); err != nil {
		return nil, err
	}

	return &operation, nil
}

func convertResult(operation *AnalyzeOperation) *ocr.Result {
	result := &ocr.Result{}

	for _, page := range operation.Result.Pages {
		for _, line := range page.Lines {
			result.Lines = append(result.Lines, ocr.Line{
				Text:    line.Content,
				Polygon: convertPolygon(line.Polygon),
			})
		}
	}

	if len(result.Lines) > 0 {
		result.Text = ocr.JoinLines(result.Lines)
	} else {
		result.Text = strings.Join(strings.Fields(operation.Result.Content), " ")
	}

	return result
}

func convertPolygon(polygon []float64) [][2]float64 {
	if len(polygon)%2 != 0 {
		return nil
	}

	result := make([][2]float64, 0, len(polygon)/2)

	for i := 0; i < len(polygon); i += 2 {
		result = append(result, [2]float64{
			polygon[i],
			polygon[i+1],
		})
	}

	return result
}

func convertError(resp *http.Response) error {
	data, _ := io.ReadAll(resp.Body)

	if len(data) == 0 {
		return errors.New(http.StatusText(resp.StatusCode))
	}

	return errors.New(string(data))
}

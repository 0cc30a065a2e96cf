package vision

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/adrianliechti/libretto/pkg/ocr"

	"google.golang.org/api/vision/v1"
)

var _ ocr.Provider = &Client{}

// Client calls Google Cloud Vision document text detection. It returns text
// only, so orientation detection is not available with this engine.
type Client struct {
	service *vision.Service

	languages []string
}

func New(ctx context.Context, options ...Option) (*Client, error) {
	cfg := &Config{}

	for _, option := range options {
		option(cfg)
	}

	service, err := vision.NewService(ctx, cfg.Options()...)

	if err != nil {
		return nil, err
	}

	return &Client{
		service: service,

		languages: cfg.languages,
	}, nil
}

// NewWithService wraps an already authenticated service.
func NewWithService(service *vision.Service, languages ...string) (*Client, error) {
	if service == nil {
		return nil, errors.New("invalid service")
	}

	return &Client{
		service: service,

		languages: languages,
	}, nil
}

func (c *Client) Capabilities() ocr.Capabilities {
	return ocr.Capabilities{}
}

func (c *Client) Recognize(ctx context.Context, img image.Image, options *ocr.RecognizeOptions) (*ocr.Result, error) {
	if options == nil {
		options = new(ocr.RecognizeOptions)
	}

	data, err := ocr.EncodePNG(img)

	if err != nil {
		return nil, err
	}

	request := &vision.AnnotateImageRequest{
		Image: &vision.Image{
			Content: base64.StdEncoding.EncodeToString(data),
		},

		Features: []*vision.Feature{
			{Type: "DOCUMENT_TEXT_DETECTION"},
		},
	}

	languages := c.languages

	if len(options.Languages) > 0 {
		languages = options.Languages
	}

	if len(languages) > 0 {
		request.ImageContext = &vision.ImageContext{
			LanguageHints: languages,
		}
	}

	batch := &vision.BatchAnnotateImagesRequest{
		Requests: []*vision.AnnotateImageRequest{request},
	}

	resp, err := c.service.Images.Annotate(batch).Context(ctx).Do()

	if err != nil {
		return nil, fmt.Errorf("%w: %w", ocr.ErrRecognize, err)
	}

	if len(resp.Responses) == 0 {
		return &ocr.Result{}, nil
	}

	result := resp.Responses[0]

	if result.Error != nil && result.Error.Message != "" {
		return nil, fmt.Errorf("%w: %s", ocr.ErrRecognize, result.Error.Message)
	}

	if result.FullTextAnnotation == nil {
		return &ocr.Result{}, nil
	}

	return &ocr.Result{
		Text: strings.Join(strings.Fields(result.FullTextAnnotation.Text), " "),
	}, nil
}

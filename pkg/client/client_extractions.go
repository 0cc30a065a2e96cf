package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/adrianliechti/libretto/server/api"
)

type ExtractionService struct {
	Options []RequestOption
}

func NewExtractionService(opts ...RequestOption) ExtractionService {
	return ExtractionService{
		Options: opts,
	}
}

type Extraction = api.Extraction
type Row = api.Row

type File struct {
	Name   string
	Reader io.Reader
}

type ExtractionRequest struct {
	Files []File
}

// New uploads the files and returns one row per file, in upload order.
func (r *ExtractionService) New(ctx context.Context, input ExtractionRequest, opts ...RequestOption) (*Extraction, error) {
	resp, err := r.post(ctx, input, "json", opts...)

	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	var result Extraction

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	return &result, nil
}

// Download uploads the files and copies the resulting Excel workbook to w.
func (r *ExtractionService) Download(ctx context.Context, input ExtractionRequest, w io.Writer, opts ...RequestOption) error {
	resp, err := r.post(ctx, input, "xlsx", opts...)

	if err != nil {
		return err
	}

	defer resp.Body.Close()

	_, err = io.Copy(w, resp.Body)
	return err
}

func (r *ExtractionService) post(ctx context.Context, input ExtractionRequest, format string, opts ...RequestOption) (*http.Response, error) {
	if len(input.Files) == 0 {
		return nil, errors.New("no files")
	}

	c := newRequestConfig(append(r.Options, opts...)...)

	body, w := io.Pipe()
	mw := multipart.NewWriter(w)

	go func() {
		for _, f := range input.Files {
			part, err := mw.CreateFormFile("files", f.Name)

			if err != nil {
				w.CloseWithError(err)
				return
			}

			if _, err := io.Copy(part, f.Reader); err != nil {
				w.CloseWithError(err)
				return
			}
		}

		w.CloseWithError(mw.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, "POST", c.URL+"/v1/extract?format="+format, body)

	if err != nil {
		body.Close()
		return nil, err
	}

	req.Header.Set("Content-Type", mw.FormDataContentType())

	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.Client.Do(req)

	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()

		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

		if message := strings.TrimSpace(string(data)); message != "" {
			return nil, errors.New(resp.Status + ": " + message)
		}

		return nil, errors.New(resp.Status)
	}

	return resp, nil
}

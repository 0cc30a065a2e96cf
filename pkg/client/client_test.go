package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractionsNew(t *testing.T) {
	var path, format, auth string
	var names []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		format = r.URL.Query().Get("format")
		auth = r.Header.Get("Authorization")

		if err := r.ParseMultipartForm(1 << 20); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		for _, h := range r.MultipartForm.File["files"] {
			names = append(names, h.Filename)
		}

		json.NewEncoder(w).Encode(Extraction{
			Rows: []Row{
				{Name: "a.pdf", ShellThickness: "6"},
				{Name: "b.pdf"},
			},
		})
	}))

	defer server.Close()

	c := New(server.URL+"/", WithToken("secret"))

	result, err := c.Extractions.New(context.Background(), ExtractionRequest{
		Files: []File{
			{Name: "a.pdf", Reader: strings.NewReader("%PDF")},
			{Name: "b.pdf", Reader: strings.NewReader("%PDF")},
		},
	})

	require.NoError(t, err)

	require.Equal(t, "/v1/extract", path)
	require.Equal(t, "json", format)
	require.Equal(t, "Bearer secret", auth)
	require.Equal(t, []string{"a.pdf", "b.pdf"}, names)

	require.Len(t, result.Rows, 2)
	require.Equal(t, "6", result.Rows[0].ShellThickness)
}

func TestExtractionsDownload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		io.WriteString(w, "xlsx:"+r.URL.Query().Get("format"))
	}))

	defer server.Close()

	c := New(server.URL)

	var out strings.Builder

	err := c.Extractions.Download(context.Background(), ExtractionRequest{
		Files: []File{{Name: "a.pdf", Reader: strings.NewReader("%PDF")}},
	}, &out)

	require.NoError(t, err)
	require.Equal(t, "xlsx:xlsx", out.String())
}

func TestExtractionsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)

		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, "invalid token")
	}))

	defer server.Close()

	c := New(server.URL)

	_, err := c.Extractions.New(context.Background(), ExtractionRequest{
		Files: []File{{Name: "a.pdf", Reader: strings.NewReader("%PDF")}},
	})

	require.ErrorContains(t, err, "invalid token")

	_, err = c.Extractions.New(context.Background(), ExtractionRequest{})
	require.Error(t, err)
}

package azure_test

import (
	"context"
	"image"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/adrianliechti/libretto/pkg/ocr"
	"github.com/adrianliechti/libretto/pkg/ocr/azure"

	"github.com/stretchr/testify/require"
)

func TestRecognize(t *testing.T) {
	var polls atomic.Int32
	var contentType, token string

	var server *httptest.Server

	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			contentType = r.Header.Get("Content-Type")
			token = r.Header.Get("Ocp-Apim-Subscription-Key")

			w.Header().Set("Operation-Location", server.URL+"/operations/1")
			w.WriteHeader(http.StatusAccepted)
			return
		}

		if polls.Add(1) == 1 {
			w.Write([]byte(`{"status": "running"}`))
			return
		}

		w.Write([]byte(`{
			"status": "succeeded",
			"analyzeResult": {
				"content": "MATERIALI IMPIEGATI\nFasciame",
				"pages": [{
					"pageNumber": 1,
					"lines": [
						{"content": "MATERIALI IMPIEGATI", "polygon": [10, 10, 200, 10, 200, 30, 10, 30]},
						{"content": "Fasciame", "polygon": [10, 300, 10, 100, 30, 100, 30, 300]}
					]
				}]
			}
		}`))
	}))

	defer server.Close()

	c, err := azure.New(server.URL, azure.WithToken("secret"), azure.WithInterval(time.Millisecond))
	require.NoError(t, err)

	require.True(t, c.Capabilities().Geometry)

	result, err := c.Recognize(context.Background(), image.NewGray(image.Rect(0, 0, 4, 4)), nil)
	require.NoError(t, err)

	require.Equal(t, "image/png", contentType)
	require.Equal(t, "secret", token)
	require.Equal(t, int32(2), polls.Load())

	require.Equal(t, "MATERIALI IMPIEGATI Fasciame", result.Text)
	require.Len(t, result.Lines, 2)

	angle, ok := result.Lines[1].Angle()
	require.True(t, ok)
	require.InDelta(t, 90, angle, 0.0001)
}

func TestRecognizeFailed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("access denied"))
	}))

	defer server.Close()

	c, err := azure.New(server.URL)
	require.NoError(t, err)

	_, err = c.Recognize(context.Background(), image.NewGray(image.Rect(0, 0, 4, 4)), nil)
	require.ErrorIs(t, err, ocr.ErrRecognize)
	require.ErrorContains(t, err, "access denied")
}

func TestNewRequiresURL(t *testing.T) {
	_, err := azure.New("")
	require.Error(t, err)
}

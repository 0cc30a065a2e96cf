package api

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/adrianliechti/libretto/pkg/document"
)

const maxMemory = 32 << 20

const contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func valueFormat(r *http.Request) string {
	if val := r.FormValue("format"); val != "" {
		return strings.ToLower(val)
	}

	if strings.Contains(r.Header.Get("Accept"), contentTypeXLSX) {
		return "xlsx"
	}

	return "json"
}

// readSources opens every uploaded PDF. The returned files must be closed
// once the batch is done.
func readSources(r *http.Request) ([]document.Source, []multipart.File, error) {
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		return nil, nil, err
	}

	var headers []*multipart.FileHeader

	for _, key := range []string{"files", "file"} {
		headers = append(headers, r.MultipartForm.File[key]...)
	}

	if len(headers) == 0 {
		return nil, nil, errors.New("no files uploaded")
	}

	var sources []document.Source
	var files []multipart.File

	for _, header := range headers {
		f, err := header.Open()

		if err != nil {
			closeFiles(files)
			return nil, nil, err
		}

		files = append(files, f)
		sources = append(sources, document.FromReader(header.Filename, f))
	}

	return sources, files, nil
}

func closeFiles(files []multipart.File) {
	for _, f := range files {
		f.Close()
	}
}

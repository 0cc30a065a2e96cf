package document

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Document is one source PDF. It only lives for the duration of its own
// pipeline run.
type Document struct {
	Name string

	Content []byte
}

var (
	ErrEmptyFolder = errors.New("no pdf documents found")
)

// Folder lists every *.pdf file (case-insensitive) directly inside path,
// sorted by name. Contents are read lazily by Load.
func Folder(path string) ([]Source, error) {
	entries, err := os.ReadDir(path)

	if err != nil {
		return nil, err
	}

	var result []Source

	for _, e := range entries {
		if e.IsDir() {
			continue
		}

		if !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			continue
		}

		result = append(result, Source{
			Name: e.Name(),
			Path: filepath.Join(path, e.Name()),
		})
	}

	if len(result) == 0 {
		return nil, ErrEmptyFolder
	}

	slices.SortFunc(result, func(a, b Source) int {
		return strings.Compare(a.Name, b.Name)
	})

	return result, nil
}

// Source references a document that has not been read yet, either a file
// path or an already open stream.
type Source struct {
	Name string

	Path   string
	Reader io.Reader
}

// FromReader wraps an uploaded byte stream.
func FromReader(name string, r io.Reader) Source {
	return Source{
		Name:   name,
		Reader: r,
	}
}

// Load reads the source into memory.
func (s Source) Load() (Document, error) {
	doc := Document{
		Name: s.Name,
	}

	var data []byte
	var err error

	switch {
	case s.Reader != nil:
		data, err = io.ReadAll(s.Reader)

	case s.Path != "":
		data, err = os.ReadFile(s.Path)

	default:
		err = errors.New("empty document source")
	}

	if err != nil {
		return doc, err
	}

	doc.Content = data

	return doc, nil
}

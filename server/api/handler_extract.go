package api

import (
	"errors"
	"net/http"

	"github.com/adrianliechti/libretto/pkg/pipeline"
	"github.com/adrianliechti/libretto/pkg/table"
)

func (h *Handler) handleExtract(w http.ResponseWriter, r *http.Request) {
	sources, files, err := readSources(r)

	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	defer closeFiles(files)

	p, err := h.Pipeline()

	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	result, err := p.Run(r.Context(), sources, nil)

	canceled := errors.Is(err, pipeline.ErrCanceled)

	if err != nil && !canceled {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	if valueFormat(r) == "xlsx" {
		w.Header().Set("Content-Type", contentTypeXLSX)
		w.Header().Set("Content-Disposition", `attachment; filename="libretti.xlsx"`)

		if err := result.WriteXLSX(w); err != nil {
			writeError(w, http.StatusInternalServerError, err)
		}

		return
	}

	writeJson(w, Extraction{
		Columns: table.Columns,
		Rows:    toRows(result.Rows()),

		Canceled: canceled,
	})
}

func toRows(rows []table.Row) []Row {
	result := make([]Row, 0, len(rows))

	for _, r := range rows {
		result = append(result, Row{
			Name: r.Name,

			ShellThickness: r.ShellThickness,
			ShellQuality:   r.ShellQuality,

			HeadThickness: r.HeadThickness,
			HeadQuality:   r.HeadQuality,
		})
	}

	return result
}

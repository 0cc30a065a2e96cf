package template

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExecute(t *testing.T) {
	tmpl, err := NewTemplate(`
Valori:
{{- range .Values }}
- {{ . }}
{{- end }}

Testo: {{ trim .Text }}
`)

	require.NoError(t, err)

	result, err := tmpl.Execute(map[string]any{
		"Values": []string{"Fe 52/c", "P 355 N"},
		"Text":   "  fasciame  ",
	})

	require.NoError(t, err)
	require.Equal(t, "Valori:\n- Fe 52/c\n- P 355 N\n\nTesto: fasciame", result)
}

func TestExecuteMissingKey(t *testing.T) {
	tmpl, err := NewTemplate(`{{ .Missing }}`)
	require.NoError(t, err)

	_, err = tmpl.Execute(map[string]any{})
	require.Error(t, err)
}

func TestNewTemplateInvalid(t *testing.T) {
	_, err := NewTemplate(`{{ .Broken `)
	require.Error(t, err)
}

package text

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFold(t *testing.T) {
	tests := []struct {
		input  string
		expect string
	}{
		{"Qualità FONDO", "qualita fondo"},
		{"MATERIALI   IMPIEGATI", "materiali   impiegati"},
		{"Fe 52/c", "fe 52/c"},
		{"spessore nominale €", "spessore nominale "},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			require.Equal(t, tt.expect, Fold(tt.input))
		})
	}
}

func TestNormalize(t *testing.T) {
	input := "  Fasciame\r\n\r\n\r\nspessore   6 mm\n  fondo  "

	require.Equal(t, "Fasciame\n\nspessore 6 mm\nfondo", Normalize(input))
}

func TestPlainText(t *testing.T) {
	input := "# Materiali impiegati\n\n| Componente | Spessore |\n|---|---|\n| **Fasciame** | 6 |\n\nTesto *semplice*."

	result := PlainText(input)

	require.Contains(t, result, "Materiali impiegati")
	require.Contains(t, result, "Fasciame")
	require.Contains(t, result, "Testo semplice.")
	require.NotContains(t, result, "**")
	require.NotContains(t, result, "|")
}

package tesseract

import (
	"image"
	"testing"

	"github.com/adrianliechti/libretto/pkg/ocr"

	"github.com/otiai10/gosseract/v2"
	"github.com/stretchr/testify/require"
)

func TestLinePolygon(t *testing.T) {
	t.Run("wide line reads horizontally", func(t *testing.T) {
		line := ocr.Line{Polygon: linePolygon(image.Rect(10, 10, 300, 40), "Fasciame")}

		angle, ok := line.Angle()
		require.True(t, ok)
		require.InDelta(t, 0, angle, 0.0001)
	})

	t.Run("tall line reads vertically", func(t *testing.T) {
		line := ocr.Line{Polygon: linePolygon(image.Rect(10, 10, 40, 300), "Fasciame")}

		angle, ok := line.Angle()
		require.True(t, ok)
		require.InDelta(t, 90, angle, 0.0001)
	})

	t.Run("square box stays horizontal", func(t *testing.T) {
		line := ocr.Line{Polygon: linePolygon(image.Rect(0, 0, 30, 30), "Fe")}

		angle, _ := line.Angle()
		require.InDelta(t, 0, angle, 0.0001)
	})

	t.Run("single glyph stays horizontal", func(t *testing.T) {
		for _, glyph := range []string{"1", "I", "|"} {
			line := ocr.Line{Polygon: linePolygon(image.Rect(0, 0, 8, 30), glyph)}

			angle, ok := line.Angle()
			require.True(t, ok)
			require.InDelta(t, 0, angle, 0.0001, glyph)
		}
	})
}

func TestConvertLines(t *testing.T) {
	boxes := []gosseract.BoundingBox{
		{Box: image.Rect(0, 0, 200, 20), Word: "MATERIALI IMPIEGATI\n"},
		{Box: image.Rect(0, 30, 200, 50), Word: "   "},
		{Box: image.Rect(0, 60, 20, 300), Word: "Fasciame"},
	}

	lines := convertLines(boxes)

	require.Len(t, lines, 2)
	require.Equal(t, "MATERIALI IMPIEGATI", lines[0].Text)
	require.Equal(t, "Fasciame", lines[1].Text)
	require.Equal(t, "MATERIALI IMPIEGATI Fasciame", ocr.JoinLines(lines))
}

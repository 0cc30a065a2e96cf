package text

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.Table),
)

// PlainText flattens markdown into plain text: markup is dropped, every
// block (paragraph, heading, list item, table cell) ends on its own line.
func PlainText(input string) string {
	source := []byte(input)

	doc := markdown.Parser().Parse(text.NewReader(source))

	var builder strings.Builder

	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if n.Type() == ast.TypeBlock && n.Kind() != ast.KindDocument {
				builder.WriteString("\n")
			}

			return ast.WalkContinue, nil
		}

		switch n := n.(type) {
		case *ast.Text:
			builder.Write(n.Segment.Value(source))

			if n.SoftLineBreak() || n.HardLineBreak() {
				builder.WriteString("\n")
			}

		case *ast.String:
			builder.Write(n.Value)

		case *ast.CodeBlock, *ast.FencedCodeBlock:
			lines := n.Lines()

			for i := 0; i < lines.Len(); i++ {
				segment := lines.At(i)
				builder.Write(segment.Value(source))
			}

			return ast.WalkSkipChildren, nil
		}

		return ast.WalkContinue, nil
	})

	return Normalize(builder.String())
}

package archive

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		highlighting.NewHighlighting(
			highlighting.WithStyle("github"),
		),
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		html.WithUnsafe(),
	),
)

// AnalysisHTML converts a record's markdown analysis text to HTML.
func AnalysisHTML(rec *Record) ([]byte, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(rec.Analysis), &buf); err != nil {
		return nil, fmt.Errorf("converting analysis to HTML: %w", err)
	}
	return buf.Bytes(), nil
}

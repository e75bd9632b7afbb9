package convert

import (
	"bytes"
	"fmt"

	mathjax "github.com/litao91/goldmark-mathjax"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// markdownEngine wraps a reusable goldmark instance. goldmark.Markdown is
// stateless after construction, so one engine is shared by all conversions.
type markdownEngine struct {
	md goldmark.Markdown
}

// newMarkdownEngine builds the goldmark engine: GitHub-style tables, task
// lists and strikethrough, plus MathJax-compatible inline ($...$) and block
// ($$...$$) math. Fenced code blocks are CommonMark core. Raw HTML in the
// source is kept verbatim since the output is embedded in an ELN document
// that accepts HTML.
func newMarkdownEngine() markdownEngine {
	return markdownEngine{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.Table,
				extension.Strikethrough,
				extension.TaskList,
				mathjax.MathJax,
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			goldmark.WithRendererOptions(
				html.WithUnsafe(),
			),
		),
	}
}

func (e markdownEngine) render(source []byte) (string, error) {
	var buf bytes.Buffer
	if err := e.md.Convert(source, &buf); err != nil {
		return "", fmt.Errorf("goldmark convert: %w", err)
	}
	return buf.String(), nil
}

package convert

import (
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/microcosm-cc/bluemonday"
)

// HTMLToMarkdown converts document HTML fetched from the ELN back into
// Markdown. The input is sanitized first: ELN document bodies are rich text
// edited by arbitrary users and may carry scripts or event handlers that
// have no place in an exported file.
func HTMLToMarkdown(htmlContent string) (string, error) {
	clean := bluemonday.UGCPolicy().Sanitize(htmlContent)

	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	out, err := conv.ConvertString(clean)
	if err != nil {
		return "", fmt.Errorf("html to markdown: %w", err)
	}
	return strings.TrimSpace(out) + "\n", nil
}

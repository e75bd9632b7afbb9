package experiment

import (
	"fmt"
	"html"
	"strings"
)

// Assemble builds the composite summary document: a title, a manifest of
// every file with its upload outcome, and a content section inlining each
// file's rendered fragment. The output is deterministic for identical
// inputs: ordering follows the outcome slice and nothing here reads the
// clock (upload captions carry timestamps, the document body does not).
func Assemble(rootLabel string, limitMB float64, outcomes []Outcome, fragments []Fragment) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "<h1>Autogenerated document for %s</h1>\n", html.EscapeString(rootLabel))
	sb.WriteString("<h2>List of files</h2>\n<div>\n<ul>\n")
	for _, o := range outcomes {
		writeManifestEntry(&sb, o, limitMB)
	}
	sb.WriteString("</ul>\n</div>\n")

	for _, f := range fragments {
		sb.WriteString("<hr/>\n")
		fmt.Fprintf(&sb, "<p><code>%s</code></p>\n", html.EscapeString(f.Ref.Path))
		if f.Err != "" {
			fmt.Fprintf(&sb, "<p><em>Content could not be inlined: %s</em></p>\n", html.EscapeString(f.Err))
		} else {
			sb.WriteString(f.HTML)
			if !strings.HasSuffix(f.HTML, "\n") {
				sb.WriteByte('\n')
			}
		}
		sb.WriteString("<hr/>\n")
	}

	return sb.String()
}

func writeManifestEntry(sb *strings.Builder, o Outcome, limitMB float64) {
	path := html.EscapeString(o.Ref.Path)
	switch o.Status {
	case StatusUploaded:
		// <fileId=N> is the ELN's attachment link syntax; it must stay
		// unescaped so the server resolves it.
		fmt.Fprintf(sb, "<li>%s: <fileId=%d></li>\n", path, o.FileID)
	case StatusOversize:
		fmt.Fprintf(sb, "<li>%s (%.1f MB > %.1f MB)</li>\n",
			path, float64(o.Ref.Size)*1e-6, limitMB)
	case StatusSkipped:
		fmt.Fprintf(sb, "<li>%s: skipped (suffix excluded)</li>\n", path)
	case StatusFailed:
		fmt.Fprintf(sb, "<li>%s: upload failed (%s)</li>\n", path, html.EscapeString(o.Detail))
	}
}

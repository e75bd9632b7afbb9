package convert

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		path   string
		format Format
	}{
		{"notes.md", FormatMarkdown},
		{"notes.markdown", FormatMarkdown},
		{"NOTES.MD", FormatMarkdown},
		{"params.json", FormatJSON},
		{"image.tif", FormatOther},
		{"data.bin", FormatOther},
		{"no_extension", FormatOther},
	}

	for _, tt := range tests {
		if f := Detect(tt.path); f != tt.format {
			t.Errorf("Detect(%q) = %q, want %q", tt.path, f, tt.format)
		}
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestConvertMarkdown(t *testing.T) {
	path := writeFile(t, "notes.md", `# Results

| run | yield |
|-----|-------|
| 1   | 0.82  |

`+"```python\nprint(1)\n```"+`
`)

	c := New(Config{})
	out, err := c.Convert(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "<h1") || !strings.Contains(out, "Results") {
		t.Errorf("expected rendered heading, got %q", out)
	}
	if !strings.Contains(out, "<table>") {
		t.Errorf("expected rendered table, got %q", out)
	}
	if !strings.Contains(out, "<code") {
		t.Errorf("expected fenced code block, got %q", out)
	}
}

func TestConvertJSON(t *testing.T) {
	path := writeFile(t, "params.json", `{"a": 1}`)

	c := New(Config{})
	out, err := c.Convert(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "a") || !strings.Contains(out, "1") {
		t.Errorf("expected table cells for key and value, got %q", out)
	}
	if !strings.Contains(out, "<table") {
		t.Errorf("expected structural table, got %q", out)
	}
}

func TestConvertJSONMalformed(t *testing.T) {
	path := writeFile(t, "broken.json", `{"a":`)

	c := New(Config{})
	_, err := c.Convert(path)
	if err == nil {
		t.Fatal("expected error for malformed JSON")
	}
	if !errors.Is(err, ErrMalformedInput) {
		t.Errorf("expected ErrMalformedInput, got %v", err)
	}
}

func TestConvertPassthrough(t *testing.T) {
	raw := "<p>already html</p>\nplain line\n"
	path := writeFile(t, "readme.txt", raw)

	c := New(Config{})
	out, err := c.Convert(path)
	if err != nil {
		t.Fatal(err)
	}
	if out != raw {
		t.Errorf("passthrough changed content: %q != %q", out, raw)
	}
}

func TestConvertIdempotent(t *testing.T) {
	path := writeFile(t, "notes.md", "# Title\n\nSome *text* with $x^2$ math.\n")

	c := New(Config{})
	first, err := c.Convert(path)
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.Convert(path)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("conversion not idempotent:\n%q\n%q", first, second)
	}
}

func TestConvertUnreadable(t *testing.T) {
	c := New(Config{})
	if _, err := c.Convert(filepath.Join(t.TempDir(), "missing.md")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestRenderJSONTableDeterministic(t *testing.T) {
	// Key order in the source must not affect the rendered table.
	a, err := renderJSONTable([]byte(`{"b": 2, "a": 1}`))
	if err != nil {
		t.Fatal(err)
	}
	b, err := renderJSONTable([]byte(`{"a": 1, "b": 2}`))
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Errorf("table rendering depends on key order:\n%q\n%q", a, b)
	}
	if strings.Index(a, "<th>a</th>") > strings.Index(a, "<th>b</th>") {
		t.Errorf("keys not sorted: %q", a)
	}
}

func TestRenderJSONTableNested(t *testing.T) {
	out, err := renderJSONTable([]byte(`{"outer": {"inner": [1, 2]}}`))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Count(out, "<table") < 2 {
		t.Errorf("expected nested tables, got %q", out)
	}
	if !strings.Contains(out, "<ul><li>1</li><li>2</li></ul>") {
		t.Errorf("expected scalar array as list, got %q", out)
	}
}

func TestRenderJSONTableUniformArray(t *testing.T) {
	out, err := renderJSONTable([]byte(`[{"id": 1, "name": "x"}, {"id": 2, "name": "y"}]`))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "<thead>") {
		t.Errorf("expected header row for uniform object array, got %q", out)
	}
	if !strings.Contains(out, "<th>id</th>") || !strings.Contains(out, "<th>name</th>") {
		t.Errorf("expected shared header cells, got %q", out)
	}
}

func TestRenderJSONTableEscapes(t *testing.T) {
	out, err := renderJSONTable([]byte(`{"k": "<script>alert(1)</script>"}`))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "<script>") {
		t.Errorf("value not escaped: %q", out)
	}
}

func TestHTMLToMarkdown(t *testing.T) {
	md, err := HTMLToMarkdown(`<h1>Title</h1><p>Body <script>alert(1)</script>text.</p>`)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(md, "# Title") {
		t.Errorf("expected markdown heading, got %q", md)
	}
	if strings.Contains(md, "alert(1)") {
		t.Errorf("script content survived sanitization: %q", md)
	}
}

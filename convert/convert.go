// Package convert turns experiment files into HTML fragments ready to be
// embedded in an ELN document.
//
// Supported formats:
//   - .md / .markdown: rendered with goldmark (tables, fenced code, task
//     lists, inline and display math)
//   - .json:           rendered as a nested structural table
//   - anything else:   raw text passthrough (treated as already-valid HTML)
//
// Conversion never mutates the source file and is a pure function of the
// file's content: converting the same bytes twice yields the same fragment.
package convert

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Format identifies how a file's content is converted.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatOther    Format = "other"
)

// ErrMalformedInput reports content that does not parse as its detected
// format (e.g. a .json file that is not valid JSON).
var ErrMalformedInput = errors.New("malformed input")

// ErrNotText reports binary content that cannot be treated as text.
var ErrNotText = errors.New("content is not valid text")

// Detect returns the conversion format for a path based on its extension.
// Unknown extensions map to FormatOther; detection never fails.
func Detect(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return FormatMarkdown
	case ".json":
		return FormatJSON
	default:
		return FormatOther
	}
}

// Config configures a Converter.
type Config struct {
	// Logger for debug messages.
	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Converter renders file content as HTML fragments.
type Converter struct {
	cfg    Config
	logger *slog.Logger
	md     markdownEngine
}

// New creates a Converter with the given configuration.
func New(cfg Config) *Converter {
	cfg.defaults()
	return &Converter{
		cfg:    cfg,
		logger: cfg.Logger,
		md:     newMarkdownEngine(),
	}
}

// Convert reads the file at path and returns its content as an HTML
// fragment, dispatching on the detected format. Read failures and malformed
// input are returned to the caller; they are per-file conditions and must be
// recovered at file scope.
func (c *Converter) Convert(path string) (string, error) {
	format := Detect(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s", ErrNotText, path)
	}

	c.logger.Debug("converting file", "path", path, "format", format)

	switch format {
	case FormatMarkdown:
		out, err := c.md.render(data)
		if err != nil {
			return "", fmt.Errorf("render markdown %s: %w", path, err)
		}
		return out, nil
	case FormatJSON:
		out, err := renderJSONTable(data)
		if err != nil {
			return "", fmt.Errorf("render json %s: %w", path, err)
		}
		return out, nil
	default:
		return string(data), nil
	}
}

// SupportedFormats returns the format tags handled by the converter.
func SupportedFormats() []string {
	return []string{string(FormatMarkdown), string(FormatJSON), string(FormatOther)}
}

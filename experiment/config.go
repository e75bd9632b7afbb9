package experiment

import (
	"log/slog"
	"path/filepath"
	"strings"
	"time"
)

// baselineTag is attached to every document the toolkit creates so that
// API-generated content is identifiable in the notebook.
const baselineTag = "API"

// Config configures a Pipeline.
type Config struct {
	// MaxFileSizeMB is the upload admission limit in decimal megabytes
	// (size_bytes * 1e-6). Default 2.0.
	MaxFileSizeMB float64 `yaml:"max_file_size_mb"`

	// SkipSuffixes lists file extensions excluded from upload entirely,
	// with or without the leading dot (".tif" and "tif" are equivalent).
	SkipSuffixes []string `yaml:"skip_suffixes"`

	// SkipSubdirs disables recursion into subdirectories.
	SkipSubdirs bool `yaml:"skip_subdirs"`

	// FolderID places the summary document in a folder or notebook.
	// Zero leaves placement to the server.
	FolderID int64 `yaml:"folder_id"`

	// Tags for the summary document. The baseline "API" tag is appended
	// when missing.
	Tags []string `yaml:"tags"`

	// Logger for per-file progress. Defaults to slog.Default().
	Logger *slog.Logger `yaml:"-"`

	// Now supplies upload caption timestamps; injectable for tests.
	Now func() time.Time `yaml:"-"`
}

func (c *Config) defaults() {
	if c.MaxFileSizeMB <= 0 {
		c.MaxFileSizeMB = 2.0
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	c.Tags = NormalizeTags(c.Tags)
}

// NormalizeTags appends the baseline "API" tag when absent, so documents
// created through the toolkit stay identifiable in the notebook.
func NormalizeTags(tags []string) []string {
	for _, t := range tags {
		if t == baselineTag {
			return tags
		}
	}
	return append(tags, baselineTag)
}

// lowerExt returns the lowercase extension of path, including the dot.
func lowerExt(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// skipSet builds the suffix lookup used by UploadAll. Suffixes are
// normalized to a lowercase ".ext" form.
func skipSet(suffixes []string) map[string]struct{} {
	set := make(map[string]struct{}, len(suffixes))
	for _, s := range suffixes {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if !strings.HasPrefix(s, ".") {
			s = "." + s
		}
		set[s] = struct{}{}
	}
	return set
}

// Package walk enumerates the files of an experiment directory.
package walk

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/emichr/RSpace-NTNU-workshop/convert"
)

var (
	// ErrNotDirectory reports a walk root that is not an existing directory.
	ErrNotDirectory = errors.New("not a directory")

	// ErrUnrecognizedEntry reports a directory entry that is neither a
	// regular file nor a directory (device nodes, sockets, dangling or
	// looping symlinks). A tree containing such entries is treated as a
	// precondition violation: the walk aborts instead of skipping.
	ErrUnrecognizedEntry = errors.New("unrecognized directory entry")
)

// FileRef describes one file found during a walk. It is immutable once
// produced and valid only for the filesystem snapshot the walk observed.
type FileRef struct {
	// Path is the absolute path of the file.
	Path string
	// Size is the file size in bytes at walk time.
	Size int64
	// Format is the conversion format derived from the file extension.
	Format convert.Format
}

// Files lists the files under root in directory-entry order. When recurse is
// true, subdirectories are traversed depth-first and their files flattened
// into the same sequence; otherwise subdirectories are reported to the
// logger and skipped. The ordering is reproducible within one run but not
// guaranteed stable across filesystems.
func Files(root string, recurse bool, logger *slog.Logger) ([]FileRef, error) {
	if logger == nil {
		logger = slog.Default()
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotDirectory, abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, abs)
	}

	return listDir(abs, recurse, logger)
}

func listDir(dir string, recurse bool, logger *slog.Logger) ([]FileRef, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	var files []FileRef
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		switch {
		case entry.IsDir():
			if !recurse {
				logger.Info("skipping subdirectory", "path", path)
				continue
			}
			sub, err := listDir(path, recurse, logger)
			if err != nil {
				return nil, err
			}
			files = append(files, sub...)

		case entry.Type().IsRegular():
			info, err := entry.Info()
			if err != nil {
				return nil, fmt.Errorf("stat %s: %w", path, err)
			}
			files = append(files, FileRef{
				Path:   path,
				Size:   info.Size(),
				Format: convert.Detect(path),
			})

		case entry.Type()&os.ModeSymlink != 0:
			// Resolve symlinks to regular files; anything else aborts.
			info, err := os.Stat(path)
			if err != nil || !info.Mode().IsRegular() {
				return nil, fmt.Errorf("%w: %s", ErrUnrecognizedEntry, path)
			}
			files = append(files, FileRef{
				Path:   path,
				Size:   info.Size(),
				Format: convert.Detect(path),
			})

		default:
			return nil, fmt.Errorf("%w: %s", ErrUnrecognizedEntry, path)
		}
	}
	return files, nil
}

package walk

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/emichr/RSpace-NTNU-workshop/convert"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestFilesFlat(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.md"), "# a")
	writeFile(t, filepath.Join(dir, "b.json"), "{}")
	writeFile(t, filepath.Join(dir, "sub", "c.txt"), "nested")

	refs, err := Files(dir, false, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(refs) != 2 {
		t.Fatalf("expected 2 files without recursion, got %d: %v", len(refs), refs)
	}
	for _, ref := range refs {
		if filepath.Base(ref.Path) == "sub" {
			t.Errorf("directory entry yielded as file: %v", ref)
		}
		if !filepath.IsAbs(ref.Path) {
			t.Errorf("expected absolute path, got %q", ref.Path)
		}
	}
}

func TestFilesRecursive(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.md"), "# a")
	writeFile(t, filepath.Join(dir, "sub", "c.txt"), "nested")
	writeFile(t, filepath.Join(dir, "sub", "deeper", "d.json"), "{}")

	refs, err := Files(dir, true, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(refs) != 3 {
		t.Fatalf("expected 3 files with recursion, got %d", len(refs))
	}

	byName := map[string]FileRef{}
	for _, ref := range refs {
		byName[filepath.Base(ref.Path)] = ref
	}
	if byName["a.md"].Format != convert.FormatMarkdown {
		t.Errorf("a.md format = %q", byName["a.md"].Format)
	}
	if byName["d.json"].Format != convert.FormatJSON {
		t.Errorf("d.json format = %q", byName["d.json"].Format)
	}
	if byName["c.txt"].Format != convert.FormatOther {
		t.Errorf("c.txt format = %q", byName["c.txt"].Format)
	}
	if byName["a.md"].Size != 3 {
		t.Errorf("a.md size = %d, want 3", byName["a.md"].Size)
	}
}

func TestFilesNotADirectory(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "plain.txt")
	writeFile(t, file, "x")

	if _, err := Files(file, true, nil); !errors.Is(err, ErrNotDirectory) {
		t.Errorf("expected ErrNotDirectory for file root, got %v", err)
	}
	if _, err := Files(filepath.Join(dir, "missing"), true, nil); !errors.Is(err, ErrNotDirectory) {
		t.Errorf("expected ErrNotDirectory for missing root, got %v", err)
	}
}

func TestFilesUnrecognizedEntry(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks unreliable on windows")
	}
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.md"), "# a")
	if err := os.Symlink(filepath.Join(dir, "gone"), filepath.Join(dir, "broken")); err != nil {
		t.Skipf("symlink: %v", err)
	}

	if _, err := Files(dir, true, nil); !errors.Is(err, ErrUnrecognizedEntry) {
		t.Errorf("expected ErrUnrecognizedEntry for broken symlink, got %v", err)
	}
}

func TestFilesSymlinkToFile(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks unreliable on windows")
	}
	dir := t.TempDir()
	target := filepath.Join(dir, "real.txt")
	writeFile(t, target, "content")
	if err := os.Symlink(target, filepath.Join(dir, "link.txt")); err != nil {
		t.Skipf("symlink: %v", err)
	}

	refs, err := Files(dir, true, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(refs) != 2 {
		t.Fatalf("expected symlink to regular file to be listed, got %d refs", len(refs))
	}
}

func TestFilesRestartable(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.md"), "# a")
	writeFile(t, filepath.Join(dir, "b.txt"), "b")

	first, err := Files(dir, true, nil)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Files(dir, true, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != len(second) {
		t.Fatalf("walk not restartable: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("walk order changed at %d: %v vs %v", i, first[i], second[i])
		}
	}
}

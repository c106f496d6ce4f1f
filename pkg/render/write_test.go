package render

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/treedot/pkg/errors"
)

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.dot")

	if err := os.WriteFile(path, []byte("old contents that are longer"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := WriteFile(path, []byte("digraph G {\n}\n")); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "digraph G {\n}\n" {
		t.Errorf("file contents = %q", got)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("WriteFile() left %d entries in dir, want 1", len(entries))
	}
}

func TestWriteFile_MissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "graph.dot")
	err := WriteFile(path, []byte("x"))
	if !errors.Is(err, errors.ErrCodeIO) {
		t.Errorf("WriteFile() error = %v, want IO_ERROR", err)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Error("WriteFile() should not create the output on failure")
	}
}

func TestWriteFile_InvalidPath(t *testing.T) {
	err := WriteFile("", []byte("x"))
	if !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("WriteFile(\"\") error = %v, want INVALID_PATH", err)
	}
}

func TestRenderFailureWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.dot")

	// Second child lacks the child-sequence index.
	root := mustParse(t, "[0, 1, None, [[0, 2, None, []], [0, 3]]]")
	res, err := Render(root, Plain)
	if err == nil {
		if werr := WriteFile(path, []byte(res.DOT)); werr != nil {
			t.Fatal(werr)
		}
		t.Fatal("Render() should fail on a malformed child")
	}

	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Error("no output file should exist after a failed render")
	}
}

package e2e

import (
	"fmt"
	"os"
	"path/filepath"
)

// ImportExtensions is the list of file extensions used in import-based E2E
// tests. The importer ingests plain text only.
var ImportExtensions = []string{".txt", ".md"}

// FixtureFile describes one file written into an import fixture directory.
type FixtureFile struct {
	RelPath string
	Text    string
}

// WriteFixtureTree writes the given files under root, creating intermediate
// directories. Returns the absolute paths written, in input order.
func WriteFixtureTree(root string, files []FixtureFile) ([]string, error) {
	paths := make([]string, 0, len(files))
	for _, f := range files {
		path := filepath.Join(root, f.RelPath)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("mkdir for %s: %w", f.RelPath, err)
		}
		if err := os.WriteFile(path, []byte(f.Text), 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", f.RelPath, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// DefaultFixtureTree is a small mixed tree: importable text files, a nested
// directory, and files the importer must skip.
func DefaultFixtureTree() []FixtureFile {
	return []FixtureFile{
		{RelPath: "groceries.txt", Text: "eggs, oat milk, rye bread"},
		{RelPath: "ideas.md", Text: "# Ideas\n\nBuild a cold frame before October."},
		{RelPath: "archive/letter.txt", Text: "Dear future self, water the ficus."},
		{RelPath: "photo.jpg", Text: "not really a photo"},
		{RelPath: "archive/data.bin", Text: "\x00\x01\x02"},
	}
}

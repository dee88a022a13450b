package fs

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, root, rel string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	return path
}

func names(t *testing.T, root string, files []FileInfo) []string {
	t.Helper()
	out := make([]string, len(files))
	for i, f := range files {
		rel, err := filepath.Rel(root, f.Path)
		require.NoError(t, err)
		out[i] = filepath.ToSlash(rel)
	}
	sort.Strings(out)
	return out
}

func TestWalker_Walk(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "a.txt")
	touch(t, root, "b.md")
	touch(t, root, "docs/report.PDF")
	touch(t, root, "docs/nested/data.json")
	touch(t, root, "skip/ignored.txt")

	w := NewWalker(IncludesFor([]string{"pdf", "txt", "json"}), []string{"skip/"})
	files, err := w.Walk(root)
	require.NoError(t, err)

	assert.Equal(t, []string{"a.txt", "docs/nested/data.json", "docs/report.PDF"}, names(t, root, files))
}

func TestWalker_Collect(t *testing.T) {
	root := t.TempDir()
	direct := touch(t, root, "notes.md")
	touch(t, root, "dir/a.txt")
	touch(t, root, "dir/b.md")

	w := NewWalker(IncludesFor([]string{"txt"}), nil)
	files, err := w.Collect([]string{direct, filepath.Join(root, "dir")})
	require.NoError(t, err)
	assert.Equal(t, []string{"dir/a.txt", "notes.md"}, names(t, root, files))

	_, err = w.Collect([]string{filepath.Join(root, "missing")})
	assert.Error(t, err)
}

func TestIncludesFor(t *testing.T) {
	assert.Nil(t, IncludesFor(nil))
	assert.Equal(t, []string{"**/*.{txt,TXT,csv,CSV}"}, IncludesFor([]string{".txt", "csv"}))
}

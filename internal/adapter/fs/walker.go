package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

type Walker struct {
	includes []string
	excludes []string
}

func NewWalker(includes, excludes []string) *Walker {
	if len(includes) == 0 {
		includes = []string{"**/*"}
	}
	return &Walker{
		includes: includes,
		excludes: excludes,
	}
}

// IncludesFor returns the include pattern matching files with any of exts,
// in any letter case of the common spellings.
func IncludesFor(exts []string) []string {
	if len(exts) == 0 {
		return nil
	}
	alts := make([]string, 0, 2*len(exts))
	for _, ext := range exts {
		ext = strings.TrimPrefix(ext, ".")
		alts = append(alts, strings.ToLower(ext), strings.ToUpper(ext))
	}
	return []string{"**/*.{" + strings.Join(alts, ",") + "}"}
}

type FileInfo struct {
	Path    string
	ModTime int64
	Size    int64
}

func (w *Walker) Walk(root string) ([]FileInfo, error) {
	var files []FileInfo

	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		if info.IsDir() {
			if relPath != "." && w.shouldExclude(relPath+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		if w.shouldInclude(relPath) && !w.shouldExclude(relPath) {
			files = append(files, FileInfo{
				Path:    path,
				ModTime: info.ModTime().Unix(),
				Size:    info.Size(),
			})
		}

		return nil
	})

	return files, err
}

// Collect expands args into files. Directories are walked with the walker's
// patterns; files named directly are always kept.
func (w *Walker) Collect(args []string) ([]FileInfo, error) {
	var files []FileInfo
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("path does not exist: %w", err)
		}

		if !info.IsDir() {
			path, err := filepath.Abs(arg)
			if err != nil {
				return nil, err
			}
			files = append(files, FileInfo{Path: path, ModTime: info.ModTime().Unix(), Size: info.Size()})
			continue
		}

		walked, err := w.Walk(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", arg, err)
		}
		files = append(files, walked...)
	}
	return files, nil
}

func (w *Walker) shouldInclude(path string) bool {
	for _, pattern := range w.includes {
		matched, err := doublestar.Match(pattern, path)
		if err == nil && matched {
			return true
		}
	}
	return false
}

func (w *Walker) shouldExclude(path string) bool {
	for _, pattern := range w.excludes {
		matched, err := doublestar.Match(pattern, path)
		if err == nil && matched {
			return true
		}
	}
	return false
}

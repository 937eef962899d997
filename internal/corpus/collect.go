package corpus

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/virtual-labs/tool-ai-quality-assurance-iiith/internal/mdtext"
)

// scanTemplates walks root and returns every markdown file keyed by its
// slash-separated path relative to root. Files that are not valid UTF-8
// are skipped rather than failing the scan.
func scanTemplates(root string) (map[string]string, []string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, nil, fmt.Errorf("stat template root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, nil, fmt.Errorf("template root %s is not a directory", root)
	}

	files := make(map[string]string)
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if !isMarkdown(path) {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("relative path for %s: %w", path, err)
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read template %s: %w", path, err)
		}
		if !utf8.Valid(content) {
			return nil
		}

		files[filepath.ToSlash(rel)] = mdtext.NormalizeNewlines(string(content))
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("walk template root %s: %w", root, err)
	}

	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return files, paths, nil
}

func isMarkdown(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".md" || ext == ".markdown"
}

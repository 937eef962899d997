package simulation

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// maxAssetSize is the per-file ceiling for the census; anything larger is
// treated as a binary blob and skipped.
const maxAssetSize = 5 * 1024 * 1024

const (
	maxJSFiles     = 5
	jsSnippetLimit = 2000
)

// Census buckets the files under experiment/simulation by type. Paths are
// slash-separated and relative to the repository root.
type Census struct {
	HTML   []string `json:"html_files"`
	JS     []string `json:"js_files"`
	CSS    []string `json:"css_files"`
	Images []string `json:"image_files"`
	JSON   []string `json:"json_files"`
	Other  []string `json:"other_files"`
}

// Total counts files across all buckets.
func (c *Census) Total() int {
	return len(c.HTML) + len(c.JS) + len(c.CSS) + len(c.Images) + len(c.JSON) + len(c.Other)
}

func (c *Census) typesPresent() int {
	n := 0
	for _, bucket := range [][]string{c.HTML, c.JS, c.CSS, c.Images, c.JSON, c.Other} {
		if len(bucket) > 0 {
			n++
		}
	}
	return n
}

func (c *Census) add(rel string) {
	switch strings.ToLower(filepath.Ext(rel)) {
	case ".html", ".htm":
		c.HTML = append(c.HTML, rel)
	case ".js":
		c.JS = append(c.JS, rel)
	case ".css":
		c.CSS = append(c.CSS, rel)
	case ".json":
		c.JSON = append(c.JSON, rel)
	case ".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp", ".ico", ".bmp":
		c.Images = append(c.Images, rel)
	default:
		c.Other = append(c.Other, rel)
	}
}

// census walks experiment/simulation under root. Hidden and temp files
// (leading "." or "~") and files over maxAssetSize are skipped.
func census(root string) Census {
	c := Census{
		HTML:   []string{},
		JS:     []string{},
		CSS:    []string{},
		Images: []string{},
		JSON:   []string{},
		Other:  []string{},
	}
	simDir := filepath.Join(root, "experiment", "simulation")
	info, err := os.Stat(simDir)
	if err != nil || !info.IsDir() {
		return c
	}
	_ = filepath.WalkDir(simDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		name := d.Name()
		if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~") {
			return nil
		}
		fi, err := d.Info()
		if err != nil || fi.Size() > maxAssetSize {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		c.add(filepath.ToSlash(rel))
		return nil
	})
	return c
}

// mainHTML returns the text of experiment/simulation/index.html, falling
// back to the first HTML file in the census. The boolean reports whether
// any page could be read; an empty page still counts as found.
func mainHTML(root string, c Census) (string, bool) {
	data, err := os.ReadFile(filepath.Join(root, "experiment", "simulation", "index.html"))
	if err == nil {
		return string(data), true
	}
	if len(c.HTML) == 0 {
		return "", false
	}
	data, err = os.ReadFile(filepath.Join(root, filepath.FromSlash(c.HTML[0])))
	if err != nil {
		return "", false
	}
	return string(data), true
}

// concatJS joins the first maxJSFiles scripts, each truncated to
// jsSnippetLimit bytes, with a file header before each one.
func concatJS(root string, files []string) string {
	n := len(files)
	if n > maxJSFiles {
		n = maxJSFiles
	}
	var b strings.Builder
	for _, rel := range files[:n] {
		fmt.Fprintf(&b, "// File: %s\n", rel)
		content := "// JS file content not available"
		if data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel))); err == nil {
			content = string(data)
			if len(content) > jsSnippetLimit {
				content = content[:jsSnippetLimit]
			}
		}
		b.WriteString(content)
		b.WriteString("\n\n")
	}
	return b.String()
}

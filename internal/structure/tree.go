package structure

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultTreeDepth bounds how deep Tree descends.
const DefaultTreeDepth = 4

// Tree renders the directory layout under root with two-space indentation,
// directories suffixed with a slash. Entries appear in lexical order;
// .git* and node_modules are skipped, and levels beyond maxDepth collapse
// to an ellipsis.
func Tree(root string, maxDepth int) string {
	var b strings.Builder
	writeTree(&b, root, 0, maxDepth)
	return b.String()
}

func writeTree(b *strings.Builder, dir string, level, maxDepth int) {
	if level > maxDepth {
		fmt.Fprintf(b, "%s...\n", strings.Repeat("  ", level))
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		fmt.Fprintf(b, "%s[unreadable: %v]\n", strings.Repeat("  ", level), err)
		return
	}
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".git") || name == "node_modules" {
			continue
		}
		indent := strings.Repeat("  ", level)
		if entry.IsDir() {
			fmt.Fprintf(b, "%s%s/\n", indent, name)
			writeTree(b, filepath.Join(dir, name), level+1, maxDepth)
		} else {
			fmt.Fprintf(b, "%s%s\n", indent, name)
		}
	}
}

package gitrepo

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

const (
	// maxNameWords caps how long an experiment-name.md entry may be
	// before it is rejected as prose rather than a name.
	maxNameWords = 10
	// overviewLimit caps overview text, in runes.
	overviewLimit = 500
	// minOverviewChars is the shortest README paragraph worth using as
	// an overview.
	minOverviewChars = 50
)

var (
	repoNamePattern = regexp.MustCompile(`^exp-(.+)-([a-zA-Z0-9]+)$`)
	headingMarks    = regexp.MustCompile(`(?m)^#+\s*`)
	inlineMarks     = regexp.MustCompile("[*_`]")
	headingLines    = regexp.MustCompile(`(?m)^#.*$`)
	readmeTitle     = regexp.MustCompile(`(?m)^#\s+(.+)$`)
	titlePrefix     = regexp.MustCompile(`(?i)^(experiment|lab|virtual lab):\s*`)
	bulletMarks     = regexp.MustCompile(`(?m)^[*-]\s+`)
	mdLinks         = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
)

// Metadata describes the subject repository for reports.
type Metadata struct {
	ExperimentName string `json:"experiment_name"`
	Overview       string `json:"experiment_overview"`
	RepoPath       string `json:"repo_path,omitempty"`
	RepoURL        string `json:"repo_url,omitempty"`
}

// Describe collects repository metadata from a checked-out tree.
func Describe(root, url string) Metadata {
	return Metadata{
		ExperimentName: ExperimentName(root, url),
		Overview:       Overview(root),
		RepoPath:       root,
		RepoURL:        url,
	}
}

// ExperimentDetails parses the repository basename of url as
// exp-{name}-{institute}. The name comes back title-cased with hyphens
// as spaces, the institute upper-cased.
func ExperimentDetails(url string) (name, institute string, ok bool) {
	m := repoNamePattern.FindStringSubmatch(repoBasename(url))
	if m == nil {
		return "", "", false
	}
	return titleCase(strings.ReplaceAll(m[1], "-", " ")), strings.ToUpper(m[2]), true
}

// ExperimentName resolves the human-readable experiment name. The URL
// pattern is the most reliable source; after that
// experiment/experiment-name.md, the first README title, and the raw
// repository basename are tried in order.
func ExperimentName(root, url string) string {
	if name, _, ok := ExperimentDetails(url); ok {
		return name
	}
	if name := nameFromFile(filepath.Join(root, "experiment", "experiment-name.md")); name != "" {
		return name
	}
	if name := nameFromReadme(filepath.Join(root, "README.md")); name != "" {
		return name
	}
	if name := nameFromBasename(url); name != "" {
		return name
	}
	return "Unknown Experiment"
}

// Overview extracts a short experiment description: experiment/aim.md
// with headings removed, else the first substantial README paragraph
// after the title.
func Overview(root string) string {
	if text := overviewFromAim(filepath.Join(root, "experiment", "aim.md")); text != "" {
		return text
	}
	if text := overviewFromReadme(filepath.Join(root, "README.md")); text != "" {
		return text
	}
	return "No overview available"
}

func nameFromFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	content := headingMarks.ReplaceAllString(strings.TrimSpace(string(data)), "")
	content = inlineMarks.ReplaceAllString(content, "")
	content = strings.TrimSpace(content)
	if content == "" || len(strings.Fields(content)) > maxNameWords {
		return ""
	}
	return content
}

func nameFromReadme(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	m := readmeTitle.FindStringSubmatch(string(data))
	if m == nil {
		return ""
	}
	title := titlePrefix.ReplaceAllString(strings.TrimSpace(m[1]), "")
	return strings.TrimSpace(title)
}

func nameFromBasename(url string) string {
	if url == "" {
		return ""
	}
	rest, found := strings.CutPrefix(repoBasename(url), "exp-")
	if !found {
		return ""
	}
	parts := strings.Split(rest, "-")
	if len(parts) < 2 {
		return ""
	}
	// The last segment is the institute.
	return titleCase(strings.Join(parts[:len(parts)-1], " "))
}

func overviewFromAim(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	content := headingLines.ReplaceAllString(strings.TrimSpace(string(data)), "")
	content = strings.TrimSpace(content)
	if content == "" {
		return ""
	}
	return clip(content, overviewLimit)
}

func overviewFromReadme(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	paragraphs := strings.Split(string(data), "\n\n")
	if len(paragraphs) < 2 {
		return ""
	}
	// The first paragraph is usually the title.
	for _, para := range paragraphs[1:] {
		para = strings.TrimSpace(para)
		if para == "" || strings.HasPrefix(para, "#") {
			continue
		}
		clean := bulletMarks.ReplaceAllString(para, "")
		clean = mdLinks.ReplaceAllString(clean, "$1")
		if len([]rune(clean)) > minOverviewChars {
			return clip(clean, overviewLimit)
		}
	}
	return ""
}

func repoBasename(url string) string {
	clean := strings.TrimRight(strings.TrimSpace(url), "/")
	clean = strings.TrimSuffix(clean, ".git")
	if i := strings.LastIndex(clean, "/"); i >= 0 {
		clean = clean[i+1:]
	}
	return clean
}

// titleCase upper-cases the first letter of every letter run and
// lower-cases the rest. Digits and punctuation break runs.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		switch {
		case !unicode.IsLetter(r):
			b.WriteRune(r)
			prevLetter = false
		case prevLetter:
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(unicode.ToUpper(r))
			prevLetter = true
		}
	}
	return b.String()
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

package content

import (
	"strings"

	"github.com/virtual-labs/tool-ai-quality-assurance-iiith/internal/mdtext"
)

// Document wraps one content file for evaluation. Derived counts are
// computed lazily and cached.
type Document struct {
	Path    string
	Content string

	wordCount      int
	wordCountReady bool

	lineCount      int
	lineCountReady bool

	meaningfulWords      int
	meaningfulWordsReady bool
}

// NewDocument constructs a Document for an already-read content file.
func NewDocument(path string, content string) *Document {
	return &Document{Path: path, Content: content}
}

// WordCount returns the whitespace-separated word count of the raw
// content, markup tokens included.
func (d *Document) WordCount() int {
	if !d.wordCountReady {
		d.wordCount = mdtext.CountWords(d.Content)
		d.wordCountReady = true
	}
	return d.wordCount
}

// LineCount returns the number of content lines.
func (d *Document) LineCount() int {
	if !d.lineCountReady {
		if d.Content == "" {
			d.lineCount = 0
		} else {
			d.lineCount = strings.Count(d.Content, "\n") + 1
		}
		d.lineCountReady = true
	}
	return d.lineCount
}

// MeaningfulWordCount returns the word count after markdown punctuation
// is stripped.
func (d *Document) MeaningfulWordCount() int {
	if !d.meaningfulWordsReady {
		d.meaningfulWords = mdtext.MeaningfulWordCount(d.Content)
		d.meaningfulWordsReady = true
	}
	return d.meaningfulWords
}

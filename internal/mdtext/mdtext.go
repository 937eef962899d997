// Package mdtext extracts plain text, headings, and word counts from
// Markdown sources via the goldmark AST.
package mdtext

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Parse parses source as Markdown and returns the document root.
func Parse(source []byte) ast.Node {
	return goldmark.DefaultParser().Parse(text.NewReader(source))
}

// ExtractPlainText returns the plain text content of a node, with links
// reduced to their label, images to their alt text, and code spans to
// their literal content. Sibling blocks are separated by newlines.
func ExtractPlainText(n ast.Node, source []byte) string {
	var buf strings.Builder
	writeText(n, source, &buf)
	return strings.TrimSpace(buf.String())
}

func writeText(n ast.Node, source []byte, buf *strings.Builder) {
	switch t := n.(type) {
	case *ast.Text:
		buf.Write(t.Segment.Value(source))
		if t.HardLineBreak() {
			buf.WriteByte('\n')
		} else if t.SoftLineBreak() {
			buf.WriteByte(' ')
		}
		return
	case *ast.String:
		buf.Write(t.Value)
		return
	case *ast.AutoLink:
		buf.Write(t.URL(source))
		return
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			buf.Write(seg.Value(source))
		}
		return
	}

	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		writeText(c, source, buf)
		if c.Type() == ast.TypeBlock && c.NextSibling() != nil {
			buf.WriteByte('\n')
		}
	}
}

// PlainText parses source and extracts its full plain text.
func PlainText(source []byte) string {
	return ExtractPlainText(Parse(source), source)
}

// CountWords counts whitespace-separated words.
func CountWords(s string) int {
	return len(strings.Fields(s))
}

// NormalizeNewlines rewrites CRLF and lone CR line endings to LF so that
// texts read from different checkouts compare line by line.
func NormalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// Heading is one Markdown heading with its level and plain text.
type Heading struct {
	Level int
	Text  string
}

// Headings parses source and returns every heading in document order.
func Headings(source []byte) []Heading {
	var headings []Heading
	_ = ast.Walk(Parse(source), func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		headings = append(headings, Heading{
			Level: h.Level,
			Text:  ExtractPlainText(h, source),
		})
		return ast.WalkContinue, nil
	})
	return headings
}

// StripMarkup removes Markdown punctuation characters (#, *, _, `, -)
// from s, leaving the words behind. Used to judge how much meaningful
// content a short file carries.
func StripMarkup(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '#', '*', '_', '`', '-':
			return -1
		}
		return r
	}, s)
}

// MeaningfulWordCount counts words after markup stripping.
func MeaningfulWordCount(s string) int {
	return CountWords(StripMarkup(s))
}

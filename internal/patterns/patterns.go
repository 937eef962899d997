// Package patterns detects template boilerplate through fixed lexical
// cues, independent of any reference corpus. The phrase vocabulary is a
// versioned data artifact, embedded at build time and verifiable by
// checksum, so the lists can evolve without touching decision logic.
package patterns

import (
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/virtual-labs/tool-ai-quality-assurance-iiith/internal/mdtext"
)

// Embedded artifact metadata used for checksum and loading validation.
const (
	EmbeddedArtifactPath   = "data/phrases-v1.json"
	EmbeddedArtifactSHA256 = "cc281cb117b55821f5bbd643bc7056d2f6b19f96fb211fb64737f3a8a3bac61f"
)

//go:embed data/phrases-v1.json
var embeddedArtifact []byte

var wordPattern = regexp.MustCompile(`[a-z0-9']+`)

// Vocabulary is the phrase artifact schema. Strong sentences classify on
// containment alone; labels classify only when they are the entire
// meaningful content of a file; weak cues require two distinct hits;
// generic terms apply only to very short content. Placeholders feed the
// similarity engine's placeholder signal.
type Vocabulary struct {
	VocabularyID string   `json:"vocabulary_id"`
	Version      string   `json:"version"`
	Strong       []string `json:"strong"`
	Labels       []string `json:"labels"`
	Weak         []string `json:"weak"`
	Generic      []string `json:"generic"`
	Placeholders []string `json:"placeholders"`
}

// Matcher answers template-cue queries against one loaded vocabulary.
// A Matcher is immutable after load and safe for concurrent use.
type Matcher struct {
	vocab          Vocabulary
	weakRes        []*regexp.Regexp
	placeholderRes []*regexp.Regexp
	genericSet     map[string]struct{}
	labelSet       map[string]struct{}
}

// LoadEmbedded loads and verifies the embedded phrase vocabulary.
func LoadEmbedded() (*Matcher, error) {
	sum := sha256.Sum256(embeddedArtifact)
	got := hex.EncodeToString(sum[:])
	if got != EmbeddedArtifactSHA256 {
		return nil, fmt.Errorf(
			"patterns: embedded vocabulary checksum mismatch: got %s want %s",
			got,
			EmbeddedArtifactSHA256,
		)
	}
	return load(embeddedArtifact)
}

// LoadFile loads a vocabulary from an external JSON file, overriding the
// embedded artifact. No checksum applies to external files.
func LoadFile(path string) (*Matcher, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("patterns: read vocabulary %q: %w", path, err)
	}
	m, err := load(data)
	if err != nil {
		return nil, fmt.Errorf("patterns: vocabulary %q: %w", path, err)
	}
	return m, nil
}

// ParseVocabulary decodes and validates a vocabulary artifact without
// building a matcher. Maintenance tooling uses it to check artifacts
// before they are embedded.
func ParseVocabulary(data []byte) (Vocabulary, error) {
	var v Vocabulary
	if err := json.Unmarshal(data, &v); err != nil {
		return Vocabulary{}, fmt.Errorf("patterns: decode vocabulary: %w", err)
	}
	if err := validate(v); err != nil {
		return Vocabulary{}, err
	}
	return v, nil
}

// Canonical returns the artifact encoding the embedded checksum is
// computed over: two-space indented JSON with a trailing newline.
func (v Vocabulary) Canonical() ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("patterns: encode vocabulary: %w", err)
	}
	return append(data, '\n'), nil
}

func load(data []byte) (*Matcher, error) {
	v, err := ParseVocabulary(data)
	if err != nil {
		return nil, err
	}

	m := &Matcher{
		vocab:      v,
		genericSet: make(map[string]struct{}, len(v.Generic)),
		labelSet:   make(map[string]struct{}, len(v.Labels)),
	}
	for _, g := range v.Generic {
		m.genericSet[strings.ToLower(g)] = struct{}{}
	}
	for _, l := range v.Labels {
		m.labelSet[normalize(l)] = struct{}{}
	}
	for _, w := range v.Weak {
		m.weakRes = append(m.weakRes, boundaryPattern(w))
	}
	for _, p := range v.Placeholders {
		m.placeholderRes = append(m.placeholderRes, boundaryPattern(p))
	}
	return m, nil
}

func validate(v Vocabulary) error {
	if v.VocabularyID == "" {
		return fmt.Errorf("patterns: vocabulary_id must not be empty")
	}
	if v.Version == "" {
		return fmt.Errorf("patterns: version must not be empty")
	}
	if len(v.Weak) == 0 {
		return fmt.Errorf("patterns: weak cue list must not be empty")
	}
	if len(v.Placeholders) == 0 {
		return fmt.Errorf("patterns: placeholder list must not be empty")
	}
	return nil
}

// boundaryPattern compiles a case-insensitive, word-boundary-anchored
// matcher for a fixed phrase.
func boundaryPattern(phrase string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(phrase) + `\b`)
}

// normalize lower-cases and collapses a string to single-spaced words.
func normalize(s string) string {
	return strings.Join(wordPattern.FindAllString(strings.ToLower(s), -1), " ")
}

// VocabularyID returns the artifact identifier.
func (m *Matcher) VocabularyID() string { return m.vocab.VocabularyID }

// Version returns the artifact version.
func (m *Matcher) Version() string { return m.vocab.Version }

// StrongMatch reports whether text carries high-confidence template
// boilerplate: either a full instructive placeholder sentence anywhere in
// the text, or a bare category label making up the entire meaningful
// content. A single strong match classifies a file as template on its own.
func (m *Matcher) StrongMatch(text string) bool {
	lower := strings.ToLower(text)
	for _, s := range m.vocab.Strong {
		if strings.Contains(lower, strings.ToLower(s)) {
			return true
		}
	}
	if _, ok := m.labelSet[normalize(mdtext.StripMarkup(text))]; ok {
		return true
	}
	return false
}

// WeakMatchCount counts how many distinct weak placeholder cues appear at
// least once in text.
func (m *Matcher) WeakMatchCount(text string) int {
	count := 0
	for _, re := range m.weakRes {
		if re.MatchString(text) {
			count++
		}
	}
	return count
}

// WeakMatch reports whether two or more distinct weak cues are present.
// A single cue is not evidence: "todo" alone can occur in genuine content
// describing future work.
func (m *Matcher) WeakMatch(text string) bool {
	return m.WeakMatchCount(text) >= 2
}

// GenericShortContent reports whether text is a stub: at most three
// meaningful words after markup stripping, at least one of them a generic
// domain-nonspecific term.
func (m *Matcher) GenericShortContent(text string) bool {
	words := wordPattern.FindAllString(strings.ToLower(mdtext.StripMarkup(text)), -1)
	if len(words) == 0 || len(words) > 3 {
		return false
	}
	for _, w := range words {
		if _, ok := m.genericSet[w]; ok {
			return true
		}
	}
	return false
}

// PlaceholderHits returns the distinct placeholder phrases present in
// text, in vocabulary order.
func (m *Matcher) PlaceholderHits(text string) []string {
	var hits []string
	for i, re := range m.placeholderRes {
		if re.MatchString(text) {
			hits = append(hits, m.vocab.Placeholders[i])
		}
	}
	return hits
}

// Placeholders returns the placeholder vocabulary in artifact order.
func (m *Matcher) Placeholders() []string {
	out := make([]string, len(m.vocab.Placeholders))
	copy(out, m.vocab.Placeholders)
	return out
}

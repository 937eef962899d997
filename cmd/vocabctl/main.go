// Command vocabctl maintains the phrase vocabulary artifact embedded in
// the patterns package: canonical builds, artifact QA, and drift reports
// between artifact revisions.
package main

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/virtual-labs/tool-ai-quality-assurance-iiith/internal/patterns"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "vocabctl: %v\n", err)
		os.Exit(2)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return usageError()
	}

	switch args[0] {
	case "build":
		return runBuild(args[1:])
	case "qa":
		return runQA(args[1:])
	case "drift":
		return runDrift(args[1:])
	default:
		return usageError()
	}
}

// runBuild canonicalizes a vocabulary source file into the artifact
// encoding and prints the checksum to pin in the patterns package.
func runBuild(args []string) error {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	inPath := fs.String("in", "", "path to vocabulary source json")
	outPath := fs.String("out", "", "path to write the canonical artifact")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inPath == "" || *outPath == "" {
		return errors.New("build requires -in and -out")
	}

	data, err := os.ReadFile(*inPath)
	if err != nil {
		return err
	}
	vocab, err := patterns.ParseVocabulary(data)
	if err != nil {
		return err
	}
	canonical, err := vocab.Canonical()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(*outPath, canonical, 0o644); err != nil {
		return err
	}

	sum := sha256.Sum256(canonical)
	fmt.Printf("artifact: %s\n", *outPath)
	fmt.Printf("sha256:   %s\n", hex.EncodeToString(sum[:]))
	return nil
}

type qaReport struct {
	VocabularyID string         `json:"vocabulary_id"`
	Version      string         `json:"version"`
	SHA256       string         `json:"sha256"`
	Counts       map[string]int `json:"counts"`
	Findings     []string       `json:"findings,omitempty"`
}

// runQA validates an artifact and writes a report of list sizes and
// hygiene findings: duplicates within a list and unnormalized entries.
func runQA(args []string) error {
	fs := flag.NewFlagSet("qa", flag.ContinueOnError)
	artifactPath := fs.String("artifact", "", "path to vocabulary artifact json")
	outPath := fs.String("out", "", "path to write qa report json")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *artifactPath == "" || *outPath == "" {
		return errors.New("qa requires -artifact and -out")
	}

	data, err := os.ReadFile(*artifactPath)
	if err != nil {
		return err
	}
	vocab, err := patterns.ParseVocabulary(data)
	if err != nil {
		return err
	}

	sum := sha256.Sum256(data)
	report := qaReport{
		VocabularyID: vocab.VocabularyID,
		Version:      vocab.Version,
		SHA256:       hex.EncodeToString(sum[:]),
		Counts:       make(map[string]int),
	}
	for _, list := range namedLists(vocab) {
		report.Counts[list.name] = len(list.items)
		report.Findings = append(report.Findings, listFindings(list.name, list.items)...)
	}

	if err := writeJSON(*outPath, report); err != nil {
		return err
	}
	fmt.Printf("qa report: %s\n", *outPath)
	return nil
}

type listDrift struct {
	Added   []string `json:"added,omitempty"`
	Removed []string `json:"removed,omitempty"`
}

type driftReport struct {
	BaselineVersion  string               `json:"baseline_version"`
	CandidateVersion string               `json:"candidate_version"`
	Lists            map[string]listDrift `json:"lists"`
}

// runDrift compares two artifact revisions and writes the phrases each
// list gained and lost.
func runDrift(args []string) error {
	fs := flag.NewFlagSet("drift", flag.ContinueOnError)
	baselinePath := fs.String("baseline", "", "path to baseline artifact json")
	candidatePath := fs.String("candidate", "", "path to candidate artifact json")
	outPath := fs.String("out", "", "path to write drift report json")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *baselinePath == "" || *candidatePath == "" || *outPath == "" {
		return errors.New("drift requires -baseline, -candidate, and -out")
	}

	baseline, err := readVocabulary(*baselinePath)
	if err != nil {
		return err
	}
	candidate, err := readVocabulary(*candidatePath)
	if err != nil {
		return err
	}

	report := driftReport{
		BaselineVersion:  baseline.Version,
		CandidateVersion: candidate.Version,
		Lists:            make(map[string]listDrift),
	}
	baseLists := namedLists(baseline)
	candLists := namedLists(candidate)
	for i, base := range baseLists {
		added, removed := diffLists(base.items, candLists[i].items)
		if len(added) == 0 && len(removed) == 0 {
			continue
		}
		report.Lists[base.name] = listDrift{Added: added, Removed: removed}
	}

	if err := writeJSON(*outPath, report); err != nil {
		return err
	}
	fmt.Printf("drift report: %s\n", *outPath)
	return nil
}

type namedList struct {
	name  string
	items []string
}

func namedLists(v patterns.Vocabulary) []namedList {
	return []namedList{
		{"strong", v.Strong},
		{"labels", v.Labels},
		{"weak", v.Weak},
		{"generic", v.Generic},
		{"placeholders", v.Placeholders},
	}
}

// listFindings reports hygiene defects in one phrase list. Duplicates are
// matched case-insensitively: the matcher compiles case-insensitive
// patterns, so two casings of one phrase are the same cue twice.
func listFindings(name string, items []string) []string {
	counts := make(map[string]int, len(items))
	for _, item := range items {
		counts[strings.ToLower(item)]++
	}

	var findings []string
	reported := make(map[string]struct{})
	for _, item := range items {
		if item == "" {
			findings = append(findings, fmt.Sprintf("%s: empty phrase", name))
			continue
		}
		if item != strings.TrimSpace(item) {
			findings = append(findings, fmt.Sprintf("%s: %q has surrounding whitespace", name, item))
		}
		key := strings.ToLower(item)
		if counts[key] > 1 {
			if _, ok := reported[key]; !ok {
				reported[key] = struct{}{}
				findings = append(findings, fmt.Sprintf("%s: %q appears %d times", name, key, counts[key]))
			}
		}
	}
	return findings
}

func diffLists(baseline, candidate []string) (added, removed []string) {
	baseSet := make(map[string]struct{}, len(baseline))
	for _, item := range baseline {
		baseSet[item] = struct{}{}
	}
	candSet := make(map[string]struct{}, len(candidate))
	for _, item := range candidate {
		candSet[item] = struct{}{}
	}
	for _, item := range candidate {
		if _, ok := baseSet[item]; !ok {
			added = append(added, item)
		}
	}
	for _, item := range baseline {
		if _, ok := candSet[item]; !ok {
			removed = append(removed, item)
		}
	}
	return added, removed
}

func readVocabulary(path string) (patterns.Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return patterns.Vocabulary{}, err
	}
	return patterns.ParseVocabulary(data)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func usageError() error {
	return errors.New("usage: vocabctl <build|qa|drift> [flags]")
}

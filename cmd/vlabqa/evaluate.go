package main

import (
	"context"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/virtual-labs/tool-ai-quality-assurance-iiith/internal/browser"
	"github.com/virtual-labs/tool-ai-quality-assurance-iiith/internal/classify"
	"github.com/virtual-labs/tool-ai-quality-assurance-iiith/internal/config"
	"github.com/virtual-labs/tool-ai-quality-assurance-iiith/internal/content"
	"github.com/virtual-labs/tool-ai-quality-assurance-iiith/internal/corpus"
	"github.com/virtual-labs/tool-ai-quality-assurance-iiith/internal/discovery"
	"github.com/virtual-labs/tool-ai-quality-assurance-iiith/internal/gitrepo"
	"github.com/virtual-labs/tool-ai-quality-assurance-iiith/internal/log"
	"github.com/virtual-labs/tool-ai-quality-assurance-iiith/internal/output"
	"github.com/virtual-labs/tool-ai-quality-assurance-iiith/internal/patterns"
	"github.com/virtual-labs/tool-ai-quality-assurance-iiith/internal/score"
	"github.com/virtual-labs/tool-ai-quality-assurance-iiith/internal/similarity"
	"github.com/virtual-labs/tool-ai-quality-assurance-iiith/internal/simulation"
	"github.com/virtual-labs/tool-ai-quality-assurance-iiith/internal/structure"
)

// runEvaluate implements the "evaluate" subcommand: the full pipeline
// over one repository, given as a Virtual Labs URL or a local directory.
func runEvaluate(args []string) int {
	fs := flag.NewFlagSet("evaluate", flag.ContinueOnError)
	var (
		configPath     string
		branch         string
		format         string
		outPath        string
		jsonOutPath    string
		templateDir    string
		enableBrowser  bool
		strictPatterns bool
		noColor        bool
		verbose        bool
	)
	fs.StringVarP(&configPath, "config", "c", "", "Override config file path")
	fs.StringVar(&branch, "branch", "", "Branch to evaluate (default: remote default branch)")
	fs.StringVarP(&format, "format", "f", "text", "Output format: text, json")
	fs.StringVar(&outPath, "out", "", "Write the markdown report to this file")
	fs.StringVar(&jsonOutPath, "json-out", "", "Write the raw JSON result to this file")
	fs.StringVar(&templateDir, "template-dir", "", "Use a local template checkout instead of cloning")
	fs.BoolVar(&enableBrowser, "browser", false, "Run browser smoke checks against the simulation")
	fs.BoolVar(&strictPatterns, "strict-patterns", false, "Check strong template phrases before the similarity bands")
	fs.BoolVar(&noColor, "no-color", false, "Disable ANSI colors")
	fs.BoolVarP(&verbose, "verbose", "v", false, "Verbose diagnostics on stderr")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: vlabqa evaluate [flags] <repo-url-or-path>\n\n"+
			"Evaluate a Virtual Labs experiment repository and print a quality report.\n\n"+
			"Flags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return exitUsage
	}
	if format != "text" && format != "json" {
		fmt.Fprintf(os.Stderr, "vlabqa: unknown format %q (want text or json)\n", format)
		return exitUsage
	}

	cfg, err := resolveConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vlabqa: %v\n", err)
		return exitUsage
	}
	if templateDir != "" {
		cfg.Template.Dir = templateDir
	}

	logger := &log.Logger{Enabled: verbose, W: os.Stderr}
	ctx := context.Background()

	root, repoURL, cleanup, code := resolveTarget(ctx, fs.Arg(0), branch, logger)
	if code != exitOK {
		return code
	}
	defer cleanup()

	structReport, err := structure.Check(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vlabqa: %v\n", err)
		return exitInternal
	}
	if structReport.ComplianceScore < cfg.Thresholds.StructureMinimum {
		fmt.Fprintf(os.Stderr,
			"vlabqa: structure compliance %.1f/10 (%s) is below the minimum %.1f; aborting evaluation\n",
			structReport.ComplianceScore, structReport.Status, cfg.Thresholds.StructureMinimum)
		for _, rec := range structReport.Recommendations {
			fmt.Fprintf(os.Stderr, "  - %s\n", rec)
		}
		return exitAborted
	}

	matcher, code := loadMatcher(cfg)
	if code != exitOK {
		return code
	}
	logger.Printf("pattern vocabulary %s %s: %d placeholder phrases",
		matcher.VocabularyID(), matcher.Version(), len(matcher.Placeholders()))

	corp, err := corpus.Build(ctx, corpusConfig(cfg), logger)
	defer corp.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr,
			"vlabqa: template corpus unavailable, continuing with pattern-only detection: %v\n", err)
	}

	files, err := discovery.Discover(discovery.Options{RepoDir: root})
	if err != nil {
		fmt.Fprintf(os.Stderr, "vlabqa: %v\n", err)
		return exitInternal
	}
	files = applyIgnores(cfg, files)
	logger.Printf("selected %d content files", len(files))

	classifier := classify.New(corp, matcher, similarity.NewEngine(matcher))
	classifier.StrictStrongMatch = strictPatterns

	engine := content.NewEngine(classifier, logger)
	engine.Limit = cfg.Concurrency
	contentReport, err := engine.Evaluate(ctx, root, files)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vlabqa: %v\n", err)
		return exitInternal
	}

	simReport := simulation.Evaluate(root)

	var browserReport *browser.Report
	if enableBrowser || cfg.Browser.Enabled {
		logger.Printf("running browser smoke checks")
		browserReport = browser.RunWithChrome(ctx, root, cfg.Browser.Timeout.Std())
	}

	result := score.Calculate(score.Inputs{
		Repository:     gitrepo.Describe(root, repoURL),
		Structure:      structReport,
		Content:        contentReport,
		Simulation:     simReport,
		Browser:        browserReport,
		CorpusDegraded: corp.Degraded(),
	}, cfg.Weights, cfg.Thresholds)

	return writeOutputs(result, format, noColor, outPath, jsonOutPath)
}

// resolveTarget turns the positional argument into a checked-out
// repository root. An existing local directory is used in place; anything
// else must be a valid Virtual Labs URL and is shallow-cloned.
func resolveTarget(ctx context.Context, target, branch string, logger *log.Logger) (root, url string, cleanup func(), code int) {
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		logger.Printf("evaluating local repository %s", target)
		return target, "", func() {}, exitOK
	}
	if err := gitrepo.ValidateURL(target); err != nil {
		fmt.Fprintf(os.Stderr, "vlabqa: %v\n", err)
		return "", "", func() {}, exitUsage
	}
	dir, cleanup, err := gitrepo.Fetch(ctx, target, branch)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vlabqa: %v\n", err)
		return "", "", func() {}, exitInternal
	}
	logger.Printf("cloned %s to %s", target, dir)
	return dir, target, cleanup, exitOK
}

// loadMatcher loads the pattern vocabulary: the configured external file
// when set, else the embedded artifact. A corrupted embedded artifact is
// an internal error; an unreadable external file is a config error.
func loadMatcher(cfg *config.Config) (*patterns.Matcher, int) {
	if cfg.Patterns.Vocabulary != "" {
		m, err := patterns.LoadFile(cfg.Patterns.Vocabulary)
		if err != nil {
			fmt.Fprintf(os.Stderr, "vlabqa: %v\n", err)
			return nil, exitUsage
		}
		return m, exitOK
	}
	m, err := patterns.LoadEmbedded()
	if err != nil {
		fmt.Fprintf(os.Stderr, "vlabqa: %v\n", err)
		return nil, exitInternal
	}
	return m, exitOK
}

func applyIgnores(cfg *config.Config, files []string) []string {
	if len(cfg.Ignore) == 0 {
		return files
	}
	kept := make([]string, 0, len(files))
	for _, f := range files {
		if !cfg.Ignored(f) {
			kept = append(kept, f)
		}
	}
	return kept
}

func writeOutputs(result *score.Result, format string, noColor bool, outPath, jsonOutPath string) int {
	var formatter output.Formatter
	switch format {
	case "json":
		formatter = &output.JSONFormatter{}
	default:
		formatter = &output.TextFormatter{Color: !noColor}
	}
	if err := formatter.Format(os.Stdout, result); err != nil {
		fmt.Fprintf(os.Stderr, "vlabqa: writing output: %v\n", err)
		return exitInternal
	}

	if outPath != "" {
		if err := writeFile(outPath, &output.MarkdownFormatter{}, result); err != nil {
			fmt.Fprintf(os.Stderr, "vlabqa: %v\n", err)
			return exitInternal
		}
	}
	if jsonOutPath != "" {
		if err := writeFile(jsonOutPath, &output.JSONFormatter{}, result); err != nil {
			fmt.Fprintf(os.Stderr, "vlabqa: %v\n", err)
			return exitInternal
		}
	}
	return exitOK
}

func writeFile(path string, formatter output.Formatter, result *score.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := formatter.Format(f, result); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

func resolveConfig(path string) (*config.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	return config.Resolve(path, cwd)
}

func corpusConfig(cfg *config.Config) corpus.Config {
	return corpus.Config{
		Repository:  cfg.Template.Repo,
		Ref:         cfg.Template.Ref,
		TemplateDir: cfg.Template.Dir,
		Timeout:     cfg.Template.Timeout.Std(),
	}
}

// Command vlabqa evaluates Virtual Labs experiment repositories:
// structure compliance, content authenticity against the reference
// template, simulation quality, and optional browser smoke checks.
package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	flag "github.com/spf13/pflag"

	"github.com/virtual-labs/tool-ai-quality-assurance-iiith/internal/corpus"
	"github.com/virtual-labs/tool-ai-quality-assurance-iiith/internal/gitrepo"
	"github.com/virtual-labs/tool-ai-quality-assurance-iiith/internal/log"
)

// Exit codes.
const (
	exitOK       = 0
	exitUsage    = 1
	exitAborted  = 2
	exitInternal = 3
)

func main() {
	os.Exit(run())
}

const usageText = `Usage: vlabqa <command> [flags]

Commands:
  evaluate   Evaluate an experiment repository (URL or local path)
  branches   List remote branches of an experiment repository
  corpus     Build and inspect the reference template corpus
  version    Print version and exit

Global flags:
  -h, --help      Show this help

Run 'vlabqa <command> --help' for more information on a command.
`

func run() int {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usageText)
		return exitOK
	}

	switch os.Args[1] {
	case "--help", "-h", "help":
		fmt.Fprint(os.Stderr, usageText)
		return exitOK
	case "evaluate":
		return runEvaluate(os.Args[2:])
	case "branches":
		return runBranches(os.Args[2:])
	case "corpus":
		return runCorpus(os.Args[2:])
	case "version":
		printVersion()
		return exitOK
	default:
		fmt.Fprintf(os.Stderr, "vlabqa: unknown command %q\n\n%s", os.Args[1], usageText)
		return exitUsage
	}
}

func printVersion() {
	version := "(devel)"
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		version = info.Main.Version
	}
	fmt.Printf("vlabqa %s\n", version)
}

// runBranches implements the "branches" subcommand: list remote heads of
// an experiment repository.
func runBranches(args []string) int {
	fs := flag.NewFlagSet("branches", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: vlabqa branches <repo-url>\n\n"+
			"List the remote branches of a Virtual Labs experiment repository.\n")
	}
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return exitUsage
	}

	url := fs.Arg(0)
	if err := gitrepo.ValidateURL(url); err != nil {
		fmt.Fprintf(os.Stderr, "vlabqa: %v\n", err)
		return exitUsage
	}

	branches, err := gitrepo.ListBranches(context.Background(), url)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vlabqa: %v\n", err)
		return exitInternal
	}
	for _, b := range branches {
		fmt.Println(b)
	}
	return exitOK
}

// runCorpus implements the "corpus" subcommand: build the reference
// template corpus and print its contents, for debugging template pins.
func runCorpus(args []string) int {
	fs := flag.NewFlagSet("corpus", flag.ContinueOnError)
	var (
		configPath  string
		templateDir string
		repo        string
		ref         string
		verbose     bool
	)
	fs.StringVarP(&configPath, "config", "c", "", "Override config file path")
	fs.StringVar(&templateDir, "template-dir", "", "Use a local template checkout instead of cloning")
	fs.StringVar(&repo, "repo", "", "Override the template repository")
	fs.StringVar(&ref, "ref", "", "Override the pinned template ref")
	fs.BoolVarP(&verbose, "verbose", "v", false, "Verbose diagnostics on stderr")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: vlabqa corpus [flags]\n\n"+
			"Build the reference template corpus and print the files it holds.\n\n"+
			"Flags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() > 0 {
		fs.Usage()
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
	if repo != "" {
		cfg.Template.Repo = repo
	}
	if ref != "" {
		cfg.Template.Ref = ref
	}

	logger := &log.Logger{Enabled: verbose, W: os.Stderr}
	c, err := corpus.Build(context.Background(), corpusConfig(cfg), logger)
	defer c.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "vlabqa: template corpus degraded: %v\n", err)
		return exitInternal
	}

	fmt.Printf("%d template files\n", c.Len())
	for _, p := range c.Paths() {
		fmt.Printf("  %s\n", p)
	}
	return exitOK
}

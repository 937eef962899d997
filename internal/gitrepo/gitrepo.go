// Package gitrepo acquires the subject experiment repository: URL
// validation against the Virtual Labs naming scheme, shallow cloning into
// a temporary checkout, remote branch listing, and experiment metadata
// extraction from the checked-out tree.
package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"slices"
	"strings"
)

// ErrInvalidURL reports a repository URL outside the Virtual Labs pattern.
var ErrInvalidURL = errors.New("URL does not follow Virtual Labs pattern: https://github.com/virtual-labs/exp-{experiment-name}-{institute-name}")

var repoURLPattern = regexp.MustCompile(`^https://github\.com/virtual-labs/exp-[a-zA-Z0-9\-_]+-[a-zA-Z0-9\-_]+(?:\.git)?/?$`)

// ValidateURL checks that url names a Virtual Labs experiment repository.
func ValidateURL(url string) error {
	if repoURLPattern.MatchString(strings.TrimSpace(url)) {
		return nil
	}
	return ErrInvalidURL
}

// GitRunner executes git commands.
type GitRunner interface {
	Run(ctx context.Context, args []string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return out, ctxErr
		}
		return out, fmt.Errorf("%w: %s", err, strings.TrimSpace(string(out)))
	}
	return out, nil
}

var defaultRunner GitRunner = execRunner{}

// Fetch shallow-clones the repository at url into a fresh temporary
// directory. An empty branch clones the remote default. The returned
// cleanup removes the directory and is safe to call on every path.
func Fetch(ctx context.Context, url, branch string) (string, func(), error) {
	return fetchWithRunner(ctx, url, branch, defaultRunner)
}

func fetchWithRunner(ctx context.Context, url, branch string, runner GitRunner) (string, func(), error) {
	dir, err := os.MkdirTemp("", "vlabqa-repo-*")
	if err != nil {
		return "", func() {}, fmt.Errorf("create checkout dir: %w", err)
	}
	cleanup := func() { os.RemoveAll(dir) }

	args := []string{"clone", "--depth", "1"}
	if branch != "" {
		args = append(args, "--branch", branch)
	}
	args = append(args, strings.TrimSpace(url), dir)
	if _, err := runner.Run(ctx, args); err != nil {
		cleanup()
		return "", func() {}, fmt.Errorf("clone %s: %w", url, err)
	}
	return dir, cleanup, nil
}

// ListBranches queries the remote heads of url and returns the branch
// names sorted.
func ListBranches(ctx context.Context, url string) ([]string, error) {
	return listBranchesWithRunner(ctx, url, defaultRunner)
}

func listBranchesWithRunner(ctx context.Context, url string, runner GitRunner) ([]string, error) {
	out, err := runner.Run(ctx, []string{"ls-remote", "--heads", strings.TrimSpace(url)})
	if err != nil {
		return nil, fmt.Errorf("list branches %s: %w", url, err)
	}

	branches := []string{}
	for _, line := range strings.Split(string(out), "\n") {
		_, ref, ok := strings.Cut(strings.TrimSpace(line), "\t")
		if !ok {
			continue
		}
		if name, ok := strings.CutPrefix(ref, "refs/heads/"); ok && name != "" {
			branches = append(branches, name)
		}
	}
	slices.Sort(branches)
	return branches, nil
}

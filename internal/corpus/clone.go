package corpus

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
)

// GitRunner executes git commands.
type GitRunner interface {
	Run(ctx context.Context, args []string) ([]byte, error)
}

type execGitRunner struct{}

func (execGitRunner) Run(ctx context.Context, args []string) ([]byte, error) {
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

var defaultGitRunner GitRunner = execGitRunner{}

var commitSHAPattern = regexp.MustCompile(`^[0-9a-f]{40}$`)

func isCommitSHA(ref string) bool {
	return commitSHAPattern.MatchString(strings.ToLower(ref))
}

// acquire fetches the pinned template ref into dir. Tags and branches use
// a shallow clone; a full commit SHA needs clone plus an exact-commit
// fetch, since git cannot shallow-clone an arbitrary SHA directly.
func acquire(ctx context.Context, cfg Config, dir string, runner GitRunner) error {
	remote, err := normalizeRepository(cfg.repository())
	if err != nil {
		return fmt.Errorf("template repository: %w", err)
	}
	ref := cfg.ref()

	if !isCommitSHA(ref) {
		if _, err := runner.Run(ctx, []string{
			"clone", "--depth", "1", "--branch", ref, remote, dir,
		}); err != nil {
			return fmt.Errorf("clone template %s at %s: %w", remote, ref, classifyGitError(err, remote, ref))
		}
		return nil
	}

	if _, err := runner.Run(ctx, []string{"clone", "--no-checkout", remote, dir}); err != nil {
		return fmt.Errorf("clone template %s: %w", remote, classifyGitError(err, remote, ref))
	}
	if !commitExists(ctx, dir, ref, runner) {
		if _, err := runner.Run(ctx, []string{
			"-C", dir, "fetch", "--depth", "1", "origin", ref,
		}); err != nil {
			return fmt.Errorf("fetch template commit %s: %w", ref, classifyGitError(err, remote, ref))
		}
	}
	if _, err := runner.Run(ctx, []string{
		"-C", dir, "checkout", "--detach", "--force", ref,
	}); err != nil {
		return fmt.Errorf("checkout template commit %s: %w", ref, classifyGitError(err, remote, ref))
	}
	return nil
}

func commitExists(ctx context.Context, dir string, sha string, runner GitRunner) bool {
	_, err := runner.Run(ctx, []string{"-C", dir, "cat-file", "-e", sha + "^{commit}"})
	return err == nil
}

func normalizeRepository(repository string) (string, error) {
	repo := strings.TrimSpace(repository)
	if repo == "" {
		return "", errors.New("repository is required")
	}

	switch {
	case strings.HasPrefix(repo, "git@"):
		return repo, nil
	case strings.HasPrefix(repo, "ssh://"):
		return repo, nil
	case strings.HasPrefix(repo, "http://"), strings.HasPrefix(repo, "https://"):
		trimmed := strings.TrimRight(repo, "/")
		if strings.HasSuffix(trimmed, ".git") {
			return trimmed, nil
		}
		return trimmed + ".git", nil
	case strings.HasPrefix(repo, "github.com/"):
		return "https://" + strings.TrimRight(repo, "/") + ".git", nil
	default:
		if strings.Contains(repo, "/") && !filepath.IsAbs(repo) && !strings.HasPrefix(repo, ".") {
			return "https://github.com/" + strings.TrimLeft(strings.TrimRight(repo, "/"), "/") + ".git", nil
		}
		return repo, nil
	}
}

func classifyGitError(err error, remote string, ref string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("timed out while fetching %s", remote)
	}
	text := strings.ToLower(err.Error())
	switch {
	case strings.Contains(text, "repository not found"),
		strings.Contains(text, "could not read from remote repository"):
		return fmt.Errorf("repository not found or inaccessible: %s", remote)
	case strings.Contains(text, "couldn't find remote ref"),
		strings.Contains(text, "not our ref"),
		strings.Contains(text, "not found in upstream"),
		strings.Contains(text, "did not match any file"):
		return fmt.Errorf("ref not found: %s", ref)
	case strings.Contains(text, "failed to connect"),
		strings.Contains(text, "timed out"),
		strings.Contains(text, "could not resolve host"):
		return fmt.Errorf("network error while accessing %s", remote)
	default:
		return err
	}
}

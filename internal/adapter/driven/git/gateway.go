// Package git implements the GitGateway driven port by shelling out to the
// git CLI against a local working copy.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/ericfisherdev/wikireview/internal/domain/port/driven"
)

// logFormat emits one sentinel-delimited record per commit: the sentinel line,
// five metadata lines (hash, author name, author email, date, subject), then
// the touched file list from --name-only. The log parser depends on this exact
// shape.
const logFormat = "==COMMIT==%n%H%n%an%n%ae%n%ad%n%s"

// Compile-time interface satisfaction check.
var _ driven.GitGateway = (*Gateway)(nil)

// Gateway executes read-only git queries (plus the one explicit Sync) against
// a working copy. Every method is a blocking external-process invocation.
type Gateway struct {
	repoPath string
}

// NewGateway creates a Gateway rooted at repoPath, which may be the git
// toplevel or any directory inside the working copy.
func NewGateway(repoPath string) *Gateway {
	return &Gateway{repoPath: filepath.Clean(repoPath)}
}

// Log returns raw sentinel-delimited log output for commits since the given
// timestamp, newest first.
func (g *Gateway) Log(ctx context.Context, since time.Time) (string, error) {
	return g.run(ctx, "",
		"log",
		"--since="+since.Format(time.RFC3339),
		"--name-only",
		"--date=iso-strict",
		"--pretty=format:"+logFormat,
	)
}

// ShowFile returns the content of path at ref. A missing file or ref surfaces
// as driven.ErrNotFound.
func (g *Gateway) ShowFile(ctx context.Context, ref, path string) (string, error) {
	return g.run(ctx, "", "show", ref+":"+path)
}

// DiffBetween returns the unified diff between two refs restricted to path.
// Logged paths are relative to the git toplevel, so the diff runs from there.
func (g *Gateway) DiffBetween(ctx context.Context, baseRef, headRef, path string) (string, error) {
	cwd := g.repoPath
	if top, err := g.toplevel(ctx); err == nil && top != "" {
		cwd = top
	}
	return runIn(ctx, cwd, "", "diff", "--no-color", baseRef, headRef, "--", path)
}

// CommitPatch returns the full patch of a single commit. -m makes merge
// commits emit a diff against each parent instead of nothing.
func (g *Gateway) CommitPatch(ctx context.Context, commit string) (string, error) {
	return g.run(ctx, "", "show", "-m", "--no-color", "--format=", "--patch", commit)
}

// ResolveParent returns the first-parent hash of commit. Root commits surface
// as driven.ErrNotFound.
func (g *Gateway) ResolveParent(ctx context.Context, commit string) (string, error) {
	out, err := g.run(ctx, "", "rev-parse", commit+"^")
	if err != nil {
		return "", err
	}
	parent := strings.TrimSpace(out)
	if parent == "" {
		return "", fmt.Errorf("parent of %s: %w", commit, driven.ErrNotFound)
	}
	return parent, nil
}

// EmptyTreeRef returns the repository's empty tree hash. Computed through
// hash-object rather than hard-coded so SHA-256 repositories resolve the right
// object.
func (g *Gateway) EmptyTreeRef(ctx context.Context) (string, error) {
	out, err := g.run(ctx, "", "hash-object", "-t", "tree", "--stdin")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// RepoPrefix returns the "/"-terminated path segment from the git toplevel to
// the configured repository path, or "" when they coincide.
func (g *Gateway) RepoPrefix(ctx context.Context) (string, error) {
	top, err := g.toplevel(ctx)
	if err != nil {
		return "", err
	}

	absRepo, err := filepath.Abs(g.repoPath)
	if err != nil {
		return "", fmt.Errorf("resolve repo path: %w", err)
	}
	if top == "" || top == absRepo {
		return "", nil
	}

	rel, err := filepath.Rel(top, absRepo)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", nil
	}
	return filepath.ToSlash(rel) + "/", nil
}

// Sync pulls the remote into the working copy.
func (g *Gateway) Sync(ctx context.Context) (string, error) {
	return g.run(ctx, "", "pull")
}

// toplevel resolves the git toplevel directory for the working copy.
func (g *Gateway) toplevel(ctx context.Context) (string, error) {
	out, err := g.run(ctx, "", "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return filepath.Clean(strings.TrimSpace(out)), nil
}

// run executes git -C <repoPath> with the given args.
func (g *Gateway) run(ctx context.Context, stdin string, args ...string) (string, error) {
	return runIn(ctx, g.repoPath, stdin, args...)
}

// runIn executes git -C <dir> and classifies failures: a non-zero exit means
// the queried ref or path does not exist (ErrNotFound, non-fatal upstream),
// while an inability to start the process at all means the gateway is
// unavailable (ErrGatewayUnavailable, fatal).
func runIn(ctx context.Context, dir, stdin string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", append([]string{"-C", dir}, args...)...)
	if stdin != "" || hasStdinFlag(args) {
		cmd.Stdin = strings.NewReader(stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("git %s: %s: %w",
				strings.Join(args, " "),
				strings.TrimSpace(stderr.String()),
				driven.ErrNotFound,
			)
		}
		return "", fmt.Errorf("git %s: %v: %w",
			strings.Join(args, " "), err, driven.ErrGatewayUnavailable)
	}

	return stdout.String(), nil
}

// hasStdinFlag reports whether the invocation reads from stdin, so an empty
// reader is still attached (hash-object --stdin with no input hangs otherwise).
func hasStdinFlag(args []string) bool {
	for _, a := range args {
		if a == "--stdin" {
			return true
		}
	}
	return false
}

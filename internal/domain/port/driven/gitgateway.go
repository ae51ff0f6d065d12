package driven

import (
	"context"
	"time"
)

// GitGateway defines the driven port for read-only queries against the version
// control working copy. All methods block on an external git invocation and
// return raw text output.
//
// Failure contract: a ref or path that does not exist surfaces as ErrNotFound;
// inability to invoke git at all surfaces as an error wrapping
// ErrGatewayUnavailable. Sync is the single mutating operation and must not be
// interleaved with a read pass.
type GitGateway interface {
	// Log returns the raw sentinel-delimited log output for commits since the
	// given timestamp, newest first.
	Log(ctx context.Context, since time.Time) (string, error)

	// ShowFile returns the full content of path at ref.
	ShowFile(ctx context.Context, ref, path string) (string, error)

	// DiffBetween returns the unified diff between two refs restricted to path.
	DiffBetween(ctx context.Context, baseRef, headRef, path string) (string, error)

	// CommitPatch returns the full patch of a single commit across all files,
	// including merge-commit diffs against each parent.
	CommitPatch(ctx context.Context, commit string) (string, error)

	// ResolveParent returns the first-parent hash of commit, or ErrNotFound
	// when the commit is a root commit.
	ResolveParent(ctx context.Context, commit string) (string, error)

	// EmptyTreeRef returns the hash of the empty tree object, used as the diff
	// base for root commits.
	EmptyTreeRef(ctx context.Context) (string, error)

	// RepoPrefix returns the path segment from the git toplevel to the
	// configured repository path, "/"-terminated, or "" when the configured
	// path is the toplevel itself.
	RepoPrefix(ctx context.Context) (string, error)

	// Sync pulls the remote into the working copy and returns git's output.
	Sync(ctx context.Context) (string, error)
}

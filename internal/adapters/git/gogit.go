// Package git provides the adapter for interacting with local Git clones
// and their remotes. This package implements the domain.GitClient
// interface using go-git/v5.
package git

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/drover-cli/drover/internal/domain"
)

// Logger defines the logging interface for the git adapter.
// This interface enables dependency injection and testability.
type Logger interface {
	Debug(ctx context.Context, msg string, fields map[string]interface{})
}

// GoGitClient implements domain.GitClient using go-git/v5. It is
// stateless: every method opens the repository at the given path.
type GoGitClient struct {
	logger Logger
}

// NewGoGitClient creates a new GoGitClient.
func NewGoGitClient(log Logger) *GoGitClient {
	return &GoGitClient{logger: log}
}

// IsRepository reports whether path holds a Git repository.
func (c *GoGitClient) IsRepository(path string) bool {
	_, err := git.PlainOpen(path)
	return err == nil
}

// Clone clones url into path, recursing into submodules. An empty branch
// clones the remote's default branch. A path occupied by anything other
// than an empty directory is refused.
func (c *GoGitClient) Clone(ctx context.Context, url, branch, path string) error {
	if entries, err := os.ReadDir(path); err == nil && len(entries) > 0 {
		return fmt.Errorf("%w: %s already exists and is not empty", domain.ErrVersionControlFailure, path)
	}

	opts := &git.CloneOptions{
		URL:               url,
		RecurseSubmodules: git.DefaultSubmoduleRecursionDepth,
	}
	if branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(branch)
	}

	if _, err := git.PlainCloneContext(ctx, path, false, opts); err != nil {
		return fmt.Errorf("%w: cloning %s into %s: %w", domain.ErrVersionControlFailure, url, path, err)
	}

	c.logger.Debug(ctx, "Cloned repository", map[string]interface{}{
		"url":    url,
		"branch": branch,
		"path":   path,
	})
	return nil
}

// CheckoutBranch switches the working copy at path to the branch. A
// branch that exists only on origin is materialized as a local branch
// first.
func (c *GoGitClient) CheckoutBranch(ctx context.Context, path, branch string) error {
	repo, wt, err := c.open(path)
	if err != nil {
		return err
	}

	ref := plumbing.NewBranchReferenceName(branch)
	err = wt.Checkout(&git.CheckoutOptions{Branch: ref})
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		// The branch was never checked out locally. Start it at the
		// remote-tracking head.
		remoteRef, rerr := repo.Reference(plumbing.NewRemoteReferenceName("origin", branch), true)
		if rerr != nil {
			return fmt.Errorf("%w: branch %q not found locally or on origin in %s: %w",
				domain.ErrVersionControlFailure, branch, path, rerr)
		}
		c.logger.Debug(ctx, "Creating local branch from origin", map[string]interface{}{
			"branch": branch,
			"hash":   remoteRef.Hash().String(),
			"path":   path,
		})
		err = wt.Checkout(&git.CheckoutOptions{Branch: ref, Hash: remoteRef.Hash(), Create: true})
	}
	if err != nil {
		return fmt.Errorf("%w: checking out branch %q in %s: %w", domain.ErrVersionControlFailure, branch, path, err)
	}

	c.logger.Debug(ctx, "Checked out branch", map[string]interface{}{
		"branch": branch,
		"path":   path,
	})
	return nil
}

// CheckoutHash detaches the working copy at path onto the commit.
func (c *GoGitClient) CheckoutHash(ctx context.Context, path, hash string) error {
	_, wt, err := c.open(path)
	if err != nil {
		return err
	}

	if err := wt.Checkout(&git.CheckoutOptions{Hash: plumbing.NewHash(hash)}); err != nil {
		return fmt.Errorf("%w: checking out %s in %s: %w", domain.ErrVersionControlFailure, hash, path, err)
	}

	c.logger.Debug(ctx, "Checked out commit", map[string]interface{}{
		"hash": hash,
		"path": path,
	})
	return nil
}

// Pull fast-forwards the working copy at path from origin. An empty
// branch pulls whatever is currently checked out. Returns true when new
// commits arrived, false when the clone was already up to date.
func (c *GoGitClient) Pull(ctx context.Context, path, branch string) (bool, error) {
	_, wt, err := c.open(path)
	if err != nil {
		return false, err
	}

	opts := &git.PullOptions{
		RemoteName:        "origin",
		RecurseSubmodules: git.DefaultSubmoduleRecursionDepth,
	}
	if branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(branch)
	}

	err = wt.PullContext(ctx, opts)
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		c.logger.Debug(ctx, "Already up to date", map[string]interface{}{
			"path": path,
		})
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: pulling %s: %w", domain.ErrVersionControlFailure, path, err)
	}

	c.logger.Debug(ctx, "Pulled new commits", map[string]interface{}{
		"branch": branch,
		"path":   path,
	})
	return true, nil
}

// Head returns the commit hash the working copy at path points at.
func (c *GoGitClient) Head(ctx context.Context, path string) (string, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return "", fmt.Errorf("%w: opening %s: %w", domain.ErrVersionControlFailure, path, err)
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("%w: resolving HEAD in %s: %w", domain.ErrVersionControlFailure, path, err)
	}
	return head.Hash().String(), nil
}

// HasChanges reports whether the working copy at path has uncommitted
// modifications, untracked files included.
func (c *GoGitClient) HasChanges(ctx context.Context, path string) (bool, error) {
	_, wt, err := c.open(path)
	if err != nil {
		return false, err
	}

	status, err := wt.Status()
	if err != nil {
		return false, fmt.Errorf("%w: reading status of %s: %w", domain.ErrVersionControlFailure, path, err)
	}
	return !status.IsClean(), nil
}

// CommitAll stages every change at path and commits with the message.
// Returns the new commit hash.
func (c *GoGitClient) CommitAll(ctx context.Context, path, message string) (string, error) {
	_, wt, err := c.open(path)
	if err != nil {
		return "", err
	}

	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return "", fmt.Errorf("%w: staging changes in %s: %w", domain.ErrVersionControlFailure, path, err)
	}

	hash, err := wt.Commit(message, &git.CommitOptions{})
	if err != nil {
		return "", fmt.Errorf("%w: committing in %s: %w", domain.ErrVersionControlFailure, path, err)
	}

	c.logger.Debug(ctx, "Committed local changes", map[string]interface{}{
		"hash":    hash.String(),
		"path":    path,
		"message": message,
	})
	return hash.String(), nil
}

// Push sends the current branch at path to origin. An already up-to-date
// remote is not an error.
func (c *GoGitClient) Push(ctx context.Context, path string) error {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return fmt.Errorf("%w: opening %s: %w", domain.ErrVersionControlFailure, path, err)
	}

	err = repo.PushContext(ctx, &git.PushOptions{RemoteName: "origin"})
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		c.logger.Debug(ctx, "Remote already up to date", map[string]interface{}{
			"path": path,
		})
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: pushing %s: %w", domain.ErrVersionControlFailure, path, err)
	}

	c.logger.Debug(ctx, "Pushed to origin", map[string]interface{}{
		"path": path,
	})
	return nil
}

// open opens the repository at path and returns it with its worktree.
func (c *GoGitClient) open(path string) (*git.Repository, *git.Worktree, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: opening %s: %w", domain.ErrVersionControlFailure, path, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: worktree of %s: %w", domain.ErrVersionControlFailure, path, err)
	}
	return repo, wt, nil
}

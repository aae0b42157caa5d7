// Package domain defines the core entities and ports for drover.
// This package contains no external dependencies and represents the innermost
// layer of the CLEAN architecture.
package domain

import (
	"context"
	"errors"
)

// Domain errors for record management, git operations and installation.
var (
	// ErrDuplicateRepository indicates an add for a URL that is already
	// tracked, without the overwrite flag.
	ErrDuplicateRepository = errors.New("repository is already tracked")

	// ErrRepositoryNotFound indicates a URL that is not in the store.
	ErrRepositoryNotFound = errors.New("repository is not tracked")

	// ErrInvalidConfiguration indicates a record that contradicts itself,
	// such as lock_hash without current_hash or an unknown type.
	ErrInvalidConfiguration = errors.New("invalid repository configuration")

	// ErrDirtyWorkingCopy indicates uncommitted local changes in a clone
	// that an operation refuses to touch.
	ErrDirtyWorkingCopy = errors.New("working copy has uncommitted changes")

	// ErrInstallScriptMissing indicates a SHELL record whose execution
	// directory contains no install script.
	ErrInstallScriptMissing = errors.New("install script not found")

	// ErrInstallScriptFailed indicates the install script ran and exited
	// non-zero.
	ErrInstallScriptFailed = errors.New("install script failed")

	// ErrSymlinkConflict indicates a STOW target path occupied by a real
	// file or directory that drover did not create.
	ErrSymlinkConflict = errors.New("symlink target is occupied")

	// ErrVersionControlFailure indicates a failed git operation
	// (clone, checkout, pull, commit or push).
	ErrVersionControlFailure = errors.New("git operation failed")

	// ErrStoreIO indicates the record store could not be read or written.
	ErrStoreIO = errors.New("record store unavailable")
)

// RecordStore loads and persists the set of repository records.
type RecordStore interface {
	// Load reads every record from the store. A store that does not exist
	// yet loads as an empty set. Returns ErrStoreIO on unreadable or
	// unparseable stores.
	Load() (*RecordSet, error)

	// Save writes the full set back, replacing the previous contents
	// atomically. Records are written in set insertion order.
	Save(set *RecordSet) error
}

// GitClient performs the git operations drover needs on local clones and
// their remotes. Paths are absolute installation directories. Errors from
// the underlying git layer are wrapped in ErrVersionControlFailure.
type GitClient interface {
	// IsRepository reports whether path holds a git repository.
	IsRepository(path string) bool

	// Clone clones url into path, recursing into submodules. An empty
	// branch clones the remote's default branch.
	Clone(ctx context.Context, url, branch, path string) error

	// CheckoutBranch switches the working copy at path to the branch.
	CheckoutBranch(ctx context.Context, path, branch string) error

	// CheckoutHash detaches the working copy at path onto the commit.
	CheckoutHash(ctx context.Context, path, hash string) error

	// Pull fast-forwards the working copy from origin. An empty branch
	// pulls the currently checked-out branch. Reports whether anything
	// new arrived; an already up-to-date clone is not an error.
	Pull(ctx context.Context, path, branch string) (bool, error)

	// Head returns the commit hash the working copy at path points at.
	Head(ctx context.Context, path string) (string, error)

	// HasChanges reports whether the working copy at path has uncommitted
	// modifications, including untracked files.
	HasChanges(ctx context.Context, path string) (bool, error)

	// CommitAll stages every change at path, untracked files included,
	// and commits with the message. Returns the new commit hash.
	CommitAll(ctx context.Context, path, message string) (string, error)

	// Push sends the current branch at path to origin. An already
	// up-to-date remote is not an error.
	Push(ctx context.Context, path string) error
}

// Installer applies one installation strategy to an updated clone.
type Installer interface {
	// Install runs the strategy for the record. The clone at
	// rec.InstallationDirectory is already present and up to date.
	Install(ctx context.Context, rec *RepositoryRecord) error
}

// InstallerFor selects the Installer for an installation type. Returns
// ErrInvalidConfiguration for types it has no strategy for.
type InstallerFor func(t InstallType) (Installer, error)

// OutputWriter renders records and batch results for the user. This is
// the program's stdout surface; diagnostics go to the logger instead.
type OutputWriter interface {
	// WriteRecords renders the full field set of each record, in the
	// given order.
	WriteRecords(records []*RepositoryRecord) error

	// WriteReport renders one line per processed repository.
	WriteReport(report *BatchReport) error
}

package installer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/drover-cli/drover/internal/domain"
)

// StowInstaller farms symlinks from the record's execution directory
// into the target directory, mirroring the relative layout. Directories
// are created for real in the target; only files become symlinks.
type StowInstaller struct {
	logger Logger
	target string
}

// NewStowInstaller creates the stow strategy linking into target.
func NewStowInstaller(logger Logger, target string) *StowInstaller {
	return &StowInstaller{
		logger: logger,
		target: target,
	}
}

// Install walks the execution directory and links every file into the
// target. .git trees are never linked. A link that already points at its
// source is left alone; a symlink pointing elsewhere is re-pointed with a
// warning; a real file or directory in the way is ErrSymlinkConflict.
func (i *StowInstaller) Install(ctx context.Context, rec *domain.RepositoryRecord) error {
	source, err := filepath.Abs(rec.WorkDir())
	if err != nil {
		return fmt.Errorf("%w: resolving %s: %v", domain.ErrInvalidConfiguration, rec.WorkDir(), err)
	}
	if info, err := os.Stat(source); err != nil || !info.IsDir() {
		return fmt.Errorf("%w: stow source %s is not a directory", domain.ErrInvalidConfiguration, source)
	}

	linked, kept := 0, 0
	err = filepath.WalkDir(source, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(source, path)
		if err != nil {
			return err
		}
		dest := filepath.Join(i.target, rel)

		switch action, err := i.link(ctx, path, dest); {
		case err != nil:
			return err
		case action == "linked":
			linked++
		default:
			kept++
		}
		return nil
	})
	if err != nil {
		return err
	}

	i.logger.Debug(ctx, "Stowed repository files", map[string]interface{}{
		"url":    rec.URL,
		"source": source,
		"target": i.target,
		"linked": linked,
		"kept":   kept,
	})
	return nil
}

// link creates one symlink at dest pointing to source, resolving what is
// already there. Returns "linked" or "kept".
func (i *StowInstaller) link(ctx context.Context, source, dest string) (string, error) {
	existing, err := os.Lstat(dest)
	switch {
	case err == nil && existing.Mode()&os.ModeSymlink == 0:
		return "", fmt.Errorf("%w: %s", domain.ErrSymlinkConflict, dest)

	case err == nil:
		current, rerr := os.Readlink(dest)
		if rerr != nil {
			return "", fmt.Errorf("%w: reading link %s: %v", domain.ErrSymlinkConflict, dest, rerr)
		}
		if current == source {
			return "kept", nil
		}
		// A symlink we can own: most likely a leftover from a moved
		// clone. Take it over.
		i.logger.Warn(ctx, "Re-pointing existing symlink", map[string]interface{}{
			"link": dest,
			"old":  current,
			"new":  source,
		})
		if rerr := os.Remove(dest); rerr != nil {
			return "", fmt.Errorf("%w: replacing link %s: %v", domain.ErrSymlinkConflict, dest, rerr)
		}

	case errors.Is(err, os.ErrNotExist):
		if merr := os.MkdirAll(filepath.Dir(dest), 0o755); merr != nil {
			return "", fmt.Errorf("%w: creating %s: %v", domain.ErrSymlinkConflict, filepath.Dir(dest), merr)
		}

	default:
		return "", fmt.Errorf("%w: inspecting %s: %v", domain.ErrSymlinkConflict, dest, err)
	}

	if err := os.Symlink(source, dest); err != nil {
		return "", fmt.Errorf("%w: linking %s: %v", domain.ErrSymlinkConflict, dest, err)
	}
	return "linked", nil
}

package usecases

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/drover-cli/drover/internal/domain"
)

// execLookPath is swapped in tests.
var execLookPath = exec.LookPath

// Install brings every selected repository up to date and applies its
// installation strategy, in order_place order. Unless IgnoreWarnings is
// set, the run aborts before touching anything if any selected clone has
// uncommitted changes. Per-repository failures do not stop the run; they
// are carried in the report.
func (m *RepositoryManager) Install(ctx context.Context, input domain.InstallInput) (*domain.BatchReport, error) {
	set, err := m.store.Load()
	if err != nil {
		return nil, fmt.Errorf("loading record store: %w", err)
	}

	working, err := m.selectForInstall(ctx, set, input)
	if err != nil {
		return nil, err
	}

	m.logger.Info(ctx, "Starting install run", map[string]interface{}{
		"selected":        len(working),
		"tracked":         set.Len(),
		"ignore_warnings": input.IgnoreWarnings,
	})
	m.adviseShell(ctx, working)

	if !input.IgnoreWarnings {
		if err := m.dirtyPreflight(ctx, working); err != nil {
			return nil, err
		}
	}

	report := &domain.BatchReport{}
	for _, rec := range working {
		action, err := m.installOne(ctx, rec)
		if err != nil {
			m.logger.Error(ctx, "Repository install failed", err, map[string]interface{}{
				"url": rec.URL,
			})
		} else {
			m.logger.Info(ctx, "Repository installed", map[string]interface{}{
				"url":    rec.URL,
				"action": action,
			})
		}
		report.Add(rec.URL, action, err)
	}

	m.logger.Info(ctx, "Install run finished", map[string]interface{}{
		"processed": len(report.Outcomes),
		"failed":    report.Failed(),
	})
	return report, nil
}

// selectForInstall resolves the working list: a single record when a URL
// is given, otherwise all records in order_place order minus exclusions.
func (m *RepositoryManager) selectForInstall(
	ctx context.Context,
	set *domain.RecordSet,
	input domain.InstallInput,
) ([]*domain.RepositoryRecord, error) {
	if input.URL != "" {
		if len(input.Exclude) > 0 || input.ExcludeType != "" {
			m.logger.Warn(ctx, "Exclusion filters are ignored when a single repository is requested", map[string]interface{}{
				"url": input.URL,
			})
		}
		rec, ok := set.Get(input.URL)
		if !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrRepositoryNotFound, input.URL)
		}
		return []*domain.RepositoryRecord{rec}, nil
	}

	excluded := excludeSet(input.Exclude)
	for url := range excluded {
		if _, ok := set.Get(url); !ok {
			m.logger.Warn(ctx, "Excluded repository is not tracked", map[string]interface{}{
				"url": url,
			})
		}
	}

	var working []*domain.RepositoryRecord
	for _, rec := range set.OrderedByPlace() {
		if _, skip := excluded[rec.URL]; skip {
			m.logger.Debug(ctx, "Repository excluded by URL", map[string]interface{}{
				"url": rec.URL,
			})
			continue
		}
		if input.ExcludeType != "" && rec.Type == input.ExcludeType {
			m.logger.Debug(ctx, "Repository excluded by type", map[string]interface{}{
				"url":  rec.URL,
				"type": string(rec.Type),
			})
			continue
		}
		working = append(working, rec)
	}
	return working, nil
}

// adviseShell warns when the working list contains SHELL records but no
// sh is available to run their install scripts.
func (m *RepositoryManager) adviseShell(ctx context.Context, working []*domain.RepositoryRecord) {
	for _, rec := range working {
		if rec.Type != domain.InstallTypeShell {
			continue
		}
		if _, err := execLookPath("sh"); err != nil {
			m.logger.Warn(ctx, "sh not found on PATH, SHELL install scripts will fail", nil)
		}
		return
	}
}

// dirtyPreflight checks every existing clone in the working list for
// uncommitted changes and aborts with ErrDirtyWorkingCopy if any are
// found. Nothing has been mutated at this point.
func (m *RepositoryManager) dirtyPreflight(ctx context.Context, working []*domain.RepositoryRecord) error {
	var dirty []string
	for _, rec := range working {
		if !m.git.IsRepository(rec.InstallationDirectory) {
			continue
		}
		if rec.LockHash {
			// Locked clones never pull.
			continue
		}
		has, err := m.git.HasChanges(ctx, rec.InstallationDirectory)
		if err != nil {
			return fmt.Errorf("checking %s: %w", rec.URL, err)
		}
		if has {
			m.logger.Warn(ctx, "Working copy has uncommitted changes", map[string]interface{}{
				"url":       rec.URL,
				"directory": rec.InstallationDirectory,
			})
			dirty = append(dirty, rec.URL)
		}
	}
	if len(dirty) > 0 {
		return fmt.Errorf("%w: %s (use --ignore-warnings to proceed)",
			domain.ErrDirtyWorkingCopy, strings.Join(dirty, ", "))
	}
	return nil
}

// installOne syncs one clone and runs its installation strategy.
func (m *RepositoryManager) installOne(ctx context.Context, rec *domain.RepositoryRecord) (string, error) {
	if err := rec.Validate(); err != nil {
		return "", err
	}

	action, err := m.syncClone(ctx, rec)
	if err != nil {
		return "", err
	}

	inst, err := m.installerFor(rec.Type)
	if err != nil {
		return "", err
	}
	if err := inst.Install(ctx, rec); err != nil {
		return action, err
	}
	if rec.Type != domain.InstallTypeNone {
		action += ", installed"
	}
	return action, nil
}

// syncClone makes the local working copy match the record: clone when
// absent, otherwise pin the locked hash or pull the branch.
func (m *RepositoryManager) syncClone(ctx context.Context, rec *domain.RepositoryRecord) (string, error) {
	dir := rec.InstallationDirectory

	if !m.git.IsRepository(dir) {
		if err := m.git.Clone(ctx, rec.URL, rec.BranchName(), dir); err != nil {
			return "", err
		}
		if rec.LockHash {
			if err := m.git.CheckoutHash(ctx, dir, rec.Hash()); err != nil {
				return "", err
			}
		}
		return "cloned", nil
	}

	if rec.LockHash {
		// Pinned clones never pull.
		if err := m.git.CheckoutHash(ctx, dir, rec.Hash()); err != nil {
			return "", err
		}
		return "pinned", nil
	}

	if branch := rec.BranchName(); branch != "" {
		if err := m.git.CheckoutBranch(ctx, dir, branch); err != nil {
			return "", err
		}
	}
	updated, err := m.git.Pull(ctx, dir, rec.BranchName())
	if err != nil {
		return "", err
	}
	if updated {
		return "updated", nil
	}
	return "up to date", nil
}

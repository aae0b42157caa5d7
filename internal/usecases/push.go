package usecases

import (
	"context"
	"fmt"

	"github.com/drover-cli/drover/internal/domain"
)

// Push commits and pushes local changes in every tracked clone, in
// order_place order. Clean clones are skipped; a record whose clone does
// not exist is a failure. Per-repository failures do not stop the run.
func (m *RepositoryManager) Push(ctx context.Context, input domain.PushInput) (*domain.BatchReport, error) {
	set, err := m.store.Load()
	if err != nil {
		return nil, fmt.Errorf("loading record store: %w", err)
	}

	message := input.Message
	if message == "" {
		message = m.commitMessage
	}

	m.logger.Info(ctx, "Starting push run", map[string]interface{}{
		"tracked":  set.Len(),
		"excluded": len(input.Exclude),
		"message":  message,
	})

	excluded := excludeSet(input.Exclude)
	report := &domain.BatchReport{}
	for _, rec := range set.OrderedByPlace() {
		if _, skip := excluded[rec.URL]; skip {
			m.logger.Debug(ctx, "Repository excluded by URL", map[string]interface{}{
				"url": rec.URL,
			})
			continue
		}

		action, err := m.pushOne(ctx, rec, message)
		if err != nil {
			m.logger.Error(ctx, "Repository push failed", err, map[string]interface{}{
				"url": rec.URL,
			})
		} else {
			m.logger.Info(ctx, "Repository processed", map[string]interface{}{
				"url":    rec.URL,
				"action": action,
			})
		}
		report.Add(rec.URL, action, err)
	}

	m.logger.Info(ctx, "Push run finished", map[string]interface{}{
		"processed": len(report.Outcomes),
		"failed":    report.Failed(),
	})
	return report, nil
}

// pushOne commits and pushes a single clone. A clone with nothing to
// commit is left alone.
func (m *RepositoryManager) pushOne(ctx context.Context, rec *domain.RepositoryRecord, message string) (string, error) {
	dir := rec.InstallationDirectory

	if !m.git.IsRepository(dir) {
		return "", fmt.Errorf("%w: no clone at %s", domain.ErrVersionControlFailure, dir)
	}

	has, err := m.git.HasChanges(ctx, dir)
	if err != nil {
		return "", err
	}
	if !has {
		return "no changes", nil
	}

	hash, err := m.git.CommitAll(ctx, dir, message)
	if err != nil {
		return "", err
	}
	if err := m.git.Push(ctx, dir); err != nil {
		return "", err
	}

	m.logger.Debug(ctx, "Committed and pushed", map[string]interface{}{
		"url":  rec.URL,
		"hash": hash,
	})
	return "pushed", nil
}

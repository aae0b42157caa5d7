package usecases

import (
	"context"
	"fmt"

	"github.com/drover-cli/drover/internal/domain"
)

// Add registers a repository in the record store. The clone itself
// happens on the next install run. Returns ErrDuplicateRepository when
// the URL is already tracked and Overwrite is not set.
func (m *RepositoryManager) Add(ctx context.Context, input domain.AddInput) (*domain.RepositoryRecord, error) {
	rec := &domain.RepositoryRecord{
		URL:                   input.URL,
		Type:                  input.Type,
		InstallationDirectory: input.InstallationDirectory,
		Branch:                input.Branch,
		CurrentHash:           input.CurrentHash,
		LockHash:              input.LockHash,
		ExecutionDirectory:    input.ExecutionDirectory,
		OrderPlace:            input.OrderPlace,
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	set, err := m.store.Load()
	if err != nil {
		return nil, fmt.Errorf("loading record store: %w", err)
	}

	if err := set.Upsert(rec, input.Overwrite); err != nil {
		return nil, err
	}

	if err := m.store.Save(set); err != nil {
		return nil, fmt.Errorf("saving record store: %w", err)
	}

	m.logger.Info(ctx, "Tracked repository", map[string]interface{}{
		"url":         rec.URL,
		"type":        string(rec.Type),
		"directory":   rec.InstallationDirectory,
		"order_place": rec.OrderPlace,
		"overwrite":   input.Overwrite,
	})
	return rec, nil
}

package usecases

import (
	"context"
	"fmt"

	"github.com/drover-cli/drover/internal/domain"
)

// ListAll returns every tracked record in order_place order.
func (m *RepositoryManager) ListAll(ctx context.Context) ([]*domain.RepositoryRecord, error) {
	set, err := m.store.Load()
	if err != nil {
		return nil, fmt.Errorf("loading record store: %w", err)
	}

	records := set.OrderedByPlace()
	m.logger.Debug(ctx, "Listing tracked repositories", map[string]interface{}{
		"count": len(records),
	})
	return records, nil
}

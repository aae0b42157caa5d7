package installer

import (
	"context"

	"github.com/drover-cli/drover/internal/domain"
)

// NoneInstaller is the strategy for repositories that only need to be
// kept in sync. It does nothing.
type NoneInstaller struct {
	logger Logger
}

// NewNoneInstaller creates the no-op strategy.
func NewNoneInstaller(logger Logger) *NoneInstaller {
	return &NoneInstaller{logger: logger}
}

// Install does nothing.
func (i *NoneInstaller) Install(ctx context.Context, rec *domain.RepositoryRecord) error {
	i.logger.Debug(ctx, "No installation step for repository", map[string]interface{}{
		"url": rec.URL,
	})
	return nil
}

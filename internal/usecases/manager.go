// Package usecases contains the application business logic.
// This package orchestrates domain entities and ports to fulfill the
// add, list-all, install and push operations.
package usecases

import (
	"context"

	"github.com/drover-cli/drover/internal/domain"
)

// Logger defines the logging interface required by the use cases.
// This abstracts the logger dependency to avoid coupling to a specific implementation.
type Logger interface {
	Info(ctx context.Context, msg string, fields map[string]interface{})
	Debug(ctx context.Context, msg string, fields map[string]interface{})
	Warn(ctx context.Context, msg string, fields map[string]interface{})
	Error(ctx context.Context, msg string, err error, fields map[string]interface{})
}

// RepositoryManager implements the core operations on the set of managed
// repositories: tracking new ones, listing them, bringing the local
// clones up to date and pushing local changes back.
type RepositoryManager struct {
	store         domain.RecordStore
	git           domain.GitClient
	installerFor  domain.InstallerFor
	logger        Logger
	commitMessage string
}

// NewRepositoryManager creates a new RepositoryManager with the given
// dependencies. commitMessage is the default message used by Push when
// none is supplied.
func NewRepositoryManager(
	store domain.RecordStore,
	git domain.GitClient,
	installerFor domain.InstallerFor,
	log Logger,
	commitMessage string,
) *RepositoryManager {
	return &RepositoryManager{
		store:         store,
		git:           git,
		installerFor:  installerFor,
		logger:        log,
		commitMessage: commitMessage,
	}
}

// excludeSet turns a URL list into a lookup set.
func excludeSet(urls []string) map[string]struct{} {
	if len(urls) == 0 {
		return nil
	}
	out := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		out[u] = struct{}{}
	}
	return out
}

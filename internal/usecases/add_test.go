package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drover-cli/drover/internal/domain"
)

func TestAdd_TracksRepository(t *testing.T) {
	store := &mockStore{}
	mgr := newTestManager(store, newMockGit(), &mockInstaller{})

	rec, err := mgr.Add(context.Background(), domain.AddInput{
		URL:                   "https://example.com/dotfiles.git",
		Type:                  domain.InstallTypeStow,
		InstallationDirectory: "/home/u/dotfiles",
		Branch:                strPtr("main"),
		OrderPlace:            3,
	})
	require.NoError(t, err)

	require.NotNil(t, store.saved, "the set must be persisted")
	saved, ok := store.saved.Get("https://example.com/dotfiles.git")
	require.True(t, ok)
	assert.Equal(t, rec, saved)
	assert.Equal(t, domain.InstallTypeStow, saved.Type)
	assert.Equal(t, 3, saved.OrderPlace)
	require.NotNil(t, saved.Branch)
	assert.Equal(t, "main", *saved.Branch)
	assert.Nil(t, saved.CurrentHash)
}

func TestAdd_AppendsAfterExisting(t *testing.T) {
	store := &mockStore{set: seedSet(t, newRecord("https://example.com/first.git", "/first"))}
	mgr := newTestManager(store, newMockGit(), &mockInstaller{})

	_, err := mgr.Add(context.Background(), domain.AddInput{
		URL:                   "https://example.com/second.git",
		Type:                  domain.InstallTypeNone,
		InstallationDirectory: "/second",
	})
	require.NoError(t, err)

	all := store.saved.All()
	require.Len(t, all, 2)
	assert.Equal(t, "https://example.com/first.git", all[0].URL)
	assert.Equal(t, "https://example.com/second.git", all[1].URL)
}

func TestAdd_DuplicateWithoutOverwrite(t *testing.T) {
	store := &mockStore{set: seedSet(t, newRecord("https://example.com/dup.git", "/old"))}
	mgr := newTestManager(store, newMockGit(), &mockInstaller{})

	_, err := mgr.Add(context.Background(), domain.AddInput{
		URL:                   "https://example.com/dup.git",
		Type:                  domain.InstallTypeNone,
		InstallationDirectory: "/new",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDuplicateRepository)
	assert.Nil(t, store.saved, "a rejected add must not persist anything")
}

func TestAdd_OverwriteReplaces(t *testing.T) {
	store := &mockStore{set: seedSet(t,
		newRecord("https://example.com/dup.git", "/old"),
		newRecord("https://example.com/other.git", "/other"),
	)}
	mgr := newTestManager(store, newMockGit(), &mockInstaller{})

	_, err := mgr.Add(context.Background(), domain.AddInput{
		URL:                   "https://example.com/dup.git",
		Type:                  domain.InstallTypeShell,
		InstallationDirectory: "/new",
		Overwrite:             true,
	})
	require.NoError(t, err)

	all := store.saved.All()
	require.Len(t, all, 2)
	// The replaced record keeps its position.
	assert.Equal(t, "https://example.com/dup.git", all[0].URL)
	assert.Equal(t, "/new", all[0].InstallationDirectory)
	assert.Equal(t, domain.InstallTypeShell, all[0].Type)
}

func TestAdd_InvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		input domain.AddInput
	}{
		{
			name: "lock without hash",
			input: domain.AddInput{
				URL:                   "https://example.com/r.git",
				Type:                  domain.InstallTypeNone,
				InstallationDirectory: "/r",
				LockHash:              true,
			},
		},
		{
			name: "missing url",
			input: domain.AddInput{
				Type:                  domain.InstallTypeNone,
				InstallationDirectory: "/r",
			},
		},
		{
			name: "missing installation directory",
			input: domain.AddInput{
				URL:  "https://example.com/r.git",
				Type: domain.InstallTypeNone,
			},
		},
		{
			name: "unknown type",
			input: domain.AddInput{
				URL:                   "https://example.com/r.git",
				Type:                  domain.InstallType("COPY"),
				InstallationDirectory: "/r",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockStore{}
			mgr := newTestManager(store, newMockGit(), &mockInstaller{})

			_, err := mgr.Add(context.Background(), tt.input)

			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
			assert.False(t, store.loadCalled, "validation must happen before the store is touched")
		})
	}
}

func TestAdd_StoreErrors(t *testing.T) {
	input := domain.AddInput{
		URL:                   "https://example.com/r.git",
		Type:                  domain.InstallTypeNone,
		InstallationDirectory: "/r",
	}

	t.Run("load failure", func(t *testing.T) {
		store := &mockStore{loadErr: domain.ErrStoreIO}
		mgr := newTestManager(store, newMockGit(), &mockInstaller{})

		_, err := mgr.Add(context.Background(), input)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrStoreIO)
	})

	t.Run("save failure", func(t *testing.T) {
		store := &mockStore{saveErr: domain.ErrStoreIO}
		mgr := newTestManager(store, newMockGit(), &mockInstaller{})

		_, err := mgr.Add(context.Background(), input)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrStoreIO)
	})
}

package installer

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drover-cli/drover/internal/domain"
)

// testLogger is a minimal logger for testing that doesn't output anything.
type testLogger struct{}

func (l *testLogger) Debug(_ context.Context, _ string, _ map[string]interface{}) {}
func (l *testLogger) Warn(_ context.Context, _ string, _ map[string]interface{})  {}

func TestSelectorKnownTypes(t *testing.T) {
	selector := New(&testLogger{}, t.TempDir(), os.Stdout, os.Stderr)

	none, err := selector(domain.InstallTypeNone)
	require.NoError(t, err)
	assert.IsType(t, &NoneInstaller{}, none)

	shell, err := selector(domain.InstallTypeShell)
	require.NoError(t, err)
	assert.IsType(t, &ShellInstaller{}, shell)

	stow, err := selector(domain.InstallTypeStow)
	require.NoError(t, err)
	assert.IsType(t, &StowInstaller{}, stow)
}

func TestSelectorUnknownType(t *testing.T) {
	selector := New(&testLogger{}, t.TempDir(), os.Stdout, os.Stderr)

	_, err := selector(domain.InstallType("SYMLINK"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
}

func TestNoneInstallerDoesNothing(t *testing.T) {
	dir := t.TempDir()
	rec := &domain.RepositoryRecord{
		URL:                   "https://example.com/r.git",
		Type:                  domain.InstallTypeNone,
		InstallationDirectory: dir,
	}

	err := NewNoneInstaller(&testLogger{}).Install(context.Background(), rec)
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

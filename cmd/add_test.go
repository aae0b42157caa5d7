package cmd

import (
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drover-cli/drover/internal/domain"
)

func TestAddCmd_TracksRepository(t *testing.T) {
	manager := &mockManager{}
	deps, _ := testDeps(manager, &mockOutput{})

	err := execute(t, deps,
		"add", "git@example.com:me/dots.git", "stow", "/home/me/.dotfiles",
		"-b", "main", "-p", "3", "--overwrite")
	require.NoError(t, err)

	input := manager.addInput
	require.NotNil(t, input)
	assert.Equal(t, "git@example.com:me/dots.git", input.URL)
	assert.Equal(t, domain.InstallTypeStow, input.Type)
	assert.Equal(t, "/home/me/.dotfiles", input.InstallationDirectory)
	require.NotNil(t, input.Branch)
	assert.Equal(t, "main", *input.Branch)
	assert.Equal(t, 3, input.OrderPlace)
	assert.True(t, input.Overwrite)
	assert.Nil(t, input.CurrentHash)
	assert.Nil(t, input.ExecutionDirectory)
	assert.False(t, input.LockHash)
}

func TestAddCmd_LockedRecord(t *testing.T) {
	manager := &mockManager{}
	deps, _ := testDeps(manager, &mockOutput{})

	err := execute(t, deps,
		"add", "https://example.com/me/scripts.git", "SHELL", "/opt/scripts",
		"--current-hash", "0123456789abcdef0123456789abcdef01234567",
		"--lock-hash", "-e", "setup")
	require.NoError(t, err)

	input := manager.addInput
	require.NotNil(t, input)
	assert.Equal(t, domain.InstallTypeShell, input.Type)
	require.NotNil(t, input.CurrentHash)
	assert.Equal(t, "0123456789abcdef0123456789abcdef01234567", *input.CurrentHash)
	assert.True(t, input.LockHash)
	require.NotNil(t, input.ExecutionDirectory)
	assert.Equal(t, "setup", *input.ExecutionDirectory)
}

func TestAddCmd_ExpandsTilde(t *testing.T) {
	manager := &mockManager{}
	deps, _ := testDeps(manager, &mockOutput{})

	err := execute(t, deps, "add", "git@example.com:me/dots.git", "NONE", "~/dots")
	require.NoError(t, err)

	home, err := homedir.Dir()
	require.NoError(t, err)
	require.NotNil(t, manager.addInput)
	assert.Equal(t, filepath.Join(home, "dots"), manager.addInput.InstallationDirectory)
}

func TestAddCmd_UnknownType(t *testing.T) {
	manager := &mockManager{}
	deps, _ := testDeps(manager, &mockOutput{})

	err := execute(t, deps, "add", "git@example.com:me/dots.git", "TARBALL", "/d")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
	assert.Contains(t, err.Error(), "TARBALL")
	assert.Nil(t, manager.addInput)
}

func TestAddCmd_RequiresThreeArgs(t *testing.T) {
	deps, _ := testDeps(&mockManager{}, &mockOutput{})

	err := execute(t, deps, "add", "git@example.com:me/dots.git", "NONE")
	require.Error(t, err)
}

func TestAddCmd_DuplicateError(t *testing.T) {
	manager := &mockManager{addErr: domain.ErrDuplicateRepository}
	deps, _ := testDeps(manager, &mockOutput{})

	err := execute(t, deps, "add", "git@example.com:me/dots.git", "NONE", "/d")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDuplicateRepository)
}

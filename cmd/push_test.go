package cmd

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drover-cli/drover/internal/domain"
)

func TestPushCmd_ForwardsFlags(t *testing.T) {
	manager := &mockManager{}
	deps, _ := testDeps(manager, &mockOutput{})

	err := execute(t, deps, "push", "-m", "tune zsh prompt", "-e", "https://example.com/a.git")
	require.NoError(t, err)

	input := manager.pushInput
	require.NotNil(t, input)
	assert.Equal(t, "tune zsh prompt", input.Message)
	assert.Equal(t, []string{"https://example.com/a.git"}, input.Exclude)
}

func TestPushCmd_EmptyMessageLeftToManager(t *testing.T) {
	manager := &mockManager{}
	deps, _ := testDeps(manager, &mockOutput{})

	err := execute(t, deps, "push")
	require.NoError(t, err)

	require.NotNil(t, manager.pushInput)
	assert.Empty(t, manager.pushInput.Message)
}

func TestPushCmd_WritesReport(t *testing.T) {
	report := &domain.BatchReport{}
	report.Add("https://example.com/a.git", "pushed", nil)
	report.Add("https://example.com/b.git", "no changes", nil)
	out := &mockOutput{}
	deps, _ := testDeps(&mockManager{pushReport: report}, out)

	err := execute(t, deps, "push")
	require.NoError(t, err)

	assert.Equal(t, report, out.report)
}

func TestPushCmd_FailedRepositoriesExitNonZero(t *testing.T) {
	report := &domain.BatchReport{}
	report.Add("https://example.com/a.git", "", fmt.Errorf("%w: remote rejected", domain.ErrVersionControlFailure))
	deps, _ := testDeps(&mockManager{pushReport: report}, &mockOutput{})

	err := execute(t, deps, "push")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 1 repositories failed")
}

func TestPushCmd_ManagerError(t *testing.T) {
	deps, _ := testDeps(&mockManager{pushErr: domain.ErrStoreIO}, &mockOutput{})

	err := execute(t, deps, "push")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStoreIO)
}

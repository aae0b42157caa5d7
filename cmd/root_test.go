package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drover-cli/drover/internal/domain"
	"github.com/drover-cli/drover/internal/infrastructure/config"
)

// Test mocks for dependency injection testing.

// mockLogger implements the Logger interface for testing.
type mockLogger struct{}

func (m *mockLogger) Info(_ context.Context, _ string, _ map[string]interface{})           {}
func (m *mockLogger) Debug(_ context.Context, _ string, _ map[string]interface{})          {}
func (m *mockLogger) Warn(_ context.Context, _ string, _ map[string]interface{})           {}
func (m *mockLogger) Error(_ context.Context, _ string, _ error, _ map[string]interface{}) {}

// mockManager implements the Manager interface for testing. Inputs are
// captured for assertions; outputs are configured per operation.
type mockManager struct {
	addInput  *domain.AddInput
	addRecord *domain.RepositoryRecord
	addErr    error

	listRecords []*domain.RepositoryRecord
	listErr     error

	installInput  *domain.InstallInput
	installReport *domain.BatchReport
	installErr    error

	pushInput  *domain.PushInput
	pushReport *domain.BatchReport
	pushErr    error
}

func (m *mockManager) Add(_ context.Context, input domain.AddInput) (*domain.RepositoryRecord, error) {
	m.addInput = &input
	if m.addErr != nil {
		return nil, m.addErr
	}
	if m.addRecord != nil {
		return m.addRecord, nil
	}
	return &domain.RepositoryRecord{URL: input.URL}, nil
}

func (m *mockManager) ListAll(_ context.Context) ([]*domain.RepositoryRecord, error) {
	return m.listRecords, m.listErr
}

func (m *mockManager) Install(_ context.Context, input domain.InstallInput) (*domain.BatchReport, error) {
	m.installInput = &input
	if m.installErr != nil {
		return nil, m.installErr
	}
	if m.installReport != nil {
		return m.installReport, nil
	}
	return &domain.BatchReport{}, nil
}

func (m *mockManager) Push(_ context.Context, input domain.PushInput) (*domain.BatchReport, error) {
	m.pushInput = &input
	if m.pushErr != nil {
		return nil, m.pushErr
	}
	if m.pushReport != nil {
		return m.pushReport, nil
	}
	return &domain.BatchReport{}, nil
}

// mockOutput implements domain.OutputWriter for testing.
type mockOutput struct {
	records  []*domain.RepositoryRecord
	report   *domain.BatchReport
	writeErr error
}

func (m *mockOutput) WriteRecords(records []*domain.RepositoryRecord) error {
	m.records = records
	return m.writeErr
}

func (m *mockOutput) WriteReport(report *domain.BatchReport) error {
	m.report = report
	return m.writeErr
}

// factoryCapture records what the port factories were handed, so tests
// can assert that configuration flows through the wiring.
type factoryCapture struct {
	level         string
	logPath       string
	storePath     string
	stowTarget    string
	commitMessage string
}

// testDeps wires every factory to mocks around the given manager.
func testDeps(m *mockManager, out *mockOutput) (*Dependencies, *factoryCapture) {
	capture := &factoryCapture{}
	deps := &Dependencies{
		ConfigLoader: func() (*config.Config, error) {
			return &config.Config{
				ConfigDir:     "/tmp/drover",
				StorePath:     "/tmp/drover/repositories.yaml",
				LogPath:       "/tmp/drover-state/drover.log",
				LogLevel:      "warn",
				StowTarget:    "/tmp/home",
				CommitMessage: "drover: sync managed repositories",
			}, nil
		},
		LoggerFactory: func(level, filePath string) (Logger, func(), error) {
			capture.level = level
			capture.logPath = filePath
			return &mockLogger{}, func() {}, nil
		},
		StoreFactory: func(path string, _ Logger) domain.RecordStore {
			capture.storePath = path
			return nil
		},
		GitFactory: func(_ Logger) domain.GitClient {
			return nil
		},
		InstallerFactory: func(stowTarget string, _ Logger, _, _ io.Writer) domain.InstallerFor {
			capture.stowTarget = stowTarget
			return nil
		},
		ManagerFactory: func(_ domain.RecordStore, _ domain.GitClient, _ domain.InstallerFor, _ Logger, commitMessage string) Manager {
			capture.commitMessage = commitMessage
			return m
		},
		OutputFactory: func(_ io.Writer) domain.OutputWriter {
			return out
		},
		Stdout: io.Discard,
		Stderr: io.Discard,
	}
	return deps, capture
}

func execute(t *testing.T, deps *Dependencies, args ...string) error {
	t.Helper()
	cmd := NewRootCmdWithDeps(deps)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestNewRootCmd_Structure(t *testing.T) {
	cmd := NewRootCmdWithDeps(nil)

	require.NotNil(t, cmd)
	assert.Equal(t, "drover", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
	assert.True(t, cmd.SilenceUsage)

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Contains(t, names, "add")
	assert.Contains(t, names, "list-all")
	assert.Contains(t, names, "install")
	assert.Contains(t, names, "push")
}

func TestRootCmd_HelpOutput(t *testing.T) {
	cmd := NewRootCmdWithDeps(nil)

	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--help"})

	err := cmd.Execute()
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "drover")
	assert.Contains(t, output, "add")
	assert.Contains(t, output, "list-all")
	assert.Contains(t, output, "install")
	assert.Contains(t, output, "push")
	assert.Contains(t, output, "--verbose")
}

func TestRootCmd_NilDependencies(t *testing.T) {
	err := execute(t, nil, "list-all")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "dependencies not configured")
}

func TestRootCmd_ConfigLoadError(t *testing.T) {
	deps, _ := testDeps(&mockManager{}, &mockOutput{})
	deps.ConfigLoader = func() (*config.Config, error) {
		return nil, errors.New("bad toml")
	}

	err := execute(t, deps, "list-all")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration error")
}

func TestRootCmd_LoggerFactoryError(t *testing.T) {
	deps, _ := testDeps(&mockManager{}, &mockOutput{})
	deps.LoggerFactory = func(_, _ string) (Logger, func(), error) {
		return nil, nil, errors.New("unknown log level \"loud\"")
	}

	err := execute(t, deps, "list-all")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown log level")
}

func TestRootCmd_WiresConfigIntoFactories(t *testing.T) {
	deps, capture := testDeps(&mockManager{}, &mockOutput{})

	err := execute(t, deps, "list-all")
	require.NoError(t, err)

	assert.Equal(t, "warn", capture.level)
	assert.Equal(t, "/tmp/drover-state/drover.log", capture.logPath)
	assert.Equal(t, "/tmp/drover/repositories.yaml", capture.storePath)
	assert.Equal(t, "/tmp/home", capture.stowTarget)
	assert.Equal(t, "drover: sync managed repositories", capture.commitMessage)
}

func TestRootCmd_VerboseForcesDebugLevel(t *testing.T) {
	deps, capture := testDeps(&mockManager{}, &mockOutput{})

	err := execute(t, deps, "-v", "list-all")
	require.NoError(t, err)

	assert.Equal(t, "debug", capture.level)
}

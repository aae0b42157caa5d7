// Package cmd provides the CLI commands for drover.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/drover-cli/drover/internal/domain"
	"github.com/drover-cli/drover/internal/infrastructure/config"
)

// Logger defines the logging interface used by the commands.
type Logger interface {
	Info(ctx context.Context, msg string, fields map[string]interface{})
	Debug(ctx context.Context, msg string, fields map[string]interface{})
	Warn(ctx context.Context, msg string, fields map[string]interface{})
	Error(ctx context.Context, msg string, err error, fields map[string]interface{})
}

// Manager is the application service the commands drive.
type Manager interface {
	Add(ctx context.Context, input domain.AddInput) (*domain.RepositoryRecord, error)
	ListAll(ctx context.Context) ([]*domain.RepositoryRecord, error)
	Install(ctx context.Context, input domain.InstallInput) (*domain.BatchReport, error)
	Push(ctx context.Context, input domain.PushInput) (*domain.BatchReport, error)
}

// Dependencies holds all injectable dependencies for the commands.
// This enables testing by allowing mock implementations to be injected.
type Dependencies struct {
	// ConfigLoader loads application configuration.
	ConfigLoader func() (*config.Config, error)

	// LoggerFactory creates a logger with the console at the given level
	// and the debug trace appended to filePath. The returned function
	// flushes buffered entries.
	LoggerFactory func(level, filePath string) (Logger, func(), error)

	// StoreFactory creates the record store backed by the file at path.
	StoreFactory func(path string, log Logger) domain.RecordStore

	// GitFactory creates the version-control client.
	GitFactory func(log Logger) domain.GitClient

	// InstallerFactory creates the installation-strategy selector.
	// stowTarget is the directory STOW repositories link into.
	InstallerFactory func(stowTarget string, log Logger, stdout, stderr io.Writer) domain.InstallerFor

	// ManagerFactory assembles the repository manager from its ports.
	ManagerFactory func(
		store domain.RecordStore,
		git domain.GitClient,
		installerFor domain.InstallerFor,
		log Logger,
		commitMessage string,
	) Manager

	// OutputFactory creates the writer that renders records and reports.
	OutputFactory func(out io.Writer) domain.OutputWriter

	// Stdout is the writer for records and per-repository outcomes.
	Stdout io.Writer

	// Stderr is the writer for install-script output and diagnostics.
	Stderr io.Writer
}

// app bundles everything a command needs once the dependencies are wired.
type app struct {
	cfg     *config.Config
	log     Logger
	manager Manager
	output  domain.OutputWriter
	close   func()
}

// NewRootCmdWithDeps creates the root command with explicit dependencies.
// This is the primary constructor that enables testing via dependency injection.
func NewRootCmdWithDeps(deps *Dependencies) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "drover",
		Short: "Manage the Git repositories that configure a workstation",
		Long: `drover keeps a flock of configuration repositories (dotfiles, scripts,
editor settings) tracked in a single record store and herds their local
clones: cloning missing ones, pulling updates, pinning locked ones,
running their installation strategy, and pushing local changes back.

Repositories are installed in order_place order, so low-level setups can
run before the configurations that depend on them.

Examples:
  # Track a dotfiles repository that links its files into $HOME
  drover add git@example.com:me/dotfiles.git STOW ~/.dotfiles

  # Show everything drover manages
  drover list-all

  # Clone, update and install the whole flock
  drover install

  # Commit and push local edits in every clone
  drover push -m "tune zsh prompt"`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false,
		"Enable verbose/debug logging")

	rootCmd.AddCommand(
		newAddCmd(deps),
		newListCmd(deps),
		newInstallCmd(deps),
		newPushCmd(deps),
	)

	return rootCmd
}

// setup loads configuration and assembles the application service. The
// caller must invoke app.close to flush the logger.
func setup(cmd *cobra.Command, deps *Dependencies) (*app, error) {
	if deps == nil {
		return nil, errors.New("dependencies not configured")
	}

	cfg, err := deps.ConfigLoader()
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	level := cfg.LogLevel
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = "debug"
	}

	log, closeLog, err := deps.LoggerFactory(level, cfg.LogPath)
	if err != nil {
		return nil, err
	}

	store := deps.StoreFactory(cfg.StorePath, log)
	gitClient := deps.GitFactory(log)
	installerFor := deps.InstallerFactory(cfg.StowTarget, log, stdoutOf(deps), stderrOf(deps))
	manager := deps.ManagerFactory(store, gitClient, installerFor, log, cfg.CommitMessage)

	return &app{
		cfg:     cfg,
		log:     log,
		manager: manager,
		output:  deps.OutputFactory(stdoutOf(deps)),
		close:   closeLog,
	}, nil
}

// reportResult renders the batch report and converts failures into a
// non-zero exit.
func (a *app) reportResult(report *domain.BatchReport) error {
	if err := a.output.WriteReport(report); err != nil {
		return fmt.Errorf("output error: %w", err)
	}
	if failed := report.Failed(); failed > 0 {
		return fmt.Errorf("%d of %d repositories failed", failed, len(report.Outcomes))
	}
	return nil
}

// commandContext returns the command's context, or a fresh background
// context when cobra was driven without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func stdoutOf(deps *Dependencies) io.Writer {
	if deps.Stdout != nil {
		return deps.Stdout
	}
	return os.Stdout
}

func stderrOf(deps *Dependencies) io.Writer {
	if deps.Stderr != nil {
		return deps.Stderr
	}
	return os.Stderr
}

// Package main is the entry point for the drover CLI application.
// drover tracks the Git repositories that configure a workstation and
// keeps their local clones cloned, updated, installed and pushed.
package main

import (
	"io"
	"os"

	"github.com/drover-cli/drover/cmd"
	gitadapter "github.com/drover-cli/drover/internal/adapters/git"
	"github.com/drover-cli/drover/internal/adapters/installer"
	logadapter "github.com/drover-cli/drover/internal/adapters/logger"
	"github.com/drover-cli/drover/internal/adapters/output"
	"github.com/drover-cli/drover/internal/adapters/store"
	"github.com/drover-cli/drover/internal/domain"
	"github.com/drover-cli/drover/internal/infrastructure/config"
	"github.com/drover-cli/drover/internal/usecases"
)

func main() {
	os.Exit(run(os.Args, os.Stdin, os.Stdout, os.Stderr))
}

// run wires the production dependencies and executes the root command.
// It is separate from main so tests can drive the CLI in-process.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	rootCmd := cmd.NewRootCmdWithDeps(buildDependencies(stdout, stderr))
	rootCmd.SetArgs(args[1:])
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

// buildDependencies wires the production adapter behind every port.
func buildDependencies(stdout, stderr io.Writer) *cmd.Dependencies {
	return &cmd.Dependencies{
		ConfigLoader: config.Load,

		LoggerFactory: func(level, filePath string) (cmd.Logger, func(), error) {
			return logadapter.New(logadapter.Options{
				Level:    level,
				FilePath: filePath,
				Console:  stderr,
			})
		},

		StoreFactory: func(path string, log cmd.Logger) domain.RecordStore {
			return store.NewYAMLStore(path, log)
		},

		GitFactory: func(log cmd.Logger) domain.GitClient {
			return gitadapter.NewGoGitClient(log)
		},

		InstallerFactory: func(stowTarget string, log cmd.Logger, out, errOut io.Writer) domain.InstallerFor {
			return installer.New(log, stowTarget, out, errOut)
		},

		ManagerFactory: func(
			recordStore domain.RecordStore,
			gitClient domain.GitClient,
			installerFor domain.InstallerFor,
			log cmd.Logger,
			commitMessage string,
		) cmd.Manager {
			return usecases.NewRepositoryManager(recordStore, gitClient, installerFor, log, commitMessage)
		},

		OutputFactory: func(out io.Writer) domain.OutputWriter {
			return output.NewWriterWithOutput(out)
		},

		Stdout: stdout,
		Stderr: stderr,
	}
}

package cmd

import (
	"fmt"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/drover-cli/drover/internal/domain"
)

// newAddCmd creates the add command.
func newAddCmd(deps *Dependencies) *cobra.Command {
	var (
		orderPlace         int
		branch             string
		currentHash        string
		lockHash           bool
		executionDirectory string
		overwrite          bool
	)

	addCmd := &cobra.Command{
		Use:   "add <url> <type> <installation-directory>",
		Short: "Track a repository in the record store",
		Long: `add registers a repository so install and push operate on it. Nothing
is cloned yet; that happens on the next install run.

The type selects the installation strategy: NONE just keeps the clone up
to date, SHELL runs install.sh from the execution directory, STOW links
every file of the execution directory into the symlink target.

Examples:
  # A dotfiles repository linked into $HOME
  drover add git@example.com:me/dotfiles.git STOW ~/.dotfiles

  # A tool with its own installer, pinned to a known-good commit
  drover add https://example.com/me/scripts.git SHELL ~/src/scripts \
    --current-hash 0f3a... --lock-hash

  # Re-run with --overwrite to change an existing record in place
  drover add git@example.com:me/dotfiles.git STOW ~/.dotfiles -b main --overwrite`,
		Args:         cobra.ExactArgs(3),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd, deps)
			if err != nil {
				return err
			}
			defer a.close()

			installType, err := domain.ParseInstallType(args[1])
			if err != nil {
				return err
			}
			dir, err := homedir.Expand(args[2])
			if err != nil {
				return fmt.Errorf("expanding installation directory: %w", err)
			}

			input := domain.AddInput{
				URL:                   args[0],
				Type:                  installType,
				InstallationDirectory: dir,
				OrderPlace:            orderPlace,
				LockHash:              lockHash,
				Overwrite:             overwrite,
			}
			if branch != "" {
				input.Branch = &branch
			}
			if currentHash != "" {
				input.CurrentHash = &currentHash
			}
			if executionDirectory != "" {
				input.ExecutionDirectory = &executionDirectory
			}

			_, err = a.manager.Add(commandContext(cmd), input)
			return err
		},
	}

	addCmd.Flags().IntVarP(&orderPlace, "order-place", "p", 0,
		"Position in the processing order (lower runs first)")
	addCmd.Flags().StringVarP(&branch, "branch", "b", "",
		"Branch to check out and pull")
	addCmd.Flags().StringVarP(&currentHash, "current-hash", "c", "",
		"Commit hash recorded for the repository")
	addCmd.Flags().BoolVarP(&lockHash, "lock-hash", "l", false,
		"Pin the working copy to current-hash; locked clones never pull")
	addCmd.Flags().StringVarP(&executionDirectory, "execution-directory", "e", "",
		"Directory inside the clone the installation strategy runs from")
	addCmd.Flags().BoolVar(&overwrite, "overwrite", false,
		"Replace the record if the URL is already tracked")

	return addCmd
}

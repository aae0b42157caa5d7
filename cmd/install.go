package cmd

import (
	"github.com/spf13/cobra"

	"github.com/drover-cli/drover/internal/domain"
)

// newInstallCmd creates the install command.
func newInstallCmd(deps *Dependencies) *cobra.Command {
	var (
		url            string
		exclude        []string
		excludeType    string
		ignoreWarnings bool
	)

	installCmd := &cobra.Command{
		Use:   "install",
		Short: "Clone, update and install tracked repositories",
		Long: `install brings every tracked clone up to date in order_place order and
runs its installation strategy: missing clones are created, locked ones
are pinned to their recorded hash, the rest pull their branch.

Before anything is touched, existing clones are checked for uncommitted
changes; any dirty working copy aborts the whole run unless
--ignore-warnings is given. Failures of individual repositories are
reported and do not stop the others.

Examples:
  # The whole flock
  drover install

  # One repository, by its tracked URL
  drover install -u git@example.com:me/dotfiles.git

  # Everything except the STOW repositories
  drover install -t STOW`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd, deps)
			if err != nil {
				return err
			}
			defer a.close()

			input := domain.InstallInput{
				URL:            url,
				Exclude:        exclude,
				IgnoreWarnings: ignoreWarnings,
			}
			if excludeType != "" {
				t, err := domain.ParseInstallType(excludeType)
				if err != nil {
					return err
				}
				input.ExcludeType = t
			}

			report, err := a.manager.Install(commandContext(cmd), input)
			if err != nil {
				return err
			}
			return a.reportResult(report)
		},
	}

	installCmd.Flags().StringVarP(&url, "url", "u", "",
		"Install only this tracked repository (exclusion flags are ignored)")
	installCmd.Flags().StringSliceVarP(&exclude, "exclude", "e", nil,
		"Repository URL to skip (repeatable)")
	installCmd.Flags().StringVarP(&excludeType, "exclude-type", "t", "",
		"Skip every repository of this installation type")
	installCmd.Flags().BoolVarP(&ignoreWarnings, "ignore-warnings", "i", false,
		"Proceed even when working copies have uncommitted changes")

	return installCmd
}

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/drover-cli/drover/internal/domain"
)

// newPushCmd creates the push command.
func newPushCmd(deps *Dependencies) *cobra.Command {
	var (
		message string
		exclude []string
	)

	pushCmd := &cobra.Command{
		Use:   "push",
		Short: "Commit and push local changes in tracked clones",
		Long: `push walks the tracked clones in order_place order, stages and commits
any local changes, and pushes them to origin. Clean clones are skipped;
a tracked repository that was never cloned counts as a failure.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd, deps)
			if err != nil {
				return err
			}
			defer a.close()

			report, err := a.manager.Push(commandContext(cmd), domain.PushInput{
				Message: message,
				Exclude: exclude,
			})
			if err != nil {
				return err
			}
			return a.reportResult(report)
		},
	}

	pushCmd.Flags().StringVarP(&message, "message", "m", "",
		"Commit message (defaults to the configured message)")
	pushCmd.Flags().StringSliceVarP(&exclude, "exclude", "e", nil,
		"Repository URL to skip (repeatable)")

	return pushCmd
}

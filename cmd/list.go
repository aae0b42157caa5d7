package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newListCmd creates the list-all command.
func newListCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:          "list-all",
		Short:        "Print every tracked repository in processing order",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd, deps)
			if err != nil {
				return err
			}
			defer a.close()

			records, err := a.manager.ListAll(commandContext(cmd))
			if err != nil {
				return err
			}
			if err := a.output.WriteRecords(records); err != nil {
				return fmt.Errorf("output error: %w", err)
			}
			return nil
		},
	}
}

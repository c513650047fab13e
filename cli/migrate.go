package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(rootOpts)
			if err != nil {
				return err
			}
			defer env.Close()

			fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date.")
			return nil
		},
	}
}

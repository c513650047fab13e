package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"warbler/auth"
	"warbler/repositories"
	"warbler/seed"
)

// SeedOptions holds flags for the seed command.
type SeedOptions struct {
	File string
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SeedOptions{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load users, messages, follows and likes from a YAML fixture",
		Long: `Load a YAML fixture into the database.

Without --file the bundled demo fixture is loaded.

Example:
  warbler seed
  warbler seed --file ./fixtures/demo.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fixture, err := seed.LoadFile(opts.File)
			if err != nil {
				return err
			}

			env, err := setup(rootOpts)
			if err != nil {
				return err
			}
			defer env.Close()

			users := repositories.NewUserRepository(env.db.DB)
			seeder := seed.NewSeeder(
				auth.NewCredentialStore(users, env.cfg.BcryptCost),
				users,
				repositories.NewMessageRepository(env.db.DB),
				repositories.NewLikeRepository(env.db.DB),
			)
			res, err := seeder.Load(cmd.Context(), fixture)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d users, %d messages, %d follows, %d likes.\n",
				res.Users, res.Messages, res.Follows, res.Likes)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "fixture file (defaults to the bundled demo data)")

	return cmd
}

package cli

import (
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"warbler/config"
	"warbler/database"
	"warbler/logger"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	LogLevel string
}

// NewRootCommand creates the root command for the warbler CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "warbler",
		Short:         "Warbler - a small social messaging site",
		SilenceUsage:  true,
		SilenceErrors: true,
		// Running the binary without a subcommand starts the server.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts, &ServeOptions{})
		},
	}

	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "override LOG_LEVEL (debug|info|warn|error)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))

	return cmd
}

// environment is what every command needs before doing its own work.
type environment struct {
	cfg    *config.Config
	db     *database.DB
	logOut io.Closer
}

func setup(opts *RootOptions) (*environment, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}
	logOut := logger.InitLogger(cfg.LogFile, cfg.LogLevel)

	db, err := database.New(cfg.Database)
	if err != nil {
		logOut.Close()
		return nil, err
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		logOut.Close()
		return nil, err
	}
	logrus.WithField("driver", cfg.Database.Driver).Info("Database ready")

	return &environment{cfg: cfg, db: db, logOut: logOut}, nil
}

func (e *environment) Close() {
	if err := e.db.Close(); err != nil {
		logrus.WithError(err).Warn("Failed to close database")
	}
	e.logOut.Close()
}

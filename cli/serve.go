package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"warbler/auth"
	"warbler/handlers"
	"warbler/repositories"
	"warbler/routes"
	"warbler/session"
	"warbler/templates"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	Port string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		Long: `Start the Warbler web server.

Configuration comes from the environment (and .env when present):
PORT, ENV, DB_DRIVER, DATABASE_URL, DB_HOST, DB_PORT, DB_USER, DB_PASSWORD,
DB_NAME, DB_SSLMODE, SECRET_KEY, LOG_FILE, LOG_LEVEL, BCRYPT_COST.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), rootOpts, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Port, "port", "", "override PORT")

	return cmd
}

func runServe(ctx context.Context, rootOpts *RootOptions, opts *ServeOptions) error {
	env, err := setup(rootOpts)
	if err != nil {
		return err
	}
	defer env.Close()

	port := env.cfg.Port
	if opts.Port != "" {
		port = opts.Port
	}

	views, err := templates.New()
	if err != nil {
		return fmt.Errorf("load templates: %w", err)
	}

	userRepo := repositories.NewUserRepository(env.db.DB)
	messageRepo := repositories.NewMessageRepository(env.db.DB)
	likeRepo := repositories.NewLikeRepository(env.db.DB)
	creds := auth.NewCredentialStore(userRepo, env.cfg.BcryptCost)
	sessions := session.NewManager([]byte(env.cfg.SecretKey), env.cfg.IsProduction())

	handler := handlers.NewHandler(userRepo, messageRepo, likeRepo, creds, sessions, views)
	systemHandler := handlers.NewSystemHandler(env.db)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           routes.SetupRoutes(handler, systemHandler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logrus.WithField("port", port).Info("Server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logrus.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logrus.Info("Server exited")
	return nil
}

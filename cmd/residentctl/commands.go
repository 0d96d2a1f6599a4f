package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"project_resident/internal/config"
	"project_resident/internal/infrastructure"
	"project_resident/internal/logging"
	"project_resident/internal/repository"
	"project_resident/internal/usecases"
)

type env struct {
	cfg  *config.Config
	log  *zap.Logger
	pg   *infrastructure.PostgresClient
	auth *usecases.AuthUsecase
}

func openEnv(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log, err := logging.New("warn", false)
	if err != nil {
		return nil, err
	}
	pg, err := infrastructure.NewPostgresClient(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	ttl, err := cfg.TokenTTL()
	if err != nil {
		pg.Close()
		return nil, err
	}

	users := repository.NewUserRepository(pg.Pool)
	businesses := repository.NewBusinessRepository(pg.Pool)
	return &env{
		cfg:  cfg,
		log:  log,
		pg:   pg,
		auth: usecases.NewAuthUsecase(users, businesses, cfg.Auth.JWTSecret, ttl),
	}, nil
}

func (e *env) Close() {
	e.pg.Close()
	_ = e.log.Sync()
}

func resetPasswordCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:     "reset-password",
		Short:   "Set a new password for an account",
		Example: `  residentctl reset-password --email owner@example.com --password 'n3w-secret'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			if err := e.auth.ResetPassword(ctx, email, password); err != nil {
				return err
			}
			color.Green("✓ password updated for %s", strings.ToLower(strings.TrimSpace(email)))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "new password (at least 8 characters)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func ensureAdminCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "ensure-admin",
		Short: "Create the admin account if it does not exist",
		Long: `Creates an admin account. Without flags the ADMIN_EMAIL and ADMIN_PASSWORD
settings are used, the same way the API server does on start.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			if email == "" {
				email = e.cfg.Auth.AdminEmail
			}
			if password == "" {
				password = e.cfg.Auth.AdminPassword
			}
			if email == "" {
				return fmt.Errorf("no admin email: pass --email or set ADMIN_EMAIL")
			}

			created, err := e.auth.EnsureAdmin(ctx, email, password)
			if err != nil {
				return err
			}
			if created {
				color.Green("✓ admin %s created", email)
			} else {
				color.Yellow("admin %s already exists", email)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "admin email (default ADMIN_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "admin password (default ADMIN_PASSWORD)")
	return cmd
}

func migrateStorageCmd() *cobra.Command {
	var from, to string
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "migrate-storage",
		Short: "Rewrite the base URL of stored photos, logos and covers",
		Long: `Replaces the --from prefix with --to on every stored media URL in one
transaction. With --dry-run the matching rows are counted and nothing is changed.`,
		Example: `  residentctl migrate-storage --from https://old-cdn.example/ --to https://media.example/ --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			res, err := repository.NewMediaRepository(e.pg.Pool).RewritePrefix(ctx, from, to, dryRun)
			if err != nil {
				return err
			}
			printRewrite(res, dryRun)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "current URL prefix")
	cmd.Flags().StringVar(&to, "to", "", "new URL prefix")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "only count matching URLs")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func printRewrite(res repository.MediaRewrite, dryRun bool) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tURLS")
	fmt.Fprintf(w, "photos\t%d\n", res.Photos)
	fmt.Fprintf(w, "logos\t%d\n", res.Logos)
	fmt.Fprintf(w, "covers\t%d\n", res.Covers)
	w.Flush()

	switch {
	case res.Total() == 0:
		color.Yellow("no stored URLs match the prefix")
	case dryRun:
		color.Cyan("dry run: %d URLs would be rewritten", res.Total())
	default:
		color.Green("✓ %d URLs rewritten", res.Total())
	}
}

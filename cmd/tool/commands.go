package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/baechuer/france-explorer/internal/config"
	"github.com/baechuer/france-explorer/internal/infrastructure/db/postgres"
	"github.com/baechuer/france-explorer/internal/infrastructure/security"
	"github.com/baechuer/france-explorer/internal/logger"
)

type toolDeps struct {
	LoadConfig func() (*config.Config, error)
	OpenDB     func(dsn string, debug bool) (*sql.DB, error)
}

func defaultToolDeps() toolDeps {
	return toolDeps{LoadConfig: config.Load, OpenDB: config.NewDB}
}

func newRootCmd(deps toolDeps) *cobra.Command {
	root := &cobra.Command{
		Use:          "tool",
		Short:        "france-explorer operator commands",
		SilenceUsage: true,
	}
	root.AddCommand(newMigrateCmd(deps), newTokenCmd())
	return root
}

func newMigrateCmd(deps toolDeps) *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the tables and optionally load the sample reference data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := deps.LoadConfig()
			if err != nil {
				return err
			}
			db, err := deps.OpenDB(cfg.DBAddr, cfg.DBDebug)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer db.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			if err := postgres.EnsureSchema(ctx, db); err != nil {
				return err
			}
			if seed {
				if err := postgres.SeedReference(ctx, db); err != nil {
					return err
				}
			}

			logger.Logger.Info().Bool("seeded", seed).Msg("migrate done")
			return nil
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "insert sample regions, departments and towns")
	return cmd
}

func newTokenCmd() *cobra.Command {
	var (
		userID int64
		secret string
		issuer string
		ttl    time.Duration
		count  int
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print signed access tokens, one per line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if secret == "" {
				return fmt.Errorf("--secret or JWT_SECRET is required")
			}
			if userID <= 0 {
				return fmt.Errorf("--user must be positive")
			}

			signer := security.NewJWTSigner(secret, issuer)
			out := cmd.OutOrStdout()
			for i := 0; i < max(count, 1); i++ {
				tok, err := signer.SignAccessToken(strconv.FormatInt(userID+int64(i), 10), ttl)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, tok)
			}
			return nil
		},
	}

	issuerDefault := os.Getenv("JWT_ISSUER")
	if issuerDefault == "" {
		issuerDefault = "france-explorer"
	}

	cmd.Flags().Int64Var(&userID, "user", 1, "user id of the first token")
	cmd.Flags().IntVar(&count, "count", 1, "number of tokens, for consecutive user ids")
	cmd.Flags().StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "HMAC secret")
	cmd.Flags().StringVar(&issuer, "issuer", issuerDefault, "token issuer")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	return cmd
}

package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/frahmantamala/cxm/internal/auth"
	authPostgres "github.com/frahmantamala/cxm/internal/auth/postgres"
	"github.com/spf13/cobra"
)

var tokenTTL time.Duration

var tokenCmd = &cobra.Command{
	Use:   "token [email]",
	Short: "Mint an access token for an existing user",
	Long:  `Mint a signed access token for a stored user, for calling the API from scripts during development.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(".")
		if err != nil {
			return err
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			return err
		}
		defer sqlDB.Close()

		db, err := initGorm(sqlDB)
		if err != nil {
			return err
		}

		row, err := authPostgres.NewRepository(db).GetByEmail(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("lookup user: %w", err)
		}
		if row == nil {
			return fmt.Errorf("no user with email %s", args[0])
		}

		ttl := cfg.Security.AccessTokenDuration
		if tokenTTL > 0 {
			ttl = tokenTTL
		}
		token, expiresAt, err := auth.NewJWTTokenGenerator(cfg.Security.JWTSecret, ttl).
			GenerateAccessToken(auth.FromDataModel(row))
		if err != nil {
			return fmt.Errorf("sign token: %w", err)
		}

		fmt.Println(token)
		fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", expiresAt.Format(time.RFC3339))
		return nil
	},
}

func init() {
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "token lifetime, defaults to security.access_token_duration")
}

package commands

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"leedsbot-backend/internal/config"
	"leedsbot-backend/internal/middleware"
)

// TokenCommand mints a bearer token for local testing.
func TokenCommand(cfg *config.Config) *cobra.Command {
	var (
		email string
		ttl   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development bearer token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cfg.JWTSecret == "" {
				return errors.New("JWT_SECRET is not set")
			}
			email = strings.TrimSpace(email)
			if email == "" {
				return errors.New("--email is required")
			}

			token, err := middleware.NewJWTAuth(cfg.JWTSecret).GenerateAccessToken(email, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Student email to put in the token")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	return cmd
}

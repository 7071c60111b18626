package cmd

import (
	"fmt"
	"time"

	"github.com/SscSPs/journal_draft_app/internal/platform/config"
	"github.com/SscSPs/journal_draft_app/internal/utils"
	"github.com/spf13/cobra"
)

var (
	tokenUser string
	tokenTTL  time.Duration
)

// tokenCmd issues a JWT for local development against the draft service.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a development JWT",
	Long: `Signs a bearer token with JWT_SECRET from the environment or .env so the
API can be called locally.

Example:
  draftctl token --user 42 --ttl 8h`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if cfg.IsProduction {
			return fmt.Errorf("refusing to issue development tokens with IS_PRODUCTION set")
		}

		ttl := tokenTTL
		if ttl <= 0 {
			ttl = cfg.JWTExpiryDuration
		}
		token, err := utils.GenerateJWT(tokenUser, cfg.JWTSecret, ttl, cfg.JWTIssuer)
		if err != nil {
			return fmt.Errorf("failed to sign token: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenUser, "user", "", "user id to put in the token subject")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "token lifetime (default JWT_EXPIRY_DURATION)")
	_ = tokenCmd.MarkFlagRequired("user")
}

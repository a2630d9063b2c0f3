package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func (a *App) tokenCmd() *cobra.Command {
	var (
		username string
		ttl      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for local development",
		Long: `Token signs an HS256 token with JWT_SECRET and JWT_ISSUER so a development
server running with ENABLE_AUTH=true accepts requests for --user.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if a.userID == "" {
				return fmt.Errorf("no user given: pass --user or set API_USER_ID")
			}
			token, err := a.tokens().IssueToken(a.userID, username, ttl)
			if err != nil {
				return fmt.Errorf("issuing token: %w", err)
			}
			fmt.Fprintln(a.out, token)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")

	return cmd
}

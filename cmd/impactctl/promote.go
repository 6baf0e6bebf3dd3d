package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	userrepo "github.com/heartmarshall/impact-hub-backend/internal/adapter/postgres/user"
	"github.com/heartmarshall/impact-hub-backend/internal/domain"
)

var (
	promoteEmail string
	promoteRole  string
)

// promoteCmd bootstraps the first moderator, who can then manage roles
// over HTTP.
var promoteCmd = &cobra.Command{
	Use:   "promote",
	Short: "Set a user's role by email",
	RunE: func(cmd *cobra.Command, _ []string) error {
		role := domain.UserRole(strings.ToUpper(strings.TrimSpace(promoteRole)))
		if !role.IsValid() {
			return fmt.Errorf("role must be REGULAR, ICP_SUPPORT or ADMIN (got %q)", promoteRole)
		}

		ctx := cmd.Context()
		e, err := openEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		users := userrepo.New(e.pool)
		u, err := users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(promoteEmail)))
		if err != nil {
			return fmt.Errorf("find user %q: %w", promoteEmail, err)
		}
		if u.Role == role {
			fmt.Fprintf(cmd.OutOrStdout(), "User %q already has role %s.\n", u.Email, role)
			return nil
		}

		if _, err := users.UpdateRole(ctx, u.ID, role); err != nil {
			return fmt.Errorf("update role: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "User %q is now %s.\n", u.Email, role)
		return nil
	},
}

func init() {
	promoteCmd.Flags().StringVar(&promoteEmail, "email", "", "email of the user")
	promoteCmd.Flags().StringVar(&promoteRole, "role", string(domain.UserRoleAdmin), "REGULAR, ICP_SUPPORT or ADMIN")
	_ = promoteCmd.MarkFlagRequired("email")
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cli

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/campuslab/hackdesk/actions"
	"github.com/campuslab/hackdesk/auth"
	"github.com/campuslab/hackdesk/cliparse"
	"github.com/campuslab/hackdesk/mailer"
)

// NewTokenCommand prints a bearer token for an existing account. Useful for
// scripting against the API without going through /auth/login.
func NewTokenCommand(flags *cliparse.Config) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for an existing user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			conn, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer conn.Close()

			svc := actions.NewService(conn, mailer.LogMailer{}, cfg)
			user, err := svc.UserByEmail(cmd.Context(), email)
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("no user with email %q", email)
			}
			if err != nil {
				return err
			}

			token, err := auth.IssueToken(auth.Identity{UserID: user.ID, Email: user.Email, Role: user.Role}, cfg.JWTSecret, cfg.TokenTTL)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email of the account")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/campuslab/hackdesk/actions"
	"github.com/campuslab/hackdesk/auth"
	"github.com/campuslab/hackdesk/cliparse"
	"github.com/campuslab/hackdesk/db"
	"github.com/campuslab/hackdesk/mailer"
	"github.com/campuslab/hackdesk/models"
)

// ValidRoles are the roles "user create" accepts.
var ValidRoles = []string{models.RoleStudent, models.RoleOrganizer, models.RoleAdmin}

type userOptions struct {
	email    string
	name     string
	role     string
	password string
}

// NewUserCommand groups account administration. Organizer and admin
// accounts can only be created here.
func NewUserCommand(flags *cliparse.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts",
	}
	cmd.AddCommand(newUserCreateCommand(flags))
	return cmd
}

func newUserCreateCommand(flags *cliparse.Config) *cobra.Command {
	opts := &userOptions{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account with any role",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			opts.role = strings.ToUpper(opts.role)
			if !isValidRole(opts.role) {
				return fmt.Errorf("invalid role %q: must be one of %v", opts.role, ValidRoles)
			}
			if strings.TrimSpace(opts.name) == "" {
				return fmt.Errorf("name is required")
			}
			return nil
		},
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

			hash, err := auth.HashPassword(opts.password)
			if err != nil {
				return err
			}

			svc := actions.NewService(conn, mailer.LogMailer{}, cfg)
			user, err := svc.CreateUser(cmd.Context(), auth.NormalizeEmail(opts.email), strings.TrimSpace(opts.name), opts.role, hash)
			if db.IsUniqueViolation(err) {
				return fmt.Errorf("an account with email %q already exists", opts.email)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s %s (%s)\n", user.Role, user.Email, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.email, "email", "", "account email")
	cmd.Flags().StringVar(&opts.name, "name", "", "display name")
	cmd.Flags().StringVar(&opts.role, "role", models.RoleOrganizer, "STUDENT, ORGANIZER or ADMIN")
	cmd.Flags().StringVar(&opts.password, "password", "", "initial password (at least 8 characters)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func isValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package cli wires configuration, storage and the HTTP server into cobra
// commands.
package cli

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/campuslab/hackdesk/cliparse"
	"github.com/campuslab/hackdesk/db"
	"github.com/campuslab/hackdesk/logger"
)

// NewRootCommand creates the hackdesk command tree. Config flags are shared
// by every subcommand.
func NewRootCommand() *cobra.Command {
	flags := &cliparse.Config{}

	cmd := &cobra.Command{
		Use:   "hackdesk",
		Short: "hackdesk - hackathon team and attendance server",
		Long: `hackdesk runs the API behind hackathon registration: teams, invitations,
QR attendance check-in and project submissions.`,
		SilenceUsage: true,
	}

	cliparse.BindFlags(cmd.PersistentFlags(), flags)

	cmd.AddCommand(NewServeCommand(flags))
	cmd.AddCommand(NewMigrateCommand(flags))
	cmd.AddCommand(NewTokenCommand(flags))
	cmd.AddCommand(NewUserCommand(flags))

	return cmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves the flags against env and config file and installs
// the logger for the resulting environment.
func loadConfig(flags *cliparse.Config) (cliparse.Config, error) {
	cfg, err := cliparse.Resolve(*flags)
	if err != nil {
		return cliparse.Config{}, err
	}
	logger.Setup(cfg.Env)
	return cfg, nil
}

// openStore connects and makes sure the schema exists.
func openStore(cfg cliparse.Config) (*sql.DB, error) {
	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := db.CreateSchema(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("schema creation failed: %w", err)
	}
	return conn, nil
}

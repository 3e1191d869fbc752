// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/campuslab/hackdesk/cliparse"
)

func NewMigrateCommand(flags *cliparse.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema and exit",
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

			fmt.Fprintln(cmd.OutOrStdout(), "Schema ready")
			return nil
		},
	}
}

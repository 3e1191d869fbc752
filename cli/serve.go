// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/campuslab/hackdesk/cliparse"
	"github.com/campuslab/hackdesk/mailer"
	"github.com/campuslab/hackdesk/middleware"
	"github.com/campuslab/hackdesk/router"
)

const shutdownTimeout = 10 * time.Second

func NewServeCommand(flags *cliparse.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}
}

// newMailer picks SMTP delivery when a relay is configured.
func newMailer(cfg cliparse.Config) mailer.Mailer {
	if cfg.SMTPHost == "" {
		slog.Warn("SMTP_HOST not set, invitation emails will only be logged")
		return mailer.LogMailer{}
	}
	return mailer.NewSMTPMailer(mailer.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
	})
}

func runServe(ctx context.Context, cfg cliparse.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}

	conn, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer conn.Close()
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	mux := router.NewRouter(conn, cfg, newMailer(cfg))

	server := http.Server{
		Handler:           middleware.CORS(mux),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		slog.Info("Listening", "port", cfg.Port)
		errc <- server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
		return err
	}
	slog.Info("Server closed")
	return nil
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package actions implements the team, invitation, attendance and
// submission operations. Each returns a models.Result so that the HTTP layer
// only maps error kinds to status codes. Multi-step writes run in one
// transaction that first locks the hackathon or team row.
package actions

import (
	"context"
	"database/sql"
	"time"

	"github.com/campuslab/hackdesk/auth"
	"github.com/campuslab/hackdesk/cliparse"
	"github.com/campuslab/hackdesk/mailer"
	"github.com/campuslab/hackdesk/models"
)

// Service runs the team, invitation, submission and attendance actions
// against one shared connection pool.
type Service struct {
	db     *sql.DB
	mailer mailer.Mailer
	cfg    cliparse.Config
	now    func() time.Time
}

func NewService(db *sql.DB, m mailer.Mailer, cfg cliparse.Config) *Service {
	if m == nil {
		m = mailer.LogMailer{}
	}
	return &Service{db: db, mailer: m, cfg: cfg, now: time.Now}
}

// SetClock replaces the time source. Tests use it to move around the
// registration window.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	errNotAuthenticated = &models.ActionError{Kind: models.KindUnauthorized, Message: "User not authenticated"}
	errStudentsOnly     = &models.ActionError{Kind: models.KindForbidden, Message: "Unauthorized"}
	errStaffOnly        = &models.ActionError{Kind: models.KindForbidden, Message: "Only organizers can record attendance"}
)

func requireStudent(id auth.Identity) *models.ActionError {
	if id.UserID == "" {
		return errNotAuthenticated
	}
	if !id.IsStudent() {
		return errStudentsOnly
	}
	return nil
}

func requireStaff(id auth.Identity) *models.ActionError {
	if id.UserID == "" {
		return errNotAuthenticated
	}
	if !id.IsStaff() {
		return errStaffOnly
	}
	return nil
}

func notFound(msg string) *models.ActionError {
	return &models.ActionError{Kind: models.KindNotFound, Message: msg}
}

func ruleErr(msg string) *models.ActionError {
	return &models.ActionError{Kind: models.KindRule, Message: msg}
}

func invalid(msg string) *models.ActionError {
	return &models.ActionError{Kind: models.KindValidation, Message: msg}
}

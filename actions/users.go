// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package actions

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/campuslab/hackdesk/auth"
	"github.com/campuslab/hackdesk/db"
	"github.com/campuslab/hackdesk/models"
)

// Register creates an account and signs the user in. Temporary invites
// sent to the email before signup become PENDING invites.
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) models.Result[models.AuthResponse] {
	addr, err := mail.ParseAddress(strings.TrimSpace(req.Email))
	if err != nil {
		return models.Fail[models.AuthResponse](models.KindValidation, "Invalid email address")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return models.Fail[models.AuthResponse](models.KindValidation, "Name is required")
	}

	role := req.Role
	if role == "" {
		role = models.RoleStudent
	}
	// Staff accounts are created through the CLI
	if role != models.RoleStudent {
		return models.Fail[models.AuthResponse](models.KindValidation, "Only student accounts can be registered")
	}

	hash, err := auth.HashPassword(req.Password)
	if errors.Is(err, auth.ErrPasswordTooShort) {
		return models.Fail[models.AuthResponse](models.KindValidation, "Password must be at least 8 characters")
	}
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		return models.Fail[models.AuthResponse](models.KindInternal, "Failed to register")
	}

	user, err := s.CreateUser(ctx, auth.NormalizeEmail(addr.Address), name, role, hash)
	if db.IsUniqueViolation(err) {
		return models.Fail[models.AuthResponse](models.KindRule, "An account with this email already exists")
	}
	if err != nil {
		slog.Error("failed to insert user", "error", err)
		return models.Fail[models.AuthResponse](models.KindInternal, "Failed to register")
	}

	if _, err := s.ResolveTemporaryInvites(ctx, user); err != nil {
		slog.Error("failed to resolve temporary invites", "error", err, "user_id", user.ID)
	}

	return s.signIn(user)
}

// CreateUser inserts a user with an already hashed password.
func (s *Service) CreateUser(ctx context.Context, email, name, role, passwordHash string) (models.User, error) {
	user := models.User{
		ID:           auth.NewID(),
		Email:        email,
		Name:         name,
		Role:         role,
		PasswordHash: passwordHash,
		CreatedAt:    s.now(),
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, name, role, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, user.ID, user.Email, user.Name, user.Role, user.PasswordHash, user.CreatedAt)
	if err != nil {
		return models.User{}, err
	}

	slog.Info("user created", "user_id", user.ID, "role", role)
	return user, nil
}

// UserByEmail looks up an account. It returns sql.ErrNoRows when none exists.
func (s *Service) UserByEmail(ctx context.Context, email string) (models.User, error) {
	return loadUserByEmail(ctx, s.db, auth.NormalizeEmail(email))
}

// Login checks the credentials and issues a token.
func (s *Service) Login(ctx context.Context, req models.LoginRequest) models.Result[models.AuthResponse] {
	user, err := loadUserByEmail(ctx, s.db, auth.NormalizeEmail(req.Email))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Fail[models.AuthResponse](models.KindUnauthorized, "Invalid email or password")
	}
	if err != nil {
		slog.Error("failed to query user", "error", err)
		return models.Fail[models.AuthResponse](models.KindInternal, "Failed to sign in")
	}

	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		return models.Fail[models.AuthResponse](models.KindUnauthorized, "Invalid email or password")
	}

	return s.signIn(user)
}

func (s *Service) signIn(user models.User) models.Result[models.AuthResponse] {
	token, err := auth.IssueToken(auth.Identity{UserID: user.ID, Email: user.Email, Role: user.Role}, s.cfg.JWTSecret, s.cfg.TokenTTL)
	if err != nil {
		slog.Error("failed to issue token", "error", err)
		return models.Fail[models.AuthResponse](models.KindInternal, "Failed to sign in")
	}
	return models.Ok(models.AuthResponse{Token: token, User: user})
}

// Me returns the account behind the identity.
func (s *Service) Me(ctx context.Context, id auth.Identity) models.Result[models.User] {
	if id.UserID == "" {
		return models.Failed[models.User](errNotAuthenticated)
	}

	var u models.User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, name, role, created_at FROM users WHERE id = $1
	`, id.UserID).Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Failed[models.User](notFound("User not found"))
	}
	if err != nil {
		slog.Error("failed to query user", "error", err)
		return models.Fail[models.User](models.KindInternal, "Database error")
	}

	return models.Ok(u)
}

// ResolveTemporaryInvites turns the temporary invites stored for the user's
// email into PENDING invites and removes them. Invites to disqualified teams
// or hackathons the user already joined are dropped. It returns the number
// of invites created.
func (s *Service) ResolveTemporaryInvites(ctx context.Context, user models.User) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `
		SELECT ti.team_id, ti.invited_by_id, t.hackathon_id, t.disqualified
		FROM hackathon_temporary_invite ti
		JOIN hackathon_team t ON t.id = ti.team_id
		WHERE ti.email = $1
		ORDER BY ti.created_at, ti.id
	`, user.Email)
	if err != nil {
		return 0, err
	}

	type pendingTemp struct {
		teamID, invitedBy, hackathonID string
		disqualified                   bool
	}
	var temps []pendingTemp
	for rows.Next() {
		var p pendingTemp
		if err := rows.Scan(&p.teamID, &p.invitedBy, &p.hackathonID, &p.disqualified); err != nil {
			rows.Close()
			return 0, err
		}
		temps = append(temps, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	now := s.now()
	created := 0
	for _, p := range temps {
		if p.disqualified {
			continue
		}
		current, err := teamOf(ctx, tx, p.hackathonID, user.ID)
		if err != nil {
			return 0, err
		}
		if current != "" {
			continue
		}

		res, err := tx.ExecContext(ctx, `
			INSERT INTO hackathon_team_invite (id, team_id, hackathon_id, student_id, invited_by_id, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT DO NOTHING
		`, auth.NewID(), p.teamID, p.hackathonID, user.ID, p.invitedBy, models.InvitePending, now, now)
		if err != nil {
			return 0, err
		}
		if n, _ := res.RowsAffected(); n > 0 {
			created++
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM hackathon_temporary_invite WHERE email = $1`, user.Email); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	if created > 0 {
		slog.Info("temporary invites resolved", "user_id", user.ID, "count", created)
	}
	return created, nil
}

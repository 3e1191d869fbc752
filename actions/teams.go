// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package actions

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/campuslab/hackdesk/auth"
	"github.com/campuslab/hackdesk/db"
	"github.com/campuslab/hackdesk/models"
	"github.com/campuslab/hackdesk/qr"
)

const minTeamNameLen = 3

var errAlreadyOnTeam = ruleErr("You are already part of a team for this hackathon")

// CreateTeam registers a new team with the caller as leader and first member.
func (s *Service) CreateTeam(ctx context.Context, id auth.Identity, hackathonID, name, problemStatementID string) models.Result[models.CreateTeamResponse] {
	if ae := requireStudent(id); ae != nil {
		return models.Failed[models.CreateTeamResponse](ae)
	}

	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) < minTeamNameLen {
		return models.Fail[models.CreateTeamResponse](models.KindValidation, "Team name must be at least 3 characters")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		return models.Fail[models.CreateTeamResponse](models.KindInternal, "Failed to create team")
	}
	defer tx.Rollback()

	// Row lock on the hackathon: registrations for it run one at a time
	// and the limit below only sees committed teams.
	res, err := tx.ExecContext(ctx, `UPDATE hackathon SET team_size_limit = team_size_limit WHERE id = $1`, hackathonID)
	if err != nil {
		slog.Error("failed to lock hackathon", "error", err, "hackathon_id", hackathonID)
		return models.Fail[models.CreateTeamResponse](models.KindInternal, "Failed to create team")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.Failed[models.CreateTeamResponse](notFound("Hackathon not found"))
	}

	if ae := s.checkCanRegister(ctx, tx, id, hackathonID, problemStatementID); ae != nil {
		return models.Failed[models.CreateTeamResponse](ae)
	}

	teamID := auth.NewID()
	now := s.now()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO hackathon_team (id, hackathon_id, name, leader_id, problem_statement_id, disqualified, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, teamID, hackathonID, name, id.UserID, problemStatementID, false, now)
	if err != nil {
		slog.Error("failed to insert team", "error", err, "hackathon_id", hackathonID)
		return models.Fail[models.CreateTeamResponse](models.KindInternal, "Failed to create team")
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO hackathon_team_member (id, team_id, hackathon_id, student_id, attended, joined_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, auth.NewID(), teamID, hackathonID, id.UserID, false, now)
	if db.IsUniqueViolation(err) {
		return models.Failed[models.CreateTeamResponse](errAlreadyOnTeam)
	}
	if err != nil {
		slog.Error("failed to insert team leader", "error", err, "team_id", teamID)
		return models.Fail[models.CreateTeamResponse](models.KindInternal, "Failed to create team")
	}

	if err := tx.Commit(); err != nil {
		if db.IsUniqueViolation(err) {
			return models.Failed[models.CreateTeamResponse](errAlreadyOnTeam)
		}
		slog.Error("failed to commit transaction", "error", err)
		return models.Fail[models.CreateTeamResponse](models.KindInternal, "Failed to create team")
	}

	slog.Info("team created", "team_id", teamID, "hackathon_id", hackathonID, "leader_id", id.UserID)

	return models.Ok(models.CreateTeamResponse{
		Success:  true,
		TeamID:   teamID,
		TeamName: name,
	})
}

// checkCanRegister runs the team creation preconditions in their fixed order.
func (s *Service) checkCanRegister(ctx context.Context, q querier, id auth.Identity, hackathonID, problemStatementID string) *models.ActionError {
	h, err := loadHackathon(ctx, q, hackathonID)
	if errors.Is(err, sql.ErrNoRows) {
		return notFound("Hackathon not found")
	}
	if err != nil {
		slog.Error("failed to query hackathon", "error", err, "hackathon_id", hackathonID)
		return &models.ActionError{Kind: models.KindInternal, Message: "Failed to create team"}
	}

	if !h.OpenRegistrations {
		return ruleErr("Registrations are closed")
	}

	existing, err := teamOf(ctx, q, hackathonID, id.UserID)
	if err != nil {
		slog.Error("failed to query membership", "error", err)
		return &models.ActionError{Kind: models.KindInternal, Message: "Failed to create team"}
	}
	if existing != "" {
		return errAlreadyOnTeam
	}

	pending, err := hasPendingInviteInHackathon(ctx, q, hackathonID, id.UserID)
	if err != nil {
		slog.Error("failed to query invites", "error", err)
		return &models.ActionError{Kind: models.KindInternal, Message: "Failed to create team"}
	}
	if pending {
		return ruleErr("You have a pending invitation for this hackathon. Respond to it first")
	}

	if !h.RegistrationOpenAt(s.now()) {
		return ruleErr("Registration is not open")
	}

	if h.RegistrationLimit != nil {
		var teams int
		err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM hackathon_team WHERE hackathon_id = $1`, hackathonID).Scan(&teams)
		if err != nil {
			slog.Error("failed to count teams", "error", err)
			return &models.ActionError{Kind: models.KindInternal, Message: "Failed to create team"}
		}
		if teams >= *h.RegistrationLimit {
			return ruleErr("Registration limit for this hackathon has been reached")
		}
	}

	var belongs bool
	err = q.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM problem_statement WHERE id = $1 AND hackathon_id = $2)
	`, problemStatementID, hackathonID).Scan(&belongs)
	if err != nil {
		slog.Error("failed to query problem statement", "error", err)
		return &models.ActionError{Kind: models.KindInternal, Message: "Failed to create team"}
	}
	if !belongs {
		return invalid("Invalid problem statement")
	}

	return nil
}

// MyTeam returns the caller's team in the hackathon with members and
// pending invites.
func (s *Service) MyTeam(ctx context.Context, id auth.Identity, hackathonID string) models.Result[models.TeamWithMembers] {
	if ae := requireStudent(id); ae != nil {
		return models.Failed[models.TeamWithMembers](ae)
	}

	teamID, err := teamOf(ctx, s.db, hackathonID, id.UserID)
	if err != nil {
		slog.Error("failed to query membership", "error", err)
		return models.Fail[models.TeamWithMembers](models.KindInternal, "Database error")
	}
	if teamID == "" {
		return models.Failed[models.TeamWithMembers](notFound("You are not part of a team for this hackathon"))
	}

	return s.teamDetails(ctx, teamID)
}

// TeamDetails returns a team with members and pending invites. Staff see
// every team; students only their own, any other team reads as not found.
func (s *Service) TeamDetails(ctx context.Context, id auth.Identity, teamID string) models.Result[models.TeamWithMembers] {
	if id.UserID == "" {
		return models.Failed[models.TeamWithMembers](errNotAuthenticated)
	}

	if !id.IsStaff() {
		var isMember bool
		err := s.db.QueryRowContext(ctx, `
			SELECT EXISTS(SELECT 1 FROM hackathon_team_member WHERE team_id = $1 AND student_id = $2)
		`, teamID, id.UserID).Scan(&isMember)
		if err != nil {
			slog.Error("failed to query membership", "error", err)
			return models.Fail[models.TeamWithMembers](models.KindInternal, "Database error")
		}
		if !isMember {
			return models.Failed[models.TeamWithMembers](notFound("Team not found"))
		}
	}

	return s.teamDetails(ctx, teamID)
}

func (s *Service) teamDetails(ctx context.Context, teamID string) models.Result[models.TeamWithMembers] {
	team, err := loadTeam(ctx, s.db, teamID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Failed[models.TeamWithMembers](notFound("Team not found"))
	}
	if err != nil {
		slog.Error("failed to query team", "error", err, "team_id", teamID)
		return models.Fail[models.TeamWithMembers](models.KindInternal, "Database error")
	}

	members, err := loadMembers(ctx, s.db, teamID)
	if err != nil {
		slog.Error("failed to query members", "error", err, "team_id", teamID)
		return models.Fail[models.TeamWithMembers](models.KindInternal, "Database error")
	}

	invites, err := loadPendingInvites(ctx, s.db, teamID)
	if err != nil {
		slog.Error("failed to query invites", "error", err, "team_id", teamID)
		return models.Fail[models.TeamWithMembers](models.KindInternal, "Database error")
	}

	return models.Ok(models.TeamWithMembers{Team: team, Members: members, Invites: invites})
}

// TeamQR renders the caller's check-in code for a team they belong to.
func (s *Service) TeamQR(ctx context.Context, id auth.Identity, teamID string) models.Result[models.QRResponse] {
	if ae := requireStudent(id); ae != nil {
		return models.Failed[models.QRResponse](ae)
	}

	var isMember bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM hackathon_team_member WHERE team_id = $1 AND student_id = $2)
	`, teamID, id.UserID).Scan(&isMember)
	if err != nil {
		slog.Error("failed to query membership", "error", err)
		return models.Fail[models.QRResponse](models.KindInternal, "Database error")
	}
	if !isMember {
		return models.Failed[models.QRResponse](notFound("You are not a member of this team"))
	}

	payload, image, err := qr.Image(qr.Payload{UserID: id.UserID, TeamID: teamID})
	if err != nil {
		slog.Error("failed to render QR code", "error", err)
		return models.Fail[models.QRResponse](models.KindInternal, "Failed to generate QR code")
	}

	return models.Ok(models.QRResponse{Payload: payload, Image: image})
}

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
	"github.com/campuslab/hackdesk/invite"
	"github.com/campuslab/hackdesk/mailer"
	"github.com/campuslab/hackdesk/models"
)

// InviteMember invites a student to the caller's team by email. Unknown
// emails get a temporary invite and an email; the result is then a soft
// KindPending failure so the caller can explain the pending signup.
func (s *Service) InviteMember(ctx context.Context, id auth.Identity, teamID, email string) models.Result[models.InviteResponse] {
	if ae := requireStudent(id); ae != nil {
		return models.Failed[models.InviteResponse](ae)
	}

	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil {
		return models.Fail[models.InviteResponse](models.KindValidation, "Invalid email address")
	}
	email = auth.NormalizeEmail(addr.Address)

	team, err := loadTeam(ctx, s.db, teamID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Failed[models.InviteResponse](notFound("Team not found"))
	}
	if err != nil {
		slog.Error("failed to query team", "error", err, "team_id", teamID)
		return models.Fail[models.InviteResponse](models.KindInternal, "Failed to send invitation")
	}
	if team.Disqualified {
		return models.Failed[models.InviteResponse](invite.ErrDisqualified)
	}

	h, err := loadHackathon(ctx, s.db, team.HackathonID)
	if err != nil {
		slog.Error("failed to query hackathon", "error", err, "hackathon_id", team.HackathonID)
		return models.Fail[models.InviteResponse](models.KindInternal, "Failed to send invitation")
	}
	if !h.OpenRegistrations {
		return models.Fail[models.InviteResponse](models.KindRule, "Registrations are closed")
	}

	callerTeam, err := teamOf(ctx, s.db, team.HackathonID, id.UserID)
	if err != nil {
		slog.Error("failed to query membership", "error", err)
		return models.Fail[models.InviteResponse](models.KindInternal, "Failed to send invitation")
	}
	if callerTeam != teamID {
		return models.Fail[models.InviteResponse](models.KindForbidden, "You are not a member of this team")
	}

	members, err := memberCount(ctx, s.db, teamID)
	if err != nil {
		slog.Error("failed to count members", "error", err, "team_id", teamID)
		return models.Fail[models.InviteResponse](models.KindInternal, "Failed to send invitation")
	}
	facts := invite.Facts{Members: members, Limit: h.TeamSizeLimit}
	if err := invite.CheckCapacity(facts); err != nil {
		return models.FailWith[models.InviteResponse](err, "Failed to send invitation")
	}

	invitee, err := loadUserByEmail(ctx, s.db, email)
	if errors.Is(err, sql.ErrNoRows) {
		return s.inviteByEmail(ctx, id, team, h, email)
	}
	if err != nil {
		slog.Error("failed to query invitee", "error", err)
		return models.Fail[models.InviteResponse](models.KindInternal, "Failed to send invitation")
	}
	if invitee.Role != models.RoleStudent {
		return models.Fail[models.InviteResponse](models.KindValidation, "Only students can be invited to a team")
	}

	inviteeTeam, err := teamOf(ctx, s.db, team.HackathonID, invitee.ID)
	if err != nil {
		slog.Error("failed to query invitee membership", "error", err)
		return models.Fail[models.InviteResponse](models.KindInternal, "Failed to send invitation")
	}
	pending, err := hasPendingInvite(ctx, s.db, teamID, invitee.ID)
	if err != nil {
		slog.Error("failed to query invites", "error", err)
		return models.Fail[models.InviteResponse](models.KindInternal, "Failed to send invitation")
	}

	facts.AlreadyMember = inviteeTeam == teamID
	facts.OnOtherTeam = inviteeTeam != "" && inviteeTeam != teamID
	facts.AlreadyPending = pending
	if err := invite.CheckInvite(facts); err != nil {
		return models.FailWith[models.InviteResponse](err, "Failed to send invitation")
	}

	inviteID := auth.NewID()
	now := s.now()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO hackathon_team_invite (id, team_id, hackathon_id, student_id, invited_by_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, inviteID, teamID, team.HackathonID, invitee.ID, id.UserID, models.InvitePending, now, now)
	if db.IsUniqueViolation(err) {
		return models.Failed[models.InviteResponse](invite.ErrAlreadyInvited)
	}
	if err != nil {
		slog.Error("failed to insert invite", "error", err, "team_id", teamID)
		return models.Fail[models.InviteResponse](models.KindInternal, "Failed to send invitation")
	}

	slog.Info("invite created", "invite_id", inviteID, "team_id", teamID, "student_id", invitee.ID)

	return models.Ok(models.InviteResponse{Success: true, InviteID: inviteID})
}

func (s *Service) inviteByEmail(ctx context.Context, id auth.Identity, team models.Team, h models.Hackathon, email string) models.Result[models.InviteResponse] {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO hackathon_temporary_invite (id, email, team_id, invited_by_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email, team_id) DO NOTHING
	`, auth.NewID(), email, team.ID, id.UserID, s.now())
	if err != nil {
		slog.Error("failed to insert temporary invite", "error", err, "team_id", team.ID)
		return models.Fail[models.InviteResponse](models.KindInternal, "Failed to send invitation")
	}

	msg := mailer.TeamInvitation(email, team.Name, h.Name, s.cfg.BaseURL+"/signup", h.RegistrationEndDate, s.now())
	if err := s.mailer.Send(ctx, msg); err != nil {
		slog.Warn("failed to send invitation email", "error", err, "team_id", team.ID)
	}

	slog.Info("temporary invite stored", "team_id", team.ID)

	return models.Fail[models.InviteResponse](models.KindPending,
		"User is not registered yet. An invitation email has been sent; the invite will appear once they sign up")
}

// RespondToInvitation accepts or declines the caller's pending invite to a
// team. The status update and the member insert commit together.
func (s *Service) RespondToInvitation(ctx context.Context, id auth.Identity, teamID string, accept bool) models.Result[models.SuccessResponse] {
	if ae := requireStudent(id); ae != nil {
		return models.Failed[models.SuccessResponse](ae)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		return models.Fail[models.SuccessResponse](models.KindInternal, "Failed to process invitation")
	}
	defer tx.Rollback()

	// Row lock on the team: joins to the same team run one at a time
	res, err := tx.ExecContext(ctx, `UPDATE hackathon_team SET disqualified = disqualified WHERE id = $1`, teamID)
	if err != nil {
		slog.Error("failed to lock team", "error", err, "team_id", teamID)
		return models.Fail[models.SuccessResponse](models.KindInternal, "Failed to process invitation")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.Failed[models.SuccessResponse](invite.ErrNotPending)
	}

	inv, err := scanInvite(tx.QueryRowContext(ctx, `
		SELECT `+inviteColumns+` FROM hackathon_team_invite
		WHERE team_id = $1 AND student_id = $2 AND status = 'PENDING'
	`, teamID, id.UserID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Failed[models.SuccessResponse](invite.ErrNotPending)
	}
	if err != nil {
		slog.Error("failed to query invite", "error", err, "team_id", teamID)
		return models.Fail[models.SuccessResponse](models.KindInternal, "Failed to process invitation")
	}

	facts, err := s.inviteFacts(ctx, tx, teamID, id.UserID)
	if err != nil {
		slog.Error("failed to load invite facts", "error", err, "team_id", teamID)
		return models.Fail[models.SuccessResponse](models.KindInternal, "Failed to process invitation")
	}

	status, err := invite.Parse(inv.Status)
	if err != nil {
		slog.Error("invalid invite status", "error", err, "invite_id", inv.ID)
		return models.Fail[models.SuccessResponse](models.KindInternal, "Failed to process invitation")
	}

	tr, decision := invite.Respond(status, accept, facts)
	now := s.now()

	switch tr.Effect {
	case invite.EffectAddMember:
		_, err = tx.ExecContext(ctx, `
			INSERT INTO hackathon_team_member (id, team_id, hackathon_id, student_id, attended, joined_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, auth.NewID(), teamID, inv.HackathonID, id.UserID, false, now)
		if db.IsUniqueViolation(err) {
			tx.Rollback()
			s.declineInvite(ctx, inv.ID)
			return models.Failed[models.SuccessResponse](invite.ErrOnOtherTeam)
		}
		if err != nil {
			slog.Error("failed to insert member", "error", err, "team_id", teamID)
			return models.Fail[models.SuccessResponse](models.KindInternal, "Failed to process invitation")
		}

		// The student can only be on one team, so the other offers are void
		_, err = tx.ExecContext(ctx, `
			UPDATE hackathon_team_invite SET status = $1, updated_at = $2
			WHERE hackathon_id = $3 AND student_id = $4 AND status = 'PENDING' AND id <> $5
		`, models.InviteDeclined, now, inv.HackathonID, id.UserID, inv.ID)
		if err != nil {
			slog.Error("failed to decline other invites", "error", err)
			return models.Fail[models.SuccessResponse](models.KindInternal, "Failed to process invitation")
		}
	case invite.EffectNone:
		return models.FailWith[models.SuccessResponse](decision, "Failed to process invitation")
	}

	res, err = tx.ExecContext(ctx, `
		UPDATE hackathon_team_invite SET status = $1, updated_at = $2
		WHERE id = $3 AND status = 'PENDING'
	`, string(tr.To), now, inv.ID)
	if err != nil {
		slog.Error("failed to update invite", "error", err, "invite_id", inv.ID)
		return models.Fail[models.SuccessResponse](models.KindInternal, "Failed to process invitation")
	}
	if n, _ := res.RowsAffected(); n != 1 {
		return models.Failed[models.SuccessResponse](invite.ErrNotPending)
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		return models.Fail[models.SuccessResponse](models.KindInternal, "Failed to process invitation")
	}

	slog.Info("invite answered", "invite_id", inv.ID, "team_id", teamID, "status", tr.To, "effect", tr.Effect.String())

	if decision != nil {
		return models.FailWith[models.SuccessResponse](decision, "Failed to process invitation")
	}
	return models.Ok(models.SuccessResponse{Success: true})
}

func (s *Service) inviteFacts(ctx context.Context, q querier, teamID, studentID string) (invite.Facts, error) {
	team, err := loadTeam(ctx, q, teamID)
	if err != nil {
		return invite.Facts{}, err
	}
	h, err := loadHackathon(ctx, q, team.HackathonID)
	if err != nil {
		return invite.Facts{}, err
	}
	members, err := memberCount(ctx, q, teamID)
	if err != nil {
		return invite.Facts{}, err
	}
	current, err := teamOf(ctx, q, team.HackathonID, studentID)
	if err != nil {
		return invite.Facts{}, err
	}

	return invite.Facts{
		Members:       members,
		Limit:         h.TeamSizeLimit,
		AlreadyMember: current == teamID,
		OnOtherTeam:   current != "" && current != teamID,
		Disqualified:  team.Disqualified,
	}, nil
}

// declineInvite moves an invite to DECLINED outside of any transaction.
func (s *Service) declineInvite(ctx context.Context, inviteID string) {
	_, err := s.db.ExecContext(ctx, `
		UPDATE hackathon_team_invite SET status = $1, updated_at = $2
		WHERE id = $3 AND status = 'PENDING'
	`, models.InviteDeclined, s.now(), inviteID)
	if err != nil {
		slog.Error("failed to decline invite", "error", err, "invite_id", inviteID)
	}
}

// ListInvitations returns the caller's pending invites.
func (s *Service) ListInvitations(ctx context.Context, id auth.Identity) models.Result[[]models.InvitationSummary] {
	if ae := requireStudent(id); ae != nil {
		return models.Failed[[]models.InvitationSummary](ae)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT i.id, i.team_id, i.hackathon_id, i.student_id, i.invited_by_id, i.status,
		       i.created_at, i.updated_at, t.name, h.name
		FROM hackathon_team_invite i
		JOIN hackathon_team t ON t.id = i.team_id
		JOIN hackathon h ON h.id = i.hackathon_id
		WHERE i.student_id = $1 AND i.status = 'PENDING'
		ORDER BY i.created_at DESC
	`, id.UserID)
	if err != nil {
		slog.Error("failed to query invitations", "error", err)
		return models.Fail[[]models.InvitationSummary](models.KindInternal, "Database error")
	}
	defer rows.Close()

	out := []models.InvitationSummary{}
	for rows.Next() {
		var sum models.InvitationSummary
		inv := &sum.Invite
		if err := rows.Scan(&inv.ID, &inv.TeamID, &inv.HackathonID, &inv.StudentID, &inv.InvitedByID,
			&inv.Status, &inv.CreatedAt, &inv.UpdatedAt, &sum.TeamName, &sum.HackathonName); err != nil {
			slog.Error("failed to scan invitation", "error", err)
			return models.Fail[[]models.InvitationSummary](models.KindInternal, "Database error")
		}
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to read invitations", "error", err)
		return models.Fail[[]models.InvitationSummary](models.KindInternal, "Database error")
	}

	return models.Ok(out)
}

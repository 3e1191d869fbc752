// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package actions

import (
	"context"
	"database/sql"
	"errors"

	"github.com/campuslab/hackdesk/models"
)

// HackathonColumns is the select list ScanHackathon expects.
const HackathonColumns = `id, name, description, poster_url, start_date, end_date,
	registration_start_date, registration_end_date, team_size_limit, registration_limit,
	open_registrations, open_submissions, organizer_id, created_at`

// ScanHackathon reads a row selected with HackathonColumns.
func ScanHackathon(row interface{ Scan(...any) error }) (models.Hackathon, error) {
	var h models.Hackathon
	err := row.Scan(
		&h.ID, &h.Name, &h.Description, &h.PosterURL, &h.StartDate, &h.EndDate,
		&h.RegistrationStartDate, &h.RegistrationEndDate, &h.TeamSizeLimit, &h.RegistrationLimit,
		&h.OpenRegistrations, &h.OpenSubmissions, &h.OrganizerID, &h.CreatedAt,
	)
	return h, err
}

func loadHackathon(ctx context.Context, q querier, id string) (models.Hackathon, error) {
	return ScanHackathon(q.QueryRowContext(ctx,
		`SELECT `+HackathonColumns+` FROM hackathon WHERE id = $1`, id))
}

const teamColumns = `id, hackathon_id, name, leader_id, problem_statement_id,
	submission_url, submitted_at, disqualified, created_at`

func scanTeam(row interface{ Scan(...any) error }) (models.Team, error) {
	var t models.Team
	err := row.Scan(
		&t.ID, &t.HackathonID, &t.Name, &t.LeaderID, &t.ProblemStatementID,
		&t.SubmissionURL, &t.SubmittedAt, &t.Disqualified, &t.CreatedAt,
	)
	return t, err
}

func loadTeam(ctx context.Context, q querier, id string) (models.Team, error) {
	return scanTeam(q.QueryRowContext(ctx,
		`SELECT `+teamColumns+` FROM hackathon_team WHERE id = $1`, id))
}

func memberCount(ctx context.Context, q querier, teamID string) (int, error) {
	var n int
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM hackathon_team_member WHERE team_id = $1`, teamID).Scan(&n)
	return n, err
}

// teamOf returns the id of the student's team in the hackathon, or "" when
// the student is on no team there.
func teamOf(ctx context.Context, q querier, hackathonID, studentID string) (string, error) {
	var teamID string
	err := q.QueryRowContext(ctx, `
		SELECT team_id FROM hackathon_team_member
		WHERE hackathon_id = $1 AND student_id = $2
	`, hackathonID, studentID).Scan(&teamID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return teamID, err
}

func hasPendingInvite(ctx context.Context, q querier, teamID, studentID string) (bool, error) {
	var exists bool
	err := q.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM hackathon_team_invite
			WHERE team_id = $1 AND student_id = $2 AND status = 'PENDING'
		)
	`, teamID, studentID).Scan(&exists)
	return exists, err
}

func hasPendingInviteInHackathon(ctx context.Context, q querier, hackathonID, studentID string) (bool, error) {
	var exists bool
	err := q.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM hackathon_team_invite
			WHERE hackathon_id = $1 AND student_id = $2 AND status = 'PENDING'
		)
	`, hackathonID, studentID).Scan(&exists)
	return exists, err
}

func loadUserByEmail(ctx context.Context, q querier, email string) (models.User, error) {
	var u models.User
	err := q.QueryRowContext(ctx, `
		SELECT id, email, name, role, password_hash, created_at
		FROM users WHERE email = $1
	`, email).Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.PasswordHash, &u.CreatedAt)
	return u, err
}

func loadMembers(ctx context.Context, q querier, teamID string) ([]models.TeamMember, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT m.id, m.team_id, m.hackathon_id, m.student_id, u.name, u.email, m.attended, m.joined_at
		FROM hackathon_team_member m
		JOIN users u ON u.id = m.student_id
		WHERE m.team_id = $1
		ORDER BY m.joined_at, m.id
	`, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := []models.TeamMember{}
	for rows.Next() {
		var m models.TeamMember
		if err := rows.Scan(&m.ID, &m.TeamID, &m.HackathonID, &m.StudentID, &m.Name, &m.Email, &m.Attended, &m.JoinedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

const inviteColumns = `id, team_id, hackathon_id, student_id, invited_by_id, status, created_at, updated_at`

func scanInvite(row interface{ Scan(...any) error }) (models.TeamInvite, error) {
	var inv models.TeamInvite
	err := row.Scan(&inv.ID, &inv.TeamID, &inv.HackathonID, &inv.StudentID,
		&inv.InvitedByID, &inv.Status, &inv.CreatedAt, &inv.UpdatedAt)
	return inv, err
}

func loadPendingInvites(ctx context.Context, q querier, teamID string) ([]models.TeamInvite, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT `+inviteColumns+` FROM hackathon_team_invite
		WHERE team_id = $1 AND status = 'PENDING'
		ORDER BY created_at, id
	`, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invites := []models.TeamInvite{}
	for rows.Next() {
		inv, err := scanInvite(rows)
		if err != nil {
			return nil, err
		}
		invites = append(invites, inv)
	}
	return invites, rows.Err()
}

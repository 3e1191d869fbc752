// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package actions

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/url"
	"strings"

	"github.com/campuslab/hackdesk/auth"
	"github.com/campuslab/hackdesk/invite"
	"github.com/campuslab/hackdesk/models"
)

// RecordSubmission stores the team's project URL. Only the leader can
// submit, and resubmitting replaces the previous URL while submissions
// stay open.
func (s *Service) RecordSubmission(ctx context.Context, id auth.Identity, hackathonID, teamID, rawURL string) models.Result[models.SuccessResponse] {
	if ae := requireStudent(id); ae != nil {
		return models.Failed[models.SuccessResponse](ae)
	}

	rawURL = strings.TrimSpace(rawURL)
	if !validSubmissionURL(rawURL) {
		return models.Fail[models.SuccessResponse](models.KindValidation, "Invalid submission URL")
	}

	h, err := loadHackathon(ctx, s.db, hackathonID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Failed[models.SuccessResponse](notFound("Hackathon not found"))
	}
	if err != nil {
		slog.Error("failed to query hackathon", "error", err, "hackathon_id", hackathonID)
		return models.Fail[models.SuccessResponse](models.KindInternal, "Failed to record submission")
	}
	if !h.OpenSubmissions {
		return models.Fail[models.SuccessResponse](models.KindRule, "Submissions are closed")
	}

	team, err := loadTeam(ctx, s.db, teamID)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && team.HackathonID != hackathonID) {
		return models.Failed[models.SuccessResponse](notFound("Team not found"))
	}
	if err != nil {
		slog.Error("failed to query team", "error", err, "team_id", teamID)
		return models.Fail[models.SuccessResponse](models.KindInternal, "Failed to record submission")
	}
	if team.Disqualified {
		return models.Failed[models.SuccessResponse](invite.ErrDisqualified)
	}
	if team.LeaderID != id.UserID {
		return models.Fail[models.SuccessResponse](models.KindForbidden, "Only the team leader can submit")
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE hackathon_team SET submission_url = $1, submitted_at = $2
		WHERE id = $3
	`, rawURL, s.now(), teamID)
	if err != nil {
		slog.Error("failed to store submission", "error", err, "team_id", teamID)
		return models.Fail[models.SuccessResponse](models.KindInternal, "Failed to record submission")
	}

	slog.Info("submission recorded", "team_id", teamID, "hackathon_id", hackathonID)

	return models.Ok(models.SuccessResponse{Success: true})
}

func validSubmissionURL(raw string) bool {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

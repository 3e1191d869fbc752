// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/campuslab/hackdesk/actions"
	"github.com/campuslab/hackdesk/auth"
	"github.com/campuslab/hackdesk/cliparse"
	"github.com/campuslab/hackdesk/middleware"
	"github.com/campuslab/hackdesk/models"
)

type HackathonHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewHackathonHandler(db *sql.DB, cfg cliparse.Config) *HackathonHandler {
	return &HackathonHandler{db: db, cfg: cfg}
}

// validateHackathon returns a message for the first invalid field, or "".
func validateHackathon(req models.HackathonRequest) string {
	switch {
	case strings.TrimSpace(req.Name) == "":
		return "name is required"
	case req.StartDate.IsZero() || req.EndDate.IsZero():
		return "start_date and end_date are required"
	case req.EndDate.Before(req.StartDate):
		return "end_date must not be before start_date"
	case req.RegistrationStartDate.IsZero() || req.RegistrationEndDate.IsZero():
		return "registration dates are required"
	case req.RegistrationEndDate.Before(req.RegistrationStartDate):
		return "registration_end_date must not be before registration_start_date"
	case req.TeamSizeLimit < 1:
		return "team_size_limit must be at least 1"
	case req.RegistrationLimit != nil && *req.RegistrationLimit < 1:
		return "registration_limit must be at least 1"
	}
	return ""
}

func posterURL(req models.HackathonRequest) *string {
	if req.PosterURL == "" {
		return nil
	}
	return &req.PosterURL
}

// CreateHackathon handles POST /hackathons
func (h *HackathonHandler) CreateHackathon(w http.ResponseWriter, r *http.Request) {
	id, ok := requireStaff(w, r)
	if !ok {
		return
	}

	var req models.HackathonRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if msg := validateHackathon(req); msg != "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, msg)
		return
	}

	hackathonID := auth.NewID()
	_, err := h.db.ExecContext(r.Context(), `
		INSERT INTO hackathon (id, name, description, poster_url, start_date, end_date,
			registration_start_date, registration_end_date, team_size_limit, registration_limit,
			open_registrations, open_submissions, organizer_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, hackathonID, strings.TrimSpace(req.Name), req.Description, posterURL(req), req.StartDate, req.EndDate,
		req.RegistrationStartDate, req.RegistrationEndDate, req.TeamSizeLimit, req.RegistrationLimit,
		req.OpenRegistrations, req.OpenSubmissions, id.UserID, time.Now())
	if err != nil {
		slog.Error("failed to insert hackathon", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create hackathon")
		return
	}

	slog.Info("hackathon created", "hackathon_id", hackathonID, "organizer_id", id.UserID)

	h.writeHackathon(w, r, hackathonID, http.StatusCreated)
}

// UpdateHackathon handles PUT /hackathons/{id}
func (h *HackathonHandler) UpdateHackathon(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireStaff(w, r); !ok {
		return
	}
	hackathonID := r.PathValue("id")

	var req models.HackathonRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if msg := validateHackathon(req); msg != "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, msg)
		return
	}

	res, err := h.db.ExecContext(r.Context(), `
		UPDATE hackathon SET name = $1, description = $2, poster_url = $3, start_date = $4, end_date = $5,
			registration_start_date = $6, registration_end_date = $7, team_size_limit = $8,
			registration_limit = $9, open_registrations = $10, open_submissions = $11
		WHERE id = $12
	`, strings.TrimSpace(req.Name), req.Description, posterURL(req), req.StartDate, req.EndDate,
		req.RegistrationStartDate, req.RegistrationEndDate, req.TeamSizeLimit,
		req.RegistrationLimit, req.OpenRegistrations, req.OpenSubmissions, hackathonID)
	if err != nil {
		slog.Error("failed to update hackathon", "error", err, "hackathon_id", hackathonID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update hackathon")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Hackathon not found")
		return
	}

	slog.Info("hackathon updated", "hackathon_id", hackathonID)

	h.writeHackathon(w, r, hackathonID, http.StatusOK)
}

// GetHackathon handles GET /hackathons/{id}
func (h *HackathonHandler) GetHackathon(w http.ResponseWriter, r *http.Request) {
	h.writeHackathon(w, r, r.PathValue("id"), http.StatusOK)
}

func (h *HackathonHandler) writeHackathon(w http.ResponseWriter, r *http.Request, hackathonID string, status int) {
	hk, err := actions.ScanHackathon(h.db.QueryRowContext(r.Context(),
		`SELECT `+actions.HackathonColumns+` FROM hackathon WHERE id = $1`, hackathonID))
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Hackathon not found")
		return
	}
	if err != nil {
		slog.Error("failed to query hackathon", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, status, hk)
}

// ListHackathons handles GET /hackathons
func (h *HackathonHandler) ListHackathons(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.QueryContext(r.Context(),
		`SELECT `+actions.HackathonColumns+` FROM hackathon ORDER BY start_date DESC, id`)
	if err != nil {
		slog.Error("failed to query hackathons", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	hackathons := []models.Hackathon{}
	for rows.Next() {
		hk, err := actions.ScanHackathon(rows)
		if err != nil {
			slog.Error("failed to scan hackathon", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		hackathons = append(hackathons, hk)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate hackathons", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, hackathons)
}

// SetRegistrations handles POST /hackathons/{id}/registrations
func (h *HackathonHandler) SetRegistrations(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, "open_registrations")
}

// SetSubmissions handles POST /hackathons/{id}/submissions
func (h *HackathonHandler) SetSubmissions(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, "open_submissions")
}

// toggle flips one of the two hackathon flags. column is never user input.
func (h *HackathonHandler) toggle(w http.ResponseWriter, r *http.Request, column string) {
	if _, ok := requireStaff(w, r); !ok {
		return
	}
	hackathonID := r.PathValue("id")

	var req models.ToggleRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	res, err := h.db.ExecContext(r.Context(),
		`UPDATE hackathon SET `+column+` = $1 WHERE id = $2`, req.Open, hackathonID)
	if err != nil {
		slog.Error("failed to update hackathon", "error", err, "column", column)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Hackathon not found")
		return
	}

	slog.Info("hackathon flag changed", "hackathon_id", hackathonID, "column", column, "open", req.Open)

	h.writeHackathon(w, r, hackathonID, http.StatusOK)
}

// hackathonExists writes 404 and returns false when the hackathon is missing.
func (h *HackathonHandler) hackathonExists(w http.ResponseWriter, r *http.Request, hackathonID string) bool {
	var exists bool
	err := h.db.QueryRowContext(r.Context(),
		`SELECT EXISTS(SELECT 1 FROM hackathon WHERE id = $1)`, hackathonID).Scan(&exists)
	if err != nil {
		slog.Error("failed to query hackathon", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return false
	}
	if !exists {
		middleware.ErrorResponse(w, http.StatusNotFound, "Hackathon not found")
		return false
	}
	return true
}

// AddProblemStatement handles POST /hackathons/{id}/problem-statements
func (h *HackathonHandler) AddProblemStatement(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireStaff(w, r); !ok {
		return
	}
	hackathonID := r.PathValue("id")

	var req models.ProblemStatementRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}
	if !h.hackathonExists(w, r, hackathonID) {
		return
	}

	ps := models.ProblemStatement{
		ID:          auth.NewID(),
		HackathonID: hackathonID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
	}
	_, err := h.db.ExecContext(r.Context(), `
		INSERT INTO problem_statement (id, hackathon_id, title, description)
		VALUES ($1, $2, $3, $4)
	`, ps.ID, ps.HackathonID, ps.Title, ps.Description)
	if err != nil {
		slog.Error("failed to insert problem statement", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create problem statement")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, ps)
}

// ListProblemStatements handles GET /hackathons/{id}/problem-statements
func (h *HackathonHandler) ListProblemStatements(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.QueryContext(r.Context(), `
		SELECT id, hackathon_id, title, description FROM problem_statement
		WHERE hackathon_id = $1 ORDER BY title, id
	`, r.PathValue("id"))
	if err != nil {
		slog.Error("failed to query problem statements", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	statements := []models.ProblemStatement{}
	for rows.Next() {
		var ps models.ProblemStatement
		if err := rows.Scan(&ps.ID, &ps.HackathonID, &ps.Title, &ps.Description); err != nil {
			slog.Error("failed to scan problem statement", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		statements = append(statements, ps)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate problem statements", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, statements)
}

// AddSchedule handles POST /hackathons/{id}/schedules
func (h *HackathonHandler) AddSchedule(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireStaff(w, r); !ok {
		return
	}
	hackathonID := r.PathValue("id")

	var req models.ScheduleRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Day < 1 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "day must be at least 1")
		return
	}
	if req.CheckInTime.IsZero() {
		middleware.ErrorResponse(w, http.StatusBadRequest, "check_in_time is required")
		return
	}
	if !h.hackathonExists(w, r, hackathonID) {
		return
	}

	sch := models.AttendanceSchedule{
		ID:          auth.NewID(),
		HackathonID: hackathonID,
		Day:         req.Day,
		CheckInTime: req.CheckInTime,
		Description: req.Description,
	}
	_, err := h.db.ExecContext(r.Context(), `
		INSERT INTO attendance_schedule (id, hackathon_id, day, check_in_time, description)
		VALUES ($1, $2, $3, $4, $5)
	`, sch.ID, sch.HackathonID, sch.Day, sch.CheckInTime, sch.Description)
	if err != nil {
		slog.Error("failed to insert schedule", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create schedule")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, sch)
}

// ListSchedules handles GET /hackathons/{id}/schedules
func (h *HackathonHandler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.QueryContext(r.Context(), `
		SELECT id, hackathon_id, day, check_in_time, description FROM attendance_schedule
		WHERE hackathon_id = $1 ORDER BY day, check_in_time
	`, r.PathValue("id"))
	if err != nil {
		slog.Error("failed to query schedules", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	schedules := []models.AttendanceSchedule{}
	for rows.Next() {
		var s models.AttendanceSchedule
		if err := rows.Scan(&s.ID, &s.HackathonID, &s.Day, &s.CheckInTime, &s.Description); err != nil {
			slog.Error("failed to scan schedule", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		schedules = append(schedules, s)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate schedules", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, schedules)
}

// ListTeams handles GET /hackathons/{id}/teams
func (h *HackathonHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireStaff(w, r); !ok {
		return
	}

	rows, err := h.db.QueryContext(r.Context(), `
		SELECT t.id, t.hackathon_id, t.name, t.leader_id, t.problem_statement_id,
		       t.submission_url, t.submitted_at, t.disqualified, t.created_at,
		       (SELECT COUNT(*) FROM hackathon_team_member m WHERE m.team_id = t.id)
		FROM hackathon_team t
		WHERE t.hackathon_id = $1
		ORDER BY t.name, t.id
	`, r.PathValue("id"))
	if err != nil {
		slog.Error("failed to query teams", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	teams := []models.TeamSummary{}
	for rows.Next() {
		var s models.TeamSummary
		t := &s.Team
		if err := rows.Scan(&t.ID, &t.HackathonID, &t.Name, &t.LeaderID, &t.ProblemStatementID,
			&t.SubmissionURL, &t.SubmittedAt, &t.Disqualified, &t.CreatedAt, &s.MemberCount); err != nil {
			slog.Error("failed to scan team", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		teams = append(teams, s)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate teams", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, teams)
}

// Disqualify handles POST /teams/{id}/disqualify
func (h *HackathonHandler) Disqualify(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireStaff(w, r); !ok {
		return
	}
	teamID := r.PathValue("id")

	var req models.DisqualifyRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	res, err := h.db.ExecContext(r.Context(),
		`UPDATE hackathon_team SET disqualified = $1 WHERE id = $2`, req.Disqualified, teamID)
	if err != nil {
		slog.Error("failed to update team", "error", err, "team_id", teamID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Team not found")
		return
	}

	slog.Info("team disqualification changed", "team_id", teamID, "disqualified", req.Disqualified)

	middleware.JSONResponse(w, http.StatusOK, models.SuccessResponse{Success: true})
}

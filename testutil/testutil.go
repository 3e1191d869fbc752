// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/campuslab/hackdesk/auth"
	"github.com/campuslab/hackdesk/cliparse"
	"github.com/campuslab/hackdesk/db"
	"github.com/campuslab/hackdesk/models"
)

// TestPassword is the password of every user created by CreateTestUser.
const TestPassword = "password123"

// SetupTestDB creates a fresh SQLite database with the full schema. The
// file lives in the test's temp dir and is closed on cleanup.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "hackdesk.db")
	conn, err := db.Open(db.TypeSQLite, path)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  "file::memory:",
		DatabaseType: db.TypeSQLite,
		JWTSecret:    "test-jwt-secret",
		TokenTTL:     time.Hour,
		Env:          "test",
		BaseURL:      "http://localhost:3000",
		MailFrom:     "noreply@hackdesk.test",
	}
}

// CreateTestUser inserts a user with TestPassword. The email is derived
// from name.
func CreateTestUser(t *testing.T, conn *sql.DB, name, role string) models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	u := models.User{
		ID:           auth.NewID(),
		Email:        strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com",
		Name:         name,
		Role:         role,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	_, err = conn.Exec(`
		INSERT INTO users (id, email, name, role, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, u.ID, u.Email, u.Name, u.Role, u.PasswordHash, u.CreatedAt)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return u
}

// HackathonOption tweaks the hackathon built by CreateTestHackathon.
type HackathonOption func(*models.Hackathon)

func WithTeamSize(n int) HackathonOption {
	return func(h *models.Hackathon) { h.TeamSizeLimit = n }
}

func WithRegistrationLimit(n int) HackathonOption {
	return func(h *models.Hackathon) { h.RegistrationLimit = &n }
}

func WithRegistrationWindow(start, end time.Time) HackathonOption {
	return func(h *models.Hackathon) {
		h.RegistrationStartDate = start
		h.RegistrationEndDate = end
	}
}

func WithRegistrations(open bool) HackathonOption {
	return func(h *models.Hackathon) { h.OpenRegistrations = open }
}

func WithSubmissions(open bool) HackathonOption {
	return func(h *models.Hackathon) { h.OpenSubmissions = open }
}

// CreateTestHackathon creates a hackathon with one problem statement and
// returns both ids. By default registrations are open, the window spans
// yesterday to tomorrow and teams hold three members.
func CreateTestHackathon(t *testing.T, conn *sql.DB, organizerID string, opts ...HackathonOption) (hackathonID, problemStatementID string) {
	t.Helper()

	now := time.Now().UTC()
	h := models.Hackathon{
		ID:                    auth.NewID(),
		Name:                  "Test Hackathon",
		Description:           "A test hackathon",
		StartDate:             now.Add(48 * time.Hour),
		EndDate:               now.Add(96 * time.Hour),
		RegistrationStartDate: now.Add(-24 * time.Hour),
		RegistrationEndDate:   now.Add(24 * time.Hour),
		TeamSizeLimit:         3,
		OpenRegistrations:     true,
		OrganizerID:           organizerID,
	}
	for _, opt := range opts {
		opt(&h)
	}

	_, err := conn.Exec(`
		INSERT INTO hackathon (id, name, description, start_date, end_date,
			registration_start_date, registration_end_date, team_size_limit, registration_limit,
			open_registrations, open_submissions, organizer_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, h.ID, h.Name, h.Description, h.StartDate, h.EndDate,
		h.RegistrationStartDate, h.RegistrationEndDate, h.TeamSizeLimit, h.RegistrationLimit,
		h.OpenRegistrations, h.OpenSubmissions, h.OrganizerID, now)
	if err != nil {
		t.Fatalf("Failed to create test hackathon: %v", err)
	}

	return h.ID, CreateTestProblemStatement(t, conn, h.ID, "Test Problem")
}

// CreateTestProblemStatement adds a problem statement to a hackathon
func CreateTestProblemStatement(t *testing.T, conn *sql.DB, hackathonID, title string) string {
	t.Helper()

	id := auth.NewID()
	_, err := conn.Exec(`
		INSERT INTO problem_statement (id, hackathon_id, title, description)
		VALUES ($1, $2, $3, '')
	`, id, hackathonID, title)
	if err != nil {
		t.Fatalf("Failed to create test problem statement: %v", err)
	}

	return id
}

// CreateTestTeam creates a team led by leaderID, who is also its first member
func CreateTestTeam(t *testing.T, conn *sql.DB, hackathonID, problemStatementID, leaderID, name string) string {
	t.Helper()

	teamID := auth.NewID()
	_, err := conn.Exec(`
		INSERT INTO hackathon_team (id, hackathon_id, name, leader_id, problem_statement_id, disqualified, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, teamID, hackathonID, name, leaderID, problemStatementID, false, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test team: %v", err)
	}

	AddTestMember(t, conn, teamID, hackathonID, leaderID)
	return teamID
}

// AddTestMember adds a student to a team and returns the member id
func AddTestMember(t *testing.T, conn *sql.DB, teamID, hackathonID, studentID string) string {
	t.Helper()

	memberID := auth.NewID()
	_, err := conn.Exec(`
		INSERT INTO hackathon_team_member (id, team_id, hackathon_id, student_id, attended, joined_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, memberID, teamID, hackathonID, studentID, false, time.Now())
	if err != nil {
		t.Fatalf("Failed to add test member: %v", err)
	}

	return memberID
}

// CreateTestInvite stores an invite with the given status
func CreateTestInvite(t *testing.T, conn *sql.DB, teamID, hackathonID, studentID, invitedByID, status string) string {
	t.Helper()

	id := auth.NewID()
	now := time.Now()
	_, err := conn.Exec(`
		INSERT INTO hackathon_team_invite (id, team_id, hackathon_id, student_id, invited_by_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, id, teamID, hackathonID, studentID, invitedByID, status, now, now)
	if err != nil {
		t.Fatalf("Failed to create test invite: %v", err)
	}

	return id
}

// CreateTestSchedule adds a day-one check-in schedule to a hackathon
func CreateTestSchedule(t *testing.T, conn *sql.DB, hackathonID string) string {
	t.Helper()

	id := auth.NewID()
	_, err := conn.Exec(`
		INSERT INTO attendance_schedule (id, hackathon_id, day, check_in_time, description)
		VALUES ($1, $2, 1, $3, 'Morning check-in')
	`, id, hackathonID, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test schedule: %v", err)
	}

	return id
}

// Identity builds the auth identity of a test user
func Identity(u models.User) auth.Identity {
	return auth.Identity{UserID: u.ID, Email: u.Email, Role: u.Role}
}

// AuthHeaders returns request headers carrying a bearer token for u
func AuthHeaders(t *testing.T, cfg cliparse.Config, u models.User) map[string]string {
	t.Helper()

	token, err := auth.IssueToken(Identity(u), cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		t.Fatalf("Failed to issue test token: %v", err)
	}

	return map[string]string{"Authorization": "Bearer " + token}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

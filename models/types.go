package models

import "time"

// User roles
const (
	RoleStudent   = "STUDENT"
	RoleOrganizer = "ORGANIZER"
	RoleAdmin     = "ADMIN"
)

// Invite status constants
const (
	InvitePending  = "PENDING"
	InviteAccepted = "ACCEPTED"
	InviteDeclined = "DECLINED"
)

// Check-in status constants
const (
	CheckInRecorded      = "checked_in"
	CheckInAlreadyMarked = "already_marked"
)

// Request types

type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type HackathonRequest struct {
	Name                  string    `json:"name"`
	Description           string    `json:"description"`
	PosterURL             string    `json:"poster_url"`
	StartDate             time.Time `json:"start_date"`
	EndDate               time.Time `json:"end_date"`
	RegistrationStartDate time.Time `json:"registration_start_date"`
	RegistrationEndDate   time.Time `json:"registration_end_date"`
	TeamSizeLimit         int       `json:"team_size_limit"`
	RegistrationLimit     *int      `json:"registration_limit,omitempty"`
	OpenRegistrations     bool      `json:"open_registrations"`
	OpenSubmissions       bool      `json:"open_submissions"`
}

type ToggleRequest struct {
	Open bool `json:"open"`
}

type ProblemStatementRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type ScheduleRequest struct {
	Day         int       `json:"day"`
	CheckInTime time.Time `json:"check_in_time"`
	Description string    `json:"description"`
}

type CreateTeamRequest struct {
	Name               string `json:"name"`
	ProblemStatementID string `json:"problem_statement_id"`
}

type InviteRequest struct {
	Email string `json:"email"`
}

type RespondInviteRequest struct {
	Accept bool `json:"accept"`
}

type SubmissionRequest struct {
	HackathonID   string `json:"hackathon_id"`
	SubmissionURL string `json:"submission_url"`
}

type CheckInRequest struct {
	Data string `json:"data"`
}

type DisqualifyRequest struct {
	Disqualified bool `json:"disqualified"`
}

// Response types

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type CreateTeamResponse struct {
	Success  bool   `json:"success"`
	TeamID   string `json:"team_id"`
	TeamName string `json:"team_name"`
}

type InviteResponse struct {
	Success  bool   `json:"success"`
	InviteID string `json:"invite_id"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type CheckInResponse struct {
	Success bool             `json:"success"`
	Status  string           `json:"status"`
	Record  AttendanceRecord `json:"record"`
}

type QRResponse struct {
	Payload string `json:"payload"`
	Image   string `json:"image"` // data URL, image/png
}

// Domain types

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	CreatedAt    time.Time `json:"created_at"`
}

type Hackathon struct {
	ID                    string    `json:"id"`
	Name                  string    `json:"name"`
	Description           string    `json:"description"`
	PosterURL             *string   `json:"poster_url,omitempty"`
	StartDate             time.Time `json:"start_date"`
	EndDate               time.Time `json:"end_date"`
	RegistrationStartDate time.Time `json:"registration_start_date"`
	RegistrationEndDate   time.Time `json:"registration_end_date"`
	TeamSizeLimit         int       `json:"team_size_limit"`
	RegistrationLimit     *int      `json:"registration_limit,omitempty"`
	OpenRegistrations     bool      `json:"open_registrations"`
	OpenSubmissions       bool      `json:"open_submissions"`
	OrganizerID           string    `json:"organizer_id"`
	CreatedAt             time.Time `json:"created_at"`
}

// RegistrationOpenAt reports whether t falls inside the registration window.
// Both ends are inclusive.
func (h Hackathon) RegistrationOpenAt(t time.Time) bool {
	return !t.Before(h.RegistrationStartDate) && !t.After(h.RegistrationEndDate)
}

type ProblemStatement struct {
	ID          string `json:"id"`
	HackathonID string `json:"hackathon_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type Team struct {
	ID                 string     `json:"id"`
	HackathonID        string     `json:"hackathon_id"`
	Name               string     `json:"name"`
	LeaderID           string     `json:"leader_id"`
	ProblemStatementID string     `json:"problem_statement_id"`
	SubmissionURL      *string    `json:"submission_url,omitempty"`
	SubmittedAt        *time.Time `json:"submitted_at,omitempty"`
	Disqualified       bool       `json:"disqualified"`
	CreatedAt          time.Time  `json:"created_at"`
}

type TeamMember struct {
	ID          string    `json:"id"`
	TeamID      string    `json:"team_id"`
	HackathonID string    `json:"hackathon_id"`
	StudentID   string    `json:"student_id"`
	Name        string    `json:"name,omitempty"`
	Email       string    `json:"email,omitempty"`
	Attended    bool      `json:"attended"`
	JoinedAt    time.Time `json:"joined_at"`
}

type TeamInvite struct {
	ID          string    `json:"id"`
	TeamID      string    `json:"team_id"`
	HackathonID string    `json:"hackathon_id"`
	StudentID   string    `json:"student_id"`
	InvitedByID string    `json:"invited_by_id"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TemporaryInvite holds an invite for an email that has no account yet.
type TemporaryInvite struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	TeamID      string    `json:"team_id"`
	InvitedByID string    `json:"invited_by_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type TeamWithMembers struct {
	Team    Team         `json:"team"`
	Members []TeamMember `json:"members"`
	Invites []TeamInvite `json:"invites"`
}

type TeamSummary struct {
	Team        Team `json:"team"`
	MemberCount int  `json:"member_count"`
}

type InvitationSummary struct {
	Invite        TeamInvite `json:"invite"`
	TeamName      string     `json:"team_name"`
	HackathonName string     `json:"hackathon_name"`
}

type AttendanceSchedule struct {
	ID          string    `json:"id"`
	HackathonID string    `json:"hackathon_id"`
	Day         int       `json:"day"`
	CheckInTime time.Time `json:"check_in_time"`
	Description string    `json:"description"`
}

type AttendanceRecord struct {
	ID          string    `json:"id"`
	ScheduleID  string    `json:"schedule_id"`
	MemberID    string    `json:"member_id"`
	TeamID      string    `json:"team_id"`
	StudentID   string    `json:"student_id"`
	Present     bool      `json:"present"`
	CheckedInAt time.Time `json:"checked_in_at"`
	CheckedInBy string    `json:"checked_in_by"`
}

type AttendanceEntry struct {
	Record      AttendanceRecord `json:"record"`
	StudentName string           `json:"student_name"`
	TeamName    string           `json:"team_name"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

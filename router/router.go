// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/campuslab/hackdesk/actions"
	"github.com/campuslab/hackdesk/cliparse"
	"github.com/campuslab/hackdesk/handlers"
	"github.com/campuslab/hackdesk/mailer"
	"github.com/campuslab/hackdesk/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config, m mailer.Mailer) *http.ServeMux {
	mux := http.NewServeMux()

	svc := actions.NewService(db, m, cfg)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(svc)
	hackathonHandler := handlers.NewHackathonHandler(db, cfg)
	teamHandler := handlers.NewTeamHandler(svc)
	attendanceHandler := handlers.NewAttendanceHandler(svc)

	// authed wraps a handler with logging and bearer token verification
	authed := func(next http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireAuth(cfg.JWTSecret, next))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Accounts
	mux.HandleFunc("POST /auth/register", middleware.WithLogging(authHandler.Register))
	mux.HandleFunc("POST /auth/login", middleware.WithLogging(authHandler.Login))
	mux.HandleFunc("GET /auth/me", authed(authHandler.Me))

	// Hackathons (public reads, organizer writes)
	mux.HandleFunc("GET /hackathons", middleware.WithLogging(hackathonHandler.ListHackathons))
	mux.HandleFunc("GET /hackathons/{id}", middleware.WithLogging(hackathonHandler.GetHackathon))
	mux.HandleFunc("POST /hackathons", authed(hackathonHandler.CreateHackathon))
	mux.HandleFunc("PUT /hackathons/{id}", authed(hackathonHandler.UpdateHackathon))
	mux.HandleFunc("POST /hackathons/{id}/registrations", authed(hackathonHandler.SetRegistrations))
	mux.HandleFunc("POST /hackathons/{id}/submissions", authed(hackathonHandler.SetSubmissions))
	mux.HandleFunc("GET /hackathons/{id}/problem-statements", middleware.WithLogging(hackathonHandler.ListProblemStatements))
	mux.HandleFunc("POST /hackathons/{id}/problem-statements", authed(hackathonHandler.AddProblemStatement))
	mux.HandleFunc("GET /hackathons/{id}/schedules", authed(hackathonHandler.ListSchedules))
	mux.HandleFunc("POST /hackathons/{id}/schedules", authed(hackathonHandler.AddSchedule))
	mux.HandleFunc("GET /hackathons/{id}/teams", authed(hackathonHandler.ListTeams))
	mux.HandleFunc("POST /teams/{id}/disqualify", authed(hackathonHandler.Disqualify))

	// Teams and invitations (students)
	mux.HandleFunc("POST /hackathons/{id}/teams", authed(teamHandler.CreateTeam))
	mux.HandleFunc("GET /hackathons/{id}/my-team", authed(teamHandler.MyTeam))
	mux.HandleFunc("GET /teams/{id}", authed(teamHandler.GetTeam))
	mux.HandleFunc("POST /teams/{id}/invites", authed(teamHandler.Invite))
	mux.HandleFunc("POST /teams/{id}/respond", authed(teamHandler.Respond))
	mux.HandleFunc("GET /teams/{id}/qr", authed(teamHandler.QR))
	mux.HandleFunc("POST /teams/{id}/submission", authed(teamHandler.Submit))
	mux.HandleFunc("GET /invitations", authed(teamHandler.Invitations))

	// Attendance (organizers scan QR codes)
	mux.HandleFunc("POST /schedules/{id}/check-in", authed(attendanceHandler.CheckIn))
	mux.HandleFunc("GET /schedules/{id}/attendance", authed(attendanceHandler.List))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("hackdesk API v1"))
	})

	return mux
}

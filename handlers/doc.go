// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the hackdesk API.

# Handler Types

  - AuthHandler: signup, login and the current account
  - HackathonHandler: organizer management of hackathons, problem
    statements, schedules and teams
  - TeamHandler: team creation, invitations, QR codes and submissions
  - AttendanceHandler: QR check-in and attendance lists

HackathonHandler works on *sql.DB and Config directly. The others wrap an
*actions.Service and only translate HTTP:

	svc := actions.NewService(db, mailer, cfg)
	teamHandler := handlers.NewTeamHandler(svc)

# Errors

Action results carry an error kind that picks the status code:

	validation → 400, unauthorized → 401, forbidden → 403,
	not found → 404, rule → 409, pending → 202

Every error body is models.ErrorResponse.

# Identity

Handlers read the caller set by middleware.RequireAuth from the request
context. Organizer-only endpoints answer 403 for students.
*/
package handlers

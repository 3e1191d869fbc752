// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the hackdesk API.

	mux := router.NewRouter(db, cfg, mailer)

# Endpoints

Public:

	GET  /health
	POST /auth/register
	POST /auth/login
	GET  /hackathons
	GET  /hackathons/{id}
	GET  /hackathons/{id}/problem-statements

Organizers (Authorization: Bearer):

	POST /hackathons
	PUT  /hackathons/{id}
	POST /hackathons/{id}/registrations
	POST /hackathons/{id}/submissions
	POST /hackathons/{id}/problem-statements
	GET  /hackathons/{id}/schedules
	POST /hackathons/{id}/schedules
	GET  /hackathons/{id}/teams
	POST /teams/{id}/disqualify
	POST /schedules/{id}/check-in
	GET  /schedules/{id}/attendance

Students (Authorization: Bearer):

	GET  /auth/me
	POST /hackathons/{id}/teams
	GET  /hackathons/{id}/my-team
	GET  /teams/{id}
	POST /teams/{id}/invites
	POST /teams/{id}/respond
	GET  /teams/{id}/qr
	POST /teams/{id}/submission
	GET  /invitations
*/
package router

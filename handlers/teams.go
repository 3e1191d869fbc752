// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/campuslab/hackdesk/actions"
	"github.com/campuslab/hackdesk/middleware"
	"github.com/campuslab/hackdesk/models"
)

type TeamHandler struct {
	svc *actions.Service
}

func NewTeamHandler(svc *actions.Service) *TeamHandler {
	return &TeamHandler{svc: svc}
}

// CreateTeam handles POST /hackathons/{id}/teams
func (h *TeamHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	hackathonID := r.PathValue("id")

	var req models.CreateTeamRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.ProblemStatementID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "problem_statement_id is required")
		return
	}

	res := h.svc.CreateTeam(r.Context(), identity(r), hackathonID, req.Name, req.ProblemStatementID)
	writeResult(w, http.StatusCreated, res)
}

// MyTeam handles GET /hackathons/{id}/my-team
func (h *TeamHandler) MyTeam(w http.ResponseWriter, r *http.Request) {
	writeResult(w, http.StatusOK, h.svc.MyTeam(r.Context(), identity(r), r.PathValue("id")))
}

// GetTeam handles GET /teams/{id}
func (h *TeamHandler) GetTeam(w http.ResponseWriter, r *http.Request) {
	writeResult(w, http.StatusOK, h.svc.TeamDetails(r.Context(), identity(r), r.PathValue("id")))
}

// Invite handles POST /teams/{id}/invites
//
// An email without an account answers 202 with a message instead of an
// invite id.
func (h *TeamHandler) Invite(w http.ResponseWriter, r *http.Request) {
	var req models.InviteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Email == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "email is required")
		return
	}

	writeResult(w, http.StatusCreated, h.svc.InviteMember(r.Context(), identity(r), r.PathValue("id"), req.Email))
}

// Respond handles POST /teams/{id}/respond
func (h *TeamHandler) Respond(w http.ResponseWriter, r *http.Request) {
	var req models.RespondInviteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	writeResult(w, http.StatusOK, h.svc.RespondToInvitation(r.Context(), identity(r), r.PathValue("id"), req.Accept))
}

// Invitations handles GET /invitations
func (h *TeamHandler) Invitations(w http.ResponseWriter, r *http.Request) {
	writeResult(w, http.StatusOK, h.svc.ListInvitations(r.Context(), identity(r)))
}

// QR handles GET /teams/{id}/qr
func (h *TeamHandler) QR(w http.ResponseWriter, r *http.Request) {
	writeResult(w, http.StatusOK, h.svc.TeamQR(r.Context(), identity(r), r.PathValue("id")))
}

// Submit handles POST /teams/{id}/submission
func (h *TeamHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.SubmissionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.HackathonID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "hackathon_id is required")
		return
	}

	res := h.svc.RecordSubmission(r.Context(), identity(r), req.HackathonID, r.PathValue("id"), req.SubmissionURL)
	writeResult(w, http.StatusOK, res)
}

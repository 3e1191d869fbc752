// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/campuslab/hackdesk/actions"
	"github.com/campuslab/hackdesk/middleware"
	"github.com/campuslab/hackdesk/models"
)

type AuthHandler struct {
	svc *actions.Service
}

func NewAuthHandler(svc *actions.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	writeResult(w, http.StatusCreated, h.svc.Register(r.Context(), req))
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	writeResult(w, http.StatusOK, h.svc.Login(r.Context(), req))
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	writeResult(w, http.StatusOK, h.svc.Me(r.Context(), identity(r)))
}

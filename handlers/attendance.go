// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/campuslab/hackdesk/actions"
	"github.com/campuslab/hackdesk/middleware"
	"github.com/campuslab/hackdesk/models"
)

type AttendanceHandler struct {
	svc *actions.Service
}

func NewAttendanceHandler(svc *actions.Service) *AttendanceHandler {
	return &AttendanceHandler{svc: svc}
}

// CheckIn handles POST /schedules/{id}/check-in
func (h *AttendanceHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req models.CheckInRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	writeResult(w, http.StatusOK, h.svc.CheckIn(r.Context(), identity(r), r.PathValue("id"), req.Data))
}

// List handles GET /schedules/{id}/attendance
func (h *AttendanceHandler) List(w http.ResponseWriter, r *http.Request) {
	writeResult(w, http.StatusOK, h.svc.ListAttendance(r.Context(), identity(r), r.PathValue("id")))
}

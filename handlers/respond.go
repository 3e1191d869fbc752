// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/campuslab/hackdesk/auth"
	"github.com/campuslab/hackdesk/middleware"
	"github.com/campuslab/hackdesk/models"
)

// writeResult sends the value of a successful Result with status, or the
// status matching its error kind.
func writeResult[T any](w http.ResponseWriter, status int, res models.Result[T]) {
	if !res.OK() {
		middleware.ActionErrorResponse(w, res.Err)
		return
	}
	middleware.JSONResponse(w, status, res.Value)
}

// identity returns the caller set by middleware.RequireAuth. Routes that
// skip RequireAuth get the zero Identity, which every action rejects.
func identity(r *http.Request) auth.Identity {
	id, _ := auth.FromContext(r.Context())
	return id
}

// requireStaff writes 401/403 and returns false unless the caller is an
// organizer or admin.
func requireStaff(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	id, ok := auth.FromContext(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "User not authenticated")
		return auth.Identity{}, false
	}
	if !id.IsStaff() {
		middleware.ErrorResponse(w, http.StatusForbidden, "Organizer access required")
		return auth.Identity{}, false
	}
	return id, true
}

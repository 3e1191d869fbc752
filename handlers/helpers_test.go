// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/campuslab/hackdesk/actions"
	"github.com/campuslab/hackdesk/auth"
	"github.com/campuslab/hackdesk/cliparse"
	"github.com/campuslab/hackdesk/mailer"
	"github.com/campuslab/hackdesk/models"
	"github.com/campuslab/hackdesk/testutil"
)

type testEnv struct {
	db  *sql.DB
	cfg cliparse.Config
	svc *actions.Service
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	return testEnv{db: db, cfg: cfg, svc: actions.NewService(db, mailer.LogMailer{}, cfg)}
}

// asUser attaches u's identity the way middleware.RequireAuth does.
func asUser(req *http.Request, u models.User) *http.Request {
	return req.WithContext(auth.WithIdentity(req.Context(), testutil.Identity(u)))
}

// call runs handler with the path value id set and returns the recorder.
func call(handler http.HandlerFunc, req *http.Request, id string) *httptest.ResponseRecorder {
	if id != "" {
		req.SetPathValue("id", id)
	}
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/campuslab/hackdesk/models"
	"github.com/campuslab/hackdesk/testutil"
)

func validHackathonRequest() models.HackathonRequest {
	now := time.Now().UTC().Truncate(time.Second)
	return models.HackathonRequest{
		Name:                  "Spring Hack",
		Description:           "48 hours of building",
		PosterURL:             "/uploads/spring.png",
		StartDate:             now.Add(72 * time.Hour),
		EndDate:               now.Add(120 * time.Hour),
		RegistrationStartDate: now.Add(-time.Hour),
		RegistrationEndDate:   now.Add(48 * time.Hour),
		TeamSizeLimit:         4,
		OpenRegistrations:     true,
	}
}

func TestCreateHackathon(t *testing.T) {
	env := newTestEnv(t)
	handler := NewHackathonHandler(env.db, env.cfg)
	org := testutil.CreateTestUser(t, env.db, "Olga Organizer", models.RoleOrganizer)
	student := testutil.CreateTestUser(t, env.db, "Sam Student", models.RoleStudent)

	limit := 0
	tests := []struct {
		name       string
		user       *models.User
		mutate     func(*models.HackathonRequest)
		wantStatus int
	}{
		{name: "valid", user: &org, wantStatus: http.StatusCreated},
		{name: "no token", user: nil, wantStatus: http.StatusUnauthorized},
		{name: "student", user: &student, wantStatus: http.StatusForbidden},
		{name: "missing name", user: &org, mutate: func(r *models.HackathonRequest) { r.Name = " " }, wantStatus: http.StatusBadRequest},
		{name: "end before start", user: &org, mutate: func(r *models.HackathonRequest) { r.EndDate = r.StartDate.Add(-time.Hour) }, wantStatus: http.StatusBadRequest},
		{name: "registration ends before it starts", user: &org, mutate: func(r *models.HackathonRequest) {
			r.RegistrationEndDate = r.RegistrationStartDate.Add(-time.Minute)
		}, wantStatus: http.StatusBadRequest},
		{name: "team size zero", user: &org, mutate: func(r *models.HackathonRequest) { r.TeamSizeLimit = 0 }, wantStatus: http.StatusBadRequest},
		{name: "registration limit zero", user: &org, mutate: func(r *models.HackathonRequest) { r.RegistrationLimit = &limit }, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := validHackathonRequest()
			if tt.mutate != nil {
				tt.mutate(&body)
			}
			req := testutil.MakeRequest("POST", "/hackathons", body, nil)
			if tt.user != nil {
				req = asUser(req, *tt.user)
			}

			w := call(handler.CreateHackathon, req, "")
			testutil.AssertStatus(t, w, tt.wantStatus)

			if tt.wantStatus == http.StatusCreated {
				var resp models.Hackathon
				testutil.AssertJSON(t, w, &resp)
				if resp.ID == "" || resp.Name != "Spring Hack" || resp.OrganizerID != org.ID {
					t.Errorf("Unexpected hackathon: %+v", resp)
				}
				if resp.PosterURL == nil || *resp.PosterURL != "/uploads/spring.png" {
					t.Errorf("Expected poster URL to be stored verbatim, got %v", resp.PosterURL)
				}
			}
		})
	}
}

func TestUpdateAndToggleHackathon(t *testing.T) {
	env := newTestEnv(t)
	handler := NewHackathonHandler(env.db, env.cfg)
	org := testutil.CreateTestUser(t, env.db, "Olga Organizer", models.RoleOrganizer)
	hackathonID, _ := testutil.CreateTestHackathon(t, env.db, org.ID)

	update := validHackathonRequest()
	update.Name = "Renamed Hack"
	w := call(handler.UpdateHackathon, asUser(testutil.MakeRequest("PUT", "/hackathons/"+hackathonID, update, nil), org), hackathonID)
	testutil.AssertStatus(t, w, http.StatusOK)

	var updated models.Hackathon
	testutil.AssertJSON(t, w, &updated)
	if updated.Name != "Renamed Hack" || updated.TeamSizeLimit != 4 {
		t.Errorf("Update not applied: %+v", updated)
	}

	w = call(handler.SetSubmissions, asUser(testutil.MakeRequest("POST", "/", models.ToggleRequest{Open: true}, nil), org), hackathonID)
	testutil.AssertStatus(t, w, http.StatusOK)
	var toggled models.Hackathon
	testutil.AssertJSON(t, w, &toggled)
	if !toggled.OpenSubmissions {
		t.Error("Expected submissions to be open")
	}

	w = call(handler.SetRegistrations, asUser(testutil.MakeRequest("POST", "/", models.ToggleRequest{Open: false}, nil), org), hackathonID)
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertJSON(t, w, &toggled)
	if toggled.OpenRegistrations {
		t.Error("Expected registrations to be closed")
	}

	w = call(handler.SetRegistrations, asUser(testutil.MakeRequest("POST", "/", models.ToggleRequest{Open: true}, nil), org), "missing")
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestListAndGetHackathons(t *testing.T) {
	env := newTestEnv(t)
	handler := NewHackathonHandler(env.db, env.cfg)
	org := testutil.CreateTestUser(t, env.db, "Olga Organizer", models.RoleOrganizer)
	first, _ := testutil.CreateTestHackathon(t, env.db, org.ID)
	testutil.CreateTestHackathon(t, env.db, org.ID)

	w := call(handler.ListHackathons, testutil.MakeRequest("GET", "/hackathons", nil, nil), "")
	testutil.AssertStatus(t, w, http.StatusOK)
	var list []models.Hackathon
	testutil.AssertJSON(t, w, &list)
	if len(list) != 2 {
		t.Errorf("Expected 2 hackathons, got %d", len(list))
	}

	w = call(handler.GetHackathon, testutil.MakeRequest("GET", "/hackathons/"+first, nil, nil), first)
	testutil.AssertStatus(t, w, http.StatusOK)

	w = call(handler.GetHackathon, testutil.MakeRequest("GET", "/hackathons/missing", nil, nil), "missing")
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestProblemStatementsAndSchedules(t *testing.T) {
	env := newTestEnv(t)
	handler := NewHackathonHandler(env.db, env.cfg)
	org := testutil.CreateTestUser(t, env.db, "Olga Organizer", models.RoleOrganizer)
	hackathonID, _ := testutil.CreateTestHackathon(t, env.db, org.ID)

	w := call(handler.AddProblemStatement,
		asUser(testutil.MakeRequest("POST", "/", models.ProblemStatementRequest{Title: "Climate", Description: "Carbon tools"}, nil), org), hackathonID)
	testutil.AssertStatus(t, w, http.StatusCreated)

	w = call(handler.AddProblemStatement,
		asUser(testutil.MakeRequest("POST", "/", models.ProblemStatementRequest{Title: ""}, nil), org), hackathonID)
	testutil.AssertStatus(t, w, http.StatusBadRequest)

	w = call(handler.ListProblemStatements, testutil.MakeRequest("GET", "/", nil, nil), hackathonID)
	testutil.AssertStatus(t, w, http.StatusOK)
	var statements []models.ProblemStatement
	testutil.AssertJSON(t, w, &statements)
	// The fixture hackathon already has one statement
	if len(statements) != 2 {
		t.Errorf("Expected 2 problem statements, got %d", len(statements))
	}

	schedule := models.ScheduleRequest{Day: 1, CheckInTime: time.Now().UTC(), Description: "Day 1 morning"}
	w = call(handler.AddSchedule, asUser(testutil.MakeRequest("POST", "/", schedule, nil), org), hackathonID)
	testutil.AssertStatus(t, w, http.StatusCreated)

	w = call(handler.AddSchedule, asUser(testutil.MakeRequest("POST", "/", schedule, nil), org), "missing")
	testutil.AssertStatus(t, w, http.StatusNotFound)

	w = call(handler.ListSchedules, asUser(testutil.MakeRequest("GET", "/", nil, nil), org), hackathonID)
	testutil.AssertStatus(t, w, http.StatusOK)
	var schedules []models.AttendanceSchedule
	testutil.AssertJSON(t, w, &schedules)
	if len(schedules) != 1 || schedules[0].Description != "Day 1 morning" {
		t.Errorf("Unexpected schedules: %+v", schedules)
	}
}

func TestListTeamsAndDisqualify(t *testing.T) {
	env := newTestEnv(t)
	handler := NewHackathonHandler(env.db, env.cfg)
	org := testutil.CreateTestUser(t, env.db, "Olga Organizer", models.RoleOrganizer)
	leader := testutil.CreateTestUser(t, env.db, "Lee Leader", models.RoleStudent)
	mate := testutil.CreateTestUser(t, env.db, "Mia Mate", models.RoleStudent)
	hackathonID, psID := testutil.CreateTestHackathon(t, env.db, org.ID)
	teamID := testutil.CreateTestTeam(t, env.db, hackathonID, psID, leader.ID, "Team Rocket")
	testutil.AddTestMember(t, env.db, teamID, hackathonID, mate.ID)

	w := call(handler.ListTeams, asUser(testutil.MakeRequest("GET", "/", nil, nil), org), hackathonID)
	testutil.AssertStatus(t, w, http.StatusOK)
	var teams []models.TeamSummary
	testutil.AssertJSON(t, w, &teams)
	if len(teams) != 1 || teams[0].MemberCount != 2 {
		t.Fatalf("Unexpected teams: %+v", teams)
	}

	w = call(handler.Disqualify, asUser(testutil.MakeRequest("POST", "/", models.DisqualifyRequest{Disqualified: true}, nil), leader), teamID)
	testutil.AssertStatus(t, w, http.StatusForbidden)

	w = call(handler.Disqualify, asUser(testutil.MakeRequest("POST", "/", models.DisqualifyRequest{Disqualified: true}, nil), org), teamID)
	testutil.AssertStatus(t, w, http.StatusOK)

	var disqualified bool
	if err := env.db.QueryRow(`SELECT disqualified FROM hackathon_team WHERE id = $1`, teamID).Scan(&disqualified); err != nil {
		t.Fatalf("Failed to query team: %v", err)
	}
	if !disqualified {
		t.Error("Expected team to be disqualified")
	}

	w = call(handler.Disqualify, asUser(testutil.MakeRequest("POST", "/", models.DisqualifyRequest{Disqualified: true}, nil), org), "missing")
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

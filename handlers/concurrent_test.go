// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/campuslab/hackdesk/models"
	"github.com/campuslab/hackdesk/testutil"
)

// TestConcurrentAccepts verifies that a burst of acceptances never pushes a
// team past its size limit.
func TestConcurrentAccepts(t *testing.T) {
	env := newTestEnv(t)
	handler := NewTeamHandler(env.svc)
	org := testutil.CreateTestUser(t, env.db, "Olga Organizer", models.RoleOrganizer)
	leader := testutil.CreateTestUser(t, env.db, "Lee Leader", models.RoleStudent)
	hackathonID, psID := testutil.CreateTestHackathon(t, env.db, org.ID, testutil.WithTeamSize(3))
	teamID := testutil.CreateTestTeam(t, env.db, hackathonID, psID, leader.ID, "Team Rocket")

	numInvitees := 6
	invitees := make([]models.User, numInvitees)
	for i := range invitees {
		invitees[i] = testutil.CreateTestUser(t, env.db, "Invitee "+string(rune('A'+i)), models.RoleStudent)
		testutil.CreateTestInvite(t, env.db, teamID, hackathonID, invitees[i].ID, leader.ID, models.InvitePending)
	}

	var accepted, rejected atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numInvitees; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			req := asUser(testutil.MakeRequest("POST", "/", models.RespondInviteRequest{Accept: true}, nil), invitees[idx])
			w := call(handler.Respond, req, teamID)

			switch w.Code {
			case http.StatusOK:
				accepted.Add(1)
			case http.StatusConflict:
				rejected.Add(1)
			default:
				t.Errorf("Invitee %d got unexpected status %d: %s", idx, w.Code, w.Body.String())
			}
		}(i)
	}

	wg.Wait()

	if accepted.Load() != 2 {
		t.Errorf("Expected exactly 2 acceptances, got %d", accepted.Load())
	}
	if rejected.Load() != int32(numInvitees-2) {
		t.Errorf("Expected %d rejections, got %d", numInvitees-2, rejected.Load())
	}

	var members int
	if err := env.db.QueryRow(`SELECT COUNT(*) FROM hackathon_team_member WHERE team_id = $1`, teamID).Scan(&members); err != nil {
		t.Fatalf("Failed to count members: %v", err)
	}
	if members != 3 {
		t.Errorf("Expected 3 members, got %d", members)
	}

	var pending int
	if err := env.db.QueryRow(`SELECT COUNT(*) FROM hackathon_team_invite WHERE team_id = $1 AND status = 'PENDING'`, teamID).Scan(&pending); err != nil {
		t.Fatalf("Failed to count invites: %v", err)
	}
	if pending != 0 {
		t.Errorf("Expected no pending invites left, got %d", pending)
	}
}

// TestConcurrentTeamCreation verifies a student ends up on one team no matter
// how many creates race.
func TestConcurrentTeamCreation(t *testing.T) {
	env := newTestEnv(t)
	handler := NewTeamHandler(env.svc)
	org := testutil.CreateTestUser(t, env.db, "Olga Organizer", models.RoleOrganizer)
	student := testutil.CreateTestUser(t, env.db, "Sam Student", models.RoleStudent)
	hackathonID, psID := testutil.CreateTestHackathon(t, env.db, org.ID)

	var created atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			body := models.CreateTeamRequest{Name: "Team " + string(rune('A'+idx)) + "xx", ProblemStatementID: psID}
			w := call(handler.CreateTeam, asUser(testutil.MakeRequest("POST", "/", body, nil), student), hackathonID)
			if w.Code == http.StatusCreated {
				created.Add(1)
			} else if w.Code != http.StatusConflict {
				t.Errorf("Unexpected status %d: %s", w.Code, w.Body.String())
			}
		}(i)
	}

	wg.Wait()

	if created.Load() != 1 {
		t.Errorf("Expected exactly 1 team, got %d", created.Load())
	}
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package actions_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuslab/hackdesk/models"
	"github.com/campuslab/hackdesk/testutil"
)

func TestRecordSubmission(t *testing.T) {
	svc, conn, _ := newService(t)
	f := newTeamFixture(t, conn, testutil.WithSubmissions(true))

	first := time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)
	svc.SetClock(func() time.Time { return first })

	res := svc.RecordSubmission(context.Background(), testutil.Identity(f.leader), f.hackathonID, f.teamID, "https://github.com/rocket/project")
	require.True(t, res.OK(), "unexpected error: %v", res.Err)

	details := svc.TeamDetails(context.Background(), testutil.Identity(f.leader), f.teamID)
	require.True(t, details.OK())
	require.NotNil(t, details.Value.Team.SubmissionURL)
	assert.Equal(t, "https://github.com/rocket/project", *details.Value.Team.SubmissionURL)
	require.NotNil(t, details.Value.Team.SubmittedAt)
	assert.True(t, first.Equal(*details.Value.Team.SubmittedAt))

	// Resubmitting overwrites the URL and refreshes the timestamp
	second := first.Add(time.Hour)
	svc.SetClock(func() time.Time { return second })
	res = svc.RecordSubmission(context.Background(), testutil.Identity(f.leader), f.hackathonID, f.teamID, "https://github.com/rocket/project-v2")
	require.True(t, res.OK(), "unexpected error: %v", res.Err)

	details = svc.TeamDetails(context.Background(), testutil.Identity(f.leader), f.teamID)
	require.True(t, details.OK())
	assert.Equal(t, "https://github.com/rocket/project-v2", *details.Value.Team.SubmissionURL)
	assert.True(t, second.Equal(*details.Value.Team.SubmittedAt))
}

func TestRecordSubmission_Rejections(t *testing.T) {
	tests := []struct {
		name        string
		submissions bool
		url         string
		asMember    bool
		disqualify  bool
		otherHack   bool
		kind        models.ErrorKind
		message     string
	}{
		{name: "submissions closed", submissions: false, url: "https://example.com", kind: models.KindRule, message: "Submissions are closed"},
		{name: "malformed url", submissions: true, url: "not a url", kind: models.KindValidation, message: "Invalid submission URL"},
		{name: "relative url", submissions: true, url: "/projects/1", kind: models.KindValidation, message: "Invalid submission URL"},
		{name: "unsupported scheme", submissions: true, url: "ftp://example.com/x", kind: models.KindValidation, message: "Invalid submission URL"},
		{name: "not the leader", submissions: true, url: "https://example.com", asMember: true, kind: models.KindForbidden, message: "Only the team leader can submit"},
		{name: "disqualified team", submissions: true, url: "https://example.com", disqualify: true, kind: models.KindRule, message: "Team has been disqualified"},
		{name: "team of another hackathon", submissions: true, url: "https://example.com", otherHack: true, kind: models.KindNotFound, message: "Team not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, conn, _ := newService(t)
			f := newTeamFixture(t, conn, testutil.WithSubmissions(tt.submissions))

			caller := f.leader
			if tt.asMember {
				caller = testutil.CreateTestUser(t, conn, "Mia Mate", models.RoleStudent)
				testutil.AddTestMember(t, conn, f.teamID, f.hackathonID, caller.ID)
			}
			if tt.disqualify {
				_, err := conn.Exec(`UPDATE hackathon_team SET disqualified = $1 WHERE id = $2`, true, f.teamID)
				require.NoError(t, err)
			}
			hackathonID := f.hackathonID
			if tt.otherHack {
				hackathonID, _ = testutil.CreateTestHackathon(t, conn, f.org.ID, testutil.WithSubmissions(true))
			}

			res := svc.RecordSubmission(context.Background(), testutil.Identity(caller), hackathonID, f.teamID, tt.url)
			require.False(t, res.OK())
			assert.Equal(t, tt.kind, res.Err.Kind)
			assert.Equal(t, tt.message, res.Err.Message)

			assert.Equal(t, 0, countRows(t, conn,
				`SELECT COUNT(*) FROM hackathon_team WHERE submission_url IS NOT NULL`))
		})
	}
}

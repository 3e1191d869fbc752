// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
// The DDL sticks to the subset shared by PostgreSQL and SQLite.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Tables lists every table in dependency order (children last).
var Tables = []string{
	"users",
	"hackathon",
	"problem_statement",
	"hackathon_team",
	"hackathon_team_member",
	"hackathon_team_invite",
	"hackathon_temporary_invite",
	"attendance_schedule",
	"attendance_record",
}

const schema = `
-- Users
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    role TEXT NOT NULL CHECK (role IN ('STUDENT', 'ORGANIZER', 'ADMIN')),
    password_hash TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Hackathons
CREATE TABLE IF NOT EXISTS hackathon (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    poster_url TEXT,
    start_date TIMESTAMP NOT NULL,
    end_date TIMESTAMP NOT NULL,
    registration_start_date TIMESTAMP NOT NULL,
    registration_end_date TIMESTAMP NOT NULL,
    team_size_limit INTEGER NOT NULL CHECK (team_size_limit >= 1),
    registration_limit INTEGER,
    open_registrations BOOLEAN NOT NULL DEFAULT FALSE,
    open_submissions BOOLEAN NOT NULL DEFAULT FALSE,
    organizer_id TEXT NOT NULL REFERENCES users(id),
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Problem statements
CREATE TABLE IF NOT EXISTS problem_statement (
    id TEXT PRIMARY KEY,
    hackathon_id TEXT NOT NULL REFERENCES hackathon(id) ON DELETE CASCADE,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_problem_statement_hackathon ON problem_statement(hackathon_id);

-- Teams
CREATE TABLE IF NOT EXISTS hackathon_team (
    id TEXT PRIMARY KEY,
    hackathon_id TEXT NOT NULL REFERENCES hackathon(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    leader_id TEXT NOT NULL REFERENCES users(id),
    problem_statement_id TEXT NOT NULL REFERENCES problem_statement(id),
    submission_url TEXT,
    submitted_at TIMESTAMP,
    disqualified BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_hackathon_team_hackathon ON hackathon_team(hackathon_id);

-- Team members (one team per student per hackathon)
CREATE TABLE IF NOT EXISTS hackathon_team_member (
    id TEXT PRIMARY KEY,
    team_id TEXT NOT NULL REFERENCES hackathon_team(id) ON DELETE CASCADE,
    hackathon_id TEXT NOT NULL REFERENCES hackathon(id) ON DELETE CASCADE,
    student_id TEXT NOT NULL REFERENCES users(id),
    attended BOOLEAN NOT NULL DEFAULT FALSE,
    joined_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (hackathon_id, student_id)
);

CREATE INDEX IF NOT EXISTS idx_team_member_team ON hackathon_team_member(team_id);

-- Team invites
CREATE TABLE IF NOT EXISTS hackathon_team_invite (
    id TEXT PRIMARY KEY,
    team_id TEXT NOT NULL REFERENCES hackathon_team(id) ON DELETE CASCADE,
    hackathon_id TEXT NOT NULL REFERENCES hackathon(id) ON DELETE CASCADE,
    student_id TEXT NOT NULL REFERENCES users(id),
    invited_by_id TEXT NOT NULL REFERENCES users(id),
    status TEXT NOT NULL DEFAULT 'PENDING' CHECK (status IN ('PENDING', 'ACCEPTED', 'DECLINED')),
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_team_invite_pending
    ON hackathon_team_invite(team_id, student_id) WHERE status = 'PENDING';
CREATE INDEX IF NOT EXISTS idx_team_invite_student ON hackathon_team_invite(student_id, status);

-- Invites for emails without an account
CREATE TABLE IF NOT EXISTS hackathon_temporary_invite (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL,
    team_id TEXT NOT NULL REFERENCES hackathon_team(id) ON DELETE CASCADE,
    invited_by_id TEXT NOT NULL REFERENCES users(id),
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (email, team_id)
);

CREATE INDEX IF NOT EXISTS idx_temporary_invite_email ON hackathon_temporary_invite(email);

-- Attendance schedules
CREATE TABLE IF NOT EXISTS attendance_schedule (
    id TEXT PRIMARY KEY,
    hackathon_id TEXT NOT NULL REFERENCES hackathon(id) ON DELETE CASCADE,
    day INTEGER NOT NULL,
    check_in_time TIMESTAMP NOT NULL,
    description TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_attendance_schedule_hackathon ON attendance_schedule(hackathon_id);

-- Attendance records (one per member per schedule)
CREATE TABLE IF NOT EXISTS attendance_record (
    id TEXT PRIMARY KEY,
    schedule_id TEXT NOT NULL REFERENCES attendance_schedule(id) ON DELETE CASCADE,
    member_id TEXT NOT NULL REFERENCES hackathon_team_member(id) ON DELETE CASCADE,
    present BOOLEAN NOT NULL DEFAULT TRUE,
    checked_in_at TIMESTAMP NOT NULL,
    checked_in_by TEXT NOT NULL REFERENCES users(id),
    UNIQUE (schedule_id, member_id)
);
`

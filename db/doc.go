// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and creates the schema.

Open supports SQLite (modernc.org/sqlite, single connection) and PostgreSQL
(lib/pq). Queries use $N placeholders, which both accept.

CreateSchema is safe to call multiple times.

# Tables

	users
	hackathon 1──* problem_statement
	hackathon 1──* hackathon_team 1──* hackathon_team_member
	hackathon_team 1──* hackathon_team_invite
	hackathon_team 1──* hackathon_temporary_invite
	hackathon 1──* attendance_schedule 1──* attendance_record

# Constraints

  - a student is on at most one team per hackathon
  - at most one PENDING invite per (team, student)
  - one attendance record per (schedule, member)

IsUniqueViolation recognises these violations from either driver.
*/
package db

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package actions

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/campuslab/hackdesk/auth"
	"github.com/campuslab/hackdesk/models"
	"github.com/campuslab/hackdesk/qr"
)

// CheckIn records a scanned QR code against a schedule. Scanning the same
// member twice keeps one record and reports it as already marked.
func (s *Service) CheckIn(ctx context.Context, id auth.Identity, scheduleID, raw string) models.Result[models.CheckInResponse] {
	if ae := requireStaff(id); ae != nil {
		return models.Failed[models.CheckInResponse](ae)
	}

	payload, err := qr.Decode(raw)
	if err != nil {
		return models.Fail[models.CheckInResponse](models.KindValidation, "Invalid QR code data")
	}

	var hackathonID string
	err = s.db.QueryRowContext(ctx, `SELECT hackathon_id FROM attendance_schedule WHERE id = $1`, scheduleID).Scan(&hackathonID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Failed[models.CheckInResponse](notFound("Attendance schedule not found"))
	}
	if err != nil {
		slog.Error("failed to query schedule", "error", err, "schedule_id", scheduleID)
		return models.Fail[models.CheckInResponse](models.KindInternal, "Failed to record attendance")
	}

	var memberID string
	err = s.db.QueryRowContext(ctx, `
		SELECT id FROM hackathon_team_member
		WHERE team_id = $1 AND student_id = $2 AND hackathon_id = $3
	`, payload.TeamID, payload.UserID, hackathonID).Scan(&memberID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Failed[models.CheckInResponse](notFound("Team member not found for this hackathon"))
	}
	if err != nil {
		slog.Error("failed to query member", "error", err)
		return models.Fail[models.CheckInResponse](models.KindInternal, "Failed to record attendance")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		return models.Fail[models.CheckInResponse](models.KindInternal, "Failed to record attendance")
	}
	defer tx.Rollback()

	// The insert decides first-scan vs re-scan. A concurrent first scan
	// blocks on the unique index and then inserts nothing.
	now := s.now()
	res, err := tx.ExecContext(ctx, `
		INSERT INTO attendance_record (id, schedule_id, member_id, present, checked_in_at, checked_in_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (schedule_id, member_id) DO NOTHING
	`, auth.NewID(), scheduleID, memberID, true, now, id.UserID)
	if err != nil {
		slog.Error("failed to insert attendance", "error", err, "schedule_id", scheduleID)
		return models.Fail[models.CheckInResponse](models.KindInternal, "Failed to record attendance")
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		slog.Error("failed to read insert result", "error", err)
		return models.Fail[models.CheckInResponse](models.KindInternal, "Failed to record attendance")
	}
	seen := inserted == 0

	if seen {
		_, err = tx.ExecContext(ctx, `
			UPDATE attendance_record SET present = $1, checked_in_at = $2, checked_in_by = $3
			WHERE schedule_id = $4 AND member_id = $5
		`, true, now, id.UserID, scheduleID, memberID)
		if err != nil {
			slog.Error("failed to update attendance", "error", err, "schedule_id", scheduleID)
			return models.Fail[models.CheckInResponse](models.KindInternal, "Failed to record attendance")
		}
	}

	if _, err := tx.ExecContext(ctx, `UPDATE hackathon_team_member SET attended = $1 WHERE id = $2`, true, memberID); err != nil {
		slog.Error("failed to mark member attended", "error", err, "member_id", memberID)
		return models.Fail[models.CheckInResponse](models.KindInternal, "Failed to record attendance")
	}

	rec := models.AttendanceRecord{TeamID: payload.TeamID, StudentID: payload.UserID}
	err = tx.QueryRowContext(ctx, `
		SELECT id, schedule_id, member_id, present, checked_in_at, checked_in_by
		FROM attendance_record WHERE schedule_id = $1 AND member_id = $2
	`, scheduleID, memberID).Scan(&rec.ID, &rec.ScheduleID, &rec.MemberID, &rec.Present, &rec.CheckedInAt, &rec.CheckedInBy)
	if err != nil {
		slog.Error("failed to read attendance", "error", err)
		return models.Fail[models.CheckInResponse](models.KindInternal, "Failed to record attendance")
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		return models.Fail[models.CheckInResponse](models.KindInternal, "Failed to record attendance")
	}

	status := models.CheckInRecorded
	if seen {
		status = models.CheckInAlreadyMarked
	}

	slog.Info("attendance recorded", "schedule_id", scheduleID, "member_id", memberID, "status", status)

	return models.Ok(models.CheckInResponse{Success: true, Status: status, Record: rec})
}

// ListAttendance returns every record of a schedule with names attached.
func (s *Service) ListAttendance(ctx context.Context, id auth.Identity, scheduleID string) models.Result[[]models.AttendanceEntry] {
	if ae := requireStaff(id); ae != nil {
		return models.Failed[[]models.AttendanceEntry](ae)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.schedule_id, r.member_id, m.team_id, m.student_id, r.present,
		       r.checked_in_at, r.checked_in_by, u.name, t.name
		FROM attendance_record r
		JOIN hackathon_team_member m ON m.id = r.member_id
		JOIN hackathon_team t ON t.id = m.team_id
		JOIN users u ON u.id = m.student_id
		WHERE r.schedule_id = $1
		ORDER BY t.name, u.name
	`, scheduleID)
	if err != nil {
		slog.Error("failed to query attendance", "error", err)
		return models.Fail[[]models.AttendanceEntry](models.KindInternal, "Database error")
	}
	defer rows.Close()

	entries := []models.AttendanceEntry{}
	for rows.Next() {
		var e models.AttendanceEntry
		r := &e.Record
		if err := rows.Scan(&r.ID, &r.ScheduleID, &r.MemberID, &r.TeamID, &r.StudentID, &r.Present,
			&r.CheckedInAt, &r.CheckedInBy, &e.StudentName, &e.TeamName); err != nil {
			slog.Error("failed to scan attendance", "error", err)
			return models.Fail[[]models.AttendanceEntry](models.KindInternal, "Database error")
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to read attendance", "error", err)
		return models.Fail[[]models.AttendanceEntry](models.KindInternal, "Database error")
	}

	return models.Ok(entries)
}

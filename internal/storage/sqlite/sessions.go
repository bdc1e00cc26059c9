package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mmynk/meetpoint/internal/apperrors"
	"github.com/mmynk/meetpoint/internal/geo"
	"github.com/mmynk/meetpoint/internal/models"
)

// CreateSession persists a new session and populates its database id.
func (s *SQLiteStore) CreateSession(ctx context.Context, session *models.Session) error {
	var lat, lon sql.NullFloat64
	if session.MeetingLocation != nil {
		lat = sql.NullFloat64{Float64: session.MeetingLocation.Latitude, Valid: true}
		lon = sql.NullFloat64{Float64: session.MeetingLocation.Longitude, Valid: true}
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (session_id, initiator_id, status, invite_code, meeting_lat, meeting_lon, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		session.SessionID, session.InitiatorID, session.Status.String(), session.InviteCode,
		lat, lon, session.CreatedAt, session.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read session id: %w", err)
	}
	session.ID = id
	return nil
}

// GetSession retrieves a session by its database id.
func (s *SQLiteStore) GetSession(ctx context.Context, id int64) (*models.Session, error) {
	return s.scanSession(s.db.QueryRowContext(ctx,
		`SELECT id, session_id, initiator_id, status, invite_code, meeting_lat, meeting_lon, created_at, updated_at
		 FROM sessions WHERE id = ?`, id))
}

// GetSessionByPublicID retrieves a session by its public UUID.
func (s *SQLiteStore) GetSessionByPublicID(ctx context.Context, sessionID string) (*models.Session, error) {
	return s.scanSession(s.db.QueryRowContext(ctx,
		`SELECT id, session_id, initiator_id, status, invite_code, meeting_lat, meeting_lon, created_at, updated_at
		 FROM sessions WHERE session_id = ?`, sessionID))
}

// SetMeetingLocation writes the meeting point in a single conditional
// UPDATE guarded on the session still being active. The status column is
// deliberately absent from the statement: only EndSession ever writes it,
// so a stale in-memory snapshot can never flip an ended session back.
func (s *SQLiteStore) SetMeetingLocation(ctx context.Context, id int64, loc geo.Location, updatedAt int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET meeting_lat = ?, meeting_lon = ?, updated_at = ? WHERE id = ? AND status = ?`,
		loc.Latitude, loc.Longitude, updatedAt, id, models.StatusActive.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update meeting location: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 1 {
		return nil
	}

	if _, err := s.GetSession(ctx, id); err != nil {
		return err
	}
	return apperrors.E(apperrors.KindStateConflict, "session has already ended")
}

// EndSession flips an active session to ended in a single conditional
// UPDATE. Zero affected rows means another writer ended it first (or the
// session is gone), which surfaces as a state conflict or not-found.
func (s *SQLiteStore) EndSession(ctx context.Context, id int64, updatedAt int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
		models.StatusEnded.String(), updatedAt, id, models.StatusActive.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 1 {
		return nil
	}

	if _, err := s.GetSession(ctx, id); err != nil {
		return err
	}
	return apperrors.E(apperrors.KindStateConflict, "session has already ended")
}

func (s *SQLiteStore) scanSession(row *sql.Row) (*models.Session, error) {
	session := &models.Session{}
	var status string
	var lat, lon sql.NullFloat64

	err := row.Scan(&session.ID, &session.SessionID, &session.InitiatorID, &status,
		&session.InviteCode, &lat, &lon, &session.CreatedAt, &session.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, apperrors.E(apperrors.KindNotFound, "session not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	session.Status, err = models.ParseSessionStatus(status)
	if err != nil {
		return nil, fmt.Errorf("failed to parse session status: %w", err)
	}
	if lat.Valid && lon.Valid {
		session.MeetingLocation = &geo.Location{Latitude: lat.Float64, Longitude: lon.Float64}
	}
	return session, nil
}

package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mmynk/meetpoint/internal/apperrors"
	"github.com/mmynk/meetpoint/internal/models"
)

// UpsertLocation writes the participant's latest location. The single
// ON CONFLICT statement keeps the read-modify-write atomic against the
// unique participant row, so two concurrent reports from the same user
// resolve to last-writer-wins instead of a corrupted record.
func (s *SQLiteStore) UpsertLocation(ctx context.Context, loc *models.ParticipantLocation) error {
	now := time.Now().Unix()
	if loc.CreatedAt == 0 {
		loc.CreatedAt = now
	}
	loc.UpdatedAt = now

	var accuracy sql.NullFloat64
	if loc.Location.AccuracyM != nil {
		accuracy = sql.NullFloat64{Float64: *loc.Location.AccuracyM, Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO participant_locations (participant_id, session_id, user_id, latitude, longitude, accuracy_m, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (participant_id) DO UPDATE SET
		   latitude = excluded.latitude,
		   longitude = excluded.longitude,
		   accuracy_m = excluded.accuracy_m,
		   updated_at = excluded.updated_at`,
		loc.ParticipantID, loc.SessionID, loc.UserID,
		loc.Location.Latitude, loc.Location.Longitude, accuracy,
		loc.CreatedAt, loc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert location: %w", err)
	}

	// Re-read to pick up the row id and the surviving created_at on the
	// update path.
	saved, err := s.GetLocationByParticipant(ctx, loc.ParticipantID)
	if err != nil {
		return err
	}
	loc.ID = saved.ID
	loc.CreatedAt = saved.CreatedAt
	return nil
}

// GetLocationByParticipant retrieves the latest location for a participant row.
func (s *SQLiteStore) GetLocationByParticipant(ctx context.Context, participantID int64) (*models.ParticipantLocation, error) {
	return s.scanLocation(s.db.QueryRowContext(ctx,
		`SELECT id, participant_id, session_id, user_id, latitude, longitude, accuracy_m, created_at, updated_at
		 FROM participant_locations WHERE participant_id = ?`, participantID))
}

// GetLocation retrieves the latest location for a user in a session.
func (s *SQLiteStore) GetLocation(ctx context.Context, sessionID, userID int64) (*models.ParticipantLocation, error) {
	return s.scanLocation(s.db.QueryRowContext(ctx,
		`SELECT id, participant_id, session_id, user_id, latitude, longitude, accuracy_m, created_at, updated_at
		 FROM participant_locations WHERE session_id = ? AND user_id = ?`, sessionID, userID))
}

// ListLocations returns every participant's last-known location for a session.
func (s *SQLiteStore) ListLocations(ctx context.Context, sessionID int64) ([]models.ParticipantLocation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, participant_id, session_id, user_id, latitude, longitude, accuracy_m, created_at, updated_at
		 FROM participant_locations WHERE session_id = ? ORDER BY participant_id`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	defer rows.Close()

	var locations []models.ParticipantLocation
	for rows.Next() {
		loc, err := scanLocationRow(rows)
		if err != nil {
			return nil, err
		}
		locations = append(locations, *loc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate locations: %w", err)
	}
	return locations, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *SQLiteStore) scanLocation(row *sql.Row) (*models.ParticipantLocation, error) {
	loc, err := scanLocationRow(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.E(apperrors.KindNotFound, "participant location not found")
	}
	return loc, err
}

func scanLocationRow(row rowScanner) (*models.ParticipantLocation, error) {
	loc := &models.ParticipantLocation{}
	var accuracy sql.NullFloat64

	err := row.Scan(&loc.ID, &loc.ParticipantID, &loc.SessionID, &loc.UserID,
		&loc.Location.Latitude, &loc.Location.Longitude, &accuracy,
		&loc.CreatedAt, &loc.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan location: %w", err)
	}
	if accuracy.Valid {
		loc.Location.AccuracyM = &accuracy.Float64
	}
	return loc, nil
}

package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mmynk/meetpoint/internal/apperrors"
	"github.com/mmynk/meetpoint/internal/models"
)

// AddParticipant inserts a membership row for the (session, user) pair.
// The UNIQUE(session_id, user_id) constraint makes concurrent duplicate
// joins converge: the losing insert is a no-op and the existing row is
// loaded back into p.
func (s *SQLiteStore) AddParticipant(ctx context.Context, p *models.SessionParticipant) (bool, error) {
	if p.JoinedAt == 0 {
		p.JoinedAt = time.Now().Unix()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO session_participants (session_id, user_id, joined_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT (session_id, user_id) DO NOTHING`,
		p.SessionID, p.UserID, p.JoinedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert participant: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 1 {
		id, err := res.LastInsertId()
		if err != nil {
			return false, fmt.Errorf("failed to read participant id: %w", err)
		}
		p.ID = id
		return true, nil
	}

	// Lost the race (or retried request): hand back the winning row.
	existing, err := s.GetParticipant(ctx, p.SessionID, p.UserID)
	if err != nil {
		return false, err
	}
	*p = *existing
	return false, nil
}

// GetParticipant retrieves the membership row for a user in a session.
func (s *SQLiteStore) GetParticipant(ctx context.Context, sessionID, userID int64) (*models.SessionParticipant, error) {
	p := &models.SessionParticipant{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, session_id, user_id, joined_at FROM session_participants
		 WHERE session_id = ? AND user_id = ?`,
		sessionID, userID,
	).Scan(&p.ID, &p.SessionID, &p.UserID, &p.JoinedAt)
	if err == sql.ErrNoRows {
		return nil, apperrors.E(apperrors.KindNotFound, "participant not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	return p, nil
}

// HasParticipant reports whether the user has joined the session.
func (s *SQLiteStore) HasParticipant(ctx context.Context, sessionID, userID int64) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM session_participants WHERE session_id = ? AND user_id = ?)`,
		sessionID, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check participant: %w", err)
	}
	return exists, nil
}

// ListParticipants returns all membership rows for a session in join order.
func (s *SQLiteStore) ListParticipants(ctx context.Context, sessionID int64) ([]models.SessionParticipant, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, user_id, joined_at FROM session_participants
		 WHERE session_id = ? ORDER BY joined_at, id`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var participants []models.SessionParticipant
	for rows.Next() {
		var p models.SessionParticipant
		if err := rows.Scan(&p.ID, &p.SessionID, &p.UserID, &p.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}
	return participants, nil
}

// CountParticipants returns the number of participants in a session.
func (s *SQLiteStore) CountParticipants(ctx context.Context, sessionID int64) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM session_participants WHERE session_id = ?`,
		sessionID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count participants: %w", err)
	}
	return count, nil
}

package models

import "github.com/mmynk/meetpoint/internal/geo"

// SessionParticipant records a user's membership in a session.
// One row per (session, user) pair; the uniqueness is enforced at the
// storage boundary so concurrent duplicate joins converge to one row.
// Rows are created on first join and never mutated or deleted. The
// initiator gets a row at session creation, so downstream location
// updates work the same for initiator and invitees.
type SessionParticipant struct {
	// ID is the database row id.
	ID int64

	// SessionID references Session.ID.
	SessionID int64

	UserID int64

	// JoinedAt is the Unix timestamp of the first successful join.
	JoinedAt int64
}

// ParticipantLocation is the last-known location of one participant.
// At most one row per participant: every report overwrites the previous
// one. History is intentionally not retained; the use case is "where is
// everyone right now", not tracking. Stale rows are kept and shown as
// last-known even after a participant stops reporting.
type ParticipantLocation struct {
	// ID is the database row id.
	ID int64

	// ParticipantID references SessionParticipant.ID and is unique.
	ParticipantID int64

	// SessionID and UserID are denormalized for session-wide reads.
	SessionID int64
	UserID    int64

	Location geo.Location

	// CreatedAt is the first report, UpdatedAt the latest. Unix timestamps.
	CreatedAt int64
	UpdatedAt int64
}

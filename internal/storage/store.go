// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/mmynk/meetpoint/internal/geo"
	"github.com/mmynk/meetpoint/internal/models"
)

// SessionStore persists session aggregates.
type SessionStore interface {
	// CreateSession persists a new session. The session.ID field is
	// populated by the store.
	CreateSession(ctx context.Context, session *models.Session) error

	// GetSession retrieves a session by its database id.
	GetSession(ctx context.Context, id int64) (*models.Session, error)

	// GetSessionByPublicID retrieves a session by its public UUID.
	// Returns a KindNotFound error when no such session exists.
	GetSessionByPublicID(ctx context.Context, sessionID string) (*models.Session, error)

	// SetMeetingLocation writes the meeting point of an active session.
	// The write is conditional on the session still being active, so a
	// caller holding a stale snapshot can never touch an ended session.
	// Returns KindStateConflict when the session has since ended.
	SetMeetingLocation(ctx context.Context, id int64, loc geo.Location, updatedAt int64) error

	// EndSession atomically flips an active session to ended. When the
	// session was already ended it returns a KindStateConflict error, so
	// two concurrent ends race benignly: exactly one wins.
	EndSession(ctx context.Context, id int64, updatedAt int64) error
}

// ParticipantStore persists session membership.
type ParticipantStore interface {
	// AddParticipant inserts a membership row if none exists for the
	// (session, user) pair. The insert is atomic against concurrent
	// duplicates: when another writer won the race, the existing row is
	// loaded into p and created is false.
	AddParticipant(ctx context.Context, p *models.SessionParticipant) (created bool, err error)

	// GetParticipant retrieves the membership row for a user in a
	// session. Returns a KindNotFound error when the user never joined.
	GetParticipant(ctx context.Context, sessionID, userID int64) (*models.SessionParticipant, error)

	// HasParticipant reports whether the user has joined the session.
	HasParticipant(ctx context.Context, sessionID, userID int64) (bool, error)

	// ListParticipants returns all membership rows for a session in
	// join order.
	ListParticipants(ctx context.Context, sessionID int64) ([]models.SessionParticipant, error)

	// CountParticipants returns the number of participants in a session.
	CountParticipants(ctx context.Context, sessionID int64) (int, error)
}

// LocationStore persists last-known participant locations.
type LocationStore interface {
	// UpsertLocation writes the participant's latest location. The write
	// is atomic per participant row: concurrent reports from the same
	// user resolve to last-writer-wins, never an interleaved record.
	UpsertLocation(ctx context.Context, loc *models.ParticipantLocation) error

	// GetLocationByParticipant retrieves the latest location for a
	// participant row. Returns a KindNotFound error when the
	// participant never reported.
	GetLocationByParticipant(ctx context.Context, participantID int64) (*models.ParticipantLocation, error)

	// GetLocation retrieves the latest location for a user in a session.
	GetLocation(ctx context.Context, sessionID, userID int64) (*models.ParticipantLocation, error)

	// ListLocations returns every participant's last-known location for
	// a session.
	ListLocations(ctx context.Context, sessionID int64) ([]models.ParticipantLocation, error)
}

// UserStore persists registered accounts.
type UserStore interface {
	// CreateUser persists a new user. The user.ID field is populated by
	// the store.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by id.
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// Store is the full persistence surface. This abstraction allows swapping
// storage backends (SQLite, PostgreSQL, etc.) without changing the service
// layer.
type Store interface {
	SessionStore
	ParticipantStore
	LocationStore
	UserStore

	// Close releases any resources held by the store.
	Close() error
}

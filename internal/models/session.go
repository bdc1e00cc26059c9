package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/meetpoint/internal/apperrors"
	"github.com/mmynk/meetpoint/internal/geo"
	"github.com/mmynk/meetpoint/internal/invite"
)

// SessionStatus is the lifecycle state of a session.
type SessionStatus int

const (
	// StatusActive means the session accepts joins, location reports and
	// meeting point updates.
	StatusActive SessionStatus = iota
	// StatusEnded is terminal. No operation reverses it.
	StatusEnded
)

// String returns the storage representation of the status.
func (s SessionStatus) String() string {
	if s == StatusEnded {
		return "ended"
	}
	return "active"
}

// ParseSessionStatus converts the storage representation back to a status.
func ParseSessionStatus(s string) (SessionStatus, error) {
	switch s {
	case "active":
		return StatusActive, nil
	case "ended":
		return StatusEnded, nil
	default:
		return StatusActive, fmt.Errorf("unknown session status %q", s)
	}
}

// Session is the aggregate root for a meetup.
//
// SessionID and InviteCode are immutable once set. Status only ever moves
// Active -> Ended. MeetingLocation may only be set by the initiator while the
// session is active. Mutation goes through methods so these invariants cannot
// be bypassed; loading from storage reconstructs the struct directly.
type Session struct {
	// ID is the database row id.
	ID int64

	// SessionID is the opaque public identifier (UUID). Knowing it is
	// never sufficient to join; that requires the invite code.
	SessionID string

	// InitiatorID is the user who created the session.
	InitiatorID int64

	Status     SessionStatus
	InviteCode string

	// MeetingLocation is the agreed meeting point, nil until set.
	MeetingLocation *geo.Location

	// CreatedAt and UpdatedAt are Unix timestamps.
	CreatedAt int64
	UpdatedAt int64
}

// NewSession creates a fresh active session for the initiator, assigning a
// random public id and invite code.
func NewSession(initiatorID int64) (*Session, error) {
	if initiatorID <= 0 {
		return nil, apperrors.E(apperrors.KindValidation, "initiator id is required")
	}

	code, err := invite.NewCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate invite code: %w", err)
	}

	now := time.Now().Unix()
	return &Session{
		SessionID:   uuid.New().String(),
		InitiatorID: initiatorID,
		Status:      StatusActive,
		InviteCode:  code,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// IsActive reports whether the session still accepts mutations.
func (s *Session) IsActive() bool {
	return s.Status == StatusActive
}

// IsInitiator reports whether userID created this session.
func (s *Session) IsInitiator(userID int64) bool {
	return s.InitiatorID == userID
}

// End flips the session to Ended. Initiator-only; ending an already-ended
// session is a state conflict, never a silent no-op, so concurrent double
// ends race benignly: one wins, the other observes the terminal state.
func (s *Session) End(callerID int64) error {
	if !s.IsInitiator(callerID) {
		return apperrors.E(apperrors.KindAuthorization, "only the initiator can end the session")
	}
	if s.Status == StatusEnded {
		return apperrors.E(apperrors.KindStateConflict, "session has already ended")
	}
	s.Status = StatusEnded
	s.UpdatedAt = time.Now().Unix()
	return nil
}

// SetMeetingLocation replaces the meeting point. Initiator-only, and only
// while the session is active.
func (s *Session) SetMeetingLocation(callerID int64, loc geo.Location) error {
	if !s.IsInitiator(callerID) {
		return apperrors.E(apperrors.KindAuthorization, "only the initiator can set the meeting location")
	}
	if !s.IsActive() {
		return apperrors.E(apperrors.KindStateConflict, "cannot set meeting location on an ended session")
	}
	s.MeetingLocation = &loc
	s.UpdatedAt = time.Now().Unix()
	return nil
}

package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmynk/meetpoint/internal/apperrors"
	"github.com/mmynk/meetpoint/internal/broadcast"
	"github.com/mmynk/meetpoint/internal/geo"
	"github.com/mmynk/meetpoint/internal/invite"
	"github.com/mmynk/meetpoint/internal/metrics"
	"github.com/mmynk/meetpoint/internal/models"
	"github.com/mmynk/meetpoint/internal/storage"
)

// errSessionAccess hides whether a session id was wrong or merely someone
// else's: both cases answer the same way so responses never confirm which
// session identifiers exist.
var errSessionAccess = apperrors.E(apperrors.KindAccessDenied, "session not accessible")

// SessionService implements the session lifecycle use cases: create, join,
// end, meeting location, invite links.
type SessionService struct {
	store       storage.Store
	coordinator *broadcast.Coordinator

	// inviteBaseURL is the public URL prefix for invite links,
	// e.g. "https://meetpoint.example.com/join".
	inviteBaseURL string
}

// NewSessionService creates a new SessionService.
func NewSessionService(store storage.Store, coordinator *broadcast.Coordinator, inviteBaseURL string) *SessionService {
	return &SessionService{
		store:         store,
		coordinator:   coordinator,
		inviteBaseURL: inviteBaseURL,
	}
}

// JoinResult is the outcome of a join request.
type JoinResult struct {
	Participant *models.SessionParticipant
	// AlreadyJoined is true when the caller had joined before; the same
	// participant row is returned and no new row is created.
	AlreadyJoined bool
	Message       string
}

// InviteLink is a sharable invite for a session.
type InviteLink struct {
	SessionID  string
	InviteCode string
	URL        string
}

// Create starts a new active session and immediately registers the
// initiator as a participant, so their later location reports go through
// the same path as everyone else's.
func (s *SessionService) Create(ctx context.Context, initiatorID int64) (*models.Session, error) {
	slog.Info("Create session request", "initiator_id", initiatorID)

	session, err := models.NewSession(initiatorID)
	if err != nil {
		return nil, err
	}

	if err := s.store.CreateSession(ctx, session); err != nil {
		slog.Error("Create session failed", "initiator_id", initiatorID, "error", err)
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	participant := &models.SessionParticipant{
		SessionID: session.ID,
		UserID:    initiatorID,
		JoinedAt:  session.CreatedAt,
	}
	if _, err := s.store.AddParticipant(ctx, participant); err != nil {
		slog.Error("Failed to add initiator as participant", "session_id", session.SessionID, "error", err)
		return nil, fmt.Errorf("failed to register initiator: %w", err)
	}

	metrics.SessionsCreated.Inc()
	slog.Info("Session created", "session_id", session.SessionID, "initiator_id", initiatorID)
	return session, nil
}

// Get loads a session by public id for a caller who is a participant or
// the initiator. Anyone else, and any unknown id, gets access denied.
func (s *SessionService) Get(ctx context.Context, publicID string, callerID int64) (*models.Session, error) {
	session, err := s.loadSession(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, session, callerID); err != nil {
		return nil, err
	}
	return session, nil
}

// Join adds the caller to the session identified by its public id, guarded
// by the invite code. Joining twice is not an error: the original
// participant row is returned unchanged, so retried requests and reconnects
// cannot create duplicates.
func (s *SessionService) Join(ctx context.Context, publicID, code string, userID int64) (*JoinResult, error) {
	slog.Info("Join request", "session_id", publicID, "user_id", userID)

	session, err := s.loadSession(ctx, publicID)
	if err != nil {
		return nil, err
	}

	// The public id alone is never enough to join.
	if !invite.Matches(session.InviteCode, code) {
		slog.Warn("Join rejected: invite code mismatch", "session_id", publicID, "user_id", userID)
		return nil, apperrors.E(apperrors.KindInvalidInviteCode, "invalid invite code")
	}

	if !session.IsActive() {
		return nil, apperrors.E(apperrors.KindStateConflict, "session has ended")
	}

	participant := &models.SessionParticipant{
		SessionID: session.ID,
		UserID:    userID,
	}
	created, err := s.store.AddParticipant(ctx, participant)
	if err != nil {
		slog.Error("Join failed", "session_id", publicID, "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to add participant: %w", err)
	}

	result := &JoinResult{Participant: participant, AlreadyJoined: !created}
	if created {
		result.Message = "successfully joined"
		metrics.JoinsAccepted.WithLabelValues("joined").Inc()
		s.coordinator.Notify(session)
	} else {
		result.Message = "already joined"
		metrics.JoinsAccepted.WithLabelValues("already_joined").Inc()
	}

	slog.Info("Join accepted",
		"session_id", publicID,
		"user_id", userID,
		"participant_id", participant.ID,
		"already_joined", result.AlreadyJoined,
	)
	return result, nil
}

// End terminates the session. Initiator-only and one-way; ending an
// already-ended session is a state conflict.
func (s *SessionService) End(ctx context.Context, publicID string, callerID int64) (*models.Session, error) {
	slog.Info("End session request", "session_id", publicID, "caller_id", callerID)

	session, err := s.loadSession(ctx, publicID)
	if err != nil {
		return nil, err
	}

	// Enforces ownership and the one-way transition on the loaded state.
	if err := session.End(callerID); err != nil {
		return nil, err
	}

	// Conditional write so a concurrent end cannot both win.
	if err := s.store.EndSession(ctx, session.ID, session.UpdatedAt); err != nil {
		if apperrors.IsKind(err, apperrors.KindStateConflict) {
			return nil, err
		}
		slog.Error("End session failed", "session_id", publicID, "error", err)
		return nil, fmt.Errorf("failed to end session: %w", err)
	}

	metrics.SessionsEnded.Inc()
	s.coordinator.Notify(session)
	slog.Info("Session ended", "session_id", publicID)
	return session, nil
}

// UpdateMeetingLocation replaces the session's meeting point.
// Initiator-only, active sessions only.
func (s *SessionService) UpdateMeetingLocation(ctx context.Context, publicID string, callerID int64, loc geo.Location) (*models.Session, error) {
	slog.Info("Update meeting location request", "session_id", publicID, "caller_id", callerID)

	session, err := s.loadSession(ctx, publicID)
	if err != nil {
		return nil, err
	}

	if err := session.SetMeetingLocation(callerID, loc); err != nil {
		return nil, err
	}

	// The store re-checks the status at the write, so a session ended
	// between the load above and this point is never modified.
	if err := s.store.SetMeetingLocation(ctx, session.ID, loc, session.UpdatedAt); err != nil {
		slog.Warn("Update meeting location failed", "session_id", publicID, "error", err)
		return nil, err
	}

	s.coordinator.Notify(session)
	slog.Info("Meeting location updated", "session_id", publicID)
	return session, nil
}

// GenerateInviteLink returns the sharable invite URL and code for a
// session. Initiator-only: participants already hold the code, and only
// the owner decides who else gets it.
func (s *SessionService) GenerateInviteLink(ctx context.Context, publicID string, callerID int64) (*InviteLink, error) {
	session, err := s.loadSession(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if !session.IsInitiator(callerID) {
		return nil, apperrors.E(apperrors.KindAuthorization, "only the initiator can generate invite links")
	}

	return &InviteLink{
		SessionID:  session.SessionID,
		InviteCode: session.InviteCode,
		URL:        fmt.Sprintf("%s?session=%s&code=%s", s.inviteBaseURL, session.SessionID, session.InviteCode),
	}, nil
}

// loadSession resolves a public id, translating not-found into the merged
// access-denied answer.
func (s *SessionService) loadSession(ctx context.Context, publicID string) (*models.Session, error) {
	if publicID == "" {
		return nil, apperrors.E(apperrors.KindValidation, "session id is required")
	}
	session, err := s.store.GetSessionByPublicID(ctx, publicID)
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindNotFound) {
			return nil, errSessionAccess
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return session, nil
}

// requireMember fails with the merged access-denied answer unless callerID
// is a participant or the initiator.
func (s *SessionService) requireMember(ctx context.Context, session *models.Session, callerID int64) error {
	if session.IsInitiator(callerID) {
		return nil
	}
	joined, err := s.store.HasParticipant(ctx, session.ID, callerID)
	if err != nil {
		return fmt.Errorf("failed to check membership: %w", err)
	}
	if !joined {
		return errSessionAccess
	}
	return nil
}

package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mmynk/meetpoint/internal/apperrors"
	"github.com/mmynk/meetpoint/internal/broadcast"
	"github.com/mmynk/meetpoint/internal/geo"
	"github.com/mmynk/meetpoint/internal/metrics"
	"github.com/mmynk/meetpoint/internal/models"
	"github.com/mmynk/meetpoint/internal/storage"
)

// LocationService implements the location reporting and meeting point
// calculation use cases.
type LocationService struct {
	store       storage.Store
	coordinator *broadcast.Coordinator
}

// NewLocationService creates a new LocationService.
func NewLocationService(store storage.Store, coordinator *broadcast.Coordinator) *LocationService {
	return &LocationService{store: store, coordinator: coordinator}
}

// OptimalResult is the computed meeting point for a session.
type OptimalResult struct {
	SessionID string
	Location  geo.Location
	// TotalTravelKm is the summed great-circle distance from every
	// reported location to the meeting point.
	TotalTravelKm float64
	// ParticipantCount is the number of participants whose locations
	// fed the computation.
	ParticipantCount int
}

// UpdateLocation records the caller's latest position in the session. Only
// participants of an active session may report; each report overwrites the
// caller's previous one.
func (s *LocationService) UpdateLocation(ctx context.Context, publicID string, userID int64, loc geo.Location) (*models.ParticipantLocation, error) {
	slog.Debug("Update location request", "session_id", publicID, "user_id", userID)

	session, err := s.loadSession(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if !session.IsActive() {
		return nil, apperrors.E(apperrors.KindStateConflict, "session has ended")
	}

	participant, err := s.store.GetParticipant(ctx, session.ID, userID)
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindNotFound) {
			return nil, apperrors.E(apperrors.KindAccessDenied, "not a participant of this session")
		}
		return nil, fmt.Errorf("failed to load participant: %w", err)
	}

	record := &models.ParticipantLocation{
		ParticipantID: participant.ID,
		SessionID:     session.ID,
		UserID:        userID,
		Location:      loc,
	}
	if err := s.store.UpsertLocation(ctx, record); err != nil {
		slog.Error("Update location failed", "session_id", publicID, "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to save location: %w", err)
	}

	metrics.LocationReports.Inc()
	s.coordinator.Notify(session)
	slog.Debug("Location updated",
		"session_id", publicID,
		"user_id", userID,
		"participant_id", participant.ID,
	)
	return record, nil
}

// CalculateOptimal computes the approximate fair meeting point over every
// reported location in the session: the unweighted coordinate centroid plus
// the total travel distance to it. Requires at least one reported location.
// The result is also broadcast to subscribers, best-effort.
func (s *LocationService) CalculateOptimal(ctx context.Context, publicID string, callerID int64) (*OptimalResult, error) {
	slog.Info("Calculate optimal location request", "session_id", publicID, "caller_id", callerID)

	session, err := s.loadSession(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if !session.IsActive() {
		return nil, apperrors.E(apperrors.KindStateConflict, "session has ended")
	}
	if err := s.requireMember(ctx, session, callerID); err != nil {
		return nil, err
	}

	records, err := s.store.ListLocations(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	if len(records) == 0 {
		return nil, apperrors.E(apperrors.KindValidation, "no participant locations available")
	}

	locations := make([]geo.Location, len(records))
	for i, r := range records {
		locations[i] = r.Location
	}

	center, err := geo.Center(locations)
	if err != nil {
		return nil, err
	}
	totalKm := geo.TotalTravelKm(locations, center)

	result := &OptimalResult{
		SessionID:        session.SessionID,
		Location:         center,
		TotalTravelKm:    totalKm,
		ParticipantCount: len(locations),
	}

	metrics.OptimalCalculations.Inc()
	s.coordinator.NotifyOptimal(session, broadcast.OptimalView{
		Latitude:         center.Latitude,
		Longitude:        center.Longitude,
		TotalTravelKm:    totalKm,
		ParticipantCount: len(locations),
		ComputedAt:       time.Now().Unix(),
	})

	slog.Info("Optimal location computed",
		"session_id", publicID,
		"participants", len(locations),
		"total_travel_km", totalKm,
	)
	return result, nil
}

func (s *LocationService) loadSession(ctx context.Context, publicID string) (*models.Session, error) {
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

func (s *LocationService) requireMember(ctx context.Context, session *models.Session, callerID int64) error {
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

// Package broadcast rebuilds consolidated session views and fans them out
// to subscribers after every session-affecting mutation.
package broadcast

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mmynk/meetpoint/internal/apperrors"
	"github.com/mmynk/meetpoint/internal/metrics"
	"github.com/mmynk/meetpoint/internal/models"
	"github.com/mmynk/meetpoint/internal/storage"
)

// Publisher is the transport port: publish a payload to a named channel.
// Implementations are expected to be fire-and-forget; the coordinator never
// waits for subscriber acknowledgement.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// LocationView is a participant's last-known coordinate as shown to
// subscribers.
type LocationView struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	AccuracyM *float64 `json:"accuracy_m,omitempty"`
	UpdatedAt int64    `json:"updated_at"`
}

// ParticipantView is one participant in the session view. Location is nil
// until the participant reports for the first time; participants who stopped
// reporting keep their last-known location.
type ParticipantView struct {
	UserID      int64         `json:"user_id"`
	DisplayName string        `json:"display_name"`
	IsInitiator bool          `json:"is_initiator"`
	JoinedAt    int64         `json:"joined_at"`
	Location    *LocationView `json:"location,omitempty"`
}

// SessionView is the consolidated state published on every mutation.
type SessionView struct {
	Type            string            `json:"type"` // always "session_view"
	SessionID       string            `json:"session_id"`
	Status          string            `json:"status"`
	InitiatorID     int64             `json:"initiator_id"`
	MeetingLocation *LocationView     `json:"meeting_location,omitempty"`
	Participants    []ParticipantView `json:"participants"`
	UpdatedAt       int64             `json:"updated_at"`
}

// Channel returns the pub/sub channel for a session's public id.
func Channel(sessionID string) string {
	return "session:" + sessionID
}

// Coordinator rebuilds session views from storage and publishes them.
type Coordinator struct {
	participants storage.ParticipantStore
	locations    storage.LocationStore
	users        storage.UserStore
	publisher    Publisher
}

// NewCoordinator creates a broadcast coordinator.
func NewCoordinator(participants storage.ParticipantStore, locations storage.LocationStore, users storage.UserStore, publisher Publisher) *Coordinator {
	return &Coordinator{
		participants: participants,
		locations:    locations,
		users:        users,
		publisher:    publisher,
	}
}

// Notify publishes the session view asynchronously. It returns immediately;
// build or publish failures are logged and counted, never surfaced to the
// triggering use case. The goroutine uses a fresh context so a finished
// request cannot cancel an in-flight broadcast.
func (c *Coordinator) Notify(session *models.Session) {
	snapshot := *session
	go func() {
		if err := c.Broadcast(context.Background(), &snapshot); err != nil {
			metrics.BroadcastFailures.Inc()
			slog.Warn("Broadcast failed", "session_id", snapshot.SessionID, "error", err)
		}
	}()
}

// OptimalView announces a freshly computed optimal meeting point.
type OptimalView struct {
	Type             string  `json:"type"` // always "optimal_location"
	SessionID        string  `json:"session_id"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	TotalTravelKm    float64 `json:"total_travel_km"`
	ParticipantCount int     `json:"participant_count"`
	ComputedAt       int64   `json:"computed_at"`
}

// NotifyOptimal publishes a computed meeting point asynchronously, with the
// same fire-and-forget contract as Notify.
func (c *Coordinator) NotifyOptimal(session *models.Session, view OptimalView) {
	view.Type = "optimal_location"
	view.SessionID = session.SessionID
	channel := Channel(session.SessionID)
	go func() {
		payload, err := json.Marshal(view)
		if err != nil {
			metrics.BroadcastFailures.Inc()
			slog.Warn("Optimal broadcast failed", "session_id", view.SessionID, "error", err)
			return
		}
		if err := c.publisher.Publish(context.Background(), channel, payload); err != nil {
			metrics.BroadcastFailures.Inc()
			slog.Warn("Optimal broadcast failed", "session_id", view.SessionID, "error", err)
			return
		}
		metrics.BroadcastsPublished.Inc()
	}()
}

// Broadcast rebuilds the consolidated view for the session and publishes it
// on the session's channel.
func (c *Coordinator) Broadcast(ctx context.Context, session *models.Session) error {
	view, err := c.buildView(ctx, session)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("failed to marshal session view: %w", err)
	}

	if err := c.publisher.Publish(ctx, Channel(session.SessionID), payload); err != nil {
		return fmt.Errorf("failed to publish session view: %w", err)
	}

	metrics.BroadcastsPublished.Inc()
	slog.Debug("Session view published",
		"session_id", session.SessionID,
		"participants", len(view.Participants),
	)
	return nil
}

func (c *Coordinator) buildView(ctx context.Context, session *models.Session) (*SessionView, error) {
	participants, err := c.participants.ListParticipants(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}

	locations, err := c.locations.ListLocations(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	byParticipant := make(map[int64]models.ParticipantLocation, len(locations))
	for _, loc := range locations {
		byParticipant[loc.ParticipantID] = loc
	}

	view := &SessionView{
		Type:         "session_view",
		SessionID:    session.SessionID,
		Status:       session.Status.String(),
		InitiatorID:  session.InitiatorID,
		Participants: make([]ParticipantView, 0, len(participants)),
		UpdatedAt:    session.UpdatedAt,
	}
	if session.MeetingLocation != nil {
		view.MeetingLocation = &LocationView{
			Latitude:  session.MeetingLocation.Latitude,
			Longitude: session.MeetingLocation.Longitude,
			UpdatedAt: session.UpdatedAt,
		}
	}

	for _, p := range participants {
		user, err := c.users.GetUserByID(ctx, p.UserID)
		if err != nil {
			// A deleted user must not abort the whole broadcast;
			// a partial view beats silent failure.
			if apperrors.IsKind(err, apperrors.KindNotFound) {
				slog.Warn("Skipping participant with missing user record",
					"session_id", session.SessionID, "user_id", p.UserID)
				continue
			}
			return nil, fmt.Errorf("failed to load user %d: %w", p.UserID, err)
		}

		pv := ParticipantView{
			UserID:      p.UserID,
			DisplayName: user.DisplayName,
			IsInitiator: session.IsInitiator(p.UserID),
			JoinedAt:    p.JoinedAt,
		}
		if loc, ok := byParticipant[p.ID]; ok {
			pv.Location = &LocationView{
				Latitude:  loc.Location.Latitude,
				Longitude: loc.Location.Longitude,
				AccuracyM: loc.Location.AccuracyM,
				UpdatedAt: loc.UpdatedAt,
			}
		}
		view.Participants = append(view.Participants, pv)
	}

	return view, nil
}

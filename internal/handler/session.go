package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mmynk/meetpoint/internal/apperrors"
	"github.com/mmynk/meetpoint/internal/geo"
	"github.com/mmynk/meetpoint/internal/middleware"
	"github.com/mmynk/meetpoint/internal/service"
)

// SessionHandler exposes the session lifecycle over HTTP.
type SessionHandler struct {
	sessions *service.SessionService
}

// NewSessionHandler creates a session handler.
func NewSessionHandler(sessions *service.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

type joinRequest struct {
	InviteCode string `json:"invite_code" binding:"required"`
}

type meetingLocationRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Create handles POST /sessions.
func (h *SessionHandler) Create(c *gin.Context) {
	session, err := h.sessions.Create(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"session_id":  session.ID,
		"public_id":   session.SessionID,
		"invite_code": session.InviteCode,
		"status":      session.Status.String(),
		"created_at":  session.CreatedAt,
	})
}

// Get handles GET /sessions/:id.
func (h *SessionHandler) Get(c *gin.Context) {
	session, err := h.sessions.Get(c.Request.Context(), c.Param("id"), middleware.GetUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	resp := gin.H{
		"public_id":    session.SessionID,
		"initiator_id": session.InitiatorID,
		"status":       session.Status.String(),
		"created_at":   session.CreatedAt,
		"updated_at":   session.UpdatedAt,
	}
	if session.MeetingLocation != nil {
		resp["meeting_location"] = gin.H{
			"latitude":  session.MeetingLocation.Latitude,
			"longitude": session.MeetingLocation.Longitude,
		}
	}
	c.JSON(http.StatusOK, resp)
}

// Join handles POST /sessions/:id/join.
func (h *SessionHandler) Join(c *gin.Context) {
	var req joinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperrors.E(apperrors.KindValidation, "invite_code is required"))
		return
	}

	result, err := h.sessions.Join(c.Request.Context(), c.Param("id"), req.InviteCode, middleware.GetUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	status := http.StatusCreated
	if result.AlreadyJoined {
		status = http.StatusOK
	}
	c.JSON(status, gin.H{
		"participant_id": result.Participant.ID,
		"user_id":        result.Participant.UserID,
		"joined_at":      result.Participant.JoinedAt,
		"message":        result.Message,
	})
}

// End handles POST /sessions/:id/end.
func (h *SessionHandler) End(c *gin.Context) {
	session, err := h.sessions.End(c.Request.Context(), c.Param("id"), middleware.GetUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"public_id": session.SessionID,
		"status":    session.Status.String(),
		"ended_at":  session.UpdatedAt,
	})
}

// UpdateMeetingLocation handles PUT /sessions/:id/meeting-location.
func (h *SessionHandler) UpdateMeetingLocation(c *gin.Context) {
	var req meetingLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperrors.E(apperrors.KindValidation, "latitude and longitude are required"))
		return
	}

	loc, err := geo.NewLocation(req.Latitude, req.Longitude, nil)
	if err != nil {
		writeError(c, err)
		return
	}

	session, err := h.sessions.UpdateMeetingLocation(c.Request.Context(), c.Param("id"), middleware.GetUserID(c), loc)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"public_id": session.SessionID,
		"latitude":  loc.Latitude,
		"longitude": loc.Longitude,
	})
}

// InviteLink handles GET /sessions/:id/invite.
func (h *SessionHandler) InviteLink(c *gin.Context) {
	link, err := h.sessions.GenerateInviteLink(c.Request.Context(), c.Param("id"), middleware.GetUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"public_id":   link.SessionID,
		"invite_code": link.InviteCode,
		"invite_link": link.URL,
	})
}

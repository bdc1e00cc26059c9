// Package handler exposes the session, location and auth services over
// HTTP. It only translates between JSON and the service layer; every
// domain rule lives below it.
package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mmynk/meetpoint/internal/apperrors"
	"github.com/mmynk/meetpoint/internal/auth"
)

// writeError maps a service error onto a transport status. Access denied
// answers 404 so responses never confirm whether a session id exists.
func writeError(c *gin.Context, err error) {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		c.JSON(statusFor(appErr.Kind), gin.H{
			"error": appErr.Message,
			"code":  appErr.Kind.String(),
		})
		return
	}

	switch {
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrMissingToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, auth.ErrEmailExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, auth.ErrWeakPassword):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		slog.Error("Unhandled internal error", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "an unexpected error occurred"})
	}
}

func statusFor(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindValidation:
		return http.StatusBadRequest
	case apperrors.KindInvalidInviteCode, apperrors.KindAuthorization:
		return http.StatusForbidden
	case apperrors.KindAccessDenied, apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindStateConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

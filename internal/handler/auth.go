package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mmynk/meetpoint/internal/apperrors"
	"github.com/mmynk/meetpoint/internal/service"
)

// AuthHandler exposes registration and login over HTTP.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type registerRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperrors.E(apperrors.KindValidation, "invalid request body"))
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	req.DisplayName = strings.TrimSpace(req.DisplayName)
	if req.Email == "" || req.Password == "" {
		writeError(c, apperrors.E(apperrors.KindValidation, "email and password are required"))
		return
	}

	result, err := h.auth.Register(c.Request.Context(), req.Email, req.DisplayName, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, authResponse(result))
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperrors.E(apperrors.KindValidation, "invalid request body"))
		return
	}

	result, err := h.auth.Login(c.Request.Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, authResponse(result))
}

func authResponse(result *service.AuthResult) gin.H {
	return gin.H{
		"token": result.Token,
		"user": gin.H{
			"id":           result.User.ID,
			"email":        result.User.Email,
			"display_name": result.User.DisplayName,
		},
	}
}

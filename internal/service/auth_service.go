package service

import (
	"context"
	"log/slog"

	"github.com/mmynk/meetpoint/internal/auth"
	"github.com/mmynk/meetpoint/internal/models"
)

// AuthService implements account registration and login, issuing JWTs that
// the middleware later turns back into a trusted numeric user id. The
// session and location services never see credentials.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
	}
}

// AuthResult is a registered or logged-in user together with their token.
type AuthResult struct {
	User  *models.User
	Token string
}

// Register creates a new user account and logs them in.
func (s *AuthService) Register(ctx context.Context, email, displayName, password string) (*AuthResult, error) {
	slog.Info("Register request", "email", email)

	if email == "" || displayName == "" {
		return nil, auth.ErrInvalidCredentials
	}

	user, err := s.authenticator.Register(ctx, email, displayName, password)
	if err != nil {
		slog.Warn("Registration failed", "email", email, "error", err)
		return nil, err
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		slog.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, err
	}

	slog.Info("User registered", "user_id", user.ID, "email", user.Email)
	return &AuthResult{User: user, Token: token}, nil
}

// Login authenticates a user and returns a JWT token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	slog.Info("Login request", "email", email)

	if email == "" || password == "" {
		return nil, auth.ErrInvalidCredentials
	}

	user, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		slog.Warn("Login failed", "email", email, "error", err)
		return nil, err
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		slog.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, err
	}

	slog.Info("User logged in", "user_id", user.ID)
	return &AuthResult{User: user, Token: token}, nil
}

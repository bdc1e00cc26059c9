package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mmynk/meetpoint/internal/auth"
)

const (
	// userIDKey is the gin context key for the authenticated user id.
	userIDKey = "user_id"
	// emailKey is the gin context key for the authenticated user's email.
	emailKey = "email"
)

// GetUserID extracts the authenticated user id from the request context.
// Returns 0 if the request is unauthenticated.
func GetUserID(c *gin.Context) int64 {
	id, _ := c.Get(userIDKey)
	userID, _ := id.(int64)
	return userID
}

// GetEmail extracts the authenticated user's email from the request context.
// Returns empty string if not found.
func GetEmail(c *gin.Context) string {
	v, _ := c.Get(emailKey)
	email, _ := v.(string)
	return email
}

// RequireAuth validates the Bearer token and stores the user id and email in
// the request context. Requests without a valid token are rejected with 401.
func RequireAuth(jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": auth.ErrMissingToken.Error()})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": auth.ErrInvalidToken.Error()})
			return
		}

		claims, err := jwtManager.Validate(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": auth.ErrInvalidToken.Error()})
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Set(emailKey, claims.Email)
		c.Next()
	}
}

package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/meetpoint/internal/auth"
	"github.com/mmynk/meetpoint/internal/middleware"
)

// NewRouter assembles the gin engine with all routes and middleware.
func NewRouter(jwtManager *auth.JWTManager, authHandler *AuthHandler, sessions *SessionHandler, locations *LocationHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/auth/register", authHandler.Register)
	router.POST("/auth/login", authHandler.Login)

	authed := router.Group("/", middleware.RequireAuth(jwtManager))
	{
		authed.POST("/sessions", sessions.Create)
		authed.GET("/sessions/:id", sessions.Get)
		authed.POST("/sessions/:id/join", sessions.Join)
		authed.POST("/sessions/:id/end", sessions.End)
		authed.PUT("/sessions/:id/meeting-location", sessions.UpdateMeetingLocation)
		authed.GET("/sessions/:id/invite", sessions.InviteLink)
		authed.PUT("/sessions/:id/location", locations.UpdateLocation)
		authed.POST("/sessions/:id/optimal-location", locations.CalculateOptimal)
	}

	return router
}

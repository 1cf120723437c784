package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the session endpoints. rateLimit guards the calls
// that reach the hotel API.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, optionalAuth, rateLimit gin.HandlerFunc) {
	group := g.Group("/sessions")

	// === Public Routes (token optional) ===
	group.Use(optionalAuth)
	{
		group.POST("", h.Create)
		group.GET("/:id", h.Get)
		group.DELETE("/:id", h.Delete)
		group.GET("/:id/notifications", h.Notifications)

		group.PUT("/:id/active-slot", h.SetActiveSlot)
		group.PUT("/:id/slots/:slot/room", h.SelectRoom)
		group.DELETE("/:id/slots/:slot/room/:room_id", h.RemoveRoom)

		group.POST("/:id/search", rateLimit, h.Search)
		group.POST("/:id/booking", rateLimit, h.SubmitBooking)
	}
}

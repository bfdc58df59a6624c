package router // package router defines how HTTP routes are registered for the API

import (
	"database/sql"

	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/eventspace/hall-booking/internal/handler"    // handlers implementing the API
	"github.com/eventspace/hall-booking/internal/middleware" // JWT middleware for protected routes
)

// RegisterRoutes wires up the whole API surface.  The read endpoints
// (banner, health, hall catalog, event list/detail) are always open.
// The mutating event endpoints are wrapped in JWT authentication only
// when jwtSecret is non-empty; a deployment without a secret runs the
// API open, which matches how the booking office uses it on a trusted
// network.
func RegisterRoutes(e *echo.Echo, db *sql.DB, events *handler.EventHandler, auth *handler.AuthHandler, jwtSecret string) {
	// Liveness endpoints used by the mobile app's connectivity check and
	// by the keep-alive pinger.
	e.GET("/", handler.Root)
	e.GET("/health", handler.Health(db))

	api := e.Group("/api")

	// The fixed hall catalog the booking screens are built from.
	api.GET("/halls", handler.ListHalls)

	// Event reads are open so the calendar and list screens work without
	// a session.
	api.GET("/events", events.ListEvents)
	api.GET("/events/:id", events.GetEvent)

	// Writes go through the conflict check; optionally behind JWT.
	write := api.Group("")
	if jwtSecret != "" {
		write.Use(middleware.JWTAuth(jwtSecret))
	}
	write.POST("/events", events.CreateEvent)
	write.PUT("/events/:id", events.UpdateEvent)
	write.DELETE("/events/:id", events.DeleteEvent)

	// Staff accounts only exist when auth is enabled.
	if jwtSecret != "" && auth != nil {
		g := api.Group("/auth")
		g.POST("/register", auth.Register)
		g.POST("/login", auth.Login)
	}
}

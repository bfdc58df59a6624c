package handler // declare the package name; contains HTTP handlers

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4" // echo is the web framework used for this project
)

// Root handles GET / with a short banner so a browser hit confirms the
// API is reachable.
func Root(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"message": "Event Space API is running!"})
}

// Health returns a health-check handler used by load balancers and
// monitoring systems.  Beyond liveness it reports whether the database
// connection is currently usable, mirroring what operators actually
// want to know when bookings start failing.
func Health(db *sql.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		dbState := "Disconnected"
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err == nil {
				dbState = "Connected"
			}
		}
		return c.JSON(http.StatusOK, echo.Map{
			"status":   "OK",
			"message":  "Server is healthy",
			"database": dbState,
		})
	}
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eventspace/hall-booking/internal/model"
)

// ListHalls handles GET /api/halls and returns the fixed hall catalog.
// The set of halls is part of the deployment, so this is static data the
// clients use to render the booking screens.
func ListHalls(c echo.Context) error {
	return c.JSON(http.StatusOK, model.Halls)
}

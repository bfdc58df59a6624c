package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eventspace/hall-booking/internal/repository"
	"github.com/eventspace/hall-booking/internal/utils"
)

// AuthHandler implements staff registration and login.  Staff accounts
// only matter when a JWT secret is configured; without one the event
// routes are open and these endpoints are not registered.
type AuthHandler struct {
	Users      *repository.UserRepo
	Secret     string
	TTLMin     int
	BcryptCost int
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(users *repository.UserRepo, secret string, ttlMin, bcryptCost int) *AuthHandler {
	return &AuthHandler{Users: users, Secret: secret, TTLMin: ttlMin, BcryptCost: bcryptCost}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /api/auth/register and creates a staff account.
func (a *AuthHandler) Register(c echo.Context) error {
	var body credentials
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
	}
	if strings.TrimSpace(body.Email) == "" || len(body.Password) < 8 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Email and a password of at least 8 characters are required"})
	}
	id, err := a.Users.Create(c.Request().Context(), body.Email, body.Password, a.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"message": "Email already registered"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "database error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id, "email": strings.ToLower(strings.TrimSpace(body.Email))})
}

// Login handles POST /api/auth/login and returns a signed access token.
func (a *AuthHandler) Login(c echo.Context) error {
	var body credentials
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
	}
	u, err := a.Users.GetByEmail(c.Request().Context(), body.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "database error"})
	}
	if !u.IsActive || !utils.VerifyPassword(u.PasswordHash, body.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid credentials"})
	}
	tok, err := utils.NewAccessToken(a.Secret, u.ID, a.TTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to issue token"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"access_token": tok.Token,
		"expires_at":   tok.Exp,
	})
}

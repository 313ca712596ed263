package handler

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"fleettrack/internal/auth"
	"fleettrack/internal/errors"
	"fleettrack/internal/service"
)

// AuthHandler handles registration, login and session endpoints.
type AuthHandler struct {
	authService service.AuthService
	userService service.UserService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, userService service.UserService) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService}
}

// RegisterRequest represents a registration request.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterResponse represents a successful registration.
type RegisterResponse struct {
	Message   string  `json:"message"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	FuelPrice float64 `json:"fuelPrice"`
}

// LoginResponse represents a successful login. Token is the signed session
// token the client presents on the authenticated routes.
type LoginResponse struct {
	Message   string  `json:"message"`
	UserName  string  `json:"userName"`
	Email     string  `json:"email"`
	FuelPrice float64 `json:"fuelPrice"`
	Token     string  `json:"token"`
}

// MessageResponse is the bare message envelope.
type MessageResponse struct {
	Message string `json:"message"`
}

// normalizeEmail canonicalizes an email so the unique index operates on one
// form regardless of how the client cased it.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// fail logs server-side detail for opaque errors and converts the domain
// error into the client-facing JSON envelope.
func fail(c echo.Context, err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	if httpErr.StatusCode == http.StatusInternalServerError {
		c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Request().URL.Path, err)
	}
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.Message)
}

// Register godoc
// @Summary Register a new driver account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} RegisterResponse
// @Failure 400 {object} MessageResponse
// @Failure 500 {object} MessageResponse
// @Router /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, errors.ErrMissingFields)
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, errors.ErrMissingFields)
	}

	user, err := h.authService.Register(c.Request().Context(), req.Name, normalizeEmail(req.Email), req.Password)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusCreated, RegisterResponse{
		Message:   "Welcome " + user.Name + "! Account created successfully.",
		Name:      user.Name,
		Email:     user.Email,
		FuelPrice: user.FuelPrice,
	})
}

// Login godoc
// @Summary Log in with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} MessageResponse
// @Failure 500 {object} MessageResponse
// @Router /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, errors.ErrMissingFields)
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, errors.ErrMissingFields)
	}

	user, token, err := h.authService.Login(c.Request().Context(), normalizeEmail(req.Email), req.Password)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, LoginResponse{
		Message:   "Logged in successfully",
		UserName:  user.Name,
		Email:     user.Email,
		FuelPrice: user.FuelPrice,
		Token:     token,
	})
}

// Me godoc
// @Summary Profile of the authenticated session
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ProfileResponse
// @Failure 401 {object} MessageResponse
// @Failure 500 {object} MessageResponse
// @Router /user/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	claims, err := sessionClaims(c)
	if err != nil {
		return fail(c, err)
	}

	email, err := h.authService.SessionEmail(c.Request().Context(), claims.ID)
	if err != nil {
		return fail(c, err)
	}

	user, err := h.userService.GetProfile(c.Request().Context(), email)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, ProfileResponse{
		Name:      user.Name,
		Email:     user.Email,
		FuelPrice: user.FuelPrice,
	})
}

// Logout godoc
// @Summary Revoke the authenticated session
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MessageResponse
// @Failure 401 {object} MessageResponse
// @Failure 500 {object} MessageResponse
// @Router /user/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return fail(c, errors.ErrInvalidSession)
	}

	if err := h.authService.Logout(c.Request().Context(), token.Raw); err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Logged out successfully"})
}

// sessionClaims pulls the validated token claims set by the jwt middleware.
func sessionClaims(c echo.Context) (*auth.Claims, error) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return nil, errors.ErrInvalidSession
	}
	claims, ok := token.Claims.(*auth.Claims)
	if !ok || claims.ID == "" {
		return nil, errors.ErrInvalidSession
	}
	return claims, nil
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"fleettrack/internal/errors"
	"fleettrack/internal/service"
)

// UserHandler handles profile read and mutation endpoints.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// ChangeEmailRequest represents an email change request.
type ChangeEmailRequest struct {
	CurrentEmail string `json:"currentEmail" validate:"required"`
	Password     string `json:"password" validate:"required"`
	NewEmail     string `json:"newEmail" validate:"required"`
}

// ChangePasswordRequest represents a password change request.
type ChangePasswordRequest struct {
	Email           string `json:"email" validate:"required"`
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
}

// FuelPriceRequest represents a fuel price update. FuelPrice is a pointer
// so a missing field is distinguishable from an explicit zero.
type FuelPriceRequest struct {
	Email     string   `json:"email"`
	FuelPrice *float64 `json:"fuelPrice"`
}

// ProfileResponse is the sanitized user projection.
type ProfileResponse struct {
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	FuelPrice float64 `json:"fuelPrice"`
}

// ChangeEmailResponse confirms an email change.
type ChangeEmailResponse struct {
	Message string `json:"message"`
	Email   string `json:"email"`
}

// FuelPriceResponse confirms a fuel price update.
type FuelPriceResponse struct {
	Message   string  `json:"message"`
	FuelPrice float64 `json:"fuelPrice"`
}

// GetProfile godoc
// @Summary Fetch a driver profile by email
// @Tags user
// @Produce json
// @Param email query string true "Account email"
// @Success 200 {object} ProfileResponse
// @Failure 400 {object} MessageResponse
// @Failure 404 {object} MessageResponse
// @Failure 500 {object} MessageResponse
// @Router /user [get]
func (h *UserHandler) GetProfile(c echo.Context) error {
	email := normalizeEmail(c.QueryParam("email"))
	if email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Email is required")
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

// ChangeEmail godoc
// @Summary Change the account login email
// @Tags user
// @Accept json
// @Produce json
// @Param request body ChangeEmailRequest true "Email change data"
// @Success 200 {object} ChangeEmailResponse
// @Failure 400 {object} MessageResponse
// @Failure 404 {object} MessageResponse
// @Failure 500 {object} MessageResponse
// @Router /user/change-email [post]
func (h *UserHandler) ChangeEmail(c echo.Context) error {
	var req ChangeEmailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "currentEmail, password and newEmail are required")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "currentEmail, password and newEmail are required")
	}

	newEmail := normalizeEmail(req.NewEmail)
	if err := h.userService.ChangeEmail(c.Request().Context(), normalizeEmail(req.CurrentEmail), req.Password, newEmail); err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, ChangeEmailResponse{
		Message: "Email updated",
		Email:   newEmail,
	})
}

// ChangePassword godoc
// @Summary Change the account password
// @Tags user
// @Accept json
// @Produce json
// @Param request body ChangePasswordRequest true "Password change data"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} MessageResponse
// @Failure 404 {object} MessageResponse
// @Failure 500 {object} MessageResponse
// @Router /user/change-password [post]
func (h *UserHandler) ChangePassword(c echo.Context) error {
	var req ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "email, currentPassword and newPassword are required")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "email, currentPassword and newPassword are required")
	}

	if err := h.userService.ChangePassword(c.Request().Context(), normalizeEmail(req.Email), req.CurrentPassword, req.NewPassword); err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Password updated"})
}

// SetFuelPrice godoc
// @Summary Save the driver's fuel price preference
// @Tags user
// @Accept json
// @Produce json
// @Param request body FuelPriceRequest true "Fuel price data"
// @Success 200 {object} FuelPriceResponse
// @Failure 400 {object} MessageResponse
// @Failure 404 {object} MessageResponse
// @Failure 500 {object} MessageResponse
// @Router /user/fuel-price [post]
func (h *UserHandler) SetFuelPrice(c echo.Context) error {
	var req FuelPriceRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, errors.ErrInvalidFuelPrice)
	}

	email := normalizeEmail(req.Email)
	if email == "" || req.FuelPrice == nil {
		return fail(c, errors.ErrInvalidFuelPrice)
	}

	if err := h.userService.SetFuelPrice(c.Request().Context(), email, *req.FuelPrice); err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, FuelPriceResponse{
		Message:   "Fuel price saved",
		FuelPrice: *req.FuelPrice,
	})
}

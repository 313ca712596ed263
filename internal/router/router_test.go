package router

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	_ "fleettrack/docs"

	"fleettrack/internal/auth"
	"fleettrack/internal/config"
	"fleettrack/internal/handler"
	"fleettrack/internal/model"
)

type stubAuthService struct {
	sessionEmail string
}

func (s *stubAuthService) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	return nil, fmt.Errorf("not configured")
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	return nil, "", fmt.Errorf("not configured")
}

func (s *stubAuthService) Logout(ctx context.Context, token string) error {
	return nil
}

func (s *stubAuthService) SessionEmail(ctx context.Context, tokenID string) (string, error) {
	if s.sessionEmail == "" {
		return "", fmt.Errorf("not configured")
	}
	return s.sessionEmail, nil
}

type stubUserService struct {
	user *model.User
}

func (s *stubUserService) GetProfile(ctx context.Context, email string) (*model.User, error) {
	if s.user == nil {
		return nil, fmt.Errorf("not configured")
	}
	return s.user, nil
}

func (s *stubUserService) ChangeEmail(ctx context.Context, currentEmail, password, newEmail string) error {
	return fmt.Errorf("not configured")
}

func (s *stubUserService) ChangePassword(ctx context.Context, email, currentPassword, newPassword string) error {
	return fmt.Errorf("not configured")
}

func (s *stubUserService) SetFuelPrice(ctx context.Context, email string, fuelPrice float64) error {
	return fmt.Errorf("not configured")
}

func newTestServer(authSvc *stubAuthService, userSvc *stubUserService) *echo.Echo {
	e := echo.New()
	cfg := &config.Config{JWTSecret: "test-secret", AllowedOrigins: "*"}
	authHandler := handler.NewAuthHandler(authSvc, userSvc)
	userHandler := handler.NewUserHandler(userSvc)
	Register(e, cfg, authHandler, userHandler)
	return e
}

func get(e *echo.Echo, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Health(t *testing.T) {
	e := newTestServer(&stubAuthService{}, &stubUserService{})

	rec := get(e, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Server is running", body["status"])
}

func TestRouter_SwaggerSpecServed(t *testing.T) {
	e := newTestServer(&stubAuthService{}, &stubUserService{})

	rec := get(e, "/swagger/doc.json", nil)

	assert.Equal(t, http.StatusOK, rec.Code)

	var doc map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	info, _ := doc["info"].(map[string]interface{})
	assert.Equal(t, "Fleet Tracker Account API", info["title"])

	paths, _ := doc["paths"].(map[string]interface{})
	for _, route := range []string{
		"/register", "/login", "/user",
		"/user/change-email", "/user/change-password", "/user/fuel-price",
		"/user/me", "/user/logout",
	} {
		assert.Contains(t, paths, route)
	}
}

func TestRouter_NotFoundEnvelope(t *testing.T) {
	e := newTestServer(&stubAuthService{}, &stubUserService{})

	rec := get(e, "/no/such/route", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body map[string]string
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Not found: GET /no/such/route", body["message"])
}

func TestRouter_SessionRoutes(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")
	user := &model.User{Name: "Ann", Email: "ann@x.com", FuelPrice: 259.5}

	t.Run("valid token reaches the profile", func(t *testing.T) {
		e := newTestServer(&stubAuthService{sessionEmail: "ann@x.com"}, &stubUserService{user: user})
		_, token, err := jwtService.GenerateSessionToken(user.ID, user.Email)
		assert.NoError(t, err)

		rec := get(e, "/user/me", map[string]string{echo.HeaderAuthorization: "Bearer " + token})

		assert.Equal(t, http.StatusOK, rec.Code)
		var body map[string]interface{}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "ann@x.com", body["email"])
		assert.Equal(t, 259.5, body["fuelPrice"])
	})

	t.Run("missing token is rejected", func(t *testing.T) {
		e := newTestServer(&stubAuthService{}, &stubUserService{})

		rec := get(e, "/user/me", nil)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		var body map[string]string
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Invalid or expired session", body["message"])
	})

	t.Run("token signed with another key is rejected", func(t *testing.T) {
		e := newTestServer(&stubAuthService{}, &stubUserService{})
		_, token, err := auth.NewJWTService("other-secret").GenerateSessionToken(user.ID, user.Email)
		assert.NoError(t, err)

		rec := get(e, "/user/me", map[string]string{echo.HeaderAuthorization: "Bearer " + token})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("public profile route stays open", func(t *testing.T) {
		e := newTestServer(&stubAuthService{}, &stubUserService{user: user})

		rec := get(e, "/user?email=ann@x.com", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

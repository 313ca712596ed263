package service

import (
	"context"
	goerrors "errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"fleettrack/internal/auth"
	"fleettrack/internal/errors"
	"fleettrack/internal/model"
	"fleettrack/internal/repository"
)

const (
	bcryptCost        = 10
	minPasswordLength = 6
)

// HashPassword is the single bcrypt path for every stored credential, so
// the work factor cannot drift between registration, rotation and seeding.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// AuthService handles registration, login and session lifecycle.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (user *model.User, token string, err error)
	Logout(ctx context.Context, token string) error
	SessionEmail(ctx context.Context, tokenID string) (string, error)
}

type authService struct {
	userRepo     repository.UserRepository
	jwtService   *auth.JWTService
	sessionStore auth.SessionStoreInterface
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService, sessionStore auth.SessionStoreInterface) AuthService {
	return &authService{
		userRepo:     userRepo,
		jwtService:   jwtService,
		sessionStore: sessionStore,
	}
}

// Register creates a new user with a freshly salted password hash. The
// existence pre-check gives a friendly error; the unique index on email is
// the guard that holds under concurrent registrations.
func (s *authService) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	if len(password) < minPasswordLength {
		return nil, errors.ErrPasswordTooShort
	}

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, errors.ErrEmailExists
	}
	if err != nil && !goerrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	hashedPassword, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashedPassword,
		FuelPrice:    0,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if goerrors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errors.ErrEmailExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Login verifies the credentials and issues a session token. Unknown email
// and wrong password are indistinguishable to the caller.
func (s *authService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if goerrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", errors.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", errors.ErrInvalidCredentials
	}

	tokenID, token, err := s.jwtService.GenerateSessionToken(user.ID, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("generate session token: %w", err)
	}

	if err := s.sessionStore.StoreSession(ctx, tokenID, user.Email, auth.SessionTokenExpiry); err != nil {
		return nil, "", fmt.Errorf("store session: %w", err)
	}

	return user, token, nil
}

// Logout revokes the session behind a token.
func (s *authService) Logout(ctx context.Context, token string) error {
	tokenID, err := s.jwtService.ExtractTokenID(token)
	if err != nil {
		return errors.ErrInvalidSession
	}
	return s.sessionStore.DeleteSession(ctx, tokenID)
}

// SessionEmail resolves a validated token ID to the account email it was
// issued for, failing if the session was revoked.
func (s *authService) SessionEmail(ctx context.Context, tokenID string) (string, error) {
	email, err := s.sessionStore.GetSession(ctx, tokenID)
	if err != nil {
		return "", errors.ErrInvalidSession
	}
	return email, nil
}

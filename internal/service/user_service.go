package service

import (
	"context"
	"encoding/json"
	goerrors "errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"fleettrack/internal/cache"
	"fleettrack/internal/errors"
	"fleettrack/internal/model"
	"fleettrack/internal/repository"
)

const profileCacheTTL = 5 * time.Minute

// UserService exposes profile reads and the three profile mutations.
type UserService interface {
	GetProfile(ctx context.Context, email string) (*model.User, error)
	ChangeEmail(ctx context.Context, currentEmail, password, newEmail string) error
	ChangePassword(ctx context.Context, email, currentPassword, newPassword string) error
	SetFuelPrice(ctx context.Context, email string, fuelPrice float64) error
}

type userService struct {
	repo  repository.UserRepository
	cache *cache.Client
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, cache *cache.Client) UserService {
	return &userService{repo: repo, cache: cache}
}

func (s *userService) cacheKey(email string) string {
	return fmt.Sprintf("profile:%s", email)
}

// GetProfile retrieves a user by email with cache-aside caching.
func (s *userService) GetProfile(ctx context.Context, email string) (*model.User, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(email)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if goerrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(email), payload, profileCacheTTL)
	}
	return user, nil
}

// ChangeEmail moves the account to a new login email after verifying the
// password. The FindByEmail pre-check on newEmail is a fast path only; the
// unique index decides the race, surfacing as gorm.ErrDuplicatedKey.
func (s *userService) ChangeEmail(ctx context.Context, currentEmail, password, newEmail string) error {
	user, err := s.repo.FindByEmail(ctx, currentEmail)
	if err != nil {
		if goerrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return errors.ErrIncorrectPassword
	}

	if newEmail == currentEmail {
		return errors.ErrSameEmail
	}

	if existing, err := s.repo.FindByEmail(ctx, newEmail); err == nil && existing != nil {
		return errors.ErrEmailInUse
	}

	if err := s.repo.UpdateEmail(ctx, currentEmail, newEmail); err != nil {
		switch {
		case goerrors.Is(err, gorm.ErrDuplicatedKey):
			return errors.ErrEmailInUse
		case goerrors.Is(err, gorm.ErrRecordNotFound):
			return errors.ErrUserNotFound
		default:
			return fmt.Errorf("update email: %w", err)
		}
	}

	_ = s.cache.Delete(ctx, s.cacheKey(currentEmail))
	_ = s.cache.Delete(ctx, s.cacheKey(newEmail))
	return nil
}

// ChangePassword rotates the password hash after verifying the current one.
// The new hash carries a fresh salt at the same cost.
func (s *userService) ChangePassword(ctx context.Context, email, currentPassword, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return errors.ErrPasswordTooShort
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if goerrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return errors.ErrIncorrectCurrentPassword
	}

	hashedPassword, err := HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.repo.UpdatePassword(ctx, email, hashedPassword); err != nil {
		if goerrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrUserNotFound
		}
		return fmt.Errorf("update password: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(email))
	return nil
}

// SetFuelPrice stores the driver's fuel price preference. Only the
// fuel_price column is written, so repeated calls with the same value are
// idempotent.
func (s *userService) SetFuelPrice(ctx context.Context, email string, fuelPrice float64) error {
	if fuelPrice < 0 {
		return errors.ErrNegativeFuelPrice
	}

	if err := s.repo.UpdateFuelPrice(ctx, email, fuelPrice); err != nil {
		if goerrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrUserNotFound
		}
		return fmt.Errorf("update fuel price: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(email))
	return nil
}

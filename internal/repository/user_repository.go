package repository

import (
	"context"

	"gorm.io/gorm"

	"fleettrack/internal/model"
)

// UserRepository defines persistence operations over the users table.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateEmail(ctx context.Context, currentEmail, newEmail string) error
	UpdatePassword(ctx context.Context, email, passwordHash string) error
	UpdateFuelPrice(ctx context.Context, email string, fuelPrice float64) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateEmail swaps the login email in a single conditional write. The
// unique index rejects a taken newEmail atomically; callers translate the
// resulting gorm.ErrDuplicatedKey.
func (r *userRepository) UpdateEmail(ctx context.Context, currentEmail, newEmail string) error {
	res := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("email = ?", currentEmail).
		Update("email", newEmail)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	res := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("email = ?", email).
		Update("password_hash", passwordHash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateFuelPrice writes only the fuel_price column, leaving the rest of
// the record untouched.
func (r *userRepository) UpdateFuelPrice(ctx context.Context, email string, fuelPrice float64) error {
	res := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("email = ?", email).
		Update("fuel_price", fuelPrice)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

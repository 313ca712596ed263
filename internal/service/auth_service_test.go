package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"fleettrack/internal/auth"
	"fleettrack/internal/errors"
	"fleettrack/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) UpdateEmail(ctx context.Context, currentEmail, newEmail string) error {
	args := m.Called(ctx, currentEmail, newEmail)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	args := m.Called(ctx, email, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateFuelPrice(ctx context.Context, email string, fuelPrice float64) error {
	args := m.Called(ctx, email, fuelPrice)
	return args.Error(0)
}

// MockSessionStore is a mock implementation of SessionStoreInterface.
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) StoreSession(ctx context.Context, tokenID, email string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, email, ttl)
	return args.Error(0)
}

func (m *MockSessionStore) GetSession(ctx context.Context, tokenID string) (string, error) {
	args := m.Called(ctx, tokenID)
	return args.String(0), args.Error(1)
}

func (m *MockSessionStore) DeleteSession(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

func TestHashPassword_WorkFactor(t *testing.T) {
	hash, err := HashPassword("secret1")
	assert.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("secret1")))

	cost, err := bcrypt.Cost([]byte(hash))
	assert.NoError(t, err)
	assert.Equal(t, bcryptCost, cost)
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		userName      string
		email         string
		password      string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful registration",
			userName: "Ann",
			email:    "ann@x.com",
			password: "secret1",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "ann@x.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:     "email already exists",
			userName: "Ann",
			email:    "existing@x.com",
			password: "secret1",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "existing@x.com").Return(&model.User{Email: "existing@x.com"}, nil)
			},
			expectedError: errors.ErrEmailExists,
		},
		{
			name:     "concurrent registration loses to the unique index",
			userName: "Ann",
			email:    "raced@x.com",
			password: "secret1",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "raced@x.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(gorm.ErrDuplicatedKey)
			},
			expectedError: errors.ErrEmailExists,
		},
		{
			name:          "password below minimum length",
			userName:      "Ann",
			email:         "ann@x.com",
			password:      "short",
			setupMock:     func(m *MockUserRepository) {},
			expectedError: errors.ErrPasswordTooShort,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			jwtService := auth.NewJWTService("test-secret")
			mockSessions := new(MockSessionStore)

			svc := NewAuthService(mockRepo, jwtService, mockSessions)
			user, err := svc.Register(context.Background(), tt.userName, tt.email, tt.password)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, user)
				assert.Equal(t, tt.email, user.Email)
				assert.Equal(t, tt.userName, user.Name)
				assert.Zero(t, user.FuelPrice)
				assert.NotEmpty(t, user.PasswordHash)
				assert.NotEqual(t, tt.password, user.PasswordHash)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(tt.password)))
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("secret1"), bcryptCost)

	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(*MockUserRepository, *MockSessionStore)
		expectedError error
	}{
		{
			name:     "successful login",
			email:    "ann@x.com",
			password: "secret1",
			setupMock: func(mRepo *MockUserRepository, mSessions *MockSessionStore) {
				mRepo.On("FindByEmail", mock.Anything, "ann@x.com").Return(&model.User{
					Name:         "Ann",
					Email:        "ann@x.com",
					PasswordHash: string(hashed),
				}, nil)
				mSessions.On("StoreSession", mock.Anything, mock.Anything, "ann@x.com", auth.SessionTokenExpiry).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:     "unknown email",
			email:    "notfound@x.com",
			password: "secret1",
			setupMock: func(mRepo *MockUserRepository, mSessions *MockSessionStore) {
				mRepo.On("FindByEmail", mock.Anything, "notfound@x.com").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: errors.ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			email:    "ann@x.com",
			password: "wrong",
			setupMock: func(mRepo *MockUserRepository, mSessions *MockSessionStore) {
				mRepo.On("FindByEmail", mock.Anything, "ann@x.com").Return(&model.User{
					Name:         "Ann",
					Email:        "ann@x.com",
					PasswordHash: string(hashed),
				}, nil)
			},
			expectedError: errors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			mockSessions := new(MockSessionStore)
			tt.setupMock(mockRepo, mockSessions)

			jwtService := auth.NewJWTService("test-secret")
			svc := NewAuthService(mockRepo, jwtService, mockSessions)

			user, token, err := svc.Login(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, user)
				assert.Empty(t, token)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, user)
				assert.NotEmpty(t, token)
				assert.Equal(t, tt.email, user.Email)

				claims, err := jwtService.ValidateToken(token)
				assert.NoError(t, err)
				assert.Equal(t, tt.email, claims.Email)
			}

			mockRepo.AssertExpectations(t)
			mockSessions.AssertExpectations(t)
		})
	}
}

// Unknown-email and wrong-password failures must be byte-for-byte
// indistinguishable to the caller.
func TestAuthService_Login_AntiEnumeration(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("secret1"), bcryptCost)

	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByEmail", mock.Anything, "ghost@x.com").Return(nil, gorm.ErrRecordNotFound)
	mockRepo.On("FindByEmail", mock.Anything, "ann@x.com").Return(&model.User{
		Email:        "ann@x.com",
		PasswordHash: string(hashed),
	}, nil)

	svc := NewAuthService(mockRepo, auth.NewJWTService("test-secret"), new(MockSessionStore))

	_, _, errUnknown := svc.Login(context.Background(), "ghost@x.com", "whatever")
	_, _, errMismatch := svc.Login(context.Background(), "ann@x.com", "wrong")

	assert.Equal(t, errors.ErrInvalidCredentials, errUnknown)
	assert.Equal(t, errors.ErrInvalidCredentials, errMismatch)
	assert.Equal(t, errUnknown.Error(), errMismatch.Error())
}

func TestAuthService_Logout(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")
	user := &model.User{Email: "ann@x.com"}
	tokenID, token, err := jwtService.GenerateSessionToken(user.ID, user.Email)
	assert.NoError(t, err)

	mockSessions := new(MockSessionStore)
	mockSessions.On("DeleteSession", mock.Anything, tokenID).Return(nil)

	svc := NewAuthService(new(MockUserRepository), jwtService, mockSessions)

	assert.NoError(t, svc.Logout(context.Background(), token))
	assert.Equal(t, errors.ErrInvalidSession, svc.Logout(context.Background(), "garbage"))

	mockSessions.AssertExpectations(t)
}

func TestAuthService_SessionEmail(t *testing.T) {
	mockSessions := new(MockSessionStore)
	mockSessions.On("GetSession", mock.Anything, "live-session").Return("ann@x.com", nil)
	mockSessions.On("GetSession", mock.Anything, "revoked-session").Return("", assert.AnError)

	svc := NewAuthService(new(MockUserRepository), auth.NewJWTService("test-secret"), mockSessions)

	email, err := svc.SessionEmail(context.Background(), "live-session")
	assert.NoError(t, err)
	assert.Equal(t, "ann@x.com", email)

	_, err = svc.SessionEmail(context.Background(), "revoked-session")
	assert.Equal(t, errors.ErrInvalidSession, err)
}

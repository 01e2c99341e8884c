package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"adlens/internal/auth"
	apperrors "adlens/internal/errors"
	"adlens/internal/model"
)

func demoUser(t *testing.T) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("demo"), bcrypt.MinCost)
	require.NoError(t, err)
	return &model.User{ID: "user-123", Name: "Demo User", PasswordHash: string(hash), Role: model.RoleUser}
}

func TestAuthService_Login(t *testing.T) {
	tests := []struct {
		name          string
		username      string
		password      string
		setupMock     func(*testing.T, *MockUserRepository, *MockTokenStore)
		expectedError error
	}{
		{
			name:     "successful login by name",
			username: "Demo User",
			password: "demo",
			setupMock: func(t *testing.T, mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByNameOrID", mock.Anything, "Demo User").Return(demoUser(t), nil)
				mToken.On("StoreRefreshToken", mock.Anything, mock.AnythingOfType("string"), "user-123", auth.RefreshTokenExpiry).Return(nil)
			},
		},
		{
			name:     "successful login by id",
			username: "user-123",
			password: "demo",
			setupMock: func(t *testing.T, mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByNameOrID", mock.Anything, "user-123").Return(demoUser(t), nil)
				mToken.On("StoreRefreshToken", mock.Anything, mock.AnythingOfType("string"), "user-123", auth.RefreshTokenExpiry).Return(nil)
			},
		},
		{
			name:     "unknown user",
			username: "nobody",
			password: "demo",
			setupMock: func(t *testing.T, mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByNameOrID", mock.Anything, "nobody").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			username: "Demo User",
			password: "wrong",
			setupMock: func(t *testing.T, mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByNameOrID", mock.Anything, "Demo User").Return(demoUser(t), nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			mockTokenStore := new(MockTokenStore)
			tt.setupMock(t, mockRepo, mockTokenStore)

			service := NewAuthService(mockRepo, auth.NewJWTService("test-secret"), mockTokenStore, zerolog.Nop())
			result, err := service.Login(context.Background(), tt.username, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, result)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, result.AccessToken)
				assert.NotEmpty(t, result.RefreshToken)
				assert.Equal(t, "user-123", result.User.ID)
			}

			mockRepo.AssertExpectations(t)
			mockTokenStore.AssertExpectations(t)
		})
	}
}

func TestAuthService_RefreshToken(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")
	user := &model.User{ID: "user-123", Name: "Demo User", Role: model.RoleUser}
	tokenID, refresh, err := jwtService.GenerateRefreshToken(user)
	require.NoError(t, err)
	access, err := jwtService.GenerateAccessToken(user)
	require.NoError(t, err)

	tests := []struct {
		name          string
		token         string
		setupMock     func(*MockUserRepository, *MockTokenStore)
		expectedError error
	}{
		{
			name:  "valid refresh token",
			token: refresh,
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mToken.On("GetRefreshToken", mock.Anything, tokenID).Return("user-123", nil)
				mRepo.On("FindByID", mock.Anything, "user-123").Return(&model.User{ID: "user-123", Name: "Renamed", Role: model.RoleAdmin}, nil)
			},
		},
		{
			name:  "revoked refresh token",
			token: refresh,
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mToken.On("GetRefreshToken", mock.Anything, tokenID).Return("", auth.ErrRefreshTokenNotFound)
			},
			expectedError: apperrors.ErrInvalidRefreshToken,
		},
		{
			name:  "user removed since login",
			token: refresh,
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mToken.On("GetRefreshToken", mock.Anything, tokenID).Return("user-123", nil)
				mRepo.On("FindByID", mock.Anything, "user-123").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrInvalidRefreshToken,
		},
		{
			name:          "access token presented as refresh token",
			token:         access,
			setupMock:     func(*MockUserRepository, *MockTokenStore) {},
			expectedError: apperrors.ErrInvalidRefreshToken,
		},
		{
			name:          "garbage token",
			token:         "not-a-jwt",
			setupMock:     func(*MockUserRepository, *MockTokenStore) {},
			expectedError: apperrors.ErrInvalidRefreshToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			mockTokenStore := new(MockTokenStore)
			tt.setupMock(mockRepo, mockTokenStore)

			service := NewAuthService(mockRepo, jwtService, mockTokenStore, zerolog.Nop())
			access, err := service.RefreshToken(context.Background(), tt.token)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, access)
			} else {
				require.NoError(t, err)
				claims, err := jwtService.ValidateToken(access)
				require.NoError(t, err)
				assert.Equal(t, "Renamed", claims.Name)
				assert.Equal(t, model.RoleAdmin, claims.Role)
			}

			mockRepo.AssertExpectations(t)
			mockTokenStore.AssertExpectations(t)
		})
	}
}

func TestAuthService_Logout(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")
	user := &model.User{ID: "user-123", Name: "Demo User", Role: model.RoleUser}
	access, err := jwtService.GenerateAccessToken(user)
	require.NoError(t, err)
	refreshID, refresh, err := jwtService.GenerateRefreshToken(user)
	require.NoError(t, err)
	accessID, err := jwtService.ExtractTokenID(access)
	require.NoError(t, err)

	t.Run("revokes both tokens", func(t *testing.T) {
		mockTokenStore := new(MockTokenStore)
		mockTokenStore.On("BlacklistAccessToken", mock.Anything, accessID, mock.AnythingOfType("time.Duration")).Return(nil)
		mockTokenStore.On("DeleteRefreshToken", mock.Anything, refreshID).Return(nil)

		service := NewAuthService(new(MockUserRepository), jwtService, mockTokenStore, zerolog.Nop())
		service.Logout(context.Background(), access, refresh)

		mockTokenStore.AssertExpectations(t)
	})

	t.Run("store failures are swallowed", func(t *testing.T) {
		mockTokenStore := new(MockTokenStore)
		mockTokenStore.On("BlacklistAccessToken", mock.Anything, accessID, mock.Anything).Return(errors.New("redis down"))
		mockTokenStore.On("DeleteRefreshToken", mock.Anything, refreshID).Return(errors.New("redis down"))

		service := NewAuthService(new(MockUserRepository), jwtService, mockTokenStore, zerolog.Nop())
		assert.NotPanics(t, func() { service.Logout(context.Background(), access, refresh) })
	})

	t.Run("swapped tokens are ignored", func(t *testing.T) {
		mockTokenStore := new(MockTokenStore)
		service := NewAuthService(new(MockUserRepository), jwtService, mockTokenStore, zerolog.Nop())
		service.Logout(context.Background(), refresh, access)
		mockTokenStore.AssertNotCalled(t, "BlacklistAccessToken", mock.Anything, mock.Anything, mock.Anything)
		mockTokenStore.AssertNotCalled(t, "DeleteRefreshToken", mock.Anything, mock.Anything)
	})

	t.Run("nothing to revoke", func(t *testing.T) {
		mockTokenStore := new(MockTokenStore)
		service := NewAuthService(new(MockUserRepository), jwtService, mockTokenStore, zerolog.Nop())
		service.Logout(context.Background(), "", "garbage")
		mockTokenStore.AssertNotCalled(t, "BlacklistAccessToken", mock.Anything, mock.Anything, mock.Anything)
		mockTokenStore.AssertNotCalled(t, "DeleteRefreshToken", mock.Anything, mock.Anything)
	})
}

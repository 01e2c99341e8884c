package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adlens/internal/model"
)

var demoUser = &model.User{ID: "user-123", Name: "Demo User", Role: model.RoleUser}

func TestJWTService_AccessTokenRoundTrip(t *testing.T) {
	svc := NewJWTService("secret")

	token, err := svc.GenerateAccessToken(demoUser)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "Demo User", claims.Name)
	assert.Equal(t, model.RoleUser, claims.Role)
	assert.NotEmpty(t, claims.ID)
	assert.InDelta(t, AccessTokenExpiry.Seconds(), claims.Remaining().Seconds(), 5)
}

func TestJWTService_RefreshTokenID(t *testing.T) {
	svc := NewJWTService("secret")

	tokenID, token, err := svc.GenerateRefreshToken(demoUser)
	require.NoError(t, err)

	extracted, err := svc.ExtractTokenID(token)
	require.NoError(t, err)
	assert.Equal(t, tokenID, extracted)
}

func TestJWTService_TokenTypes(t *testing.T) {
	svc := NewJWTService("secret")

	access, err := svc.GenerateAccessToken(demoUser)
	require.NoError(t, err)
	_, refresh, err := svc.GenerateRefreshToken(demoUser)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		typ     string
		wantErr error
	}{
		{"access as access", access, TokenTypeAccess, nil},
		{"refresh as refresh", refresh, TokenTypeRefresh, nil},
		{"refresh as access", refresh, TokenTypeAccess, ErrWrongTokenType},
		{"access as refresh", access, TokenTypeRefresh, ErrWrongTokenType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := svc.ValidateTokenOfType(tt.token, tt.typ)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.typ, claims.Type)
		})
	}
}

func TestJWTService_Rejects(t *testing.T) {
	svc := NewJWTService("secret")

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID: "user-123",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	expiredToken, err := expired.SignedString([]byte("secret"))
	require.NoError(t, err)

	otherKey, err := NewJWTService("other").GenerateAccessToken(demoUser)
	require.NoError(t, err)

	noUser, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{}).SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"expired", expiredToken},
		{"wrong secret", otherKey},
		{"missing user id", noUser},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateToken(tt.token)
			assert.Error(t, err)
		})
	}
}

func TestClaims_RemainingNeverNegative(t *testing.T) {
	c := &Claims{RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}}
	assert.Equal(t, time.Duration(0), c.Remaining())
	assert.Equal(t, time.Duration(0), (&Claims{}).Remaining())
}

package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radmosaic/rostergen-api/internal/models"
	appErrors "github.com/radmosaic/rostergen-api/pkg/errors"
)

func TestAuthServiceTokenRoundTrip(t *testing.T) {
	service := NewAuthService(AuthConfig{Secret: "test-secret"}, nil)

	token, expiresAt, err := service.IssueToken("s-1", "org-1", models.RoleScheduler)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), expiresAt, time.Minute)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "s-1", claims.StaffID)
	assert.Equal(t, "org-1", claims.OrganizationID)
	assert.Equal(t, models.RoleScheduler, claims.Role)
	assert.Equal(t, "rostergen-api", claims.Issuer)
}

func TestAuthServiceRejectsWrongSecret(t *testing.T) {
	issuer := NewAuthService(AuthConfig{Secret: "secret-a"}, nil)
	verifier := NewAuthService(AuthConfig{Secret: "secret-b"}, nil)

	token, _, err := issuer.IssueToken("s-1", "org-1", models.RoleStaff)
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceRejectsMalformedToken(t *testing.T) {
	service := NewAuthService(AuthConfig{Secret: "test-secret"}, nil)

	_, err := service.ValidateToken("not-a-token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceRejectsExpiredToken(t *testing.T) {
	service := NewAuthService(AuthConfig{Secret: "test-secret"}, nil)

	claims := &models.JWTClaims{
		StaffID: "s-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = service.ValidateToken(expired)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceRejectsForeignSigningMethod(t *testing.T) {
	service := NewAuthService(AuthConfig{Secret: "test-secret"}, nil)

	claims := &models.JWTClaims{
		StaffID: "s-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = service.ValidateToken(signed)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceCustomExpiration(t *testing.T) {
	service := NewAuthService(AuthConfig{Secret: "test-secret", Expiration: 15 * time.Minute}, nil)

	_, expiresAt, err := service.IssueToken("s-1", "org-1", models.RoleViewer)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, time.Minute)
}

package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "inventory-system/pkg/errors"
)

func newTestJWTService(ttl time.Duration) JWTService {
	return NewJWTService("test-secret", "inventory-system", "inventory-system-clients", ttl, zap.NewNop())
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := newTestJWTService(time.Hour)

	token, err := svc.GenerateToken(7, "Jane Roe", "jane@example.com", 1, "ADMIN")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), claims.UserID)
	assert.Equal(t, "Jane Roe", claims.FullName)
	assert.Equal(t, "jane@example.com", claims.Email)
	assert.Equal(t, uint64(1), claims.RoleID)
	assert.Equal(t, "ADMIN", claims.RoleName)
}

func TestValidateTokenExpired(t *testing.T) {
	svc := newTestJWTService(-time.Minute)

	token, err := svc.GenerateToken(7, "Jane Roe", "jane@example.com", 1, "ADMIN")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	issuer := newTestJWTService(time.Hour)
	other := NewJWTService("other-secret", "inventory-system", "inventory-system-clients", time.Hour, zap.NewNop())

	token, err := issuer.GenerateToken(7, "Jane Roe", "jane@example.com", 1, "ADMIN")
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestValidateTokenWrongIssuer(t *testing.T) {
	issuer := NewJWTService("test-secret", "someone-else", "inventory-system-clients", time.Hour, zap.NewNop())
	validator := newTestJWTService(time.Hour)

	token, err := issuer.GenerateToken(7, "Jane Roe", "jane@example.com", 1, "ADMIN")
	require.NoError(t, err)

	_, err = validator.ValidateToken(token)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestValidateTokenGarbage(t *testing.T) {
	svc := newTestJWTService(time.Hour)

	_, err := svc.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

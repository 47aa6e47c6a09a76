package jwt

import (
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/paydesk/payroll-console/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessToken_CarriesSessionClaims(t *testing.T) {
	// Arrange
	svc := NewJWTService("test-secret", 15*time.Minute)
	companyID := "c1"

	// Act
	token, expiresAt, err := svc.GenerateAccessToken(Claims{
		SessionID: "s1",
		UserID:    "u1",
		Role:      user.RoleAdmin,
		CompanyID: &companyID,
	})
	require.NoError(t, err)
	decoded, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)

	// Assert
	claims := decoded.PrivateClaims()
	sessionID, err := SessionID(claims)
	require.NoError(t, err)
	assert.Equal(t, "s1", sessionID)
	assert.Equal(t, TypeAccess, TokenType(claims))
	assert.Equal(t, "c1", claims["company_id"])
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 5*time.Second)
}

func TestSSEToken_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	token, expiresIn, err := svc.GenerateSSEToken("s42")
	require.NoError(t, err)
	sessionID, err := svc.ValidateSSEToken(token)

	require.NoError(t, err)
	assert.Equal(t, "s42", sessionID)
	assert.Equal(t, 300, expiresIn)
}

func TestSSEToken_RejectsAccessToken(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)
	access, _, err := svc.GenerateAccessToken(Claims{SessionID: "s1", UserID: "u1", Role: user.RoleAdmin})
	require.NoError(t, err)

	_, err = svc.ValidateSSEToken(access)

	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestSSEToken_RejectsForeignSignature(t *testing.T) {
	issuer := NewJWTService("secret-a", time.Hour)
	verifier := NewJWTService("secret-b", time.Hour)
	token, _, err := issuer.GenerateSSEToken("s1")
	require.NoError(t, err)

	_, err = verifier.ValidateSSEToken(token)

	assert.Error(t, err)
}

package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/octopus-tms/auth-service/internal/domain"
)

func testIdentity() Identity {
	return Identity{
		UserID:      "u-1",
		Username:    "dispatch@broker.example",
		Email:       "dispatch@broker.example",
		FirstName:   "Dana",
		LastName:    "Ruiz",
		Role:        domain.RoleDispatcher,
		CompanyID:   "c-1",
		CompanyName: "Acme Logistics",
		CompanyType: string(domain.CompanyTypeBroker),
	}
}

func TestAccessTokenRoundtrip(t *testing.T) {
	tm := NewTokenManager("access-secret", "refresh-secret", time.Hour, time.Hour)

	token, expiresAt, err := tm.GenerateAccessToken(testIdentity())
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := tm.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "dispatch@broker.example", claims.Subject)
	assert.Equal(t, []string{"DISPATCHER"}, claims.Roles)
	assert.Equal(t, "DISPATCHER", claims.Role)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "Dana", claims.FirstName)
	assert.Equal(t, "Ruiz", claims.LastName)
	assert.Equal(t, "c-1", claims.CompanyID)
	assert.Equal(t, "Acme Logistics", claims.CompanyName)
	assert.Equal(t, "BROKER", claims.CompanyType)
	assert.NotEmpty(t, claims.ID)
	assert.NotNil(t, claims.IssuedAt)
}

func TestAccessTokenExpired(t *testing.T) {
	tm := NewTokenManager("access-secret", "refresh-secret", time.Millisecond, time.Hour)

	token, _, err := tm.GenerateAccessToken(testIdentity())
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	_, err = tm.VerifyAccessToken(token)
	assert.Error(t, err)
}

func TestAccessTokenWrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-a", "refresh", time.Hour, time.Hour)
	verifier := NewTokenManager("secret-b", "refresh", time.Hour, time.Hour)

	token, _, err := issuer.GenerateAccessToken(testIdentity())
	require.NoError(t, err)

	_, err = verifier.VerifyAccessToken(token)
	assert.Error(t, err)
}

func TestAccessTokenMalformed(t *testing.T) {
	tm := NewTokenManager("access-secret", "refresh-secret", time.Hour, time.Hour)

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := tm.VerifyAccessToken(token)
		assert.Error(t, err, "token %q", token)
	}
}

func TestRefreshTokenRoundtrip(t *testing.T) {
	tm := NewTokenManager("access-secret", "refresh-secret", time.Hour, 2*time.Hour)

	token, expiresAt, err := tm.GenerateRefreshToken("driver@carrier.example")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(2*time.Hour), expiresAt, 5*time.Second)

	claims, err := tm.VerifyRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, "driver@carrier.example", claims.Subject)
}

func TestRefreshTokenNotValidAsAccess(t *testing.T) {
	tm := NewTokenManager("access-secret", "refresh-secret", time.Hour, time.Hour)

	refresh, _, err := tm.GenerateRefreshToken("someone@example.com")
	require.NoError(t, err)

	_, err = tm.VerifyAccessToken(refresh)
	assert.Error(t, err)

	access, _, err := tm.GenerateAccessToken(testIdentity())
	require.NoError(t, err)

	_, err = tm.VerifyRefreshToken(access)
	assert.Error(t, err)
}

func TestTokenManagerDefaultTTLs(t *testing.T) {
	tm := NewTokenManager("s", "s", 0, 0)
	assert.Equal(t, 60*time.Minute, tm.AccessTTL())
}

package auth

import (
	"strings"
	"testing"

	"filevault-backend/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAuthConfig() *config.AuthConfig {
	return &config.AuthConfig{
		JWTSecret:         "test-secret",
		AccessTTLSeconds:  900,
		RefreshTTLSeconds: 3600,
		BcryptCost:        4,
		PasswordMinLength: 8,
	}
}

func TestMintAccessToken_VerifyRoundtrip(t *testing.T) {
	cfg := testAuthConfig()

	token, expiresAt, err := MintAccessToken("user-123", cfg)
	require.NoError(t, err)
	assert.False(t, expiresAt.IsZero())

	claims, err := VerifyToken(token, TokenTypeAccess, cfg)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.Subject)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
}

func TestMintRefreshToken_CarriesTokenID(t *testing.T) {
	cfg := testAuthConfig()

	token, tokenID, _, err := MintRefreshToken("user-123", cfg)
	require.NoError(t, err)
	assert.NotEmpty(t, tokenID)

	claims, err := VerifyToken(token, TokenTypeRefresh, cfg)
	require.NoError(t, err)
	assert.Equal(t, tokenID, claims.ID)
	assert.Equal(t, "user-123", claims.Subject)
}

func TestVerifyToken_WrongType(t *testing.T) {
	cfg := testAuthConfig()

	access, _, err := MintAccessToken("user-123", cfg)
	require.NoError(t, err)
	refresh, _, _, err := MintRefreshToken("user-123", cfg)
	require.NoError(t, err)

	_, err = VerifyToken(access, TokenTypeRefresh, cfg)
	assert.Error(t, err)
	_, err = VerifyToken(refresh, TokenTypeAccess, cfg)
	assert.Error(t, err)
}

func TestVerifyToken_TamperedSignature(t *testing.T) {
	cfg := testAuthConfig()

	token, _, err := MintAccessToken("user-123", cfg)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "." + "AAAA" + parts[2][4:]

	_, err = VerifyToken(tampered, TokenTypeAccess, cfg)
	assert.Error(t, err)
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	cfg := testAuthConfig()

	token, _, err := MintAccessToken("user-123", cfg)
	require.NoError(t, err)

	other := testAuthConfig()
	other.JWTSecret = "different-secret"
	_, err = VerifyToken(token, TokenTypeAccess, other)
	assert.Error(t, err)
}

func TestVerifyToken_Expired(t *testing.T) {
	cfg := testAuthConfig()
	cfg.AccessTTLSeconds = -1

	token, _, err := MintAccessToken("user-123", cfg)
	require.NoError(t, err)

	_, err = VerifyToken(token, TokenTypeAccess, cfg)
	assert.Error(t, err)
}

func TestVerifyToken_Malformed(t *testing.T) {
	cfg := testAuthConfig()

	_, err := VerifyToken("not-a-jwt", TokenTypeAccess, cfg)
	assert.Error(t, err)
	_, err = VerifyToken("", TokenTypeAccess, cfg)
	assert.Error(t, err)
}

func TestDigestToken(t *testing.T) {
	a := DigestToken("some-raw-token")
	b := DigestToken("some-raw-token")
	c := DigestToken("another-raw-token")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	// sha256 hex
	assert.Len(t, a, 64)
}

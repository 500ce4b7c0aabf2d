package auth_test

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OnelioViera/drinking-app-v1/internal/auth"
	"github.com/OnelioViera/drinking-app-v1/internal/domain"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := auth.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

	ok, err := auth.VerifyPassword(hash, "correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = auth.VerifyPassword(hash, "wrong password")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	_, err := auth.HashPassword("")
	assert.Error(t, err)
}

func TestHashPasswordRejectsOversized(t *testing.T) {
	_, err := auth.HashPassword(strings.Repeat("a", 2048))
	assert.Error(t, err)
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	ok, err := auth.VerifyPassword("not-an-encoded-hash", "whatever")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPasswordUniqueSalts(t *testing.T) {
	h1, err := auth.HashPassword("same input")
	require.NoError(t, err)
	h2, err := auth.HashPassword("same input")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestLoadOrGenerateKeyRoundTrip(t *testing.T) {
	dir := t.TempDir()

	first, err := auth.LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Len(t, first, 64)
	_, err = hex.DecodeString(first)
	require.NoError(t, err)

	// A second load returns the persisted key, not a new one.
	second, err := auth.LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestLoadOrGenerateKeyRejectsCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "auth.key"), []byte("short"), 0o600))

	_, err := auth.LoadOrGenerateKey(dir)
	assert.Error(t, err)
}

func newTestTokenService(t *testing.T, duration time.Duration) *auth.TokenService {
	t.Helper()
	keyHex, err := auth.LoadOrGenerateKey(t.TempDir())
	require.NoError(t, err)

	svc, err := auth.NewTokenService(keyHex, duration)
	require.NoError(t, err)
	return svc
}

func testUser() *domain.User {
	u := &domain.User{Email: "alex@example.com", DisplayName: "Alex"}
	u.ID = "usr-test-1"
	return u
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := newTestTokenService(t, time.Hour)

	token, err := svc.GenerateAccessToken(testUser())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(token, "v4.local."))

	claims, err := svc.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "usr-test-1", claims.UserID)
	assert.Equal(t, "alex@example.com", claims.Email)
	assert.Equal(t, "usr-test-1", claims.Subject)
	assert.NotEmpty(t, claims.TokenID)
}

func TestExpiredTokenRejected(t *testing.T) {
	svc := newTestTokenService(t, -time.Minute)

	token, err := svc.GenerateAccessToken(testUser())
	require.NoError(t, err)

	_, err = svc.VerifyAccessToken(token)
	assert.Error(t, err)
}

func TestTokenFromDifferentKeyRejected(t *testing.T) {
	issuer := newTestTokenService(t, time.Hour)
	verifier := newTestTokenService(t, time.Hour)

	token, err := issuer.GenerateAccessToken(testUser())
	require.NoError(t, err)

	_, err = verifier.VerifyAccessToken(token)
	assert.Error(t, err)
}

func TestGarbageTokenRejected(t *testing.T) {
	svc := newTestTokenService(t, time.Hour)

	_, err := svc.VerifyAccessToken("v4.local.not-a-real-token")
	assert.Error(t, err)
}

func TestNewTokenServiceRejectsBadKey(t *testing.T) {
	_, err := auth.NewTokenService("deadbeef", time.Hour)
	assert.Error(t, err)

	_, err = auth.NewTokenService(strings.Repeat("z", 64), time.Hour)
	assert.Error(t, err)
}

package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taplive-app/taplive_be/internal/utils"
)

const testSecret = "test-secret"

func TestSignSession_RoundTrip(t *testing.T) {
	signed, err := utils.SignSession(testSecret, "user-123", "provider", 60)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := utils.ParseSession(testSecret, signed)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "provider", claims.Role)
	assert.NotNil(t, claims.ExpiresAt)
}

func TestParseSession_WrongSecretFails(t *testing.T) {
	signed, err := utils.SignSession(testSecret, "user-123", "customer", 60)
	require.NoError(t, err)

	_, err = utils.ParseSession("other-secret", signed)
	require.Error(t, err)
}

func TestParseSession_ExpiredTokenFails(t *testing.T) {
	signed, err := utils.SignSession(testSecret, "user-123", "customer", -1)
	require.NoError(t, err)

	_, err = utils.ParseSession(testSecret, signed)
	require.Error(t, err)
}

func TestParseSession_GarbageFails(t *testing.T) {
	_, err := utils.ParseSession(testSecret, "not-a-jwt")
	require.Error(t, err)
}

func TestParseSession_EmptyUserIDRejected(t *testing.T) {
	signed, err := utils.SignSession(testSecret, "   ", "customer", 60)
	require.NoError(t, err)

	_, err = utils.ParseSession(testSecret, signed)
	require.ErrorIs(t, err, utils.ErrInvalidSession)
}

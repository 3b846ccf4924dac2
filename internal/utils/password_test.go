package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taplive-app/taplive_be/internal/utils"
)

func TestHashPassword(t *testing.T) {
	hashed, err := utils.HashPassword("hunter22")
	require.NoError(t, err)
	require.NotEmpty(t, hashed)
	assert.NotEqual(t, "hunter22", hashed)

	t.Run("same input hashes differently", func(t *testing.T) {
		again, err := utils.HashPassword("hunter22")
		require.NoError(t, err)
		assert.NotEqual(t, hashed, again)
	})
}

func TestCheckPassword(t *testing.T) {
	hashed, err := utils.HashPassword("correct horse battery staple")
	require.NoError(t, err)

	assert.True(t, utils.CheckPassword(hashed, "correct horse battery staple"))
	assert.False(t, utils.CheckPassword(hashed, "wrong password"))
	assert.False(t, utils.CheckPassword("not-a-hash", "anything"))
}

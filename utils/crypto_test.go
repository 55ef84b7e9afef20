package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateLicenseKey(t *testing.T) {
	key1, err := GenerateLicenseKey("HW-001")
	require.NoError(t, err)
	assert.Len(t, key1, 64) // hex-encoded sha256

	key2, err := GenerateLicenseKey("HW-001")
	require.NoError(t, err)
	assert.NotEqual(t, key1, key2)

	// Quota-only licenses have no hardware id; keys stay unique anyway.
	key3, err := GenerateLicenseKey("")
	require.NoError(t, err)
	key4, err := GenerateLicenseKey("")
	require.NoError(t, err)
	assert.NotEqual(t, key3, key4)
}

func TestGenerateID(t *testing.T) {
	plain := GenerateID("")
	assert.NotEmpty(t, plain)

	prefixed := GenerateID("lic")
	assert.Regexp(t, `^lic-`, prefixed)
	assert.NotEqual(t, GenerateID("lic"), prefixed)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)

	assert.True(t, CheckPassword(hash, "hunter22"))
	assert.False(t, CheckPassword(hash, "hunter23"))
	assert.False(t, CheckPassword("not-a-hash", "hunter22"))
}

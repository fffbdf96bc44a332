package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "", MaskSecret(""))
	assert.Equal(t, "...", MaskSecret("abc"))
	assert.Equal(t, "...", MaskSecret("abcd"))
	assert.Equal(t, "sk-v...", MaskSecret("sk-verysecretkey"))
}

func TestReadSecretEnvFallback(t *testing.T) {
	t.Setenv("TEST_SECRET_FALLBACK", "from-env")

	v, err := ReadSecret("test_secret_fallback")
	require.NoError(t, err)
	assert.Equal(t, "from-env", v)
}

func TestReadSecretMissing(t *testing.T) {
	_, err := ReadSecret("definitely_not_configured_anywhere")
	assert.Error(t, err)
}

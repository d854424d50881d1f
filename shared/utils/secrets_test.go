package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"outfit-server/shared/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadSecret(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SECRETS_DIR", dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "jwt_secret"), []byte("  s3cr3t\n"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty"), []byte("\n"), 0600))

	secret, err := utils.ReadSecret("jwt_secret")
	require.NoError(t, err)
	assert.Equal(t, "s3cr3t", secret)

	_, err = utils.ReadSecret("empty")
	assert.ErrorContains(t, err, "is empty")

	_, err = utils.ReadSecret("missing")
	assert.ErrorContains(t, err, "failed to read secret file")
}

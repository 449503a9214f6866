package firebase

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsValidate(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "service-account.json")
	require.NoError(t, os.WriteFile(file, []byte("{}"), 0o600))

	assert.ErrorContains(t, Options{}.validate(), "not provided")
	assert.ErrorIs(t, Options{CredentialsPath: filepath.Join(dir, "missing.json")}.validate(), os.ErrNotExist)
	assert.ErrorContains(t, Options{CredentialsPath: dir}.validate(), "is a directory")
	assert.NoError(t, Options{CredentialsPath: file}.validate())
}

func TestNewAuthClientRejectsMissingCredentials(t *testing.T) {
	_, err := NewAuthClient(context.Background(), Options{})
	assert.Error(t, err)
}

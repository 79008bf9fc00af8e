package cds

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCredentials_EnvTakesPrecedence(t *testing.T) {
	t.Setenv("CDSAPI_URL", "https://example.test/api")
	t.Setenv("CDSAPI_KEY", "env-key")

	creds, err := LoadCredentials()
	require.NoError(t, err)
	assert.Equal(t, "https://example.test/api", creds.URL)
	assert.Equal(t, "env-key", creds.Key)
}

func TestLoadCredentials_EnvKeyWithoutURL(t *testing.T) {
	t.Setenv("CDSAPI_URL", "")
	t.Setenv("CDSAPI_KEY", "env-key")

	creds, err := LoadCredentials()
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, creds.URL)
}

func TestReadCDSAPIRC(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".cdsapirc")
	content := "# CDS credentials\nurl: https://cds.example.test/api\nkey: abcd-1234\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	creds, err := readCDSAPIRC(path)
	require.NoError(t, err)
	assert.Equal(t, "https://cds.example.test/api", creds.URL)
	assert.Equal(t, "abcd-1234", creds.Key)
}

func TestReadCDSAPIRC_MissingKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".cdsapirc")
	require.NoError(t, os.WriteFile(path, []byte("url: https://cds.example.test/api\n"), 0o600))

	_, err := readCDSAPIRC(path)
	assert.Error(t, err)
}

func TestReadCDSAPIRC_FileMissing(t *testing.T) {
	_, err := readCDSAPIRC(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}

package graphql

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettings(t *testing.T) {
	path := t.TempDir() + "/client.yaml"
	require.NoError(t, os.WriteFile(path, []byte(`
endpoint: https://example.com/graphql
wsEndpoint: wss://example.com/graphql
subprotocols:
  - graphql-transport-ws
  - graphql-ws
headers:
  Authorization: Bearer token
timeout: 30s
logLevel: debug
`), 0o600))

	s, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/graphql", s.Endpoint)
	assert.Equal(t, "wss://example.com/graphql", s.WSEndpoint)
	assert.Equal(t, []string{"graphql-transport-ws", "graphql-ws"}, s.Subprotocols)
	assert.Equal(t, "Bearer token", s.Headers["Authorization"])
	assert.Equal(t, 30*time.Second, s.Timeout)
	assert.Equal(t, "debug", s.LogLevel)
}

func TestLoadSettingsDefaultsWSEndpoint(t *testing.T) {
	path := t.TempDir() + "/client.yaml"
	require.NoError(t, os.WriteFile(path, []byte("endpoint: https://example.com/graphql\n"), 0o600))

	s, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, s.Endpoint, s.WSEndpoint)
}

func TestLoadSettingsMissingEndpoint(t *testing.T) {
	path := t.TempDir() + "/client.yaml"
	require.NoError(t, os.WriteFile(path, []byte("logLevel: info\n"), 0o600))

	_, err := LoadSettings(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "endpoint")
}

func TestLoadSettingsBadYAML(t *testing.T) {
	path := t.TempDir() + "/client.yaml"
	require.NoError(t, os.WriteFile(path, []byte("endpoint: [unclosed\n"), 0o600))

	_, err := LoadSettings(path)
	assert.Error(t, err)
}

func TestLoadSettingsMissingFile(t *testing.T) {
	_, err := LoadSettings("/does/not/exist.yaml")
	assert.Error(t, err)
}

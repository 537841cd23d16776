package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "127.0.0.1:1234", c.ServerEndpointAddr)
	assert.Equal(t, 5*time.Second, c.DialTimeout)
}

func TestLoadConfig_FlagsOverrideDefaults(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"marketcli", "-a", "example.com:5555", "-t", "2"}

	c := LoadConfig()
	require.NotNil(t, c)

	assert.Equal(t, "example.com:5555", c.ServerEndpointAddr)
	assert.Equal(t, 2*time.Second, c.DialTimeout)
}

func TestParseJSON_PartialOverlayKeepsDefaults(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	path := filepath.Join(t.TempDir(), "conf.json")
	require.NoError(t, os.WriteFile(path,
		[]byte(`{"server_endpoint_addr": "10.0.0.1:4321"}`), 0o600))

	os.Args = []string{"marketcli", "-c", path}

	var c Config
	c.LoadDefaults()
	parseJSON(&c)

	assert.Equal(t, "10.0.0.1:4321", c.ServerEndpointAddr)
	assert.Equal(t, 5*time.Second, c.DialTimeout)
}

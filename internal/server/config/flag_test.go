package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFlags_Overrides(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"marketd",
		"-a", ":5555",
		"-d", "/var/lib/marketd",
		"-m", "3",
		"-l", "development",
	}

	var c Config
	c.LoadDefaults()
	parseFlags(&c)

	assert.Equal(t, ":5555", c.EndpointAddr)
	assert.Equal(t, "/var/lib/marketd", c.DataDir)
	assert.Equal(t, 3, c.MaxSearchResults)
	assert.Equal(t, "development", c.LogMode)
	assert.True(t, c.Development())

	// Untouched flags keep their defaults.
	assert.Equal(t, "stopword.txt", c.StopWordsFile)
}

func TestParseFlags_IgnoresForeignFlags(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"marketd", "-a", ":5555", "-unknown", "whatever"}

	var c Config
	c.LoadDefaults()
	parseFlags(&c)

	assert.Equal(t, ":5555", c.EndpointAddr)
}

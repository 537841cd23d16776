package config

import (
	"encoding/json"
	"os"
	"time"

	"marketd/internal/flagx"
)

// jsonConfig is the intermediate DTO used only for reading JSON
// configuration files. Absent fields stay nil and leave the corresponding
// Config value untouched. The dial timeout is given in seconds.
type jsonConfig struct {
	ServerEndpointAddr *string `json:"server_endpoint_addr"`
	DialTimeoutSeconds *int    `json:"dial_timeout_seconds"`
}

// parseJSON loads configuration values from the JSON file named by the
// -c/-config flags into the provided Config. When no file is named, nothing
// is loaded. An unreadable or invalid file panics: a config the operator
// pointed at explicitly must not be silently ignored.
func parseJSON(config *Config) {
	jsonConfigFile := flagx.JSONConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &jsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.ServerEndpointAddr != nil {
		config.ServerEndpointAddr = *c.ServerEndpointAddr
	}
	if c.DialTimeoutSeconds != nil {
		config.DialTimeout = time.Duration(*c.DialTimeoutSeconds) * time.Second
	}
}

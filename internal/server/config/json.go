package config

import (
	"encoding/json"
	"os"

	"marketd/internal/flagx"
)

// jsonConfig is the intermediate DTO used only for reading JSON
// configuration files. Absent fields stay nil and leave the corresponding
// Config value untouched.
type jsonConfig struct {
	EndpointAddr     *string `json:"endpoint_addr"`
	DataDir          *string `json:"data_dir"`
	StopWordsFile    *string `json:"stop_words_file"`
	SpecialCharsFile *string `json:"special_chars_file"`
	MaxSearchResults *int    `json:"max_search_results"`
	LogMode          *string `json:"log_mode"`
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

	if c.EndpointAddr != nil {
		config.EndpointAddr = *c.EndpointAddr
	}
	if c.DataDir != nil {
		config.DataDir = *c.DataDir
	}
	if c.StopWordsFile != nil {
		config.StopWordsFile = *c.StopWordsFile
	}
	if c.SpecialCharsFile != nil {
		config.SpecialCharsFile = *c.SpecialCharsFile
	}
	if c.MaxSearchResults != nil {
		config.MaxSearchResults = *c.MaxSearchResults
	}
	if c.LogMode != nil {
		config.LogMode = *c.LogMode
	}
}

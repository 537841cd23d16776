// Package config handles configuration for the server component, including
// defaults, an optional JSON overlay and command-line flags.
package config

// Config holds runtime settings for the marketd server.
//
// Fields:
//   - EndpointAddr: TCP bind address for the line protocol.
//   - DataDir: directory holding users.txt, items.txt and the per-pair
//     conversation files.
//   - StopWordsFile / SpecialCharsFile: text resources consumed by the tag
//     extractor (loaded once at startup).
//   - MaxSearchResults: result cap applied when a SEARCH_ITEMS request
//     omits its own limit.
//   - LogMode: "production" (JSON logs) or "development" (console logs).
type Config struct {
	EndpointAddr     string
	DataDir          string
	StopWordsFile    string
	SpecialCharsFile string
	MaxSearchResults int
	LogMode          string
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = ":1234"
	c.DataDir = "data"
	c.StopWordsFile = "stopword.txt"
	c.SpecialCharsFile = "special_characters.txt"
	c.MaxSearchResults = 10
	c.LogMode = "production"
}

// Development reports whether logging should run in development mode.
func (c *Config) Development() bool {
	return c.LogMode == "development"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)
	parseFlags(cfg)
	return cfg
}

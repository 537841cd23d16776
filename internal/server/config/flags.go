package config

import (
	"flag"
	"os"

	"marketd/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line
// flags.
//
// Supported flags (short forms):
//
//	-a string   TCP bind address (e.g., ":1234")
//	-d string   data directory
//	-w string   stop-word resource file
//	-x string   special-character resource file
//	-m int      default max search results
//	-l string   log mode ("production" or "development")
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with the -c/-config flags handled
// by the JSON overlay.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-w", "-x", "-m", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DataDir, "d", config.DataDir, "data directory")
	fs.StringVar(&config.StopWordsFile, "w", config.StopWordsFile, "stop-word list file")
	fs.StringVar(&config.SpecialCharsFile, "x", config.SpecialCharsFile, "special-character list file")
	fs.IntVar(&config.MaxSearchResults, "m", config.MaxSearchResults, "default max search results")
	fs.StringVar(&config.LogMode, "l", config.LogMode, "log mode (production|development)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}

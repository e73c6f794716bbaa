// Package config provides functionality for managing configuration options
// for the application using command-line flags, a .env file and
// environment variables.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Options holds the configuration values for the application.
type Options struct {
	// Addr defines the stub server's listening address (ip:port).
	Addr string

	// APIBaseURL is the SmartCareer API base URL the client talks to.
	APIBaseURL string

	// DatabaseDSN holds the Postgres connection string for the stub
	// server's user repository. Empty means in-memory only.
	DatabaseDSN string

	// VaultPath is where the client persists its token pair.
	VaultPath string

	// Config is the path to the config file.
	Config string
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.Addr, "a", "localhost:8080", "run on ip:port server")
	flag.StringVar(&options.APIBaseURL, "url", "http://localhost:8080", "API base URL")
	flag.StringVar(&options.DatabaseDSN, "d", "", "db address")
	flag.StringVar(&options.VaultPath, "vault", "tokens.json", "path to the token vault file")
	flag.StringVar(&options.Config, "config", "config.json", "path to config file")
	flag.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
}

// Parse parses the command-line flags, .env file and environment variables
// to set configuration values. It returns a pointer to the Options struct
// containing the parsed configuration values.
func Parse() *Options {
	flag.Parse()

	// A missing .env file is fine; explicit env vars still apply.
	_ = godotenv.Load()

	// Override flags with environment variables if set
	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				log.Fatalf("error while reading config file: %v", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				log.Fatalf("error while parsing config file: %v", err)
			}
		}
	}

	if serverAddress := os.Getenv("SERVER_ADDRESS"); serverAddress != "" {
		options.Addr = serverAddress
	}
	if baseURL := os.Getenv("API_BASE_URL"); baseURL != "" {
		options.APIBaseURL = baseURL
	}
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		options.DatabaseDSN = dsn
	}
	if vaultPath := os.Getenv("VAULT_PATH"); vaultPath != "" {
		options.VaultPath = vaultPath
	}

	return options
}

// Package config loads server configuration from a .env file and the
// environment, with environment variables taking precedence.
package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds everything the server needs to start.
type Config struct {
	// Port is the HTTP listen port, without a colon.
	Port string

	// DBPath is the SQLite database path. ":memory:" keeps everything
	// in-process, useful for demos and tests.
	DBPath string

	// GotenbergURL is the base URL of the HTML-to-PDF service. Empty
	// disables PDF statement rendering.
	GotenbergURL string

	// CORSOrigins lists the allowed browser origins.
	CORSOrigins []string
}

// Load reads configuration from .env (if present) and the environment.
func Load() Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Config file not found, using defaults: %v", err)
	}

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("DB_PATH", "./data/bank.db")
	viper.SetDefault("GOTENBERG_URL", "")
	viper.SetDefault("CORS_ORIGINS", []string{"https://*", "http://*"})

	return Config{
		Port:         viper.GetString("SERVER_PORT"),
		DBPath:       viper.GetString("DB_PATH"),
		GotenbergURL: viper.GetString("GOTENBERG_URL"),
		CORSOrigins:  viper.GetStringSlice("CORS_ORIGINS"),
	}
}

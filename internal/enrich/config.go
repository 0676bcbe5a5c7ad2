// Package enrich looks up external metadata (artwork, album, release year)
// for library tracks via the Spotify catalog.
package enrich

import (
	"errors"
	"os"
)

// ErrMissingCredentials is returned when SPOTIFY_ID or SPOTIFY_SECRET is not
// set. Enrichment is optional; callers treat this as "feature disabled".
var ErrMissingCredentials = errors.New("missing SPOTIFY_ID or SPOTIFY_SECRET environment variable")

// Config holds Spotify API credentials.
type Config struct {
	ClientID     string
	ClientSecret string
}

// LoadConfig reads Spotify credentials from environment variables.
// Returns ErrMissingCredentials if either variable is not set.
func LoadConfig() (*Config, error) {
	clientID := os.Getenv("SPOTIFY_ID")
	clientSecret := os.Getenv("SPOTIFY_SECRET")

	if clientID == "" || clientSecret == "" {
		return nil, ErrMissingCredentials
	}
	return &Config{ClientID: clientID, ClientSecret: clientSecret}, nil
}

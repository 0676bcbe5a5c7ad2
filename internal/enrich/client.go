package enrich

import (
	"context"
	"errors"
	"fmt"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"

	"crossfade/internal/lyrics"
)

// ErrNoMatch is returned when the catalog has no result for the track.
var ErrNoMatch = errors.New("no catalog match")

// Metadata is the catalog information found for a track.
type Metadata struct {
	Album       string `json:"album"`
	ArtworkURL  string `json:"artwork_url"`
	ReleaseYear int    `json:"release_year"`
	SpotifyID   string `json:"spotify_id"`
}

// Client looks up track metadata in the Spotify catalog using the
// client-credentials flow (no user login involved).
type Client struct {
	api *spotify.Client
}

// NewClient authenticates with Spotify and returns a catalog client.
func NewClient(ctx context.Context, cfg *Config) (*Client, error) {
	config := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}
	token, err := config.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("authenticating with Spotify: %w", err)
	}

	httpClient := spotifyauth.New().Client(ctx, token)
	return &Client{api: spotify.New(httpClient)}, nil
}

// Lookup searches the catalog for a track and returns its metadata. DJ tools
// and edits are skipped up front, and noisy terms are cleaned before a
// second attempt.
func (c *Client) Lookup(ctx context.Context, artist, title string) (*Metadata, error) {
	if artist == "" || title == "" {
		return nil, ErrNoMatch
	}
	if lyrics.IsDJTool(title) {
		return nil, ErrNoMatch
	}

	queries := []string{
		fmt.Sprintf("%s %s", artist, title),
		fmt.Sprintf("%s %s", lyrics.CleanTerm(artist), lyrics.CleanTerm(title)),
	}

	for i, query := range queries {
		if i > 0 && query == queries[0] {
			continue
		}

		meta, err := c.searchOne(ctx, query)
		if errors.Is(err, ErrNoMatch) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return meta, nil
	}

	return nil, ErrNoMatch
}

func (c *Client) searchOne(ctx context.Context, query string) (*Metadata, error) {
	results, err := c.api.Search(ctx, query, spotify.SearchTypeTrack, spotify.Limit(1))
	if err != nil {
		return nil, fmt.Errorf("searching catalog: %w", err)
	}
	if results.Tracks == nil || len(results.Tracks.Tracks) == 0 {
		return nil, ErrNoMatch
	}

	track := results.Tracks.Tracks[0]
	meta := &Metadata{
		Album:       track.Album.Name,
		ReleaseYear: track.Album.ReleaseDateTime().Year(),
		SpotifyID:   string(track.ID),
	}
	if len(track.Album.Images) > 0 {
		meta.ArtworkURL = track.Album.Images[0].URL
	}
	return meta, nil
}

// Package lyrics provides LRCLIB integration for fetching track lyrics.
package lyrics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"
)

const (
	baseURL   = "https://lrclib.net/api"
	userAgent = "crossfade/1.0"
)

// ErrNotFound is returned when LRCLIB has no lyrics for the track.
var ErrNotFound = errors.New("lyrics not found")

// Lyrics holds the lyrics text for a track. Synced is the LRC-timestamped
// form when available.
type Lyrics struct {
	Plain  string `json:"plainLyrics"`
	Synced string `json:"syncedLyrics"`
}

// lrclibRecord is the JSON shape returned by both the get and search
// endpoints.
type lrclibRecord struct {
	TrackName    string `json:"trackName"`
	ArtistName   string `json:"artistName"`
	PlainLyrics  string `json:"plainLyrics"`
	SyncedLyrics string `json:"syncedLyrics"`
	Instrumental bool   `json:"instrumental"`
}

// Client is an LRCLIB API client with in-memory caching.
type Client struct {
	httpClient *http.Client
	baseURL    string

	// In-memory cache: key = "{artist}:{title}"
	cache   map[string]*Lyrics
	cacheMu sync.RWMutex
}

// NewClient creates a new LRCLIB client. The API needs no key.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
		cache:   make(map[string]*Lyrics),
	}
}

// Get fetches lyrics for a track, trying an exact lookup first and falling
// back to search. Results are cached in memory. Returns ErrNotFound when
// LRCLIB has nothing, and skips DJ tools and edits outright (their lyrics
// timestamps never line up with the edit).
func (c *Client) Get(ctx context.Context, artist, title string) (*Lyrics, error) {
	if artist == "" || title == "" {
		return nil, ErrNotFound
	}
	if IsDJTool(title) {
		return nil, ErrNotFound
	}

	cacheKey := fmt.Sprintf("%s:%s", artist, title)

	c.cacheMu.RLock()
	if cached, ok := c.cache[cacheKey]; ok {
		c.cacheMu.RUnlock()
		return cached, nil
	}
	c.cacheMu.RUnlock()

	lyrics, err := c.getExact(ctx, artist, title)
	if errors.Is(err, ErrNotFound) {
		lyrics, err = c.search(ctx, CleanTerm(artist), CleanTerm(title))
	}
	if err != nil {
		return nil, err
	}

	c.cacheMu.Lock()
	c.cache[cacheKey] = lyrics
	c.cacheMu.Unlock()

	return lyrics, nil
}

// getExact queries the /get endpoint, which matches artist and title exactly.
func (c *Client) getExact(ctx context.Context, artist, title string) (*Lyrics, error) {
	params := url.Values{
		"artist_name": {artist},
		"track_name":  {title},
	}

	body, status, err := c.doRequest(ctx, c.baseURL+"/get?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("fetching lyrics: %w", err)
	}
	if status == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("lrclib returned status %d", status)
	}

	var record lrclibRecord
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, fmt.Errorf("parsing lyrics response: %w", err)
	}
	return recordToLyrics(record)
}

// search queries the /search endpoint and takes the first result.
func (c *Client) search(ctx context.Context, artist, title string) (*Lyrics, error) {
	params := url.Values{
		"q": {artist + " " + title},
	}

	body, status, err := c.doRequest(ctx, c.baseURL+"/search?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("searching lyrics: %w", err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("lrclib returned status %d", status)
	}

	var records []lrclibRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("parsing search response: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrNotFound
	}
	return recordToLyrics(records[0])
}

func recordToLyrics(record lrclibRecord) (*Lyrics, error) {
	if record.Instrumental || (record.PlainLyrics == "" && record.SyncedLyrics == "") {
		return nil, ErrNotFound
	}
	return &Lyrics{
		Plain:  record.PlainLyrics,
		Synced: record.SyncedLyrics,
	}, nil
}

func (c *Client) doRequest(ctx context.Context, reqURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("reading response body: %w", err)
	}
	return body, resp.StatusCode, nil
}

package web

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"crossfade/internal/db"
	"crossfade/internal/enrich"
	"crossfade/internal/lyrics"
	"crossfade/internal/playlist"
	"crossfade/internal/recommend"
	"crossfade/internal/setlist"
)

// Handlers contains HTTP handlers for the crossfade API.
type Handlers struct {
	db        *db.DB
	recommend *recommend.Service
	lyrics    *lyrics.Client
	enrich    *enrich.Client
}

// NewHandlers creates a new Handlers instance. enrichClient may be nil.
func NewHandlers(database *db.DB, recommendSvc *recommend.Service, lyricsClient *lyrics.Client, enrichClient *enrich.Client) *Handlers {
	return &Handlers{
		db:        database,
		recommend: recommendSvc,
		lyrics:    lyricsClient,
		enrich:    enrichClient,
	}
}

// trackJSON is the wire shape for tracks, shared by library rows and
// builder results.
type trackJSON struct {
	ID           int64   `json:"id"`
	Filepath     string  `json:"filepath"`
	Title        string  `json:"title"`
	Artist       string  `json:"artist"`
	Album        string  `json:"album"`
	Genre        string  `json:"genre"`
	Key          string  `json:"key"`
	BPM          float64 `json:"bpm"`
	Energy       float64 `json:"energy"`
	Danceability float64 `json:"danceability"`
	Duration     float64 `json:"duration"`
	Year         int     `json:"year,omitempty"`
	Position     *int    `json:"position,omitempty"`
}

func trackToJSON(t db.Track) trackJSON {
	year := 0
	if t.Year != nil {
		year = *t.Year
	}
	return trackJSON{
		ID:           t.ID,
		Filepath:     t.Filepath,
		Title:        t.Title,
		Artist:       t.Artist,
		Album:        t.Album,
		Genre:        t.Genre,
		Key:          t.Key,
		BPM:          t.BPM,
		Energy:       t.Energy,
		Danceability: t.Danceability,
		Duration:     t.Duration,
		Year:         year,
	}
}

func viewToJSON(t setlist.Track) trackJSON {
	return trackJSON{
		ID:           t.ID,
		Filepath:     t.Filepath,
		Title:        t.Title,
		Artist:       t.Artist,
		Album:        t.Album,
		Genre:        t.Genre,
		Key:          t.Key,
		BPM:          t.BPM,
		Energy:       t.Energy,
		Danceability: t.Danceability,
		Duration:     t.Duration,
		Year:         t.Year,
	}
}

func tracksToJSON(tracks []db.Track) []trackJSON {
	out := make([]trackJSON, len(tracks))
	for i, t := range tracks {
		out[i] = trackToJSON(t)
	}
	return out
}

func viewsToJSON(tracks []setlist.Track) []trackJSON {
	out := make([]trackJSON, len(tracks))
	for i, t := range tracks {
		out[i] = viewToJSON(t)
	}
	return out
}

func trackIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "trackID"), 10, 64)
}

func setlistIDParam(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "setlistID"))
}

// ListTracks handles GET /api/tracks.
func (h *Handlers) ListTracks(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 100)
	offset := queryInt(r, "offset", 0)

	tracks, err := h.db.Tracks().List(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tracksToJSON(tracks))
}

// GetTrack handles GET /api/tracks/{trackID}.
func (h *Handlers) GetTrack(w http.ResponseWriter, r *http.Request) {
	id, err := trackIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid track ID")
		return
	}

	track, err := h.db.Tracks().Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trackToJSON(*track))
}

// GetTrackLyrics handles GET /api/tracks/{trackID}/lyrics.
func (h *Handlers) GetTrackLyrics(w http.ResponseWriter, r *http.Request) {
	id, err := trackIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid track ID")
		return
	}

	track, err := h.db.Tracks().Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	found, err := h.lyrics.Get(r.Context(), track.Artist, track.Title)
	if errors.Is(err, lyrics.ErrNotFound) {
		writeError(w, http.StatusNotFound, "lyrics not found")
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, found)
}

// GetTrackMetadata handles GET /api/tracks/{trackID}/metadata.
func (h *Handlers) GetTrackMetadata(w http.ResponseWriter, r *http.Request) {
	if h.enrich == nil {
		writeError(w, http.StatusServiceUnavailable, "metadata enrichment not configured")
		return
	}

	id, err := trackIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid track ID")
		return
	}

	track, err := h.db.Tracks().Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	meta, err := h.enrich.Lookup(r.Context(), track.Artist, track.Title)
	if errors.Is(err, enrich.ErrNoMatch) {
		writeError(w, http.StatusNotFound, "no catalog match")
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, meta)
}

// SuggestTrackGenre handles GET /api/tracks/{trackID}/genre/suggest.
func (h *Handlers) SuggestTrackGenre(w http.ResponseWriter, r *http.Request) {
	id, err := trackIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid track ID")
		return
	}

	type suggestion struct {
		SuggestedGenre string `json:"suggested_genre,omitempty"`
		Reason         string `json:"reason,omitempty"`
	}

	genre, err := h.recommend.SuggestGenre(r.Context(), id)
	switch {
	case errors.Is(err, recommend.ErrNoEmbedding):
		writeJSON(w, http.StatusOK, suggestion{Reason: "no_embedding"})
	case errors.Is(err, recommend.ErrNoVerifiedTracks):
		writeJSON(w, http.StatusOK, suggestion{Reason: "no_verified_tracks"})
	case err != nil:
		writeServiceError(w, err)
	default:
		writeJSON(w, http.StatusOK, suggestion{SuggestedGenre: genre})
	}
}

// SetTrackGenre handles PUT /api/tracks/{trackID}/genre.
func (h *Handlers) SetTrackGenre(w http.ResponseWriter, r *http.Request) {
	id, err := trackIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid track ID")
		return
	}

	var body struct {
		Genre string `json:"genre"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if body.Genre == "" {
		writeError(w, http.StatusBadRequest, "genre is required")
		return
	}

	if err := h.db.Tracks().SetGenre(r.Context(), id, body.Genre); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// MoodGroups handles GET /api/genres/moods.
func (h *Handlers) MoodGroups(w http.ResponseWriter, r *http.Request) {
	cfg := recommend.DefaultMoodConfig()
	if n := queryInt(r, "clusters", 0); n > 0 {
		cfg.NumClusters = n
	}

	groups, outliers, err := h.recommend.MoodGroups(r.Context(), cfg)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	type groupJSON struct {
		Name     string             `json:"name"`
		Centroid map[string]float64 `json:"centroid"`
		Tracks   []trackJSON        `json:"tracks"`
	}

	payload := struct {
		Groups       []groupJSON `json:"groups"`
		OutlierCount int         `json:"outlier_count"`
	}{
		Groups:       make([]groupJSON, len(groups)),
		OutlierCount: len(outliers),
	}
	for i, g := range groups {
		payload.Groups[i] = groupJSON{
			Name:     g.Name,
			Centroid: g.Centroid,
			Tracks:   tracksToJSON(g.Tracks),
		}
	}
	writeJSON(w, http.StatusOK, payload)
}

// setlistJSON is the wire shape for setlists.
type setlistJSON struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func setlistToJSON(s db.Setlist) setlistJSON {
	return setlistJSON{
		ID:        s.ID,
		Name:      s.Name,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// ListSetlists handles GET /api/setlists.
func (h *Handlers) ListSetlists(w http.ResponseWriter, r *http.Request) {
	setlists, err := h.db.Setlists().List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	payload := make([]setlistJSON, len(setlists))
	for i, s := range setlists {
		payload[i] = setlistToJSON(s)
	}
	writeJSON(w, http.StatusOK, payload)
}

// CreateSetlist handles POST /api/setlists.
func (h *Handlers) CreateSetlist(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if body.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	created, err := h.db.Setlists().Create(r.Context(), body.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, setlistToJSON(*created))
}

// RenameSetlist handles PUT /api/setlists/{setlistID}.
func (h *Handlers) RenameSetlist(w http.ResponseWriter, r *http.Request) {
	id, err := setlistIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid setlist ID")
		return
	}

	var body struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if body.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	renamed, err := h.db.Setlists().Rename(r.Context(), id, body.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, setlistToJSON(*renamed))
}

// DeleteSetlist handles DELETE /api/setlists/{setlistID}.
func (h *Handlers) DeleteSetlist(w http.ResponseWriter, r *http.Request) {
	id, err := setlistIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid setlist ID")
		return
	}

	if err := h.db.Setlists().Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// GetSetlistTracks handles GET /api/setlists/{setlistID}/tracks.
func (h *Handlers) GetSetlistTracks(w http.ResponseWriter, r *http.Request) {
	id, err := setlistIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid setlist ID")
		return
	}

	if _, err := h.db.Setlists().Get(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	tracks, err := h.db.Setlists().GetTracks(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	payload := make([]trackJSON, len(tracks))
	for i, t := range tracks {
		payload[i] = trackToJSON(t)
		position := i
		payload[i].Position = &position
	}
	writeJSON(w, http.StatusOK, payload)
}

// ReplaceSetlistTracks handles POST /api/setlists/{setlistID}/tracks. The
// body is the full ordered track ID list; positions follow the slice order,
// and IDs that resolve to no library track reject the whole payload.
func (h *Handlers) ReplaceSetlistTracks(w http.ResponseWriter, r *http.Request) {
	id, err := setlistIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid setlist ID")
		return
	}

	var trackIDs []int64
	if err := decodeJSON(r, &trackIDs); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	if len(trackIDs) > 0 {
		found, err := h.db.Tracks().GetByIDs(r.Context(), trackIDs)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if len(found) != len(trackIDs) {
			writeError(w, http.StatusBadRequest, "unknown track IDs in payload")
			return
		}
	}

	if err := h.db.Setlists().ReplaceTracks(r.Context(), id, trackIDs); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// ExportSetlistM3U8 handles GET /api/setlists/{setlistID}/export/m3u8.
func (h *Handlers) ExportSetlistM3U8(w http.ResponseWriter, r *http.Request) {
	id, err := setlistIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid setlist ID")
		return
	}

	found, err := h.db.Setlists().Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	tracks, err := h.db.Setlists().GetTracks(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	entries := make([]playlist.Entry, len(tracks))
	for i, t := range tracks {
		entries[i] = playlist.Entry{
			Filepath: t.Filepath,
			Artist:   t.Artist,
			Title:    t.Title,
			Duration: t.Duration,
		}
	}

	filename := playlist.Filename(found.Name)
	w.Header().Set("Content-Type", "application/x-mpegurl")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename*=UTF-8''%s", url.PathEscape(filename)))
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, playlist.M3U8(entries))
}

// RecommendNext handles GET /api/recommendations/next.
func (h *Handlers) RecommendNext(w http.ResponseWriter, r *http.Request) {
	trackID, err := strconv.ParseInt(r.URL.Query().Get("track_id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "track_id is required")
		return
	}
	limit := queryInt(r, "limit", 20)
	genres := r.URL.Query()["genres"]

	tracks, err := h.recommend.NextTracks(r.Context(), trackID, limit, genres)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewsToJSON(tracks))
}

// GenerateAutoSetlist handles POST /api/recommendations/auto.
func (h *Handlers) GenerateAutoSetlist(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Vibe         setlist.Vibe `json:"vibe"`
		Prompt       string       `json:"prompt"`
		SeedTrackIDs []int64      `json:"seed_track_ids"`
		Genres       []string     `json:"genres"`
		Length       int          `json:"length"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if body.Length <= 0 {
		body.Length = 10
	}

	tracks, err := h.recommend.GenerateChain(r.Context(), recommend.ChainRequest{
		Vibe:    body.Vibe,
		Prompt:  body.Prompt,
		SeedIDs: body.SeedTrackIDs,
		Genres:  body.Genres,
		Length:  body.Length,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewsToJSON(tracks))
}

// GeneratePathSetlist handles POST /api/recommendations/path.
func (h *Handlers) GeneratePathSetlist(w http.ResponseWriter, r *http.Request) {
	var body struct {
		StartTrackID int64    `json:"start_track_id"`
		EndTrackID   int64    `json:"end_track_id"`
		Length       int      `json:"length"`
		Genres       []string `json:"genres"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if body.StartTrackID == 0 || body.EndTrackID == 0 {
		writeError(w, http.StatusBadRequest, "start_track_id and end_track_id are required")
		return
	}
	if body.Length < 2 {
		writeError(w, http.StatusBadRequest, "length must be at least 2")
		return
	}

	tracks, err := h.recommend.GeneratePath(r.Context(), body.StartTrackID, body.EndTrackID, body.Length, body.Genres)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewsToJSON(tracks))
}

// queryInt parses an integer query parameter, falling back to def when
// absent or malformed.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

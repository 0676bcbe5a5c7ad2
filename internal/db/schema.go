package db

// schema is the crossfade database layout. Tracks and embeddings are written
// by the ingestion pipeline; setlists are owned by this application.
const schema = `
CREATE TABLE IF NOT EXISTS tracks (
	id                BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
	filepath          TEXT NOT NULL UNIQUE,
	title             TEXT NOT NULL,
	artist            TEXT NOT NULL,
	album             TEXT NOT NULL DEFAULT '',
	genre             TEXT NOT NULL DEFAULT '',
	subgenre          TEXT NOT NULL DEFAULT '',
	year              INT,
	bpm               DOUBLE PRECISION NOT NULL DEFAULT 0,
	key               TEXT NOT NULL DEFAULT '',
	scale             TEXT NOT NULL DEFAULT '',
	duration          DOUBLE PRECISION NOT NULL DEFAULT 0,
	energy            DOUBLE PRECISION NOT NULL DEFAULT 0,
	danceability      DOUBLE PRECISION NOT NULL DEFAULT 0,
	loudness          DOUBLE PRECISION NOT NULL DEFAULT -60,
	brightness        DOUBLE PRECISION NOT NULL DEFAULT 0,
	is_genre_verified BOOLEAN NOT NULL DEFAULT FALSE,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_tracks_genre ON tracks (genre);
CREATE INDEX IF NOT EXISTS idx_tracks_bpm ON tracks (bpm);

CREATE TABLE IF NOT EXISTS track_embeddings (
	track_id   BIGINT PRIMARY KEY REFERENCES tracks (id) ON DELETE CASCADE,
	model_name TEXT NOT NULL DEFAULT 'musicnn',
	embedding  FLOAT8[] NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS setlists (
	id         UUID PRIMARY KEY,
	name       TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS setlist_tracks (
	setlist_id UUID NOT NULL REFERENCES setlists (id) ON DELETE CASCADE,
	track_id   BIGINT NOT NULL REFERENCES tracks (id) ON DELETE CASCADE,
	position   INT NOT NULL,
	PRIMARY KEY (setlist_id, track_id)
);
`

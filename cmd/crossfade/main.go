// Command crossfade runs the crossfade DJ library API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"crossfade/internal/db"
	"crossfade/internal/enrich"
	"crossfade/internal/lyrics"
	"crossfade/internal/recommend"
	"crossfade/internal/web"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Validate environment variables
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("please set the DATABASE_URL environment variable")
	}

	addr := os.Getenv("CROSSFADE_ADDR")
	if addr == "" {
		addr = web.DefaultAddr
	}

	// Connect to the database and apply the schema
	database, err := db.New(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer database.Close()

	if err := database.Migrate(ctx); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	// Spotify metadata enrichment is optional
	var enrichClient *enrich.Client
	enrichCfg, err := enrich.LoadConfig()
	switch {
	case errors.Is(err, enrich.ErrMissingCredentials):
		log.Println("Spotify credentials not set; metadata enrichment disabled")
	case err != nil:
		return fmt.Errorf("loading Spotify config: %w", err)
	default:
		enrichClient, err = enrich.NewClient(ctx, enrichCfg)
		if err != nil {
			return fmt.Errorf("creating Spotify client: %w", err)
		}
	}

	recommendSvc := recommend.New(database, nil, nil)

	server := web.NewServer(web.ServerConfig{
		Addr:      addr,
		DB:        database,
		Recommend: recommendSvc,
		Lyrics:    lyrics.NewClient(),
		Enrich:    enrichClient,
	})

	return server.Run()
}

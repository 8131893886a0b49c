package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/dr-cinema/dr-cinema/internal/config"
	"github.com/dr-cinema/dr-cinema/internal/enrich"
	"github.com/dr-cinema/dr-cinema/internal/favourites"
	httpserver "github.com/dr-cinema/dr-cinema/internal/http"
	"github.com/dr-cinema/dr-cinema/internal/kvikmyndir"
	"github.com/dr-cinema/dr-cinema/internal/pipeline"
	"github.com/dr-cinema/dr-cinema/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := log.New(os.Stdout, "[dr-cinema] ", log.LstdFlags|log.Lshortfile)

	dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	st, err := store.New(dbCtx, cfg.DBURL, store.Options{
		MaxConns:        int32(cfg.DBMaxConns),
		MinConns:        int32(cfg.DBMinConns),
		MaxConnIdleTime: time.Duration(cfg.DBMaxIdleSecs) * time.Second,
		ConnTimeout:     time.Duration(cfg.DBConnTimeoutSecs) * time.Second,
		Logger:          logger,
	})
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer st.Close()

	listings, err := kvikmyndir.NewClient(
		cfg.KvikmyndirURL,
		kvikmyndir.Credentials{Username: cfg.KvikmyndirUsername, Password: cfg.KvikmyndirPassword},
		time.Duration(cfg.KvikmyndirTimeoutSecs)*time.Second,
		logger,
	)
	if err != nil {
		log.Fatalf("init listings client: %v", err)
	}

	enricher := buildEnricher(cfg, logger)
	catalog := pipeline.New(listings, enricher, logger)
	favs := favourites.New(st.Pool())
	server := httpserver.New(cfg, catalog, favs, st, logger)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			serverErrCh <- err
			return
		}
		serverErrCh <- nil
	}()

	select {
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, context.Canceled) {
			log.Printf("server error: %v", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("graceful shutdown error: %v", err)
	}
}

// buildEnricher wires the secondary providers that are configured. With no
// keys the pipeline serves primary data only.
func buildEnricher(cfg config.Config, logger *log.Logger) pipeline.Enricher {
	timeout := time.Duration(cfg.EnrichTimeoutSecs) * time.Second

	var tmdb enrich.TMDBClient
	if cfg.TMDBAPIKey != "" {
		client, err := enrich.NewTMDBClient(cfg.TMDBURL, cfg.TMDBAPIKey, timeout, logger)
		if err != nil {
			log.Fatalf("init tmdb client: %v", err)
		}
		tmdb = client
	}

	var omdb enrich.OMDBClient
	if cfg.OMDBAPIKey != "" {
		client, err := enrich.NewOMDBClient(cfg.OMDBURL, cfg.OMDBAPIKey, timeout, logger)
		if err != nil {
			log.Fatalf("init omdb client: %v", err)
		}
		omdb = client
	}

	if tmdb == nil && omdb == nil {
		logger.Println("no secondary provider keys configured, rating enrichment disabled")
		return nil
	}
	return enrich.NewEnricher(tmdb, omdb, cfg.EnrichConcurrency, logger)
}

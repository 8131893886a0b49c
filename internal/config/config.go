package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config captures all runtime configuration derived from environment variables.
type Config struct {
	Port      string
	AuthToken string
	DBURL     string

	KvikmyndirURL         string
	KvikmyndirUsername    string
	KvikmyndirPassword    string
	KvikmyndirTimeoutSecs int

	// TMDb and OMDb credentials are optional; without them the rating
	// enrichment chain is skipped.
	TMDBAPIKey        string
	TMDBURL           string
	OMDBAPIKey        string
	OMDBURL           string
	EnrichTimeoutSecs int
	EnrichConcurrency int

	ReadTimeoutSecs  int
	WriteTimeoutSecs int
	IdleTimeoutSecs  int

	DBMaxConns        int
	DBMinConns        int
	DBMaxIdleSecs     int
	DBConnTimeoutSecs int
}

// Load reads configuration from environment variables, applying defaults and validation.
func Load() (Config, error) {
	cfg := Config{
		Port:      getEnv("PORT", "8080"),
		AuthToken: os.Getenv("AUTH_TOKEN"),
		DBURL:     os.Getenv("DB_URL"),

		KvikmyndirURL:         os.Getenv("KVIKMYNDIR_URL"),
		KvikmyndirUsername:    os.Getenv("KVIKMYNDIR_USERNAME"),
		KvikmyndirPassword:    os.Getenv("KVIKMYNDIR_PASSWORD"),
		KvikmyndirTimeoutSecs: getEnvInt("KVIKMYNDIR_TIMEOUT_SECS", 5),

		TMDBAPIKey:        os.Getenv("TMDB_API_KEY"),
		TMDBURL:           os.Getenv("TMDB_URL"),
		OMDBAPIKey:        os.Getenv("OMDB_API_KEY"),
		OMDBURL:           os.Getenv("OMDB_URL"),
		EnrichTimeoutSecs: getEnvInt("ENRICH_TIMEOUT_SECS", 5),
		EnrichConcurrency: getEnvInt("ENRICH_CONCURRENCY", 8),

		ReadTimeoutSecs:  getEnvInt("SERVER_READ_TIMEOUT", 15),
		WriteTimeoutSecs: getEnvInt("SERVER_WRITE_TIMEOUT", 15),
		IdleTimeoutSecs:  getEnvInt("SERVER_IDLE_TIMEOUT", 60),

		DBMaxConns:        getEnvInt("DB_MAX_CONNS", 20),
		DBMinConns:        getEnvInt("DB_MIN_CONNS", 2),
		DBMaxIdleSecs:     getEnvInt("DB_MAX_CONN_IDLE_SECS", 300),
		DBConnTimeoutSecs: getEnvInt("DB_CONN_TIMEOUT_SECS", 10),
	}

	if cfg.AuthToken == "" {
		return Config{}, fmt.Errorf("AUTH_TOKEN is required")
	}
	if cfg.DBURL == "" {
		return Config{}, fmt.Errorf("DB_URL is required")
	}
	if cfg.KvikmyndirURL == "" {
		return Config{}, fmt.Errorf("KVIKMYNDIR_URL is required")
	}
	if cfg.KvikmyndirUsername == "" || cfg.KvikmyndirPassword == "" {
		return Config{}, fmt.Errorf("KVIKMYNDIR_USERNAME and KVIKMYNDIR_PASSWORD are required")
	}
	if cfg.KvikmyndirTimeoutSecs <= 0 {
		return Config{}, fmt.Errorf("KVIKMYNDIR_TIMEOUT_SECS must be positive")
	}
	if cfg.EnrichTimeoutSecs <= 0 {
		return Config{}, fmt.Errorf("ENRICH_TIMEOUT_SECS must be positive")
	}
	if cfg.EnrichConcurrency <= 0 {
		return Config{}, fmt.Errorf("ENRICH_CONCURRENCY must be positive")
	}
	if cfg.DBMaxConns <= 0 {
		return Config{}, fmt.Errorf("DB_MAX_CONNS must be positive")
	}
	if cfg.DBMinConns < 0 {
		return Config{}, fmt.Errorf("DB_MIN_CONNS must be non-negative")
	}
	if cfg.DBMinConns > cfg.DBMaxConns {
		return Config{}, fmt.Errorf("DB_MIN_CONNS cannot exceed DB_MAX_CONNS")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

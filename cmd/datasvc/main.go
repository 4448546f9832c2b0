package main

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"wedding-site/internal/config"
	"wedding-site/internal/datasvc"
)

// Local stand-in for the hosted data service: same query surface, SQLite
// underneath. Point SUPABASE_URL at it for offline development.
func main() {
	_ = godotenv.Load()
	cfg := config.LoadDataSvcConfig()
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		logger.Fatal().Err(err).Msg("creating data directory")
	}

	srv, err := datasvc.New(cfg.DBPath, cfg.JWTSecret, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("starting data service")
	}

	logger.Info().Str("addr", cfg.Addr).Str("db", cfg.DBPath).Msg("data service listening")
	if err := http.ListenAndServe(cfg.Addr, srv.Router()); err != nil {
		logger.Fatal().Err(err).Msg("data service stopped")
	}
}

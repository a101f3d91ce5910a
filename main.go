package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/lexhawkins/GameSoftware/assets"
	"github.com/lexhawkins/GameSoftware/internal/game"
	"github.com/lexhawkins/GameSoftware/internal/history"
	"github.com/lexhawkins/GameSoftware/internal/httpserver"
	"github.com/lexhawkins/GameSoftware/internal/seed"
	"github.com/lexhawkins/GameSoftware/internal/store"
)

// config is everything main reads from the environment.
type config struct {
	Port          string
	LogLevel      string
	DBPath        string
	SessionSecret string
	ClientOrigin  string
	SecureCookies bool
	Seed          string // empty: games draw from the clock
	AutoStart     bool
}

func loadConfig() config {
	return config{
		Port:          getEnv("PORT", "5175"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DBPath:        getEnv("DB_PATH", memoryDSN),
		SessionSecret: getEnv("SESSION_SECRET", "dev_secret_change_me"),
		ClientOrigin:  getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		SecureCookies: getEnv("NODE_ENV", "") == "production",
		Seed:          os.Getenv("BATTLESHIP_SEED"),
		AutoStart:     envBool("BATTLESHIP_AUTO_START", false),
	}
}

// gameFactory builds the constructor handed to the HTTP layer. With a seed
// configured, each session's game is reproducible from the seed and the
// session ID.
func gameFactory(cfg config) func(sessionID string) *game.Game {
	return func(sessionID string) *game.Game {
		opts := []game.Option{game.WithAutoStart(cfg.AutoStart)}
		if cfg.Seed != "" {
			opts = append(opts, game.WithRand(seed.NewRand(cfg.Seed, sessionID)))
		}
		return game.New(opts...)
	}
}

func main() {
	_ = godotenv.Load()
	cfg := loadConfig()
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.SessionSecret == "dev_secret_change_me" {
		log.Warn().Msg("SESSION_SECRET not set; using development secret")
	}

	db, err := openDB(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("dsn", cfg.DBPath).Msg("open database")
	}
	defer db.Close()
	if err := migrate(db, assets.Migrations()); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	srv := httpserver.New(store.NewMemoryStore(), history.NewStore(db), httpserver.Config{
		SessionSecret: cfg.SessionSecret,
		ClientOrigin:  cfg.ClientOrigin,
		SecureCookies: cfg.SecureCookies,
		NewGame:       gameFactory(cfg),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("shutdown")
		}
	}()

	log.Info().Str("port", cfg.Port).Bool("auto_start", cfg.AutoStart).Bool("seeded", cfg.Seed != "").Msg("starting battleship server")
	if err := srv.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// envBool parses k as a bool, falling back to def when unset or malformed.
func envBool(k string, def bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(k)); err == nil {
		return b
	}
	return def
}

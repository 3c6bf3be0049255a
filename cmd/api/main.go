package main

import (
	"net/http"

	"github.com/caarlos0/env/v11"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/gridspire/battlesim/internal/content"
	"github.com/gridspire/battlesim/internal/replay"
)

// Config is read from the environment.
type Config struct {
	Addr         string `env:"ADDR" envDefault:":8080"`
	ContentDir   string `env:"CONTENT_DIR" envDefault:"assets"`
	MaxTeamSize  int    `env:"MAX_TEAM_SIZE" envDefault:"8"`
	WatchFrameMS int    `env:"WATCH_FRAME_MS" envDefault:"100"`
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		logger.Fatal("parse config", zap.Error(err))
	}

	store, err := content.Load(cfg.ContentDir)
	if err != nil {
		logger.Fatal("load content tables", zap.String("dir", cfg.ContentDir), zap.Error(err))
	}
	logger.Info("content loaded",
		zap.String("dir", cfg.ContentDir),
		zap.Int("units", len(store.Units())),
		zap.Int("factions", len(store.Factions())),
	)

	srv := newServer(cfg, logger, store, replay.NewStore())

	r := mux.NewRouter()
	r.HandleFunc("/api/healthz", srv.handleHealthz).Methods(http.MethodGet)
	r.HandleFunc("/api/factions", srv.handleFactions).Methods(http.MethodGet)
	r.HandleFunc("/api/units", srv.handleUnits).Methods(http.MethodGet)
	r.HandleFunc("/api/units/{id}", srv.handleUnit).Methods(http.MethodGet)
	r.HandleFunc("/api/simulate", srv.handleSimulate).Methods(http.MethodPost)
	r.HandleFunc("/api/battles", srv.handleBattles).Methods(http.MethodGet)
	r.HandleFunc("/api/battles/{id}", srv.handleBattle).Methods(http.MethodGet)
	r.HandleFunc("/api/battles/{id}/watch", srv.handleWatch).Methods(http.MethodGet)
	r.HandleFunc("/api/stats", srv.handleStats).Methods(http.MethodGet)

	logger.Info("listening", zap.String("addr", cfg.Addr))
	if err := http.ListenAndServe(cfg.Addr, withCORS(r)); err != nil {
		logger.Fatal("serve", zap.Error(err))
	}
}

// simple CORS for GET/POST/OPTIONS
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/gridspire/battlesim/internal/battle"
	"github.com/gridspire/battlesim/internal/content"
	"github.com/gridspire/battlesim/internal/replay"
)

type server struct {
	cfg     Config
	log     *zap.Logger
	content *content.Store
	battles *replay.Store
	rules   battle.Config
}

func newServer(cfg Config, log *zap.Logger, store *content.Store, battles *replay.Store) *server {
	return &server{
		cfg:     cfg,
		log:     log,
		content: store,
		battles: battles,
		rules:   battle.DefaultConfig(),
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error":   http.StatusText(code),
		"message": msg,
		"status":  code,
	})
}

func (s *server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func (s *server) handleFactions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"factions": s.content.Factions()})
}

func (s *server) handleUnits(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"units": s.content.Units()})
}

func (s *server) handleUnit(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	u, ok := s.content.Unit(id)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown unit id "+id)
		return
	}
	writeJSON(w, u)
}

// SimulateRequest is the POST /api/simulate body.
type SimulateRequest struct {
	Player battle.TeamSetup `json:"player"`
	Enemy  battle.TeamSetup `json:"enemy"`
	Seed   int64            `json:"seed"`
}

// SimulateResponse wraps a battle result with its stored id.
type SimulateResponse struct {
	BattleID string `json:"battleId"`
	Seed     int64  `json:"seed"`
	battle.BattleResult
}

func (s *server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validateSetup(req.Player, battle.TeamPlayer); err != nil {
		writeError(w, http.StatusBadRequest, "player team: "+err.Error())
		return
	}
	if err := s.validateSetup(req.Enemy, battle.TeamEnemy); err != nil {
		writeError(w, http.StatusBadRequest, "enemy team: "+err.Error())
		return
	}

	battleID := uuid.NewString()
	result, err := battle.SimulateBattle(battleID, req.Player, req.Enemy, req.Seed, s.content, s.rules)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.battles.Save(replay.Battle{
		ID:        battleID,
		CreatedAt: time.Now().UTC(),
		Seed:      req.Seed,
		Player:    req.Player,
		Enemy:     req.Enemy,
		Result:    result,
	})
	s.log.Info("battle simulated",
		zap.String("battle_id", battleID),
		zap.Int64("seed", req.Seed),
		zap.String("result", string(result.Result)),
		zap.Int("rounds", result.Rounds),
		zap.Int("events", len(result.Events)),
	)
	writeJSON(w, SimulateResponse{BattleID: battleID, Seed: req.Seed, BattleResult: result})
}

// validateSetup enforces the input contract the engine assumes: non-empty
// teams within the size cap, units and positions paired 1:1, known template
// ids, and distinct positions inside the team's deployment rows.
func (s *server) validateSetup(setup battle.TeamSetup, team battle.Team) error {
	if len(setup.Units) == 0 {
		return fmt.Errorf("no units")
	}
	if len(setup.Units) > s.cfg.MaxTeamSize {
		return fmt.Errorf("team size %d exceeds max %d", len(setup.Units), s.cfg.MaxTeamSize)
	}
	if len(setup.Units) != len(setup.Positions) {
		return fmt.Errorf("%d units but %d positions", len(setup.Units), len(setup.Positions))
	}
	grid := battle.NewGrid(s.rules)
	seen := map[string]bool{}
	for i, m := range setup.Units {
		if _, ok := s.content.Unit(m.UnitID); !ok {
			return fmt.Errorf("slot %d: unknown unit id %q", i, m.UnitID)
		}
		if m.Tier < 1 || m.Tier > 5 {
			return fmt.Errorf("slot %d: tier %d outside [1,5]", i, m.Tier)
		}
		p := setup.Positions[i]
		if !grid.InDeploymentZone(p, team) {
			return fmt.Errorf("slot %d: position %d,%d outside deployment zone", i, p.X, p.Y)
		}
		if seen[p.Key()] {
			return fmt.Errorf("slot %d: duplicate position %d,%d", i, p.X, p.Y)
		}
		seen[p.Key()] = true
	}
	return nil
}

func (s *server) handleBattles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"battles": s.battles.List()})
}

func (s *server) handleBattle(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	b, ok := s.battles.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown battle id "+id)
		return
	}
	writeJSON(w, b)
}

func (s *server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.battles.Stats())
}

package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gridspire/battlesim/internal/battle"
	"github.com/gridspire/battlesim/internal/content"
	"github.com/gridspire/battlesim/internal/replay"
)

func testServer(t *testing.T) *server {
	t.Helper()
	store, err := content.New(
		[]content.UnitSpec{
			{
				ID: "knight", Name: "Knight", Faction: "human", Role: "tank",
				HP: 120, Atk: 15, AtkCount: 1, Armor: 8, Speed: 3,
				Initiative: 4, Dodge: 5, Range: 1, DamageType: "physical",
			},
			{
				ID: "skeleton", Name: "Skeleton", Faction: "undead", Role: "melee_dps",
				HP: 40, Atk: 8, AtkCount: 1, Speed: 3,
				Initiative: 4, Range: 1, DamageType: "physical",
			},
		},
		[]content.FactionSpec{{ID: "human", Name: "Humans"}, {ID: "undead", Name: "Undead"}},
	)
	require.NoError(t, err)
	cfg := Config{Addr: ":0", MaxTeamSize: 4, WatchFrameMS: 1}
	return newServer(cfg, zap.NewNop(), store, replay.NewStore())
}

func simulateBody(t *testing.T, req SimulateRequest) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(req))
	return &buf
}

func validSimulateRequest() SimulateRequest {
	return SimulateRequest{
		Player: battle.TeamSetup{
			Units:     []battle.TeamMember{{UnitID: "knight", Tier: 1}},
			Positions: []battle.Position{{X: 3, Y: 1}},
		},
		Enemy: battle.TeamSetup{
			Units:     []battle.TeamMember{{UnitID: "skeleton", Tier: 1}},
			Positions: []battle.Position{{X: 3, Y: 8}},
		},
		Seed: 7,
	}
}

func TestHandleSimulate(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/simulate", simulateBody(t, validSimulateRequest()))
	rec := httptest.NewRecorder()
	srv.handleSimulate(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	// Event metadata only marshals; read back the fields the client keys on.
	var resp struct {
		BattleID string            `json:"battleId"`
		Result   battle.Outcome    `json:"result"`
		Rounds   int               `json:"rounds"`
		Events   []json.RawMessage `json:"events"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.BattleID)
	assert.Equal(t, battle.OutcomeWin, resp.Result)
	assert.NotZero(t, resp.Rounds)
	assert.NotEmpty(t, resp.Events)

	// The battle is archived and retrievable.
	stored, ok := srv.battles.Get(resp.BattleID)
	require.True(t, ok)
	assert.Equal(t, int64(7), stored.Seed)
}

func TestHandleSimulateValidation(t *testing.T) {
	srv := testServer(t)

	cases := []struct {
		name string
		mut  func(*SimulateRequest)
	}{
		{"empty team", func(r *SimulateRequest) { r.Player.Units = nil; r.Player.Positions = nil }},
		{"oversized team", func(r *SimulateRequest) {
			for i := 0; i < 5; i++ {
				r.Player.Units = append(r.Player.Units, battle.TeamMember{UnitID: "knight", Tier: 1})
				r.Player.Positions = append(r.Player.Positions, battle.Position{X: i, Y: 0})
			}
		}},
		{"units positions mismatch", func(r *SimulateRequest) {
			r.Player.Positions = append(r.Player.Positions, battle.Position{X: 0, Y: 0})
		}},
		{"unknown unit", func(r *SimulateRequest) { r.Player.Units[0].UnitID = "dragon" }},
		{"tier out of range", func(r *SimulateRequest) { r.Player.Units[0].Tier = 9 }},
		{"outside deployment zone", func(r *SimulateRequest) { r.Player.Positions[0] = battle.Position{X: 3, Y: 5} }},
		{"enemy in player zone", func(r *SimulateRequest) { r.Enemy.Positions[0] = battle.Position{X: 3, Y: 1} }},
		{"duplicate position", func(r *SimulateRequest) {
			r.Player.Units = append(r.Player.Units, battle.TeamMember{UnitID: "knight", Tier: 1})
			r.Player.Positions = append(r.Player.Positions, r.Player.Positions[0])
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := validSimulateRequest()
			tc.mut(&body)
			req := httptest.NewRequest(http.MethodPost, "/api/simulate", simulateBody(t, body))
			rec := httptest.NewRecorder()
			srv.handleSimulate(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandleSimulateBadBody(t *testing.T) {
	srv := testServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/simulate", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	srv.handleSimulate(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleUnits(t *testing.T) {
	srv := testServer(t)

	rec := httptest.NewRecorder()
	srv.handleUnits(rec, httptest.NewRequest(http.MethodGet, "/api/units", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Units []content.UnitSpec `json:"units"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Units, 2)
	assert.Equal(t, "knight", resp.Units[0].ID) // sorted by id
}

func TestHandleUnitByID(t *testing.T) {
	srv := testServer(t)

	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/api/units/knight", nil),
		map[string]string{"id": "knight"})
	rec := httptest.NewRecorder()
	srv.handleUnit(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/api/units/dragon", nil),
		map[string]string{"id": "dragon"})
	rec = httptest.NewRecorder()
	srv.handleUnit(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleBattlesAndStats(t *testing.T) {
	srv := testServer(t)

	// Simulate once so the archive has content.
	req := httptest.NewRequest(http.MethodPost, "/api/simulate", simulateBody(t, validSimulateRequest()))
	rec := httptest.NewRecorder()
	srv.handleSimulate(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	srv.handleBattles(rec, httptest.NewRequest(http.MethodGet, "/api/battles", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var battles struct {
		Battles []replay.Summary `json:"battles"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &battles))
	assert.Len(t, battles.Battles, 1)

	rec = httptest.NewRecorder()
	srv.handleStats(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var stats replay.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.Battles)
	assert.Equal(t, 1, stats.Wins)
}

func TestHandleBattleNotFound(t *testing.T) {
	srv := testServer(t)
	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/api/battles/nope", nil),
		map[string]string{"id": "nope"})
	rec := httptest.NewRecorder()
	srv.handleBattle(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

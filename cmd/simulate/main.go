// Command simulate runs battles from a scenario file without the HTTP
// service: one run dumps the full event log, many runs aggregate outcomes
// across consecutive seeds.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/gridspire/battlesim/internal/battle"
	"github.com/gridspire/battlesim/internal/content"
)

type scenarioSide struct {
	Units []struct {
		UnitID string `yaml:"unit_id"`
		Tier   int    `yaml:"tier"`
	} `yaml:"units"`
	Positions []struct {
		X int `yaml:"x"`
		Y int `yaml:"y"`
	} `yaml:"positions"`
}

type scenario struct {
	Player scenarioSide `yaml:"player"`
	Enemy  scenarioSide `yaml:"enemy"`
}

func (s scenarioSide) setup() battle.TeamSetup {
	out := battle.TeamSetup{}
	for _, u := range s.Units {
		tier := u.Tier
		if tier == 0 {
			tier = 1
		}
		out.Units = append(out.Units, battle.TeamMember{UnitID: u.UnitID, Tier: tier})
	}
	for _, p := range s.Positions {
		out.Positions = append(out.Positions, battle.Position{X: p.X, Y: p.Y})
	}
	return out
}

// batchSummary aggregates outcomes over a seed range.
type batchSummary struct {
	Runs          int            `json:"runs"`
	FirstSeed     int64          `json:"firstSeed"`
	Wins          int            `json:"wins"`
	Losses        int            `json:"losses"`
	Draws         int            `json:"draws"`
	WinRate       float64        `json:"winRate"`
	AverageRounds float64        `json:"averageRounds"`
	MinRounds     int            `json:"minRounds"`
	MaxRounds     int            `json:"maxRounds"`
	DamageByUnit  map[string]int `json:"damageByUnit"`
}

// damageByUnit sums damage dealt per unit instance across one battle's log.
func damageByUnit(events []battle.Event) map[string]int {
	out := map[string]int{}
	for _, ev := range events {
		switch meta := ev.Meta.(type) {
		case battle.AttackMeta:
			out[ev.ActorID] += meta.Damage
		case battle.OverwatchMeta:
			out[ev.ActorID] += meta.Damage
		case battle.InterceptMeta:
			out[ev.ActorID] += meta.Damage
		}
	}
	return out
}

func main() {
	var (
		contentDir = flag.String("content", "assets", "directory with units.yaml and factions.yaml")
		scenarioP  = flag.String("scenario", "assets/scenario.yaml", "scenario file")
		seed       = flag.Int64("seed", 1, "simulation seed (first seed when -n > 1)")
		runs       = flag.Int("n", 1, "number of battles to run on consecutive seeds")
		out        = flag.String("out", "", "write JSON output to file instead of stdout")
		workers    = flag.Int("workers", 4, "parallel simulations when -n > 1")
		logMode    = flag.String("log", "dev", "logger mode: dev or prod")
	)
	flag.Parse()

	var logger *zap.Logger
	var err error
	if *logMode == "prod" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	store, err := content.Load(*contentDir)
	if err != nil {
		logger.Fatal("load content tables", zap.String("dir", *contentDir), zap.Error(err))
	}

	raw, err := os.ReadFile(*scenarioP)
	if err != nil {
		logger.Fatal("read scenario", zap.Error(err))
	}
	var sc scenario
	if err := yaml.Unmarshal(raw, &sc); err != nil {
		logger.Fatal("parse scenario", zap.Error(err))
	}
	player, enemy := sc.Player.setup(), sc.Enemy.setup()
	cfg := battle.DefaultConfig()

	var payload any
	if *runs <= 1 {
		result, err := battle.SimulateBattle("cli", player, enemy, *seed, store, cfg)
		if err != nil {
			logger.Fatal("simulate", zap.Error(err))
		}
		logger.Info("battle finished",
			zap.Int64("seed", *seed),
			zap.String("result", string(result.Result)),
			zap.Int("rounds", result.Rounds),
			zap.Int("events", len(result.Events)),
		)
		payload = result
	} else {
		payload = runBatch(logger, store, cfg, player, enemy, *seed, *runs, *workers)
	}

	if err := writeOutput(*out, payload); err != nil {
		logger.Fatal("write output", zap.Error(err))
	}
}

// runBatch simulates n battles on seeds seed..seed+n-1 across a small worker
// pool and folds the outcomes into a summary. Per-battle determinism makes
// the aggregate independent of scheduling.
func runBatch(logger *zap.Logger, store *content.Store, cfg battle.Config, player, enemy battle.TeamSetup, seed int64, n, workers int) batchSummary {
	if workers < 1 {
		workers = 1
	}
	type outcome struct {
		result battle.Outcome
		rounds int
		damage map[string]int
	}
	seeds := make(chan int64)
	results := make(chan outcome, n)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for s := range seeds {
				r, err := battle.SimulateBattle(fmt.Sprintf("batch-%d", s), player, enemy, s, store, cfg)
				if err != nil {
					logger.Error("simulate", zap.Int64("seed", s), zap.Error(err))
					continue
				}
				results <- outcome{result: r.Result, rounds: r.Rounds, damage: damageByUnit(r.Events)}
			}
		}()
	}
	for i := 0; i < n; i++ {
		seeds <- seed + int64(i)
	}
	close(seeds)
	wg.Wait()
	close(results)

	sum := batchSummary{FirstSeed: seed, MinRounds: -1, DamageByUnit: map[string]int{}}
	totalRounds := 0
	for o := range results {
		sum.Runs++
		totalRounds += o.rounds
		for id, dmg := range o.damage {
			sum.DamageByUnit[id] += dmg
		}
		switch o.result {
		case battle.OutcomeWin:
			sum.Wins++
		case battle.OutcomeLoss:
			sum.Losses++
		default:
			sum.Draws++
		}
		if sum.MinRounds < 0 || o.rounds < sum.MinRounds {
			sum.MinRounds = o.rounds
		}
		if o.rounds > sum.MaxRounds {
			sum.MaxRounds = o.rounds
		}
	}
	if sum.Runs > 0 {
		sum.WinRate = float64(sum.Wins) / float64(sum.Runs)
		sum.AverageRounds = float64(totalRounds) / float64(sum.Runs)
	}
	logger.Info("batch finished",
		zap.Int("runs", sum.Runs),
		zap.Float64("win_rate", sum.WinRate),
		zap.Float64("avg_rounds", sum.AverageRounds),
	)
	return sum
}

func writeOutput(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

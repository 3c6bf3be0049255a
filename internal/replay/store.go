// Package replay keeps finished battles in memory so they can be fetched or
// streamed again, plus running aggregates over their outcomes. Nothing here
// is durable; the store exists for the lifetime of the process.
package replay

import (
	"sort"
	"sync"
	"time"

	"github.com/gridspire/battlesim/internal/battle"
)

// Battle is one stored simulation with its inputs.
type Battle struct {
	ID        string              `json:"id"`
	CreatedAt time.Time           `json:"createdAt"`
	Seed      int64               `json:"seed"`
	Player    battle.TeamSetup    `json:"player"`
	Enemy     battle.TeamSetup    `json:"enemy"`
	Result    battle.BattleResult `json:"result"`
}

// Summary is the list-view projection of a stored battle.
type Summary struct {
	ID        string         `json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	Seed      int64          `json:"seed"`
	Result    battle.Outcome `json:"result"`
	Rounds    int            `json:"rounds"`
	Events    int            `json:"events"`
}

// TopHit is the single hardest hit seen across all stored battles.
type TopHit struct {
	BattleID string `json:"battleId"`
	ActorID  string `json:"actorId"`
	TargetID string `json:"targetId"`
	Damage   int    `json:"damage"`
}

// Stats aggregates outcomes across the store's lifetime.
type Stats struct {
	Battles       int     `json:"battles"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	Draws         int     `json:"draws"`
	AverageRounds float64 `json:"averageRounds"`
	LongestBattle int     `json:"longestBattle"`
	TopHit        *TopHit `json:"topHit,omitempty"`
}

// Store is a mutex-guarded in-memory battle archive.
type Store struct {
	mu          sync.Mutex
	battles     map[string]Battle
	order       []string
	totalRounds int
	stats       Stats
}

// NewStore returns an empty archive.
func NewStore() *Store {
	return &Store{battles: map[string]Battle{}}
}

// Save archives a battle and folds it into the aggregates.
func (s *Store) Save(b Battle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.battles[b.ID]; !exists {
		s.order = append(s.order, b.ID)
	}
	s.battles[b.ID] = b

	s.stats.Battles++
	switch b.Result.Result {
	case battle.OutcomeWin:
		s.stats.Wins++
	case battle.OutcomeLoss:
		s.stats.Losses++
	default:
		s.stats.Draws++
	}
	s.totalRounds += b.Result.Rounds
	s.stats.AverageRounds = float64(s.totalRounds) / float64(s.stats.Battles)
	if b.Result.Rounds > s.stats.LongestBattle {
		s.stats.LongestBattle = b.Result.Rounds
	}
	if hit, ok := hardestHit(&b); ok {
		if s.stats.TopHit == nil || hit.Damage > s.stats.TopHit.Damage {
			s.stats.TopHit = &hit
		}
	}
}

// Get returns a stored battle by id.
func (s *Store) Get(id string) (Battle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.battles[id]
	return b, ok
}

// List returns summaries, newest first.
func (s *Store) List() []Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Summary, 0, len(s.order))
	for _, id := range s.order {
		b := s.battles[id]
		out = append(out, Summary{
			ID:        b.ID,
			CreatedAt: b.CreatedAt,
			Seed:      b.Seed,
			Result:    b.Result.Result,
			Rounds:    b.Result.Rounds,
			Events:    len(b.Result.Events),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// Stats returns a copy of the aggregates.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.stats
	if st.TopHit != nil {
		hit := *st.TopHit
		st.TopHit = &hit
	}
	return st
}

// hardestHit scans a battle's log for its biggest single damage event.
func hardestHit(b *Battle) (TopHit, bool) {
	best := TopHit{BattleID: b.ID, Damage: -1}
	for _, ev := range b.Result.Events {
		var dmg int
		switch meta := ev.Meta.(type) {
		case battle.AttackMeta:
			dmg = meta.Damage + meta.Overkill
		case battle.OverwatchMeta:
			dmg = meta.Damage
		default:
			continue
		}
		if dmg > best.Damage {
			best = TopHit{BattleID: b.ID, ActorID: ev.ActorID, TargetID: ev.TargetID, Damage: dmg}
		}
	}
	return best, best.Damage >= 0
}

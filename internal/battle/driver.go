package battle

// SimulateBattle runs one battle to a terminal state and returns the outcome
// with the full event log. Identical inputs produce byte-identical event
// sequences and final state: the only random source is the seeded stream,
// every tie-break is ordered, and event sequence numbers stand in for wall
// time. Input validation is the caller's job.
func SimulateBattle(battleID string, player, enemy TeamSetup, seed int64, lookup TemplateLookup, cfg Config) (BattleResult, error) {
	s, err := newBattleState(battleID, player, enemy, seed, lookup, cfg)
	if err != nil {
		return BattleResult{}, err
	}
	s.Emit(EvBattleStarted, "", "", nil)
	s.initPhalanx()

	result := OutcomeDraw
	rounds := 0
	for round := 1; round <= cfg.MaxRounds; round++ {
		s.Round = round
		rounds = round
		s.Phase = PhaseTurnStart
		s.Emit(EvRoundStarted, "", "", RoundMeta{Round: round})

		s.resetOverwatch()
		s.processRoutingUnits()

		s.TurnQueue = BuildTurnQueue(s.Units)
		s.TurnIndex = 0

		for s.TurnIndex < len(s.TurnQueue) {
			id := s.TurnQueue[s.TurnIndex]
			if u, ok := s.Unit(id); ok && CanUnitAct(&u) {
				s.RunTurn(id)
			}
			if outcome, over := s.terminalOutcome(); over {
				result = outcome
				s.finish(result, rounds)
				return s.result(result, rounds), nil
			}
			s.TurnIndex++
		}
	}

	s.finish(result, rounds)
	return s.result(result, rounds), nil
}

// processRoutingUnits runs at round start, before the queue is built: routed
// units recover some resolve, rally if they can, and otherwise flee toward
// their own edge. Rallied units rejoin the queue for this round.
func (s *BattleState) processRoutingUnits() {
	for i := range s.Units {
		u := s.Units[i]
		if !u.Alive || !u.Routing {
			continue
		}
		s.ChangeResolve(u.ID, s.Config.ResolveRegen, "regeneration")
		s.tryRally(u.ID)

		cur, ok := s.Unit(u.ID)
		if !ok || !cur.Alive || !cur.Routing {
			continue
		}
		action := s.decideRetreat(&cur)
		if action.Dest == nil {
			continue
		}
		s.Phase = PhaseMovement
		s.phaseMovement(cur.ID, action)
	}
}

// terminalOutcome checks the battle-over conditions between turns.
func (s *BattleState) terminalOutcome() (Outcome, bool) {
	playerAlive := len(s.LivingUnits(TeamPlayer)) > 0
	enemyAlive := len(s.LivingUnits(TeamEnemy)) > 0
	switch {
	case playerAlive && enemyAlive:
		return OutcomeDraw, false
	case playerAlive:
		return OutcomeWin, true
	case enemyAlive:
		return OutcomeLoss, true
	default:
		// Mutual annihilation, e.g. a riposte felling the last attacker.
		return OutcomeDraw, true
	}
}

func (s *BattleState) finish(result Outcome, rounds int) {
	s.Emit(EvBattleEnded, "", "", BattleEndMeta{Result: result, Rounds: rounds})
}

func (s *BattleState) result(result Outcome, rounds int) BattleResult {
	return BattleResult{
		Result:     result,
		Rounds:     rounds,
		Events:     s.Events,
		FinalState: s.FinalState(),
	}
}

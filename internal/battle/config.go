package battle

// Config carries every tunable the engine reads. Defaults match the balance
// the content tables were authored against; tests override single knobs.
type Config struct {
	GridWidth  int
	GridHeight int
	// Deployment rows counted from each team's board edge.
	DeploymentRows int

	MaxRounds         int
	MaxPathIterations int

	MinDamage int

	// Resolve / morale.
	MaxResolve           int
	ResolveRegen         int
	PhalanxResolveBonus  int
	RallyThreshold       int
	AllyDeathResolveNear int // distance 1
	AllyDeathResolveFar  int // distance 2-3
	FlankResolveLoss     int
	RearResolveLoss      int
	SurroundResolveLoss  int // >=3 adjacent enemies at turn start
	AuraRadius           int
	AuraResolveBonus     int

	// Flanking damage modifiers.
	FlankModifier float64
	RearModifier  float64

	// Riposte / intercept.
	RiposteCharges       int
	InterceptRange       int
	InterceptDamageRatio float64

	// Charge momentum.
	ChargeMinCells    int
	ChargePerCell     float64
	ChargeMaxMomentum float64

	// Phalanx.
	PhalanxArmorBonus int
	PhalanxMinAllies  int

	// Overwatch.
	OverwatchShots           int
	OverwatchAccuracyPenalty float64
	OverwatchDamageModifier  float64
	OverwatchWatchSlack      int // extra cells beyond range the AI considers worth waiting for

	// Armor shred.
	ShredDecay int

	// Contagion.
	ContagionChance float64
	ContagionDamage int

	// AI.
	ExecuteThreshold float64
}

// DefaultConfig returns the standard ruleset.
func DefaultConfig() Config {
	return Config{
		GridWidth:      8,
		GridHeight:     10,
		DeploymentRows: 2,

		MaxRounds:         50,
		MaxPathIterations: 1000,

		MinDamage: 1,

		MaxResolve:           100,
		ResolveRegen:         5,
		PhalanxResolveBonus:  3,
		RallyThreshold:       25,
		AllyDeathResolveNear: 15,
		AllyDeathResolveFar:  8,
		FlankResolveLoss:     5,
		RearResolveLoss:      10,
		SurroundResolveLoss:  5,
		AuraRadius:           2,
		AuraResolveBonus:     2,

		FlankModifier: 1.25,
		RearModifier:  1.5,

		RiposteCharges:       1,
		InterceptRange:       2,
		InterceptDamageRatio: 0.5,

		ChargeMinCells:    3,
		ChargePerCell:     0.2,
		ChargeMaxMomentum: 1.0,

		PhalanxArmorBonus: 2,
		PhalanxMinAllies:  2,

		OverwatchShots:           2,
		OverwatchAccuracyPenalty: 0.2,
		OverwatchDamageModifier:  0.75,
		OverwatchWatchSlack:      3,

		ShredDecay: 2,

		ContagionChance: 0.25,
		ContagionDamage: 2,

		ExecuteThreshold: 0.30,
	}
}

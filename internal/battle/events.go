package battle

// EventKind tags each entry in the battle log.
type EventKind string

const (
	EvBattleStarted    EventKind = "battle_started"
	EvRoundStarted     EventKind = "round_started"
	EvTurnStarted      EventKind = "turn_started"
	EvUnitMoved        EventKind = "unit_moved"
	EvFacingRotated    EventKind = "facing_rotated"
	EvAttack           EventKind = "attack"
	EvAttackDodged     EventKind = "attack_dodged"
	EvUnitHealed       EventKind = "unit_healed"
	EvRiposte          EventKind = "riposte"
	EvVigilanceEntered EventKind = "vigilance_entered"
	EvOverwatchShot    EventKind = "overwatch_shot"
	EvHardIntercept    EventKind = "hard_intercept"
	EvEngaged          EventKind = "engaged"
	EvDisengaged       EventKind = "disengaged"
	EvResolveChanged   EventKind = "resolve_changed"
	EvUnitRouted       EventKind = "unit_routed"
	EvUnitRallied      EventKind = "unit_rallied"
	EvUnitCrumbled     EventKind = "unit_crumbled"
	EvUnitDied         EventKind = "unit_died"
	EvPhalanxFormed    EventKind = "phalanx_formed"
	EvPhalanxBroken    EventKind = "phalanx_broken"
	EvChargeMomentum   EventKind = "charge_momentum"
	EvAmmoConsumed     EventKind = "ammo_consumed"
	EvArmorShredded    EventKind = "armor_shredded"
	EvContagionSpread  EventKind = "contagion_spread"
	EvStatusTick       EventKind = "status_tick"
	EvActionSkipped    EventKind = "action_skipped"
	EvTurnEnded        EventKind = "turn_ended"
	EvBattleEnded      EventKind = "battle_ended"
)

// Metadata is the closed set of per-kind payloads. A type switch over the
// concrete types is exhaustive for replay consumers.
type Metadata interface{ isMetadata() }

// MoveMeta accompanies unit_moved.
type MoveMeta struct {
	From  Position `json:"from"`
	To    Position `json:"to"`
	Cells int      `json:"cells"`
}

// FacingMeta accompanies facing_rotated.
type FacingMeta struct {
	From Facing `json:"from"`
	To   Facing `json:"to"`
}

// AttackMeta accompanies attack and riposte.
type AttackMeta struct {
	Damage        int        `json:"damage"`
	DamageType    DamageType `json:"damageType"`
	Arc           Arc        `json:"arc,omitempty"`
	Momentum      float64    `json:"momentum,omitempty"`
	Overkill      int        `json:"overkill,omitempty"`
	MeleeFallback bool       `json:"meleeFallback,omitempty"`
}

// DodgeMeta accompanies attack_dodged.
type DodgeMeta struct {
	Chance int `json:"chance"`
}

// HealMeta accompanies unit_healed.
type HealMeta struct {
	Amount   int `json:"amount"`
	Overheal int `json:"overheal,omitempty"`
}

// OverwatchMeta accompanies overwatch_shot.
type OverwatchMeta struct {
	Hit    bool `json:"hit"`
	Damage int  `json:"damage"`
}

// InterceptMeta accompanies hard_intercept.
type InterceptMeta struct {
	Damage int      `json:"damage"`
	At     Position `json:"at"`
}

// EngageMeta accompanies engaged / disengaged.
type EngageMeta struct {
	With []string `json:"with,omitempty"`
}

// ResolveMeta accompanies resolve_changed.
type ResolveMeta struct {
	Delta   int    `json:"delta"`
	Resolve int    `json:"resolve"`
	Reason  string `json:"reason"`
}

// DeathMeta accompanies unit_died and unit_crumbled.
type DeathMeta struct {
	At Position `json:"at"`
}

// PhalanxMeta accompanies phalanx_formed / phalanx_broken.
type PhalanxMeta struct {
	Units []string `json:"units"`
}

// ChargeMeta accompanies charge_momentum.
type ChargeMeta struct {
	Cells    int     `json:"cells"`
	Momentum float64 `json:"momentum"`
}

// AmmoMeta accompanies ammo_consumed.
type AmmoMeta struct {
	Remaining int `json:"remaining"`
}

// ShredMeta accompanies armor_shredded.
type ShredMeta struct {
	Amount int `json:"amount"`
	Total  int `json:"total"`
}

// ContagionMeta accompanies contagion_spread and status_tick.
type ContagionMeta struct {
	Status string `json:"status"`
	Damage int    `json:"damage,omitempty"`
}

// SkipMeta accompanies action_skipped. Reason is for humans, not control flow.
type SkipMeta struct {
	Reason string `json:"reason"`
}

// RoundMeta accompanies round_started.
type RoundMeta struct {
	Round int `json:"round"`
}

// BattleEndMeta accompanies battle_ended.
type BattleEndMeta struct {
	Result Outcome `json:"result"`
	Rounds int     `json:"rounds"`
}

func (MoveMeta) isMetadata()      {}
func (FacingMeta) isMetadata()    {}
func (AttackMeta) isMetadata()    {}
func (DodgeMeta) isMetadata()     {}
func (HealMeta) isMetadata()      {}
func (OverwatchMeta) isMetadata() {}
func (InterceptMeta) isMetadata() {}
func (EngageMeta) isMetadata()    {}
func (ResolveMeta) isMetadata()   {}
func (DeathMeta) isMetadata()     {}
func (PhalanxMeta) isMetadata()   {}
func (ChargeMeta) isMetadata()    {}
func (AmmoMeta) isMetadata()      {}
func (ShredMeta) isMetadata()     {}
func (ContagionMeta) isMetadata() {}
func (SkipMeta) isMetadata()      {}
func (RoundMeta) isMetadata()     {}
func (BattleEndMeta) isMetadata() {}

// Event is one append-only entry in the battle log. Seq is assigned from the
// simulation's own counter and doubles as the timestamp, so two runs with the
// same inputs serialize byte-identically.
type Event struct {
	Kind     EventKind `json:"type"`
	Round    int       `json:"round"`
	Turn     int       `json:"turn"`
	Phase    Phase     `json:"phase"`
	Seq      uint64    `json:"timestamp"`
	ActorID  string    `json:"actorId,omitempty"`
	TargetID string    `json:"targetId,omitempty"`
	Meta     Metadata  `json:"metadata,omitempty"`
}

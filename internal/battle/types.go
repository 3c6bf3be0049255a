package battle

import "fmt"

// Team identifies which side a unit fights for.
type Team string

const (
	TeamPlayer Team = "player"
	TeamEnemy  Team = "enemy"
)

// Opponent returns the other side.
func (t Team) Opponent() Team {
	if t == TeamPlayer {
		return TeamEnemy
	}
	return TeamPlayer
}

// Faction drives morale behavior: humans route and rally, undead crumble.
type Faction string

const (
	FactionHuman  Faction = "human"
	FactionUndead Faction = "undead"
)

// Role keys the AI policy table.
type Role string

const (
	RoleTank      Role = "tank"
	RoleMeleeDPS  Role = "melee_dps"
	RoleRangedDPS Role = "ranged_dps"
	RoleSupport   Role = "support"
	RoleMage      Role = "mage"
	RoleControl   Role = "control"
	RoleDefault   Role = "default"
)

// DamageType selects the damage formula. Magic ignores armor entirely.
type DamageType string

const (
	DamagePhysical DamageType = "physical"
	DamageMagic    DamageType = "magic"
)

// Facing is one of the four cardinal directions a unit looks toward.
type Facing uint8

const (
	FacingNorth Facing = iota // toward y=0
	FacingEast                // toward x=width-1
	FacingSouth               // toward y=height-1
	FacingWest                // toward x=0
)

func (f Facing) String() string {
	switch f {
	case FacingNorth:
		return "north"
	case FacingEast:
		return "east"
	case FacingSouth:
		return "south"
	default:
		return "west"
	}
}

// MarshalJSON keeps facings readable on the wire.
func (f Facing) MarshalJSON() ([]byte, error) {
	return []byte(`"` + f.String() + `"`), nil
}

// Delta returns the unit step for a facing.
func (f Facing) Delta() (dx, dy int) {
	switch f {
	case FacingNorth:
		return 0, -1
	case FacingEast:
		return 1, 0
	case FacingSouth:
		return 0, 1
	default:
		return -1, 0
	}
}

// Opposite returns the reverse facing.
func (f Facing) Opposite() Facing {
	return Facing((f + 2) % 4)
}

// Arc classifies where an attack lands relative to the target's facing.
type Arc string

const (
	ArcFront Arc = "front"
	ArcFlank Arc = "flank"
	ArcRear  Arc = "rear"
)

// Phase is one step of the per-unit turn state machine, in fixed order.
type Phase string

const (
	PhaseTurnStart  Phase = "turn_start"
	PhaseAIDecision Phase = "ai_decision"
	PhaseMovement   Phase = "movement"
	PhasePreAttack  Phase = "pre_attack"
	PhaseAttack     Phase = "attack"
	PhasePostAttack Phase = "post_attack"
	PhaseTurnEnd    Phase = "turn_end"
)

// OverwatchState is the vigilance sub-state machine.
type OverwatchState string

const (
	OverwatchInactive  OverwatchState = "inactive"
	OverwatchActive    OverwatchState = "active"
	OverwatchTriggered OverwatchState = "triggered"
	OverwatchExhausted OverwatchState = "exhausted"
)

// Unit tags with engine-level meaning. Content tables may carry others.
const (
	TagTaunt        = "taunt"
	TagCavalry      = "cavalry"
	TagSpearman     = "spearman"
	TagInspiring    = "inspiring"
	TagPlaguebearer = "plaguebearer"
)

// StatusPlagued is the built-in contagious status.
const StatusPlagued = "plagued"

// UnitTemplate is the read-only content-table shape a unit is stamped from.
type UnitTemplate struct {
	ID         string
	Name       string
	HP         int
	Atk        int
	AtkCount   int
	Armor      int
	Speed      int
	Initiative int
	Dodge      int // percent chance, 0-100
	Range      int // 1 = melee only
	Role       Role
	DamageType DamageType
	Faction    Faction
	Tags       []string
	Ammo       *int // nil = unlimited
	MaxResolve int  // 0 = engine default
}

// TemplateLookup supplies base stats at team instantiation. The engine never
// loads content itself.
type TemplateLookup interface {
	Template(id string) (UnitTemplate, bool)
}

// TeamMember pairs a template with a draft tier.
type TeamMember struct {
	UnitID string `json:"unitId"`
	Tier   int    `json:"tier"`
}

// TeamSetup describes one side of a battle. Units and positions are paired
// 1:1; validation is the caller's job.
type TeamSetup struct {
	Units     []TeamMember `json:"units"`
	Positions []Position   `json:"positions"`
}

// BattleUnit is a single combatant. Base stats are fixed at instantiation;
// everything below the marker mutates during simulation.
type BattleUnit struct {
	ID         string  `json:"id"`
	TemplateID string  `json:"templateId"`
	Name       string  `json:"name"`
	Team       Team    `json:"team"`
	Tier       int     `json:"tier"`
	Faction    Faction `json:"faction"`
	Role       Role    `json:"role"`
	Tags       []string `json:"tags,omitempty"`

	MaxHP      int        `json:"maxHp"`
	Atk        int        `json:"atk"`
	AtkCount   int        `json:"atkCount"`
	Armor      int        `json:"armor"`
	Speed      int        `json:"speed"`
	Initiative int        `json:"initiative"`
	Dodge      int        `json:"dodge"`
	Range      int        `json:"range"`
	DamageType DamageType `json:"damageType"`

	// mutable battle state
	Pos            Position       `json:"position"`
	HP             int            `json:"currentHp"`
	Alive          bool           `json:"alive"`
	Facing         Facing         `json:"facing"`
	Resolve        int            `json:"resolve"`
	MaxResolve     int            `json:"maxResolve"`
	Routing        bool           `json:"isRouting"`
	Engaged        bool           `json:"engaged"`
	EngagedBy      []string       `json:"engagedBy,omitempty"`
	RiposteCharges int            `json:"riposteCharges"`
	Ammo           *int           `json:"ammo,omitempty"`
	MaxAmmo        *int           `json:"maxAmmo,omitempty"`
	Momentum       float64        `json:"momentum"`
	InPhalanx      bool           `json:"inPhalanx"`
	ArmorShred     int            `json:"armorShred"`
	Statuses       []string       `json:"statuses,omitempty"`
	Overwatch      OverwatchState `json:"overwatchState"`
	OverwatchShots int            `json:"overwatchShots"`
}

// HasTag reports whether the unit carries an engine tag.
func (u BattleUnit) HasTag(tag string) bool {
	for _, t := range u.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// HasStatus reports whether a status effect is active on the unit.
func (u BattleUnit) HasStatus(name string) bool {
	for _, s := range u.Statuses {
		if s == name {
			return true
		}
	}
	return false
}

// AddStatus applies a status effect once.
func (u *BattleUnit) AddStatus(name string) bool {
	if u.HasStatus(name) {
		return false
	}
	u.Statuses = append(u.Statuses, name)
	return true
}

// HPRatio is currentHp/maxHp in [0,1].
func (u BattleUnit) HPRatio() float64 {
	if u.MaxHP <= 0 {
		return 0
	}
	return float64(u.HP) / float64(u.MaxHP)
}

// IsRanged reports whether the unit can attack beyond adjacency.
func (u BattleUnit) IsRanged() bool { return u.Range > 1 }

// HasAmmo reports whether a ranged shot is available. Nil ammo is unlimited.
func (u BattleUnit) HasAmmo() bool { return u.Ammo == nil || *u.Ammo > 0 }

// Vigilant reports whether the unit sits in an overwatch stance and is
// therefore excluded from the turn queue for the rest of the round.
func (u BattleUnit) Vigilant() bool {
	return u.Overwatch == OverwatchActive || u.Overwatch == OverwatchTriggered
}

// NewBattleUnit stamps a combatant from a template. Tier scales hp and atk by
// 10% per tier above 1, rounded down.
func NewBattleUnit(tpl UnitTemplate, team Team, slot, tier int, pos Position, cfg Config) BattleUnit {
	if tier < 1 {
		tier = 1
	}
	scale := 1.0 + 0.1*float64(tier-1)
	hp := int(float64(tpl.HP) * scale)
	atk := int(float64(tpl.Atk) * scale)
	maxResolve := tpl.MaxResolve
	if maxResolve <= 0 {
		maxResolve = cfg.MaxResolve
	}
	facing := FacingSouth
	if team == TeamEnemy {
		facing = FacingNorth
	}
	u := BattleUnit{
		ID:         fmt.Sprintf("%s_%s_%d", team, tpl.ID, slot),
		TemplateID: tpl.ID,
		Name:       tpl.Name,
		Team:       team,
		Tier:       tier,
		Faction:    tpl.Faction,
		Role:       tpl.Role,
		Tags:       append([]string(nil), tpl.Tags...),
		MaxHP:      hp,
		Atk:        atk,
		AtkCount:   max(1, tpl.AtkCount),
		Armor:      tpl.Armor,
		Speed:      tpl.Speed,
		Initiative: tpl.Initiative,
		Dodge:      tpl.Dodge,
		Range:      max(1, tpl.Range),
		DamageType: tpl.DamageType,

		Pos:            pos,
		HP:             hp,
		Alive:          true,
		Facing:         facing,
		Resolve:        maxResolve,
		MaxResolve:     maxResolve,
		RiposteCharges: cfg.RiposteCharges,
		Overwatch:      OverwatchInactive,
		OverwatchShots: cfg.OverwatchShots,
	}
	if tpl.DamageType == "" {
		u.DamageType = DamagePhysical
	}
	if tpl.Ammo != nil {
		a := *tpl.Ammo
		b := *tpl.Ammo
		u.Ammo = &a
		u.MaxAmmo = &b
	}
	if u.HasTag(TagPlaguebearer) {
		u.Statuses = []string{StatusPlagued}
	}
	return u
}

// UnitView is the wire shape of a unit in the final state.
type UnitView struct {
	ID         string   `json:"id"`
	TemplateID string   `json:"templateId"`
	Name       string   `json:"name"`
	Team       Team     `json:"team"`
	Position   Position `json:"position"`
	HP         int      `json:"currentHp"`
	MaxHP      int      `json:"maxHp"`
	Alive      bool     `json:"alive"`
	Resolve    int      `json:"resolve"`
	Routing    bool     `json:"isRouting"`
	Facing     Facing   `json:"facing"`
}

// View projects a unit for the battle result payload.
func (u BattleUnit) View() UnitView {
	return UnitView{
		ID:         u.ID,
		TemplateID: u.TemplateID,
		Name:       u.Name,
		Team:       u.Team,
		Position:   u.Pos,
		HP:         u.HP,
		MaxHP:      u.MaxHP,
		Alive:      u.Alive,
		Resolve:    u.Resolve,
		Routing:    u.Routing,
		Facing:     u.Facing,
	}
}

// Outcome of a finished battle, from the player's perspective.
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
	OutcomeDraw Outcome = "draw"
)

// FinalState is the terminal snapshot included in a BattleResult.
type FinalState struct {
	Units []UnitView `json:"units"`
}

// BattleResult is the complete output of one simulation.
type BattleResult struct {
	Result     Outcome    `json:"result"`
	Rounds     int        `json:"rounds"`
	Events     []Event    `json:"events"`
	FinalState FinalState `json:"finalState"`
}

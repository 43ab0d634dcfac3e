package combat

import (
	"context"
	"math"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/samdwyer/barquest/internal/dice"
	"github.com/samdwyer/barquest/internal/entity"
	"github.com/samdwyer/barquest/internal/formulas"
	"github.com/samdwyer/barquest/internal/gamedata"
	"github.com/samdwyer/barquest/internal/stats"
	"github.com/samdwyer/barquest/internal/telemetry"
)

// Config tunes combat rules.
type Config struct {
	// AttackPowerRatio is the share of attack power added to weapon rolls.
	AttackPowerRatio float64
	// RagePerHitTaken and RagePerHitDealt feed rage pools.
	RagePerHitTaken float64
	RagePerHitDealt float64
}

// DefaultConfig returns the standard combat tuning.
func DefaultConfig() Config {
	return Config{
		AttackPowerRatio: 0.25,
		RagePerHitTaken:  5,
		RagePerHitDealt:  5,
	}
}

// Reason explains why a cast did nothing.
type Reason string

const (
	ReasonNone          Reason = ""
	ReasonUnknownSkill  Reason = "unknown_skill"
	ReasonWrongForm     Reason = "wrong_form"
	ReasonStunned       Reason = "stunned"
	ReasonCooldown      Reason = "cooldown"
	ReasonResource      Reason = "insufficient_resource"
	ReasonMissingDebuff Reason = "missing_debuff"
	ReasonNoTarget      Reason = "no_target"
)

// Result is the outcome of one cast.
type Result struct {
	OK           bool
	Reason       Reason
	DeadEnemyIDs []string
	Floating     []FloatingText
}

// SpecialFunc observes talent-relevant events raised while resolving a
// skill. It may be nil.
type SpecialFunc func(event gamedata.TriggerEvent, target *entity.Enemy, crit bool)

// forbiddenSchools lists the skill schools each form blocks.
var forbiddenSchools = map[stats.Form][]string{
	stats.FormShadow: {"holy"},
}

// Processor resolves skills and attacks against a State.
type Processor struct {
	data   *gamedata.GameData
	rng    dice.Roller
	cfg    Config
	logger *zap.Logger
}

// NewProcessor creates a processor. A nil logger is replaced by a no-op one.
func NewProcessor(data *gamedata.GameData, rng dice.Roller, cfg Config, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{data: data, rng: rng, cfg: cfg, logger: logger}
}

// cast carries the per-cast working copy of a skill.
type cast struct {
	skill   *gamedata.SkillDef
	rank    int
	effects []gamedata.EffectDef
	special SpecialFunc
	dead    []string
}

func (c *cast) markDead(id string) {
	for _, d := range c.dead {
		if d == id {
			return
		}
	}
	c.dead = append(c.dead, id)
}

// ProcessSkill casts a skill. Preconditions are checked in order (known,
// form, stun, cooldown, resource) and a failure changes nothing but the log.
// A cast either resolves fully, spending resource, starting the cooldown,
// and resetting the attack gauge, or has no side effects at all.
func (p *Processor) ProcessSkill(ctx context.Context, st *State, skillID string, special SpecialFunc) Result {
	_, span := telemetry.Tracer("combat").Start(ctx, "skill.cast")
	defer span.End()

	res := p.processSkill(st, skillID, special)
	span.SetAttributes(
		attribute.String("skill.id", skillID),
		attribute.Int("skill.rank", st.Player.SkillRank(skillID)),
		attribute.Bool("ok", res.OK),
		attribute.String("reason", string(res.Reason)),
		attribute.Int("dead_count", len(res.DeadEnemyIDs)),
	)
	return res
}

func (p *Processor) processSkill(st *State, skillID string, special SpecialFunc) Result {
	floatStart := len(st.Floating)
	pl := st.Player

	rank := pl.SkillRank(skillID)
	skill := p.data.Skills.GetByID(skillID)
	if skill == nil || rank <= 0 {
		if skill == nil {
			p.logger.Debug("unknown skill", zap.String("skill", skillID))
		}
		st.Log.Add(CatInfo, "You don't know that skill.")
		return Result{Reason: ReasonUnknownSkill}
	}
	rank = min(rank, skill.RankCap())

	for _, school := range forbiddenSchools[pl.Form] {
		if skill.School == school {
			st.Log.Addf(CatInfo, "You cannot cast %s spells in this form.", school)
			return Result{Reason: ReasonWrongForm}
		}
	}
	if pl.IsStunned() {
		st.Log.Add(CatInfo, "You are stunned and cannot act.")
		return Result{Reason: ReasonStunned}
	}
	if st.Cooldowns[skillID] > 0 {
		st.Log.Addf(CatInfo, "%s is not ready yet.", skill.Name)
		return Result{Reason: ReasonCooldown}
	}

	// Detonation is resolved by hand and ignores the skill's effect list.
	if skill.ID == PoisonDetonationSkill {
		res := p.detonatePoison(st, skill, rank)
		res.Floating = append([]FloatingText(nil), st.Floating[floatStart:]...)
		return res
	}

	c := &cast{skill: skill, rank: rank, effects: skill.CloneEffects(), special: special}
	p.applyTalentPatches(pl, c)

	cost := p.skillCost(st, c)
	unlimited := pl.HasBuff(BuffUnlimitedResource)
	if !unlimited && pl.Resource.Current < cost {
		st.Log.Add(CatInfo, "Not enough "+resourceName(pl.Resource.Type)+"!")
		return Result{Reason: ReasonResource}
	}

	if reason := p.validateEffects(st, c); reason != ReasonNone {
		return Result{Reason: reason}
	}

	applied := false
	for i := range c.effects {
		if p.applyEffect(st, c, &c.effects[i]) {
			applied = true
		}
	}
	if !applied {
		st.Log.Addf(CatInfo, "%s has no target.", skill.Name)
		return Result{Reason: ReasonNoTarget}
	}

	if !unlimited {
		pl.Resource.Spend(cost)
	}
	if cd := skill.CooldownDuration(); cd > 0 {
		st.Cooldowns[skillID] = cd
	}
	pl.AttackProgress = 0
	if st.Stealthed && !hasEffect(c.effects, gamedata.EffectStealth) {
		breakStealth(st)
	}

	return Result{
		OK:           true,
		DeadEnemyIDs: c.dead,
		Floating:     append([]FloatingText(nil), st.Floating[floatStart:]...),
	}
}

// applyTalentPatches rewrites the cast's effect copy with every learned
// talent that targets this skill.
func (p *Processor) applyTalentPatches(pl *entity.Player, c *cast) {
	for _, t := range p.learnedTalents(pl) {
		for _, m := range t.def.SkillMods {
			if m.Skill != c.skill.ID || m.EffectIndex < 0 || m.EffectIndex >= len(c.effects) {
				continue
			}
			prop := c.effects[m.EffectIndex].Property(m.Property)
			if prop == nil {
				p.logger.Debug("talent patches unknown property",
					zap.String("talent", t.def.ID),
					zap.String("property", m.Property),
				)
				continue
			}
			base := 0.0
			if prop.IsSet() {
				base = prop.At(c.rank)
			} else if m.Kind == gamedata.PatchMultiplicative {
				base = 1
			}
			*prop = gamedata.Scalar(m.Apply(base, t.rank))
		}
	}
}

// SkillCost returns the resource a cast would cost right now.
func (p *Processor) SkillCost(st *State, skillID string) float64 {
	skill := p.data.Skills.GetByID(skillID)
	rank := st.Player.SkillRank(skillID)
	if skill == nil || rank <= 0 {
		return 0
	}
	c := &cast{skill: skill, rank: min(rank, skill.RankCap()), effects: skill.CloneEffects()}
	p.applyTalentPatches(st.Player, c)
	return p.skillCost(st, c)
}

func (p *Processor) skillCost(st *State, c *cast) float64 {
	base := 0.0
	for i := range c.effects {
		if c.effects[i].Type == gamedata.EffectResourceCost {
			base = c.effects[i].Amount.At(c.rank)
			break
		}
	}
	for i := range c.effects {
		e := &c.effects[i]
		if e.Type == gamedata.EffectStackingDamage && e.CostStackMultiplier != 0 {
			base = formulas.StackingCost(base, stackCount(st.Player.Buff(e.StackBuffID)), e.CostStackMultiplier)
		}
	}

	var reduction float64
	for _, t := range p.learnedTalents(st.Player) {
		if cr := t.def.CostReduction; cr != nil && cr.Covers(c.skill.ID) {
			reduction += cr.Pct.At(t.rank)
		}
	}
	return formulas.ResourceCost(base, reduction)
}

// validateEffects runs the checks that must pass before any effect is
// applied, keeping the cast all-or-nothing.
func (p *Processor) validateEffects(st *State, c *cast) Reason {
	for i := range c.effects {
		e := &c.effects[i]
		if e.Type != gamedata.EffectConsumeDebuff {
			continue
		}
		target := st.CurrentTarget()
		if target == nil || !target.IsAlive() {
			st.Log.Addf(CatInfo, "%s has no target.", c.skill.Name)
			return ReasonNoTarget
		}
		if !target.HasDebuff(e.RequiredDebuff) {
			st.Log.Addf(CatInfo, "%s requires %s on the target.", c.skill.Name, e.RequiredDebuff)
			return ReasonMissingDebuff
		}
	}
	return ReasonNone
}

// targets resolves the enemies an effect hits. Self-targeted effects get
// none; all-enemy effects get every living enemy; everything else gets the
// selected enemy if it is alive.
func targets(st *State, e *gamedata.EffectDef) []*entity.Enemy {
	if e.Type.SelfTargeted() || e.Target == gamedata.TargetSelf {
		return nil
	}
	if e.Target == gamedata.TargetAllEnemies {
		return st.LivingEnemies()
	}
	if t := st.CurrentTarget(); t != nil && t.IsAlive() {
		return []*entity.Enemy{t}
	}
	return nil
}

func hasEffect(effects []gamedata.EffectDef, t gamedata.EffectType) bool {
	for i := range effects {
		if effects[i].Type == t {
			return true
		}
	}
	return false
}

func stackCount(m *stats.TimedModifier) int {
	if m == nil {
		return 0
	}
	return m.StackCount()
}

func breakStealth(st *State) {
	st.Stealthed = false
	st.Player.Buffs = stats.Remove(st.Player.Buffs, BuffStealth)
	st.Log.Add(CatInfo, "You leave the shadows.")
}

func resourceName(t stats.ResourceType) string {
	switch t {
	case stats.ResourceRage:
		return "rage"
	case stats.ResourceEnergy:
		return "energy"
	default:
		return "mana"
	}
}

type learnedTalent struct {
	def  *gamedata.TalentDef
	rank int
}

// learnedTalents returns the hero's talents with rank capped, in data file
// order so resolution is stable.
func (p *Processor) learnedTalents(pl *entity.Player) []learnedTalent {
	if len(pl.Talents) == 0 {
		return nil
	}
	var out []learnedTalent
	for _, def := range p.data.ClassTalents(pl.ClassID) {
		if r := pl.TalentRank(def.ID); r > 0 {
			out = append(out, learnedTalent{def: def, rank: min(r, def.RankCap())})
		}
	}
	return out
}

func roundDamage(v float64) float64 {
	return math.Max(0, math.Round(v))
}

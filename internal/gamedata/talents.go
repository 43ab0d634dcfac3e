package gamedata

import (
	"io/fs"
	"strconv"
	"strings"

	"github.com/samdwyer/barquest/internal/stats"
)

// PatchKind selects how a talent combines with a skill parameter.
type PatchKind string

const (
	PatchAdditive       PatchKind = "additive"
	PatchMultiplicative PatchKind = "multiplicative"
)

// SkillMod patches one parameter of one effect of a skill.
type SkillMod struct {
	Skill       string    `json:"skill"`
	EffectIndex int       `json:"effect_index"`
	Property    string    `json:"property"`
	Kind        PatchKind `json:"kind"`
	Values      RankValue `json:"values"`
}

// Apply combines a base parameter value with the talent value at rank.
func (m SkillMod) Apply(base float64, talentRank int) float64 {
	v := m.Values.At(talentRank)
	if m.Kind == PatchMultiplicative {
		return base * v
	}
	return base + v
}

// CostReduction lowers the resource cost of listed skills by a percentage.
// An empty list applies to every skill.
type CostReduction struct {
	Skills []string  `json:"skills,omitempty"`
	Pct    RankValue `json:"pct"`
}

// Covers reports whether the reduction applies to skillID.
func (c *CostReduction) Covers(skillID string) bool {
	if len(c.Skills) == 0 {
		return true
	}
	for _, s := range c.Skills {
		if s == skillID {
			return true
		}
	}
	return false
}

// TriggerEvent names a combat event a talent reacts to.
type TriggerEvent string

const (
	OnHit   TriggerEvent = "on_hit"
	OnCrit  TriggerEvent = "on_crit"
	OnDodge TriggerEvent = "on_dodge"
	OnKill  TriggerEvent = "on_kill"
)

// ModifierGrant describes a timed modifier created by a talent trigger.
// TotalDamage with Ticks makes it a damage-over-time debuff.
type ModifierGrant struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Duration    float64       `json:"duration"` // seconds
	StatMods    []StatModDef  `json:"statMods,omitempty"`
	MaxStacks   int           `json:"maxStacks,omitempty"`
	TotalDamage RankValue     `json:"totalDamage,omitempty"`
	Ticks       int           `json:"ticks,omitempty"`
	Element     stats.Element `json:"element,omitempty"`
}

// TalentTrigger fires on an event with a rank-scaled percentage chance.
type TalentTrigger struct {
	Event    TriggerEvent   `json:"event"`
	Chance   RankValue      `json:"chance"`
	Buff     *ModifierGrant `json:"apply_buff,omitempty"`
	Debuff   *ModifierGrant `json:"apply_debuff,omitempty"`
	Resource RankValue      `json:"resource,omitempty"`
}

// PoisonProc applies a poison damage-over-time on hit.
type PoisonProc struct {
	Chance      RankValue `json:"chance"`
	TotalDamage RankValue `json:"total_damage"`
	Duration    float64   `json:"duration"` // seconds
	Ticks       int       `json:"ticks"`
}

// ExecuteCrit adds crit chance against targets below an HP percentage.
type ExecuteCrit struct {
	BelowHPPct float64   `json:"below_hp_pct"`
	Bonus      RankValue `json:"bonus"`
}

// TalentDef defines a passive talent loaded from JSON.
type TalentDef struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	ClassID     string   `json:"class"`
	Tree        string   `json:"tree,omitempty"`
	MaxRank     int      `json:"max_rank"`
	LevelReq    int      `json:"levelReq,omitempty"`
	Requires    []string `json:"requires,omitempty"`

	StatMods      []StatModDef    `json:"stat_mods,omitempty"`
	SkillMods     []SkillMod      `json:"skill_mods,omitempty"`
	CostReduction *CostReduction  `json:"cost_reduction,omitempty"`
	Triggers      []TalentTrigger `json:"triggers,omitempty"`
	PoisonProc    *PoisonProc     `json:"poison_proc,omitempty"`
	ExecuteCrit   *ExecuteCrit    `json:"execute_crit,omitempty"`
	RageOnHit     RankValue       `json:"rage_on_hit,omitempty"`
}

// RankCap returns the maximum rank, at least 1.
func (t *TalentDef) RankCap() int {
	if t.MaxRank <= 0 {
		return 1
	}
	return t.MaxRank
}

// Requirement is a prerequisite talent at a minimum rank.
type Requirement struct {
	TalentID string
	Rank     int
}

// ParseRequirement reads "talentID:rank". A missing or malformed rank means 1.
func ParseRequirement(s string) Requirement {
	id, rank, found := strings.Cut(s, ":")
	req := Requirement{TalentID: strings.TrimSpace(id), Rank: 1}
	if found {
		if n, err := strconv.Atoi(strings.TrimSpace(rank)); err == nil && n > 0 {
			req.Rank = n
		}
	}
	return req
}

// Requirements parses every prerequisite.
func (t *TalentDef) Requirements() []Requirement {
	out := make([]Requirement, 0, len(t.Requires))
	for _, r := range t.Requires {
		out = append(out, ParseRequirement(r))
	}
	return out
}

// TalentsFile represents the structure of talents.json.
type TalentsFile struct {
	Talents []TalentDef `json:"talents"`
}

// LoadTalents loads talent definitions from talents.json in fsys.
func LoadTalents(fsys fs.FS) ([]TalentDef, error) {
	file, err := Load[TalentsFile](fsys, "talents.json")
	if err != nil {
		return nil, err
	}
	return file.Talents, nil
}

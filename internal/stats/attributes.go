// Package stats holds attribute sets, timed modifiers, and the effective-stat
// computation shared by players and enemies.
package stats

import (
	"encoding/json"
	"strings"
)

// Stat names a numeric field of an AttributeSet. Element sub-map entries are
// addressed as "<Map>.<element>", e.g. "ResElems.fire".
type Stat string

const (
	StatHP        Stat = "HP"
	StatStrength  Stat = "Strength"
	StatIntellect Stat = "Intellect"
	StatAgility   Stat = "Agility"
	StatSpirit    Stat = "Spirit"
	StatAttMin    Stat = "AttMin"
	StatAttMax    Stat = "AttMax"
	StatCritPct   Stat = "CritPct"
	StatCritDmg   Stat = "CritDmg"
	StatArmor     Stat = "Armor"
	StatSpeed     Stat = "Speed"
	StatHastePct  Stat = "HastePct"
	StatPrecision Stat = "Precision"
	StatEvasion   Stat = "Evasion"

	StatCritChanceTaken Stat = "CritChanceTaken"

	StatDamageMultiplier          Stat = "DamageMultiplier"
	StatHealingMultiplier         Stat = "HealingMultiplier"
	StatHealingReceivedMultiplier Stat = "HealingReceivedMultiplier"
	StatDamageTakenMultiplier     Stat = "DamageTakenMultiplier"
	StatShadowDamageMultiplier    Stat = "ShadowDamageMultiplier"
	StatMaxHPMultiplier           Stat = "MaxHPMultiplier"
)

// Element is a damage school. Physical damage is mitigated by armor, every
// other element by the matching resistance.
type Element string

const (
	ElementPhysical Element = "physical"
	ElementFire     Element = "fire"
	ElementIce      Element = "ice"
	ElementNature   Element = "nature"
	ElementShadow   Element = "shadow"
	ElementHoly     Element = "holy"
	ElementArcane   Element = "arcane"
)

// Sub-map prefixes used in Stat references.
const (
	mapResElems = "ResElems"
	mapDmgElems = "DmgElems"
	mapBonusDmg = "BonusDmg"
)

// ResistanceStat returns the stat reference for an element's resistance.
func ResistanceStat(e Element) Stat { return Stat(mapResElems + "." + string(e)) }

// BonusDamageStat returns the stat reference for an element's bonus damage percentage.
func BonusDamageStat(e Element) Stat { return Stat(mapBonusDmg + "." + string(e)) }

// AttributeSet is a flat set of numeric stats. HP is the current hit points;
// the maximum is derived from the other stats by the formulas package.
//
// Multiplier fields are identities (1) when absent. Use NewAttributeSet or
// Normalize rather than the zero value when building sets by hand.
type AttributeSet struct {
	HP        float64 `json:"HP"`
	Strength  float64 `json:"Strength,omitempty"`
	Intellect float64 `json:"Intellect,omitempty"`
	Agility   float64 `json:"Agility,omitempty"`
	Spirit    float64 `json:"Spirit,omitempty"`
	AttMin    float64 `json:"AttMin,omitempty"`
	AttMax    float64 `json:"AttMax,omitempty"`
	CritPct   float64 `json:"CritPct,omitempty"`
	CritDmg   float64 `json:"CritDmg,omitempty"`
	Armor     float64 `json:"Armor,omitempty"`
	Speed     float64 `json:"Speed,omitempty"` // base attack interval in seconds
	HastePct  float64 `json:"HastePct,omitempty"`
	Precision float64 `json:"Precision,omitempty"`
	Evasion   float64 `json:"Evasion,omitempty"`

	CritChanceTaken float64 `json:"CritChanceTaken,omitempty"`

	ResElems map[Element]float64 `json:"ResElems,omitempty"`
	DmgElems map[Element]float64 `json:"DmgElems,omitempty"`
	BonusDmg map[Element]float64 `json:"BonusDmg,omitempty"`

	DamageMultiplier          float64 `json:"DamageMultiplier,omitempty"`
	HealingMultiplier         float64 `json:"HealingMultiplier,omitempty"`
	HealingReceivedMultiplier float64 `json:"HealingReceivedMultiplier,omitempty"`
	DamageTakenMultiplier     float64 `json:"DamageTakenMultiplier,omitempty"`
	ShadowDamageMultiplier    float64 `json:"ShadowDamageMultiplier,omitempty"`
	MaxHPMultiplier           float64 `json:"MaxHPMultiplier,omitempty"`
}

// NewAttributeSet returns an empty set with every multiplier at identity.
func NewAttributeSet() AttributeSet {
	a := AttributeSet{}
	a.Normalize()
	return a
}

// Normalize resets unset (zero) multipliers to 1. Profiles persisted before a
// multiplier existed decode with zeros, so this runs on every load.
func (a *AttributeSet) Normalize() {
	for _, m := range a.multipliers() {
		if *m == 0 {
			*m = 1
		}
	}
}

func (a *AttributeSet) multipliers() []*float64 {
	return []*float64{
		&a.DamageMultiplier,
		&a.HealingMultiplier,
		&a.HealingReceivedMultiplier,
		&a.DamageTakenMultiplier,
		&a.ShadowDamageMultiplier,
		&a.MaxHPMultiplier,
	}
}

// UnmarshalJSON decodes over identity defaults so absent multipliers stay 1.
func (a *AttributeSet) UnmarshalJSON(b []byte) error {
	type plain AttributeSet
	p := plain(NewAttributeSet())
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*a = AttributeSet(p)
	return nil
}

// Clone returns a deep copy; element sub-maps are never shared.
func (a AttributeSet) Clone() AttributeSet {
	out := a
	out.ResElems = cloneElems(a.ResElems)
	out.DmgElems = cloneElems(a.DmgElems)
	out.BonusDmg = cloneElems(a.BonusDmg)
	return out
}

func cloneElems(m map[Element]float64) map[Element]float64 {
	if m == nil {
		return nil
	}
	out := make(map[Element]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// scalar returns a pointer to a scalar stat field, or nil for unknown names
// and sub-map references.
func (a *AttributeSet) scalar(stat Stat) *float64 {
	switch stat {
	case StatHP:
		return &a.HP
	case StatStrength:
		return &a.Strength
	case StatIntellect:
		return &a.Intellect
	case StatAgility:
		return &a.Agility
	case StatSpirit:
		return &a.Spirit
	case StatAttMin:
		return &a.AttMin
	case StatAttMax:
		return &a.AttMax
	case StatCritPct:
		return &a.CritPct
	case StatCritDmg:
		return &a.CritDmg
	case StatArmor:
		return &a.Armor
	case StatSpeed:
		return &a.Speed
	case StatHastePct:
		return &a.HastePct
	case StatPrecision:
		return &a.Precision
	case StatEvasion:
		return &a.Evasion
	case StatCritChanceTaken:
		return &a.CritChanceTaken
	case StatDamageMultiplier:
		return &a.DamageMultiplier
	case StatHealingMultiplier:
		return &a.HealingMultiplier
	case StatHealingReceivedMultiplier:
		return &a.HealingReceivedMultiplier
	case StatDamageTakenMultiplier:
		return &a.DamageTakenMultiplier
	case StatShadowDamageMultiplier:
		return &a.ShadowDamageMultiplier
	case StatMaxHPMultiplier:
		return &a.MaxHPMultiplier
	}
	return nil
}

// subMap resolves "<Map>.<element>" references. create allocates the map when
// it is nil.
func (a *AttributeSet) subMap(stat Stat, create bool) (map[Element]float64, Element, bool) {
	name, elem, found := strings.Cut(string(stat), ".")
	if !found || elem == "" {
		return nil, "", false
	}
	var target *map[Element]float64
	switch name {
	case mapResElems:
		target = &a.ResElems
	case mapDmgElems:
		target = &a.DmgElems
	case mapBonusDmg:
		target = &a.BonusDmg
	default:
		return nil, "", false
	}
	if *target == nil && create {
		*target = make(map[Element]float64)
	}
	return *target, Element(elem), *target != nil
}

// Get returns the value of a stat. Sub-map entries report false when the key
// is absent.
func (a *AttributeSet) Get(stat Stat) (float64, bool) {
	if p := a.scalar(stat); p != nil {
		return *p, true
	}
	m, elem, ok := a.subMap(stat, false)
	if !ok {
		return 0, false
	}
	v, ok := m[elem]
	return v, ok
}

// Set assigns a stat, creating sub-map entries as needed. Unknown stats are
// ignored and reported as false.
func (a *AttributeSet) Set(stat Stat, v float64) bool {
	if p := a.scalar(stat); p != nil {
		*p = v
		return true
	}
	m, elem, ok := a.subMap(stat, true)
	if !ok {
		return false
	}
	m[elem] = v
	return true
}

// Add increments a stat, creating sub-map entries as needed.
func (a *AttributeSet) Add(stat Stat, v float64) bool {
	cur, _ := a.Get(stat)
	return a.Set(stat, cur+v)
}

// Merge folds another set into this one: additive stats and element sub-maps
// are summed, multipliers are composed. HP is left untouched.
func (a *AttributeSet) Merge(o AttributeSet) {
	a.Strength += o.Strength
	a.Intellect += o.Intellect
	a.Agility += o.Agility
	a.Spirit += o.Spirit
	a.AttMin += o.AttMin
	a.AttMax += o.AttMax
	a.CritPct += o.CritPct
	a.CritDmg += o.CritDmg
	a.Armor += o.Armor
	a.Speed += o.Speed
	a.HastePct += o.HastePct
	a.Precision += o.Precision
	a.Evasion += o.Evasion
	a.CritChanceTaken += o.CritChanceTaken

	a.ResElems = mergeElems(a.ResElems, o.ResElems)
	a.DmgElems = mergeElems(a.DmgElems, o.DmgElems)
	a.BonusDmg = mergeElems(a.BonusDmg, o.BonusDmg)

	om := o.multipliers()
	for i, m := range a.multipliers() {
		*m = identity(*m) * identity(*om[i])
	}
}

func mergeElems(dst, src map[Element]float64) map[Element]float64 {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[Element]float64, len(src))
	}
	for k, v := range src {
		dst[k] += v
	}
	return dst
}

// Resistance returns the resistance to an element, 0 when absent.
func (a *AttributeSet) Resistance(e Element) float64 {
	return a.ResElems[e]
}

// ElementMultiplier returns the element-specific outgoing damage multiplier:
// the shadow multiplier for shadow damage, combined with any BonusDmg percentage.
func (a *AttributeSet) ElementMultiplier(e Element) float64 {
	m := 1.0
	if e == ElementShadow {
		m *= a.ShadowDamageMultiplier
	}
	if bonus := a.BonusDmg[e]; bonus != 0 {
		m *= 1 + bonus/100
	}
	return m
}

// identity maps an unset multiplier to 1.
func identity(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}

package stats

// ComputeEffectiveStats derives the stats in effect from a base set, the
// active timed modifiers, and the current form. The base set is never
// modified. References to stats the set does not carry are skipped.
func ComputeEffectiveStats(base AttributeSet, mods []TimedModifier, form Form) AttributeSet {
	out := base.Clone()
	out.Normalize()
	for i := range mods {
		m := &mods[i]
		stacks := m.StackCount()
		for _, sm := range m.StatMods {
			v, ok := out.Get(sm.Stat)
			if !ok {
				continue
			}
			out.Set(sm.Stat, sm.Apply(v, stacks))
		}
	}
	if form == FormShadow {
		out.ShadowDamageMultiplier *= ShadowFormDamageBonus
		out.DamageTakenMultiplier *= ShadowFormDamageTaken
	}
	return out
}

// Apply folds a permanent stat mod into the set. Unlike timed modifiers,
// additive mods create missing element entries so gear and talents can grant
// resistances the base set lacks.
func (a *AttributeSet) Apply(m StatMod, stacks int) {
	if m.Kind == Additive || m.Kind == "" {
		a.Add(m.Stat, m.Value*float64(max(1, stacks)))
		return
	}
	v, ok := a.Get(m.Stat)
	if !ok {
		return
	}
	a.Set(m.Stat, m.Apply(v, max(1, stacks)))
}

package combat

import (
	"time"

	"github.com/samdwyer/barquest/internal/entity"
)

// ResolvePending advances queued wave actions by delta and fires a pulse for
// every timer that rolls over. Exhausted actions are dropped. It returns the
// ids of enemies the pulses killed.
func (p *Processor) ResolvePending(st *State, delta time.Duration) []string {
	if len(st.Pending) == 0 {
		return nil
	}
	var dead []string
	kept := st.Pending[:0]
	for _, pa := range st.Pending {
		pa.Remaining -= delta
		for pa.Remaining <= 0 && pa.Waves > 0 {
			dead = append(dead, p.pulse(st, &pa)...)
			pa.Waves--
			pa.Remaining += pa.Interval
		}
		if pa.Waves > 0 && st.AnyAlive() {
			kept = append(kept, pa)
		}
	}
	st.Pending = kept
	return dead
}

func (p *Processor) pulse(st *State, pa *PendingAction) []string {
	var hit []*entity.Enemy
	if pa.AllEnemies {
		hit = st.LivingEnemies()
	} else if t := st.CurrentTarget(); t != nil && t.IsAlive() {
		hit = []*entity.Enemy{t}
	}
	c := &cast{skill: p.data.Skills.GetByID(pa.SkillID)}
	for _, e := range hit {
		p.strike(st, c, strikeSpec{
			base:       pa.Damage,
			skillMult:  1,
			condMult:   1,
			element:    pa.Element,
			label:      pa.Name,
			resistance: true,
		}, e)
	}
	return c.dead
}

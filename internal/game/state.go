// Package game runs the simulation: dungeon runs, the combat tick loop, death
// resolution, quests, and progression around a single hero.
package game

// View is the screen the hero is on.
type View int

const (
	// ViewTown is the default non-combat view.
	ViewTown View = iota
	// ViewDungeon is an active dungeon run with a live encounter.
	ViewDungeon
	// ViewSummary shows the result of the last run.
	ViewSummary
)

// String returns a human-readable view name.
func (v View) String() string {
	switch v {
	case ViewTown:
		return "town"
	case ViewDungeon:
		return "dungeon"
	case ViewSummary:
		return "summary"
	default:
		return "unknown"
	}
}

// Phase is the state of a dungeon run.
type Phase int

const (
	// PhaseFighting - the current wave has living enemies
	PhaseFighting Phase = iota
	// PhaseCleared - every enemy is dead and the next step is pending
	PhaseCleared
	// PhaseVictory - the boss is dead and the run is over
	PhaseVictory
	// PhaseDefeat - the hero fell
	PhaseDefeat
	// PhaseFled - the hero left early
	PhaseFled
)

// String returns a human-readable phase name.
func (p Phase) String() string {
	switch p {
	case PhaseFighting:
		return "fighting"
	case PhaseCleared:
		return "cleared"
	case PhaseVictory:
		return "victory"
	case PhaseDefeat:
		return "defeat"
	case PhaseFled:
		return "fled"
	default:
		return "unknown"
	}
}

package ui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/barquest/internal/entity"
	"github.com/samdwyer/barquest/internal/game"
	"github.com/samdwyer/barquest/internal/gamedata"
)

// Action is what a key press asks the app to do.
type Action uint8

const (
	ActionNone Action = iota
	ActionCommand
	ActionToggleHeroic
	ActionQuit
)

// keyToCommand maps a key event to a command for the current view.
func keyToCommand(ev *tcell.EventKey, view game.View, dungeons []gamedata.DungeonDef, heroic bool) (game.Command, Action) {
	// Named keys.
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return nil, ActionQuit
	case tcell.KeyTab:
		if view == game.ViewDungeon {
			return game.CycleTarget{}, ActionCommand
		}
		return nil, ActionNone
	case tcell.KeyEnter:
		if view == game.ViewSummary {
			return game.Dismiss{}, ActionCommand
		}
		return nil, ActionNone
	case tcell.KeyRune:
	default:
		return nil, ActionNone
	}

	// Rune keys.
	r := ev.Rune()
	switch r {
	case 'q', 'Q':
		return nil, ActionQuit
	case 'p':
		return game.UsePotion{Kind: entity.PotionHealth}, ActionCommand
	case 'm':
		return game.UsePotion{Kind: entity.PotionResource}, ActionCommand
	}

	switch view {
	case game.ViewTown:
		if r == 'h' || r == 'H' {
			return nil, ActionToggleHeroic
		}
		if i, ok := digit(r); ok && i < len(dungeons) {
			return game.EnterDungeon{DungeonID: dungeons[i].ID, Heroic: heroic}, ActionCommand
		}
	case game.ViewDungeon:
		switch r {
		case 'a':
			return game.ToggleAutoAttack{}, ActionCommand
		case 'f':
			return game.Flee{}, ActionCommand
		}
		if i, ok := digit(r); ok {
			return game.UseSkillSlot{Slot: i}, ActionCommand
		}
	case game.ViewSummary:
		if r == ' ' {
			return game.Dismiss{}, ActionCommand
		}
	}
	return nil, ActionNone
}

// digit maps '1'..'9' to 0..8.
func digit(r rune) (int, bool) {
	if r < '1' || r > '9' {
		return 0, false
	}
	return int(r - '1'), true
}

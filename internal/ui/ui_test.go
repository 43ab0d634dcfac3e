package ui

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samdwyer/barquest/internal/combat"
	"github.com/samdwyer/barquest/internal/dice"
	"github.com/samdwyer/barquest/internal/entity"
	"github.com/samdwyer/barquest/internal/game"
	"github.com/samdwyer/barquest/internal/gamedata"
	"github.com/samdwyer/barquest/internal/uuid"
)

func newSimScreen(t *testing.T) (*Screen, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	s, err := NewScreenFrom(sim)
	require.NoError(t, err)
	sim.SetSize(100, 30)
	t.Cleanup(s.Close)
	return s, sim
}

func newSnapshot(t *testing.T, data *gamedata.GameData) (game.Snapshot, *game.Session) {
	t.Helper()
	deps := game.Deps{Data: data, Rng: dice.NewRandomRoller(7), IDs: uuid.NewGoogleUUIDGenerator()}
	p, inv, quests, err := game.NewHero(deps, "Ada", "warrior")
	require.NoError(t, err)
	s := game.NewSession(deps, game.DefaultConfig(), p, inv, quests)
	return s.Snapshot(), s
}

// screenText returns the rendered rows, one string per line.
func screenText(sim tcell.SimulationScreen) []string {
	w, h := sim.Size()
	rows := make([]string, h)
	for y := range h {
		var b strings.Builder
		for x := 0; x < w; x++ {
			r, _, _, _ := sim.GetContent(x, y)
			if r == 0 {
				r = ' '
			}
			b.WriteRune(r)
		}
		rows[y] = strings.TrimRight(b.String(), " ")
	}
	return rows
}

func containsLine(rows []string, sub string) bool {
	for _, r := range rows {
		if strings.Contains(r, sub) {
			return true
		}
	}
	return false
}

func TestRenderTown(t *testing.T) {
	data := gamedata.MustLoadGameData()
	screen, sim := newSimScreen(t)
	snap, _ := newSnapshot(t, data)

	NewRenderer(screen, data).Render(snap, State{Heroic: true}, nil)
	rows := screenText(sim)

	assert.True(t, containsLine(rows, "Ada  Lv 1 Warrior"), "header: %q", rows[0])
	assert.True(t, containsLine(rows, "Dungeons (Heroic)"))
	assert.True(t, containsLine(rows, " 1  Whispering Woods"))
	assert.True(t, containsLine(rows, "Potions: 3 health"))
	assert.True(t, containsLine(rows, helpLine(game.ViewTown)))
}

func TestRenderDungeon(t *testing.T) {
	data := gamedata.MustLoadGameData()
	screen, sim := newSimScreen(t)
	_, s := newSnapshot(t, data)
	require.NoError(t, s.EnterDungeon(context.Background(), "whispering_woods", false))
	snap := s.Snapshot()
	require.NotEmpty(t, snap.Enemies)

	floats := []combat.FloatingText{{EntityID: snap.Enemies[0].ID, Text: "-42", Category: combat.CatCrit}}
	NewRenderer(screen, data).Render(snap, State{Status: "not allowed during combat"}, floats)
	rows := screenText(sim)

	assert.True(t, containsLine(rows, "Whispering Woods   wave 1   kills 0/15"))
	assert.True(t, containsLine(rows, "> "+snap.Enemies[0].Name))
	assert.True(t, containsLine(rows, "-42"))
	assert.True(t, containsLine(rows, "1 "+data.Skills.GetByID(snap.Player.EquippedSkills[0]).Name))
	assert.True(t, containsLine(rows, "not allowed during combat"))
}

func TestRenderSummary(t *testing.T) {
	data := gamedata.MustLoadGameData()
	screen, sim := newSimScreen(t)
	snap, _ := newSnapshot(t, data)
	snap.View = game.ViewSummary
	snap.Summary = &game.Summary{
		DungeonName: "Whispering Woods",
		Outcome:     game.PhaseVictory,
		Kills:       16,
		Gold:        80,
		XP:          300,
		Drops:       []*entity.Item{{Name: "Oak Staff", Rarity: gamedata.RarityRare, Slot: gamedata.SlotWeapon}},
	}

	NewRenderer(screen, data).Render(snap, State{}, nil)
	rows := screenText(sim)

	assert.True(t, containsLine(rows, "Whispering Woods: victory"))
	assert.True(t, containsLine(rows, "Gold +80"))
	assert.True(t, containsLine(rows, "Oak Staff (Rare weapon)"))
}

func TestDrawTextTruncates(t *testing.T) {
	screen, sim := newSimScreen(t)
	n := screen.DrawText(0, 0, 5, "Frostbolt", tcell.StyleDefault)
	assert.Equal(t, 5, n)
	assert.Equal(t, "Fros…", screenText(sim)[0])
}

func TestKeyToCommand(t *testing.T) {
	dungeons := []gamedata.DungeonDef{{ID: "whispering_woods"}, {ID: "frozen_depths"}}
	key := func(r rune) *tcell.EventKey { return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone) }

	tests := []struct {
		name   string
		ev     *tcell.EventKey
		view   game.View
		heroic bool
		cmd    game.Command
		action Action
	}{
		{"enter dungeon", key('2'), game.ViewTown, false, game.EnterDungeon{DungeonID: "frozen_depths"}, ActionCommand},
		{"enter heroic", key('1'), game.ViewTown, true, game.EnterDungeon{DungeonID: "whispering_woods", Heroic: true}, ActionCommand},
		{"no such dungeon", key('3'), game.ViewTown, false, nil, ActionNone},
		{"toggle heroic", key('h'), game.ViewTown, false, nil, ActionToggleHeroic},
		{"skill slot", key('3'), game.ViewDungeon, false, game.UseSkillSlot{Slot: 2}, ActionCommand},
		{"cycle target", tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone), game.ViewDungeon, false, game.CycleTarget{}, ActionCommand},
		{"auto attack", key('a'), game.ViewDungeon, false, game.ToggleAutoAttack{}, ActionCommand},
		{"flee", key('f'), game.ViewDungeon, false, game.Flee{}, ActionCommand},
		{"flee in town", key('f'), game.ViewTown, false, nil, ActionNone},
		{"health potion", key('p'), game.ViewDungeon, false, game.UsePotion{Kind: entity.PotionHealth}, ActionCommand},
		{"resource potion", key('m'), game.ViewTown, false, game.UsePotion{Kind: entity.PotionResource}, ActionCommand},
		{"dismiss", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), game.ViewSummary, false, game.Dismiss{}, ActionCommand},
		{"quit", key('q'), game.ViewDungeon, false, nil, ActionQuit},
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), game.ViewTown, false, nil, ActionQuit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, action := keyToCommand(tt.ev, tt.view, dungeons, tt.heroic)
			assert.Equal(t, tt.action, action)
			assert.Equal(t, tt.cmd, cmd)
		})
	}
}

type recordingSubmitter struct {
	mu   sync.Mutex
	cmds []game.Command
	err  error
}

func (r *recordingSubmitter) Submit(_ context.Context, cmd game.Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cmds = append(r.cmds, cmd)
	return r.err
}

func (r *recordingSubmitter) commands() []game.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]game.Command(nil), r.cmds...)
}

func TestAppSubmitsKeysUntilQuit(t *testing.T) {
	data := gamedata.MustLoadGameData()
	screen, sim := newSimScreen(t)
	snap, _ := newSnapshot(t, data)

	app := NewApp(screen, data, nil)
	app.Update(snap)
	sub := &recordingSubmitter{}

	done := make(chan error, 1)
	go func() { done <- app.Run(context.Background(), sub) }()

	sim.InjectKey(tcell.KeyRune, '1', tcell.ModNone)
	sim.InjectKey(tcell.KeyRune, 'h', tcell.ModNone)
	sim.InjectKey(tcell.KeyRune, '1', tcell.ModNone)
	sim.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("app did not quit")
	}
	assert.Equal(t, []game.Command{
		game.EnterDungeon{DungeonID: "whispering_woods"},
		game.EnterDungeon{DungeonID: "whispering_woods", Heroic: true},
	}, sub.commands())
}

func TestAppShowsRejectedCommand(t *testing.T) {
	data := gamedata.MustLoadGameData()
	screen, _ := newSimScreen(t)
	app := NewApp(screen, data, nil)

	sub := &recordingSubmitter{err: game.ErrInCombat}
	quit := app.handleKey(context.Background(), tcell.NewEventKey(tcell.KeyRune, 'p', tcell.ModNone), sub)
	assert.False(t, quit)
	assert.Equal(t, game.ErrInCombat.Error(), app.state.Status)

	sub.err = game.ErrRunnerStopped
	assert.True(t, app.handleKey(context.Background(), tcell.NewEventKey(tcell.KeyRune, 'p', tcell.ModNone), sub))
}

func TestAppUpdateKeepsFloatingText(t *testing.T) {
	data := gamedata.MustLoadGameData()
	screen, _ := newSimScreen(t)
	app := NewApp(screen, data, nil)

	app.Update(game.Snapshot{Floating: []combat.FloatingText{{Text: "-5"}}})
	app.Update(game.Snapshot{Floating: []combat.FloatingText{{Text: "-7"}}})

	snap := <-app.updates
	assert.Equal(t, []combat.FloatingText{{Text: "-5"}, {Text: "-7"}}, snap.Floating)
}

func TestAppExpiresFloatingText(t *testing.T) {
	data := gamedata.MustLoadGameData()
	screen, _ := newSimScreen(t)
	app := NewApp(screen, data, nil)
	now := time.Unix(0, 0)
	app.now = func() time.Time { return now }

	app.apply(game.Snapshot{Floating: []combat.FloatingText{{Text: "-5"}}})
	app.draw()
	require.Len(t, app.floats, 1)

	now = now.Add(floatLifetime)
	app.draw()
	assert.Empty(t, app.floats)
}

package game

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/samdwyer/barquest/internal/combat"
	"github.com/samdwyer/barquest/internal/dice"
	"github.com/samdwyer/barquest/internal/entity"
	"github.com/samdwyer/barquest/internal/gamedata"
	"github.com/samdwyer/barquest/internal/loot"
	"github.com/samdwyer/barquest/internal/uuid"
)

// Errors returned by session actions. Combat precondition failures are not
// errors; they are reported through the combat log.
var (
	ErrUnknownClass    = errors.New("unknown class")
	ErrUnknownDungeon  = errors.New("unknown dungeon")
	ErrUnknownSkill    = errors.New("unknown skill")
	ErrUnknownTalent   = errors.New("unknown talent")
	ErrUnknownItem     = errors.New("unknown item")
	ErrLevelTooLow     = errors.New("level too low")
	ErrInCombat        = errors.New("not allowed during combat")
	ErrNotInCombat     = errors.New("not in combat")
	ErrNoTalentPoints  = errors.New("no talent points")
	ErrMaxRank         = errors.New("already at max rank")
	ErrWrongClass      = errors.New("belongs to another class")
	ErrMissingRequired = errors.New("prerequisite not met")
)

// Starting kit for a new hero.
const (
	startingGold    = 25
	startingPotions = 3
	maxEquipped     = 6
)

// Deps are the collaborators a session needs.
type Deps struct {
	Data   *gamedata.GameData
	Rng    dice.Roller
	IDs    uuid.Generator
	Logger *zap.Logger
}

// Session is the simulation context for one hero. Every method mutates in
// place and must be called from a single goroutine; Runner provides that.
type Session struct {
	data   *gamedata.GameData
	cfg    Config
	rng    dice.Roller
	ids    uuid.Generator
	proc   *combat.Processor
	loot   *loot.Table
	logger *zap.Logger

	view    View
	player  *entity.Player
	inv     *entity.Inventory
	quests  []*entity.ActiveQuest
	combat  *combat.State
	run     *Run
	summary *Summary

	// epoch changes whenever an encounter starts or is torn down, so a
	// delayed wave advance scheduled for an older encounter is ignored.
	epoch uint64
}

// NewSession wraps an existing hero. A nil inventory starts empty.
func NewSession(deps Deps, cfg Config, p *entity.Player, inv *entity.Inventory, quests []*entity.ActiveQuest) *Session {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if inv == nil {
		inv = entity.NewInventory()
	}
	p.EnsureMaps()
	inv.EnsureMaps()
	entity.RecalculateStats(p, inv, deps.Data)

	gen := loot.NewGenerator(deps.Data.Naming, deps.IDs, deps.Rng, logger.Named("loot"))
	s := &Session{
		data:   deps.Data,
		cfg:    cfg,
		rng:    deps.Rng,
		ids:    deps.IDs,
		proc:   combat.NewProcessor(deps.Data, deps.Rng, cfg.Combat, logger.Named("combat")),
		loot:   loot.NewTable(deps.Data, gen, deps.Rng, logger.Named("loot")),
		logger: logger,
		view:   ViewTown,
		player: p,
		inv:    inv,
		quests: quests,
		combat: combat.NewState(p, inv),
	}
	s.combat.AutoAttack = cfg.AutoAttack
	return s
}

// NewHero creates a level 1 hero of a class with the starting kit and the
// first quest of the chain.
func NewHero(deps Deps, name, classID string) (*entity.Player, *entity.Inventory, []*entity.ActiveQuest, error) {
	class := deps.Data.Classes.GetByID(classID)
	if class == nil {
		return nil, nil, nil, fmt.Errorf("%w: %s", ErrUnknownClass, classID)
	}
	p := entity.NewPlayer(deps.IDs.New(), name, class)
	inv := entity.NewInventory()
	inv.Gold = startingGold
	inv.Potions[entity.PotionHealth] = startingPotions
	inv.Potions[entity.PotionResource] = startingPotions
	entity.RecalculateStats(p, inv, deps.Data)

	var quests []*entity.ActiveQuest
	if all := deps.Data.Quests.All(); len(all) > 0 {
		quests = append(quests, &entity.ActiveQuest{QuestID: all[0].ID})
	}
	return p, inv, quests, nil
}

// View returns the current view.
func (s *Session) View() View { return s.view }

// Player returns the live hero.
func (s *Session) Player() *entity.Player { return s.player }

// Inventory returns the live inventory.
func (s *Session) Inventory() *entity.Inventory { return s.inv }

// Quests returns the active quests.
func (s *Session) Quests() []*entity.ActiveQuest { return s.quests }

// Combat returns the live encounter state.
func (s *Session) Combat() *combat.State { return s.combat }

// Run returns the active dungeon run, or nil.
func (s *Session) Run() *Run { return s.run }

// Epoch identifies the current encounter for delayed callbacks.
func (s *Session) Epoch() uint64 { return s.epoch }

// InCombat reports whether an encounter is live.
func (s *Session) InCombat() bool {
	return s.view == ViewDungeon && s.run != nil
}

func (s *Session) recalc() {
	entity.RecalculateStats(s.player, s.inv, s.data)
}

package gamedata

import (
	"errors"
	"fmt"
	"io/fs"

	"golang.org/x/sync/errgroup"
)

// GameData is the read-only reference data the simulation looks up by id.
type GameData struct {
	Classes  *Registry[ClassDef]
	Skills   *Registry[SkillDef]
	Talents  *Registry[TalentDef]
	Monsters *Registry[MonsterDef]
	Dungeons *Registry[DungeonDef]
	Items    *Registry[ItemTemplate]
	Fixed    *Registry[ItemTemplate]
	Sets     *Registry[ItemSetDef]
	Affixes  *Registry[AffixDef]
	Quests   *Registry[QuestDef]
	Factions *Registry[FactionDef]
	Naming   NamingTables
}

// LoadGameData loads the embedded data set.
func LoadGameData() (*GameData, error) {
	return LoadGameDataFrom(Embedded())
}

// LoadGameDataFrom loads every data file in fsys concurrently and validates
// cross references.
func LoadGameDataFrom(fsys fs.FS) (*GameData, error) {
	var (
		classes  []ClassDef
		skills   []SkillDef
		talents  []TalentDef
		monsters []MonsterDef
		dungeons []DungeonDef
		items    ItemsFile
		affixes  []AffixDef
		quests   QuestsFile
		naming   NamingTables
	)

	var g errgroup.Group
	g.Go(func() (err error) {
		classes, err = LoadClasses(fsys)
		return err
	})
	g.Go(func() (err error) {
		skills, err = LoadSkills(fsys)
		return err
	})
	g.Go(func() (err error) {
		talents, err = LoadTalents(fsys)
		return err
	})
	g.Go(func() (err error) {
		monsters, err = LoadMonsters(fsys)
		return err
	})
	g.Go(func() (err error) {
		dungeons, err = LoadDungeons(fsys)
		return err
	})
	g.Go(func() (err error) {
		items, err = LoadItems(fsys)
		return err
	})
	g.Go(func() (err error) {
		affixes, err = LoadAffixes(fsys)
		return err
	})
	g.Go(func() (err error) {
		quests, err = LoadQuests(fsys)
		return err
	})
	g.Go(func() (err error) {
		naming, err = LoadNaming(fsys)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(classes) == 0 {
		return nil, errors.New("no classes loaded from classes.json")
	}
	if len(monsters) == 0 {
		return nil, errors.New("no monsters loaded from monsters.json")
	}

	data := &GameData{
		Classes:  NewRegistry(classes, func(c *ClassDef) string { return c.ID }),
		Skills:   NewRegistry(skills, func(s *SkillDef) string { return s.ID }),
		Talents:  NewRegistry(talents, func(t *TalentDef) string { return t.ID }),
		Monsters: NewRegistry(monsters, func(m *MonsterDef) string { return m.ID }),
		Dungeons: NewRegistry(dungeons, func(d *DungeonDef) string { return d.ID }),
		Items:    NewRegistry(items.Templates, func(t *ItemTemplate) string { return t.ID }),
		Fixed:    NewRegistry(items.Fixed, func(t *ItemTemplate) string { return t.ID }),
		Sets:     NewRegistry(items.Sets, func(s *ItemSetDef) string { return s.ID }),
		Affixes:  NewRegistry(affixes, func(a *AffixDef) string { return a.ID }),
		Quests:   NewRegistry(quests.Quests, func(q *QuestDef) string { return q.ID }),
		Factions: NewRegistry(quests.Factions, func(f *FactionDef) string { return f.ID }),
		Naming:   naming,
	}
	if err := data.Validate(); err != nil {
		return nil, err
	}
	return data, nil
}

// MustLoadGameData loads game data, panicking on error.
// Use this for data that must be present for the game to function.
func MustLoadGameData() *GameData {
	data, err := LoadGameData()
	if err != nil {
		panic(err)
	}
	return data
}

// Validate checks that ids referenced across files resolve. All problems
// are reported together.
func (d *GameData) Validate() error {
	var errs []error
	for _, c := range d.Classes.All() {
		for _, id := range c.StartingSkills {
			if d.Skills.GetByID(id) == nil {
				errs = append(errs, fmt.Errorf("class %s: unknown starting skill %s", c.ID, id))
			}
		}
	}
	for _, t := range d.Talents.All() {
		for _, m := range t.SkillMods {
			s := d.Skills.GetByID(m.Skill)
			if s == nil {
				errs = append(errs, fmt.Errorf("talent %s: unknown skill %s", t.ID, m.Skill))
				continue
			}
			if m.EffectIndex < 0 || m.EffectIndex >= len(s.Effects) {
				errs = append(errs, fmt.Errorf("talent %s: effect index %d out of range for %s", t.ID, m.EffectIndex, m.Skill))
				continue
			}
			if s.Effects[m.EffectIndex].Property(m.Property) == nil {
				errs = append(errs, fmt.Errorf("talent %s: unknown property %q", t.ID, m.Property))
			}
		}
		for _, r := range t.Requirements() {
			if d.Talents.GetByID(r.TalentID) == nil {
				errs = append(errs, fmt.Errorf("talent %s: unknown prerequisite %s", t.ID, r.TalentID))
			}
		}
	}
	for _, dg := range d.Dungeons.All() {
		boss := d.Monsters.GetByID(dg.BossID)
		if boss == nil || !boss.IsBoss {
			errs = append(errs, fmt.Errorf("dungeon %s: boss %q is not a boss monster", dg.ID, dg.BossID))
		}
		for _, id := range dg.Monsters {
			if d.Monsters.GetByID(id) == nil {
				errs = append(errs, fmt.Errorf("dungeon %s: unknown monster %s", dg.ID, id))
			}
		}
		if len(d.DungeonPool(&dg)) == 0 {
			errs = append(errs, fmt.Errorf("dungeon %s: empty monster pool", dg.ID))
		}
	}
	for _, q := range d.Quests.All() {
		if q.Next != "" && d.Quests.GetByID(q.Next) == nil {
			errs = append(errs, fmt.Errorf("quest %s: unknown next quest %s", q.ID, q.Next))
		}
		if r := q.Rewards.Reputation; r != nil && d.Factions.GetByID(r.FactionID) == nil {
			errs = append(errs, fmt.Errorf("quest %s: unknown faction %s", q.ID, r.FactionID))
		}
	}
	for _, s := range d.Sets.All() {
		for _, id := range s.Items {
			if d.Items.GetByID(id) == nil && d.Fixed.GetByID(id) == nil {
				errs = append(errs, fmt.Errorf("set %s: unknown item %s", s.ID, id))
			}
		}
	}
	for _, f := range d.Fixed.All() {
		if !f.Rarity.IsFixed() {
			errs = append(errs, fmt.Errorf("fixed item %s: rarity %s is procedural", f.ID, f.Rarity))
		}
	}
	return errors.Join(errs...)
}

// DungeonPool returns the regular monsters that can spawn in a dungeon: the
// explicit list when present, else every non-boss monster of its tier.
func (d *GameData) DungeonPool(dg *DungeonDef) []*MonsterDef {
	if len(dg.Monsters) > 0 {
		return d.Monsters.GetMultiple(dg.Monsters)
	}
	return d.Monsters.Filter(func(m *MonsterDef) bool {
		return m.Tier == dg.Tier && !m.IsBoss
	})
}

// ClassSkills returns the skills available to a class in file order.
func (d *GameData) ClassSkills(classID string) []*SkillDef {
	return d.Skills.Filter(func(s *SkillDef) bool { return s.ClassID == classID })
}

// ClassTalents returns the talents available to a class in file order.
func (d *GameData) ClassTalents(classID string) []*TalentDef {
	return d.Talents.Filter(func(t *TalentDef) bool { return t.ClassID == classID })
}

// SetFor returns the set an item template belongs to, or nil.
func (d *GameData) SetFor(templateID string) *ItemSetDef {
	for i, s := range d.Sets.All() {
		for _, id := range s.Items {
			if id == templateID {
				return &d.Sets.All()[i]
			}
		}
	}
	return nil
}

// NextQuest returns the quest following q in its chain, or nil.
func (d *GameData) NextQuest(q *QuestDef) *QuestDef {
	if q.Next == "" {
		return nil
	}
	return d.Quests.GetByID(q.Next)
}

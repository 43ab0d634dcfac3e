package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/barquest/internal/combat"
	"github.com/samdwyer/barquest/internal/entity"
	"github.com/samdwyer/barquest/internal/formulas"
	"github.com/samdwyer/barquest/internal/game"
	"github.com/samdwyer/barquest/internal/gamedata"
	"github.com/samdwyer/barquest/internal/stats"
)

const barWidth = 20

var (
	styleText   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleDim    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleTitle  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleTarget = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleStatus = tcell.StyleDefault.Foreground(tcell.ColorOrangeRed)
)

var categoryColors = map[combat.Category]tcell.Color{
	combat.CatInfo:         tcell.ColorSilver,
	combat.CatPlayerAttack: tcell.ColorWhite,
	combat.CatCrit:         tcell.ColorOrange,
	combat.CatEnemyAttack:  tcell.ColorIndianRed,
	combat.CatHeal:         tcell.ColorLimeGreen,
	combat.CatBuff:         tcell.ColorSkyblue,
	combat.CatDebuff:       tcell.ColorMediumPurple,
	combat.CatDodge:        tcell.ColorLightGray,
	combat.CatShield:       tcell.ColorLightSteelBlue,
	combat.CatLoot:         tcell.ColorGold,
	combat.CatXP:           tcell.ColorMediumPurple,
	combat.CatQuest:        tcell.ColorYellow,
	combat.CatLevelUp:      tcell.ColorGold,
	combat.CatDeath:        tcell.ColorRed,
}

var resourceColors = map[stats.ResourceType]tcell.Color{
	stats.ResourceMana:   tcell.ColorDodgerBlue,
	stats.ResourceRage:   tcell.ColorRed,
	stats.ResourceEnergy: tcell.ColorYellow,
}

func categoryStyle(c combat.Category) tcell.Style {
	color, ok := categoryColors[c]
	if !ok {
		color = tcell.ColorWhite
	}
	return tcell.StyleDefault.Foreground(color)
}

// State is presentation state that is not part of the simulation.
type State struct {
	// Heroic selects heroic difficulty for the next dungeon entered.
	Heroic bool
	// Status is the last rejected action, shown above the key help.
	Status string
}

// Renderer draws snapshots to the screen.
type Renderer struct {
	screen *Screen
	data   *gamedata.GameData
}

// NewRenderer creates a new renderer for the given screen.
func NewRenderer(screen *Screen, data *gamedata.GameData) *Renderer {
	return &Renderer{screen: screen, data: data}
}

// Render draws one frame. floats are the popups still on screen.
func (r *Renderer) Render(snap game.Snapshot, st State, floats []combat.FloatingText) {
	r.screen.Clear()
	w, h := r.screen.Size()

	y := r.drawHero(snap, floats, w)
	y++
	switch snap.View {
	case game.ViewTown:
		y = r.drawTown(snap, st, y, w)
	case game.ViewDungeon:
		y = r.drawDungeon(snap, floats, y, w)
	case game.ViewSummary:
		y = r.drawSummary(snap, y, w)
	}

	r.drawLog(snap.Log, y+1, h-3, w)
	if st.Status != "" {
		r.screen.DrawText(0, h-2, w, st.Status, styleStatus)
	}
	r.screen.DrawText(0, h-1, w, helpLine(snap.View), styleDim)
	r.screen.Show()
}

func (r *Renderer) drawHero(snap game.Snapshot, floats []combat.FloatingText, w int) int {
	p := snap.Player
	if p == nil {
		return 0
	}
	className := p.ClassID
	color := tcell.ColorWhite
	if c := r.data.Classes.GetByID(p.ClassID); c != nil {
		className = c.Name
		color = c.TCellColor()
	}
	gold := 0
	if snap.Inventory != nil {
		gold = snap.Inventory.Gold
	}

	header := fmt.Sprintf("%s  Lv %d %s", p.Name, p.Level, className)
	x := r.screen.DrawText(0, 0, w, header, tcell.StyleDefault.Foreground(color).Bold(true))
	info := fmt.Sprintf("   XP %d/%d   Gold %d   Talent points %d",
		p.XP, formulas.XPToNextLevel(p.Level), gold, p.TalentPoints)
	r.screen.DrawText(x, 0, w-x, info, styleText)

	x = r.drawBar(0, 1, "HP", p.GetHP(), p.MaxHP, tcell.ColorGreen)
	res := p.Resource
	x += r.drawBar(x+2, 1, string(res.Type), res.Current, res.Max, resourceColors[res.Type]) + 2
	if p.Shield > 0 {
		x += r.screen.DrawText(x+2, 1, w-x-2, fmt.Sprintf("Shield %.0f", p.Shield), categoryStyle(combat.CatShield)) + 2
	}
	r.drawFloats(x+2, 1, w, p.ID, floats)

	if buffs := modifierNames(p.Buffs); buffs != "" {
		r.screen.DrawText(0, 2, w, "Buffs: "+buffs, categoryStyle(combat.CatBuff))
		return 3
	}
	return 2
}

// drawBar draws "LABEL [####----] cur/max" and returns its width.
func (r *Renderer) drawBar(x, y int, label string, cur, maxV float64, color tcell.Color) int {
	filled := 0
	if maxV > 0 {
		filled = int(math.Round(barWidth * math.Max(0, math.Min(cur, maxV)) / maxV))
	}
	col := x
	col += r.screen.DrawText(col, y, len(label)+1, label+" ", styleText)
	r.screen.SetContent(col, y, '[', styleDim)
	col++
	on := tcell.StyleDefault.Foreground(color)
	for i := range barWidth {
		if i < filled {
			r.screen.SetContent(col+i, y, '█', on)
		} else {
			r.screen.SetContent(col+i, y, '·', styleDim)
		}
	}
	col += barWidth
	r.screen.SetContent(col, y, ']', styleDim)
	col++
	text := fmt.Sprintf(" %.0f/%.0f", math.Max(0, cur), maxV)
	col += r.screen.DrawText(col, y, len(text), text, styleText)
	return col - x
}

func (r *Renderer) drawFloats(x, y, w int, entityID string, floats []combat.FloatingText) {
	for _, f := range floats {
		if f.EntityID != entityID || x >= w {
			continue
		}
		x += r.screen.DrawText(x, y, w-x, f.Text, categoryStyle(f.Category)) + 1
	}
}

func (r *Renderer) drawTown(snap game.Snapshot, st State, y, w int) int {
	mode := "Normal"
	if st.Heroic {
		mode = "Heroic"
	}
	r.screen.DrawText(0, y, w, "Dungeons ("+mode+")", styleTitle)
	y++
	level := 0
	if snap.Player != nil {
		level = snap.Player.Level
	}
	for i, dg := range r.data.Dungeons.All() {
		if i >= 9 {
			break
		}
		style := styleText
		if level < dg.LevelReq {
			style = styleDim
		}
		line := fmt.Sprintf(" %d  %s  (tier %d, level %d)", i+1, dg.Name, dg.Tier, max(1, dg.LevelReq))
		if snap.Player != nil {
			if n := snap.Player.CompletedDungeons[dg.ID]; n > 0 {
				line += fmt.Sprintf("  cleared %d×", n)
			}
		}
		r.screen.DrawText(0, y, w, line, style)
		y++
	}

	y++
	r.screen.DrawText(0, y, w, "Quests", styleTitle)
	y++
	for _, aq := range snap.Quests {
		def := r.data.Quests.GetByID(aq.QuestID)
		if def == nil {
			continue
		}
		line := fmt.Sprintf(" %s  %d/%d", def.Name, aq.Progress, def.Requirements.Target())
		r.screen.DrawText(0, y, w, line, styleText)
		y++
	}

	if inv := snap.Inventory; inv != nil {
		y++
		line := fmt.Sprintf("Potions: %d health, %d resource   Bag: %d items",
			inv.Potions[entity.PotionHealth], inv.Potions[entity.PotionResource], len(inv.Items))
		r.screen.DrawText(0, y, w, line, styleText)
		y++
		for _, slot := range sortedSlots(inv) {
			it := inv.Equipment[slot]
			r.screen.DrawText(1, y, w-1, fmt.Sprintf("%-9s %s", slot, it.Name), tcell.StyleDefault.Foreground(it.Rarity.Color()))
			y++
		}
	}
	return y
}

func (r *Renderer) drawDungeon(snap game.Snapshot, floats []combat.FloatingText, y, w int) int {
	if run := snap.Run; run != nil {
		title := run.DungeonName
		if run.Heroic {
			title += " (Heroic)"
		}
		title += fmt.Sprintf("   wave %d   kills %d/%d", run.Wave, run.Kills, run.Quota)
		if run.BossSpawned {
			title += "   BOSS"
		}
		if run.Phase != game.PhaseFighting {
			title += "   " + run.Phase.String()
		}
		r.screen.DrawText(0, y, w, title, styleTitle)
		y++
	}

	for i, e := range snap.Enemies {
		marker := "  "
		nameStyle := tcell.StyleDefault.Foreground(e.Color())
		if i == snap.Target {
			marker = "> "
			nameStyle = styleTarget
		}
		if !e.IsAlive() {
			nameStyle = styleDim
		}
		name := fmt.Sprintf("%s%s Lv %d", marker, e.Name, e.Level)
		if e.IsBoss {
			name += " [boss]"
		}
		x := r.screen.DrawText(0, y, 28, name, nameStyle)
		x = max(x, 28)
		x += r.drawBar(x, y, "HP", e.GetHP(), e.GetMaxHP(), tcell.ColorRed) + 1
		if e.IsStunned() {
			x += r.screen.DrawText(x, y, w-x, "stunned", categoryStyle(combat.CatDebuff)) + 1
		}
		if d := modifierNames(e.Debuffs); d != "" {
			x += r.screen.DrawText(x, y, w-x, d, categoryStyle(combat.CatDebuff)) + 1
		}
		r.drawFloats(x+1, y, w, e.ID, floats)
		y++
	}

	y++
	auto := "off"
	if snap.AutoAttack {
		auto = "on"
	}
	status := "Auto-attack " + auto
	if snap.Stealthed {
		status += "   Stealthed"
	}
	r.screen.DrawText(0, y, w, status, styleDim)
	y++
	return r.drawHotbar(snap, y, w)
}

func (r *Renderer) drawHotbar(snap game.Snapshot, y, w int) int {
	if snap.Player == nil {
		return y
	}
	x := 0
	for i, id := range snap.Player.EquippedSkills {
		name := id
		if def := r.data.Skills.GetByID(id); def != nil {
			name = def.Name
		}
		label := fmt.Sprintf("%d %s", i+1, name)
		style := styleText
		if cd := snap.Cooldowns[id]; cd > 0 {
			label += fmt.Sprintf(" %.1fs", cd.Round(100*time.Millisecond).Seconds())
			style = styleDim
		}
		if x+len(label) > w && x > 0 {
			y++
			x = 0
		}
		x += r.screen.DrawText(x, y, w-x, label, style) + 3
	}
	return y + 1
}

func (r *Renderer) drawSummary(snap game.Snapshot, y, w int) int {
	sum := snap.Summary
	if sum == nil {
		return y
	}
	title := sum.DungeonName
	if sum.Heroic {
		title += " (Heroic)"
	}
	r.screen.DrawText(0, y, w, fmt.Sprintf("%s: %s", title, sum.Outcome), styleTitle)
	y++
	lines := []string{
		fmt.Sprintf("Kills %d", sum.Kills),
		fmt.Sprintf("Gold +%d", sum.Gold),
		fmt.Sprintf("XP +%d", sum.XP),
	}
	if sum.GoldLost > 0 {
		lines = append(lines, fmt.Sprintf("Gold lost %d", sum.GoldLost))
	}
	for _, l := range lines {
		r.screen.DrawText(1, y, w-1, l, styleText)
		y++
	}
	for _, it := range sum.Drops {
		r.screen.DrawText(1, y, w-1, fmt.Sprintf("%s (%s %s)", it.Name, it.Rarity, it.Slot), tcell.StyleDefault.Foreground(it.Rarity.Color()))
		y++
	}
	return y
}

// drawLog fills rows [top, bottom) with the newest log entries.
func (r *Renderer) drawLog(entries []combat.Entry, top, bottom, w int) {
	rows := bottom - top
	if rows <= 0 || len(entries) == 0 {
		return
	}
	start := max(0, len(entries)-rows)
	for i, e := range entries[start:] {
		r.screen.DrawText(0, top+i, w, e.Message, categoryStyle(e.Category))
	}
}

func helpLine(v game.View) string {
	switch v {
	case game.ViewDungeon:
		return "1-9 skills  tab target  a auto-attack  p/m potions  f flee  q quit"
	case game.ViewSummary:
		return "enter continue  q quit"
	default:
		return "1-9 enter dungeon  h heroic  p/m potions  q quit"
	}
}

func modifierNames(mods []stats.TimedModifier) string {
	names := make([]string, 0, len(mods))
	for _, m := range mods {
		n := m.Name
		if n == "" {
			n = m.ID
		}
		if m.Stacks > 1 {
			n += fmt.Sprintf("×%d", m.Stacks)
		}
		names = append(names, n)
	}
	return strings.Join(names, ", ")
}

var slotOrder = []gamedata.Slot{
	gamedata.SlotWeapon, gamedata.SlotOffhand, gamedata.SlotHead, gamedata.SlotShoulders, gamedata.SlotChest,
	gamedata.SlotHands, gamedata.SlotLegs, gamedata.SlotFeet, gamedata.SlotBelt,
	gamedata.SlotNeck, gamedata.SlotRing, gamedata.SlotRing2, gamedata.SlotTrinket,
}

func sortedSlots(inv *entity.Inventory) []gamedata.Slot {
	var out []gamedata.Slot
	for _, s := range slotOrder {
		if inv.Equipment[s] != nil {
			out = append(out, s)
		}
	}
	return out
}

package spell_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/mudtrix/internal/game/dice"
	"github.com/cory-johannsen/mudtrix/internal/game/npc"
	"github.com/cory-johannsen/mudtrix/internal/game/session"
	"github.com/cory-johannsen/mudtrix/internal/game/spell"
	"github.com/cory-johannsen/mudtrix/internal/game/world"
)

type bench struct {
	players  *session.Manager
	monsters *npc.Manager
	engine   *npc.Engine
	caster   *spell.Caster
	book     *spell.Book
}

func newBench(t *testing.T, src dice.Source) *bench {
	t.Helper()
	zone := &world.Zone{
		ID: "castle", Name: "Castle", StartRoom: "hall",
		Rooms: map[string]*world.Room{
			"hall":   {ID: "hall", ZoneID: "castle", Title: "Great Hall"},
			"forest": {ID: "forest", ZoneID: "castle", Title: "Forbidden Forest"},
		},
	}
	wm, err := world.NewManager([]*world.Zone{zone})
	require.NoError(t, err)

	logger := zap.NewNop()
	roller := dice.NewRoller(src, logger)
	b := &bench{
		players:  session.NewManager(),
		monsters: npc.NewManager(),
		book:     spell.DefaultBook(),
	}
	b.engine = npc.NewEngine(npc.Deps{
		Monsters:  b.monsters,
		Topology:  wm,
		Roster:    b.players,
		Messenger: b.players,
		Roller:    roller,
		Logger:    logger,
		Clock:     func() time.Time { return time.Unix(0, 0) },
	})
	b.caster = spell.NewCaster(b.players, b.players, b.monsters, b.engine, roller, spell.DefaultWand(), logger)
	return b
}

func (b *bench) wizard(t *testing.T, uid, name, room string, wand bool) *session.Player {
	t.Helper()
	stats := session.NewStats("Ravenclaw")
	stats.HasWand = wand
	p, err := b.players.AddPlayer(uid, name, 0, room, false, stats)
	require.NoError(t, err)
	return p
}

func (b *bench) monster(t *testing.T, id, room string) *npc.Monster {
	t.Helper()
	templates, err := npc.TemplateMap(npc.Builtin())
	require.NoError(t, err)
	m, err := b.engine.Spawn(templates[id], room)
	require.NoError(t, err)
	b.engine.Activate(m.ID)
	return m
}

func (b *bench) spell(t *testing.T, input string) *spell.Spell {
	t.Helper()
	sp, ok := b.book.Lookup(input)
	require.True(t, ok, input)
	return sp
}

func drain(p *session.Player) []string {
	var out []string
	for {
		select {
		case l := <-p.Outbox.Lines():
			out = append(out, l)
		default:
			return out
		}
	}
}

func TestAvis_SucceedsUnderEffectiveChance(t *testing.T) {
	b := newBench(t, dice.FixedSource{Float: 0.5})
	harry := b.wizard(t, "u1", "Harry", "hall", true)
	ron := b.wizard(t, "u2", "Ron", "hall", true)
	avis := b.spell(t, "avis")

	assert.InDelta(t, 0.6, avis.Chance(spell.DefaultWand()), 1e-9)

	out, err := b.caster.Cast("u1", "hall", avis)
	require.NoError(t, err)
	assert.Equal(t, spell.Cast, out)
	assert.Equal(t, []string{"A flock of birds emerge from your wand. They fly away noisily into nowhere..."}, drain(harry))
	assert.Equal(t, []string{"A heavy cluttering noise distracts you. You see a flock of birds emerging from {cHarry{n's wand. They fly away into nowhere..."}, drain(ron))
	assert.Equal(t, spell.SuccessScore, harry.Stats().Score)
}

func TestCast_FailureIsPractice(t *testing.T) {
	b := newBench(t, dice.FixedSource{Float: 0.95})
	harry := b.wizard(t, "u1", "Harry", "hall", true)
	ron := b.wizard(t, "u2", "Ron", "hall", true)

	out, err := b.caster.Cast("u1", "hall", b.spell(t, "avis"))
	require.NoError(t, err)
	assert.Equal(t, spell.Fizzled, out)
	assert.Equal(t, []string{"You said your spell but nothing happens! Don't worry, say it again with all your heart."}, drain(harry))
	assert.Empty(t, drain(ron))
	assert.Equal(t, spell.FailScore, harry.Stats().Score)
}

func TestCast_NeedsWand(t *testing.T) {
	b := newBench(t, dice.FixedSource{Float: 0})
	harry := b.wizard(t, "u1", "Harry", "hall", false)

	out, err := b.caster.Cast("u1", "hall", b.spell(t, "avis"))
	assert.ErrorIs(t, err, spell.ErrNoWand)
	assert.Equal(t, spell.Fizzled, out)
	assert.Equal(t, []string{spell.NoWandText}, drain(harry))
	assert.Zero(t, harry.Stats().Score)
}

func TestCast_UnknownPlayer(t *testing.T) {
	b := newBench(t, dice.FixedSource{Float: 0})
	_, err := b.caster.Cast("ghost", "hall", b.spell(t, "avis"))
	assert.ErrorIs(t, err, session.ErrPlayerNotFound)
}

func TestArania_HitsSpider(t *testing.T) {
	b := newBench(t, dice.FixedSource{Float: 0.1})
	b.wizard(t, "u1", "Harry", "forest", true)
	spider := b.monster(t, "spider", "forest")

	out, err := b.caster.Cast("u1", "forest", b.spell(t, "Arania Exumai"))
	require.NoError(t, err)
	assert.Equal(t, spell.Hit, out)
	assert.Equal(t, 10.0, spider.Health())
	assert.Equal(t, npc.ModeBattle, spider.Mode())
	assert.Equal(t, "u1", spider.LastAttacker())
}

func TestArania_KillAwardsBonus(t *testing.T) {
	b := newBench(t, dice.FixedSource{Float: 0.1})
	harry := b.wizard(t, "u1", "Harry", "forest", true)
	spider := b.monster(t, "spider", "forest")
	arania := b.spell(t, "arania")

	_, err := b.caster.Cast("u1", "forest", arania)
	require.NoError(t, err)
	out, err := b.caster.Cast("u1", "forest", arania)
	require.NoError(t, err)

	assert.Equal(t, spell.Killed, out)
	assert.Equal(t, npc.ModeDead, spider.Mode())
	assert.Equal(t, 2*spell.SuccessScore+spell.KillBonus, harry.Stats().Score)

	// The spider is gone; casting again finds nothing to hit.
	out, err = b.caster.Cast("u1", "forest", arania)
	require.NoError(t, err)
	assert.Equal(t, spell.Cast, out)
}

func TestCast_MissingTargetIsSilent(t *testing.T) {
	b := newBench(t, dice.FixedSource{Float: 0.1})
	harry := b.wizard(t, "u1", "Harry", "hall", true)
	b.monster(t, "spider", "forest")

	out, err := b.caster.Cast("u1", "hall", b.spell(t, "expecto patronum"))
	require.NoError(t, err)
	assert.Equal(t, spell.Cast, out)
	assert.Len(t, drain(harry), 1)
}

func TestCast_WrongSpellLeavesOtherMonsters(t *testing.T) {
	b := newBench(t, dice.FixedSource{Float: 0.1})
	b.wizard(t, "u1", "Harry", "forest", true)
	spider := b.monster(t, "spider", "forest")

	_, err := b.caster.Cast("u1", "forest", b.spell(t, "incendio"))
	require.NoError(t, err)
	assert.Equal(t, spider.FullHealth(), spider.Health())
}

func TestCast_SuccessMatchesChance(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		draw := rapid.Float64Range(0, 0.999).Draw(rt, "draw")
		b := newBench(t, dice.FixedSource{Float: draw})
		b.wizard(t, "u1", "Harry", "hall", true)
		sp := b.book.Spells()[rapid.IntRange(0, len(b.book.Spells())-1).Draw(rt, "spell")]

		out, err := b.caster.Cast("u1", "hall", sp)
		if err != nil {
			rt.Fatal(err)
		}
		want := draw <= sp.Chance(spell.DefaultWand())
		if (out != spell.Fizzled) != want {
			rt.Fatalf("draw %v chance %v outcome %v", draw, sp.Chance(spell.DefaultWand()), out)
		}
	})
}

func TestBook_Lookup(t *testing.T) {
	b := spell.DefaultBook()

	for input, want := range map[string]string{
		"avis":                   "avis",
		"Avis":                   "avis",
		"arania":                 "arania",
		"Arania Exumai":          "arania",
		"expecto patronum now":   "expecto",
		"  lumos   maxima ":      "lumos",
		"riddikulus the boggart": "riddikulus",
	} {
		sp, ok := b.Lookup(input)
		require.True(t, ok, input)
		assert.Equal(t, want, sp.Name, input)
	}
	_, ok := b.Lookup("wingardium leviosa")
	assert.False(t, ok)
	_, ok = b.Lookup("")
	assert.False(t, ok)
}

func TestNewBook_Rejects(t *testing.T) {
	_, err := spell.NewBook([]spell.Spell{{Name: "a", Multiplier: 1}, {Name: "b", Incantations: []string{"a"}, Multiplier: 1}})
	assert.Error(t, err)
	_, err = spell.NewBook([]spell.Spell{{Name: "a"}})
	assert.Error(t, err)
	_, err = spell.NewBook([]spell.Spell{{Name: "a", Multiplier: 1, Damage: -1}})
	assert.Error(t, err)
}

func TestBuiltinTargetsExist(t *testing.T) {
	templates, err := npc.TemplateMap(npc.Builtin())
	require.NoError(t, err)
	for _, sp := range spell.DefaultBook().Spells() {
		if sp.Target != "" {
			assert.Contains(t, templates, sp.Target, sp.Name)
		}
	}
}

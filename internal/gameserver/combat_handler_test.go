package gameserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/mudtrix/internal/game/dice"
	"github.com/cory-johannsen/mudtrix/internal/game/npc"
	"github.com/cory-johannsen/mudtrix/internal/game/spell"
)

func TestCast_WithoutWand(t *testing.T) {
	h := newHarness(t, dice.FixedSource{Float: 0})
	p := h.join(t, "u1", "Harry")
	drain(p)

	h.svc.Dispatch("u1", "avis")
	assert.Equal(t, []string{spell.NoWandText}, drain(p))
	assert.Equal(t, 0, p.Stats().Score)
}

func TestCast_IncantationKillsSpider(t *testing.T) {
	h := newHarness(t, dice.FixedSource{Float: 0})
	p := h.join(t, "u1", "Harry")
	h.place(t, p, "hall")
	h.giveWand(t, p)
	spider := h.spawn(t, "spider", "hall")

	h.svc.Dispatch("u1", "arania exumai")
	assert.Equal(t, npc.ModeBattle, spider.Mode())
	assert.Equal(t, 10.0, spider.Health())
	drain(p)

	h.svc.Dispatch("u1", "Arania Exumai")
	assert.Equal(t, npc.ModeDead, spider.Mode())

	out := joined(drain(p))
	assert.Contains(t, out, "After your last hit, Giant Spider fold in on itself.")
	assert.Contains(t, out, "Harry has vanquished "+spider.ID)

	st := p.Stats()
	assert.Equal(t, 2*spell.SuccessScore+spell.KillBonus, st.Score)
	assert.Equal(t, 1, st.Kills["spiders"])
	assert.Equal(t, 77, st.Will, "on_monster_defeated sets will through engine.player.set")
}

func TestCast_FizzleIsPractice(t *testing.T) {
	h := newHarness(t, dice.FixedSource{Float: 0.99})
	p := h.join(t, "u1", "Harry")
	h.giveWand(t, p)
	drain(p)

	h.svc.Dispatch("u1", "avis")
	out := drain(p)
	require.Len(t, out, 1)
	assert.Contains(t, out[0], "nothing happens")
	assert.Equal(t, spell.FailScore, p.Stats().Score)
}

func TestHit_MagicMonsterShrugsOffFists(t *testing.T) {
	h := newHarness(t, dice.FixedSource{Float: 0})
	p := h.join(t, "u1", "Harry")
	h.place(t, p, "hall")
	spider := h.spawn(t, "spider", "hall")

	h.svc.Dispatch("u1", "hit spider")
	out := joined(drain(p))
	assert.Contains(t, out, "You swing your fists at Giant Spider.")
	assert.Contains(t, out, "Your weapon just passes through your enemy, causing no effect!")
	assert.Equal(t, spider.FullHealth(), spider.Health())
	assert.Equal(t, "u1", spider.LastAttacker())
}

func TestHit_NothingThere(t *testing.T) {
	h := newHarness(t, dice.FixedSource{})
	p := h.join(t, "u1", "Harry")
	drain(p)

	h.svc.Dispatch("u1", "attack")
	h.svc.Dispatch("u1", "kill troll")
	assert.Equal(t, []string{"Hit what?", "You don't see 'troll' here."}, drain(p))
}

func TestGetWand_OnlyFromRack(t *testing.T) {
	h := newHarness(t, dice.FixedSource{})
	p := h.join(t, "u1", "Harry")
	drain(p)

	h.svc.Dispatch("u1", "get wand")
	assert.Equal(t, []string{"There is no wand here to take."}, drain(p))
	assert.False(t, p.Stats().HasWand)

	h.place(t, p, "armory")
	h.svc.Dispatch("u1", "take wand")
	assert.True(t, p.Stats().HasWand)
	h.svc.Dispatch("u1", "get")
	h.svc.Dispatch("u1", "get broom")
	assert.Equal(t, []string{
		"You take a wand from the rack. It hums faintly in your hand.",
		"You already carry a wand.",
		"You can't take 'broom'.",
	}, drain(p))
}

func TestDropWand(t *testing.T) {
	h := newHarness(t, dice.FixedSource{})
	p := h.join(t, "u1", "Harry")
	h.giveWand(t, p)
	drain(p)

	h.svc.Dispatch("u1", "drop wand")
	assert.False(t, p.Stats().HasWand)
	h.svc.Dispatch("u1", "drop wand")
	assert.Equal(t, []string{
		"The wand suddenly and magically fades into nothingness, as if it was never there ...",
		"You don't carry a wand.",
	}, drain(p))
}

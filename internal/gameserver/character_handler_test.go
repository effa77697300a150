package gameserver

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/mudtrix/internal/game/dice"
	"github.com/cory-johannsen/mudtrix/internal/game/session"
)

func TestScore_Show(t *testing.T) {
	h := newHarness(t, dice.FixedSource{})
	p := h.join(t, "u1", "Harry")
	h.join(t, "u2", "Ron")
	_, err := h.sessions.Update("u2", func(s *session.Stats) { s.Score = 12 })
	require.NoError(t, err)
	drain(p)

	h.svc.Dispatch("u1", "score ron")
	assert.Equal(t, []string{"The current score of Ron is 12"}, drain(p))
}

func TestScore_Usage(t *testing.T) {
	h := newHarness(t, dice.FixedSource{})
	p := h.join(t, "u1", "Harry")
	drain(p)

	h.svc.Dispatch("u1", "score")
	h.svc.Dispatch("u1", "score = 5")
	assert.Equal(t, []string{ScoreUsage, ScoreUsage}, drain(p))
}

func TestScore_UnknownPlayer(t *testing.T) {
	h := newHarness(t, dice.FixedSource{})
	p := h.join(t, "u1", "Harry")
	drain(p)

	h.svc.Dispatch("u1", "score Voldemort")
	assert.Equal(t, []string{"Could not find 'Voldemort'."}, drain(p))
}

func TestScore_OnlyBuildersChangeScores(t *testing.T) {
	h := newHarness(t, dice.FixedSource{})
	p := h.join(t, "u1", "Harry")
	h.join(t, "u2", "Ron")
	drain(p)

	h.svc.Dispatch("u1", "score Ron = 99")
	assert.Equal(t, []string{"You are not allowed to change scores."}, drain(p))
	ron, _ := h.sessions.GetPlayer("u2")
	assert.Equal(t, 0, ron.Stats().Score)
}

func TestScore_BuilderSetsAndAdds(t *testing.T) {
	h := newHarness(t, dice.FixedSource{})
	b := h.joinAs(t, JoinRequest{UID: "b1", Name: "Filch", Builder: true})
	ron := h.join(t, "u2", "Ron")
	drain(b)

	h.svc.Dispatch("b1", "score Ron = 40")
	assert.Equal(t, []string{"Set score of Ron to 40"}, drain(b))
	assert.Equal(t, 40, ron.Stats().Score)

	h.svc.Dispatch("b1", "score Ron + 5")
	assert.Equal(t, []string{"Added 5 to current score of Ron."}, drain(b))
	assert.Equal(t, 45, ron.Stats().Score)

	h.svc.Dispatch("b1", "score Ron + lots")
	assert.Equal(t, []string{ScoreNotInteger}, drain(b))
	assert.Equal(t, 45, ron.Stats().Score)
}

func TestScore_AddAccumulates(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		h := newHarness(t, dice.FixedSource{})
		h.joinAs(t, JoinRequest{UID: "b1", Name: "Filch", Builder: true})
		ron := h.join(t, "u2", "Ron")
		adds := rapid.SliceOfN(rapid.IntRange(0, 500), 1, 8).Draw(rt, "adds")
		want := 0
		for _, n := range adds {
			h.svc.Dispatch("b1", "score ron + "+strconv.Itoa(n))
			want += n
		}
		if got := ron.Stats().Score; got != want {
			rt.Fatalf("score = %d, want %d", got, want)
		}
	})
}

func TestHouse(t *testing.T) {
	h := newHarness(t, dice.FixedSource{Int: 3})
	p := h.join(t, "u1", "Harry")
	h.join(t, "u2", "Draco")
	drain(p)

	h.svc.Dispatch("u1", "house")
	h.svc.Dispatch("u1", "house dra")
	h.svc.Dispatch("u1", "house Peeves")
	assert.Equal(t, []string{
		"{cHarry{n's house is {ySlytherin{n.",
		"{cDraco{n's house is {ySlytherin{n.",
		"Could not find 'Peeves'.",
	}, drain(p))
}

func TestStatus(t *testing.T) {
	h := newHarness(t, dice.FixedSource{})
	p := h.join(t, "u1", "Harry")
	_, err := h.sessions.Update("u1", func(s *session.Stats) { s.Score = 7 })
	require.NoError(t, err)
	drain(p)

	h.svc.Dispatch("u1", "status")
	assert.Equal(t, []string{
		"{gYour Status:\n\n{wHealth : {y30{n\n{wWill   : {y100{n\n{wScore  : {y7{n",
	}, drain(p))
}

func TestStatus_SkipsZeroAttributes(t *testing.T) {
	h := newHarness(t, dice.FixedSource{})
	p := h.join(t, "u1", "Harry")
	_, err := h.sessions.Update("u1", func(s *session.Stats) { s.Will = 0 })
	require.NoError(t, err)
	drain(p)

	h.svc.Dispatch("u1", "stat")
	out := joined(drain(p))
	assert.Contains(t, out, "Health : {y30")
	assert.NotContains(t, out, "Will")
	assert.NotContains(t, out, "Score")
}

func TestStatus_NoAttributes(t *testing.T) {
	h := newHarness(t, dice.FixedSource{})
	p := h.join(t, "u1", "Harry")
	_, err := h.sessions.Update("u1", func(s *session.Stats) {
		s.Health, s.Will, s.Score = 0, 0, 0
	})
	require.NoError(t, err)
	drain(p)

	h.svc.Dispatch("u1", "status")
	assert.Equal(t, []string{NoStatusText}, drain(p))
}

func TestRemind(t *testing.T) {
	h := newHarness(t, dice.FixedSource{})
	p := h.join(t, "u1", "Harry")
	drain(p)

	h.svc.Dispatch("u1", "remind")
	h.svc.Dispatch("u1", "remind 2")
	h.svc.Dispatch("u1", "remind 9")
	h.svc.Dispatch("u1", "remind two")
	assert.Equal(t, []string{
		RemindUsage,
		"{cPuzzle(2){n\n" + Puzzles[1],
		RemindInvalid,
		RemindInvalid,
	}, drain(p))
}

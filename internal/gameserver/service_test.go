package gameserver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/mudtrix/internal/game/attr"
	"github.com/cory-johannsen/mudtrix/internal/game/dice"
	"github.com/cory-johannsen/mudtrix/internal/game/session"
)

func TestJoin_IntroRoomGrantsHealthAndHouse(t *testing.T) {
	h := newHarness(t, dice.FixedSource{Float: 0.5, Int: 2})
	p := h.join(t, "u1", "Harry")

	assert.Equal(t, "intro", p.RoomID())
	st := p.Stats()
	assert.Equal(t, 30, st.Health)
	assert.Equal(t, 30, st.HealthMax)
	assert.Equal(t, session.Houses[2], st.House)

	out := joined(drain(p))
	assert.Contains(t, out, "{cEntrance{n")
	assert.NotContains(t, out, "SUPERUSER")
}

func TestJoin_KeepsExistingHouse(t *testing.T) {
	h := newHarness(t, dice.FixedSource{Int: 0})
	ctx := context.Background()
	saved := session.NewStats("Ravenclaw")
	require.NoError(t, session.SaveStats(ctx, h.store, "u1", saved))

	p := h.join(t, "u1", "Luna")
	assert.Equal(t, "Ravenclaw", p.Stats().House)
}

func TestJoin_SuperuserSeesWarning(t *testing.T) {
	h := newHarness(t, dice.FixedSource{})
	p := h.joinAs(t, JoinRequest{UID: "u1", Name: "Dumbledore", Superuser: true})

	out := joined(drain(p))
	assert.Contains(t, out, "WARNING: YOU ARE PLAYING AS A SUPERUSER (Dumbledore).")
	assert.Contains(t, out, "{r-----")
}

func TestJoin_ResumesSavedLocation(t *testing.T) {
	h := newHarness(t, dice.FixedSource{})
	ctx := context.Background()
	saved := session.NewStats("Hufflepuff")
	saved.Score = 42
	require.NoError(t, session.SaveStats(ctx, h.store, "u1", saved))
	require.NoError(t, h.store.Set(ctx, "u1", AttrLocation, "hall"))

	p := h.join(t, "u1", "Cedric")
	assert.Equal(t, "hall", p.RoomID())
	assert.Equal(t, 42, p.Stats().Score)
	assert.Equal(t, session.DefaultHealthMax, p.Stats().Health)
}

func TestJoin_UnknownSavedLocationFallsBackToStart(t *testing.T) {
	h := newHarness(t, dice.FixedSource{})
	require.NoError(t, h.store.Set(context.Background(), "u1", AttrLocation, "demolished"))

	p := h.join(t, "u1", "Neville")
	assert.Equal(t, "intro", p.RoomID())
}

func TestJoin_Twice(t *testing.T) {
	h := newHarness(t, dice.FixedSource{})
	h.join(t, "u1", "Harry")
	_, err := h.svc.Join(context.Background(), JoinRequest{UID: "u1", Name: "Harry"})
	assert.Error(t, err)
}

func TestLeave_SavesStatsAndLocation(t *testing.T) {
	h := newHarness(t, dice.FixedSource{})
	ctx := context.Background()
	p := h.join(t, "u1", "Harry")
	watcher := h.join(t, "u2", "Ron")
	h.place(t, p, "hall")
	h.place(t, watcher, "hall")
	_, err := h.sessions.Update(p.UID, func(s *session.Stats) { s.Score = 17 })
	require.NoError(t, err)

	require.NoError(t, h.svc.Leave(ctx, "u1"))

	_, ok := h.sessions.GetPlayer("u1")
	assert.False(t, ok)
	score, err := attr.GetInt(ctx, h.store, "u1", session.AttrScore, 0)
	require.NoError(t, err)
	assert.Equal(t, 17, score)
	loc, err := h.store.Get(ctx, "u1", AttrLocation)
	require.NoError(t, err)
	assert.Equal(t, "hall", loc)
	assert.Contains(t, joined(drain(watcher)), "Harry has left the game.")
}

func TestLeave_UnknownPlayer(t *testing.T) {
	h := newHarness(t, dice.FixedSource{})
	err := h.svc.Leave(context.Background(), "ghost")
	assert.ErrorIs(t, err, session.ErrPlayerNotFound)
}

func TestDispatch_MoveShowsRoomAndTellsOthers(t *testing.T) {
	h := newHarness(t, dice.FixedSource{})
	p := h.join(t, "u1", "Harry")
	ron := h.join(t, "u2", "Ron")
	h.place(t, ron, "hall")
	drain(p)

	assert.False(t, h.svc.Dispatch("u1", "n"))

	assert.Equal(t, "hall", p.RoomID())
	out := joined(drain(p))
	assert.Contains(t, out, "{cGreat Hall{n")
	assert.Contains(t, out, "{wAlso here:{n Ron")
	assert.NotContains(t, out, "west", "hidden exits stay hidden")
	assert.Contains(t, joined(drain(ron)), "Harry arrives.")
}

func TestDispatch_MoveBlocked(t *testing.T) {
	h := newHarness(t, dice.FixedSource{})
	p := h.join(t, "u1", "Harry")
	drain(p)

	h.svc.Dispatch("u1", "east")
	assert.Equal(t, "intro", p.RoomID())
	assert.Equal(t, []string{"You can't go that way."}, drain(p))
}

func TestDispatch_LookListsMonsters(t *testing.T) {
	h := newHarness(t, dice.FixedSource{})
	p := h.join(t, "u1", "Harry")
	h.place(t, p, "hall")
	h.spawn(t, "spider", "hall")

	h.svc.Dispatch("u1", "look")
	assert.Contains(t, joined(drain(p)), "{wYou see:{n {rGiant Spider{n")
}

func TestDispatch_Exits(t *testing.T) {
	h := newHarness(t, dice.FixedSource{})
	p := h.join(t, "u1", "Harry")
	h.place(t, p, "hall")

	h.svc.Dispatch("u1", "exits")
	out := joined(drain(p))
	assert.Contains(t, out, "Wand Room")
	assert.Contains(t, out, "Castle Gate")
	assert.NotContains(t, out, "Secret Passage")
}

func TestDispatch_UnknownCommand(t *testing.T) {
	h := newHarness(t, dice.FixedSource{})
	p := h.join(t, "u1", "Harry")
	drain(p)

	assert.False(t, h.svc.Dispatch("u1", "dance wildly"))
	assert.Equal(t, []string{`Unknown command: "dance". Type 'help' for a list of commands.`}, drain(p))
}

func TestDispatch_EmptyLineIsIgnored(t *testing.T) {
	h := newHarness(t, dice.FixedSource{})
	p := h.join(t, "u1", "Harry")
	drain(p)

	assert.False(t, h.svc.Dispatch("u1", "   "))
	assert.Empty(t, drain(p))
}

func TestDispatch_Quit(t *testing.T) {
	h := newHarness(t, dice.FixedSource{})
	h.join(t, "u1", "Harry")
	assert.True(t, h.svc.Dispatch("u1", "quit"))
	assert.True(t, h.svc.Dispatch("nobody", "look"))
}

func TestDispatch_TeleportIsForSuperusers(t *testing.T) {
	h := newHarness(t, dice.FixedSource{})
	p := h.join(t, "u1", "Harry")
	drain(p)

	h.svc.Dispatch("u1", "teleport armory")
	assert.Equal(t, "intro", p.RoomID())
	assert.Contains(t, joined(drain(p)), "Unknown command")

	admin := h.joinAs(t, JoinRequest{UID: "u2", Name: "Minerva", Superuser: true})
	drain(admin)
	h.svc.Dispatch("u2", "tp armory")
	assert.Equal(t, "armory", admin.RoomID())
	out := joined(drain(admin))
	assert.Contains(t, out, "The wands rattle as you enter.")
	assert.Contains(t, out, "{cWand Room{n")

	h.svc.Dispatch("u2", "tp nowhere")
	assert.Equal(t, []string{`No room "nowhere" exists.`}, drain(admin))
}

func TestDispatch_SayAndEmote(t *testing.T) {
	h := newHarness(t, dice.FixedSource{})
	p := h.join(t, "u1", "Harry")
	ron := h.join(t, "u2", "Ron")
	drain(p)
	drain(ron)

	h.svc.Dispatch("u1", "say hello there")
	assert.Equal(t, []string{`You say, "hello there"`}, drain(p))
	assert.Equal(t, []string{`Harry says, "hello there"`}, drain(ron))

	h.svc.Dispatch("u1", ":waves")
	assert.Equal(t, []string{"Harry waves"}, drain(p))
	assert.Equal(t, []string{"Harry waves"}, drain(ron))
}

func TestDispatch_WhoListsEveryone(t *testing.T) {
	h := newHarness(t, dice.FixedSource{})
	p := h.join(t, "u1", "Harry")
	h.join(t, "u2", "Ron")
	drain(p)

	h.svc.Dispatch("u1", "who")
	out := joined(drain(p))
	assert.Contains(t, out, "Players online (2)")
	assert.Contains(t, out, "Harry")
	assert.Contains(t, out, "Ron")
}

func TestDispatch_HelpHidesAdminCommands(t *testing.T) {
	h := newHarness(t, dice.FixedSource{})
	p := h.join(t, "u1", "Harry")
	drain(p)

	h.svc.Dispatch("u1", "help")
	out := joined(drain(p))
	assert.Contains(t, out, "arania")
	assert.Contains(t, out, "Spells:")
	assert.NotContains(t, out, "teleport")
}

package gameserver

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/mudtrix/internal/game/dice"
	"github.com/cory-johannsen/mudtrix/internal/game/npc"
	"github.com/cory-johannsen/mudtrix/internal/game/world"
	"github.com/cory-johannsen/mudtrix/internal/scripting"
)

const contentDir = "../../content"

func TestShippedContent_Loads(t *testing.T) {
	zones, err := world.LoadZonesFromDir(filepath.Join(contentDir, "zones"))
	require.NoError(t, err)
	w, err := world.NewManager(zones)
	require.NoError(t, err)
	require.NoError(t, w.ValidateExits())
	require.NotNil(t, w.StartRoom())
	assert.Equal(t, world.RoomTypeIntro, w.StartRoom().Type)

	loaded, err := npc.LoadTemplates(filepath.Join(contentDir, "monsters"))
	require.NoError(t, err)
	templates, err := npc.TemplateMap(loaded)
	require.NoError(t, err)

	used := map[string]bool{}
	for _, p := range Placements(w) {
		_, ok := templates[p.Template]
		assert.True(t, ok, "room %s spawns unknown template %s", p.Room, p.Template)
		used[p.Template] = true
	}
	for id := range templates {
		assert.True(t, used[id], "template %s is never placed", id)
	}
	for _, typ := range []string{world.RoomTypeIntro, world.RoomTypeOutro, world.RoomTypeWeather, world.RoomTypeWandRack} {
		assert.NotEmpty(t, w.RoomsOfType(typ), "no %s room", typ)
	}

	logger := zaptest.NewLogger(t)
	scripts := scripting.NewManager(dice.NewRoller(dice.FixedSource{}, logger), logger)
	t.Cleanup(scripts.Close)
	for _, z := range zones {
		if z.ScriptFile == "" {
			continue
		}
		assert.NoError(t, scripts.LoadZoneFile(z.ID, filepath.Join(contentDir, "scripts", z.ScriptFile), 0))
	}
}

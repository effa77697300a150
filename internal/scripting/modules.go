package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/mudtrix/internal/game/dice"
)

// RegisterModules registers all engine.* Lua tables into L.
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: engine global is defined in L with log, dice, room, player
// and monster sub-tables.
func (m *Manager) RegisterModules(L *lua.LState) {
	engine := L.NewTable()
	L.SetField(engine, "log", m.logModule(L))
	L.SetField(engine, "dice", m.diceModule(L))
	L.SetField(engine, "room", m.roomModule(L))
	L.SetField(engine, "player", m.playerModule(L))
	L.SetField(engine, "monster", m.monsterModule(L))
	L.SetGlobal("engine", engine)
}

func (m *Manager) logModule(L *lua.LState) *lua.LTable {
	mod := L.NewTable()
	logAt := func(fn func(string, ...zap.Field)) lua.LGFunction {
		return func(L *lua.LState) int {
			fn(L.CheckString(1), zap.String("source", "lua"))
			return 0
		}
	}
	L.SetField(mod, "debug", L.NewFunction(logAt(m.logger.Debug)))
	L.SetField(mod, "info", L.NewFunction(logAt(m.logger.Info)))
	L.SetField(mod, "warn", L.NewFunction(logAt(m.logger.Warn)))
	L.SetField(mod, "error", L.NewFunction(logAt(m.logger.Error)))
	return mod
}

func (m *Manager) diceModule(L *lua.LState) *lua.LTable {
	mod := L.NewTable()
	// engine.dice.roll(expr) -> {total, dice, modifier}
	L.SetField(mod, "roll", L.NewFunction(func(L *lua.LState) int {
		expr, err := dice.Parse(L.CheckString(1))
		if err != nil {
			L.RaiseError("engine.dice.roll: %v", err)
			return 0
		}
		total := m.roller.Roll(expr)
		t := L.NewTable()
		L.SetField(t, "total", lua.LNumber(total))
		L.SetField(t, "dice", lua.LNumber(total-expr.Modifier))
		L.SetField(t, "modifier", lua.LNumber(expr.Modifier))
		L.Push(t)
		return 1
	}))
	// engine.dice.chance(p) -> bool
	L.SetField(mod, "chance", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LBool(m.roller.Chance(float64(L.CheckNumber(1)))))
		return 1
	}))
	return mod
}

func (m *Manager) roomModule(L *lua.LState) *lua.LTable {
	mod := L.NewTable()
	L.SetField(mod, "broadcast", L.NewFunction(func(L *lua.LState) int {
		roomID := L.CheckString(1)
		msg := L.CheckString(2)
		if m.Broadcast != nil {
			m.Broadcast(roomID, msg)
		}
		return 0
	}))
	L.SetField(mod, "get", L.NewFunction(func(L *lua.LState) int {
		roomID := L.CheckString(1)
		if m.QueryRoom == nil {
			L.Push(lua.LNil)
			return 1
		}
		info := m.QueryRoom(roomID)
		if info == nil {
			L.Push(lua.LNil)
			return 1
		}
		t := L.NewTable()
		L.SetField(t, "id", lua.LString(info.ID))
		L.SetField(t, "title", lua.LString(info.Title))
		L.SetField(t, "type", lua.LString(info.Type))
		L.Push(t)
		return 1
	}))
	return mod
}

func (m *Manager) playerModule(L *lua.LState) *lua.LTable {
	mod := L.NewTable()
	// engine.player.get(uid, attr) -> value or nil
	L.SetField(mod, "get", L.NewFunction(func(L *lua.LState) int {
		uid := L.CheckString(1)
		attr := L.CheckString(2)
		if m.GetPlayer == nil {
			L.Push(lua.LNil)
			return 1
		}
		info := m.GetPlayer(uid)
		if info == nil {
			L.Push(lua.LNil)
			return 1
		}
		L.Push(playerField(info, attr))
		return 1
	}))
	// engine.player.set(uid, attr, value) -> true, or false plus a message
	L.SetField(mod, "set", L.NewFunction(func(L *lua.LState) int {
		uid := L.CheckString(1)
		attr := L.CheckString(2)
		value := L.CheckInt(3)
		if m.SetAttribute == nil {
			L.Push(lua.LFalse)
			L.Push(lua.LString("player attributes are unavailable"))
			return 2
		}
		if err := m.SetAttribute(uid, attr, value); err != nil {
			L.Push(lua.LFalse)
			L.Push(lua.LString(err.Error()))
			return 2
		}
		L.Push(lua.LTrue)
		return 1
	}))
	L.SetField(mod, "tell", L.NewFunction(func(L *lua.LState) int {
		uid := L.CheckString(1)
		msg := L.CheckString(2)
		if m.Tell != nil {
			m.Tell(uid, msg)
		}
		return 0
	}))
	return mod
}

func playerField(info *PlayerInfo, attr string) lua.LValue {
	switch attr {
	case "uid":
		return lua.LString(info.UID)
	case "name":
		return lua.LString(info.Name)
	case "room":
		return lua.LString(info.Room)
	case "house":
		return lua.LString(info.House)
	case "health":
		return lua.LNumber(info.Health)
	case "health_max":
		return lua.LNumber(info.HealthMax)
	case "will":
		return lua.LNumber(info.Will)
	case "score":
		return lua.LNumber(info.Score)
	case "respawns":
		return lua.LNumber(info.Respawns)
	default:
		return lua.LNil
	}
}

func (m *Manager) monsterModule(L *lua.LState) *lua.LTable {
	mod := L.NewTable()
	// engine.monster.in_room(room_id) -> array of {id, template, name, mode, health}
	L.SetField(mod, "in_room", L.NewFunction(func(L *lua.LState) int {
		roomID := L.CheckString(1)
		t := L.NewTable()
		if m.MonstersInRoom != nil {
			for _, info := range m.MonstersInRoom(roomID) {
				row := L.NewTable()
				L.SetField(row, "id", lua.LString(info.ID))
				L.SetField(row, "template", lua.LString(info.Template))
				L.SetField(row, "name", lua.LString(info.Name))
				L.SetField(row, "mode", lua.LString(info.Mode))
				L.SetField(row, "health", lua.LNumber(info.Health))
				t.Append(row)
			}
		}
		L.Push(t)
		return 1
	}))
	return mod
}

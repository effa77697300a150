package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/mudtrix/internal/game/dice"
)

// globalZoneID is the reserved key for shared scripts loaded via LoadGlobal.
// CallHook falls back to this VM when no zone VM is found.
const globalZoneID = "__global__"

// Hook names the game server calls.
const (
	HookOnEnter           = "on_enter"
	HookOnMonsterDefeated = "on_monster_defeated"
)

// PlayerInfo is a snapshot of a player passed to Lua callbacks.
type PlayerInfo struct {
	UID       string
	Name      string
	Room      string
	House     string
	Health    int
	HealthMax int
	Will      int
	Score     int
	Respawns  int
}

// RoomInfo is a snapshot of a room passed to Lua callbacks.
type RoomInfo struct {
	ID    string
	Title string
	Type  string
}

// MonsterInfo is a snapshot of a monster passed to Lua callbacks.
type MonsterInfo struct {
	ID       string
	Template string
	Name     string
	Mode     string
	Health   float64
}

type vm struct {
	mu    sync.Mutex
	L     *lua.LState
	limit int
}

// Manager owns one sandboxed LState per zone and exposes hook dispatch.
//
// Manager is safe for concurrent CallHook. Each zone's LState is
// single-threaded, so calls into one zone are serialized while different
// zones run concurrently.
type Manager struct {
	mu     sync.RWMutex
	states map[string]*vm
	roller *dice.Roller
	logger *zap.Logger

	// Injected after construction. nil = no-op in engine.* modules.
	GetPlayer      func(uid string) *PlayerInfo
	SetAttribute   func(uid, name string, value int) error
	Tell           func(uid, msg string)
	Broadcast      func(roomID, msg string)
	QueryRoom      func(roomID string) *RoomInfo
	MonstersInRoom func(roomID string) []MonsterInfo
}

// NewManager creates a Manager.
//
// Precondition: roller and logger must be non-nil.
// Postcondition: Returns a non-nil Manager with an empty zone map.
func NewManager(roller *dice.Roller, logger *zap.Logger) *Manager {
	if roller == nil {
		panic("scripting.NewManager: roller must not be nil")
	}
	if logger == nil {
		panic("scripting.NewManager: logger must not be nil")
	}
	return &Manager{
		states: make(map[string]*vm),
		roller: roller,
		logger: logger,
	}
}

// LoadZone creates a sandboxed VM for zoneID, registers all engine.* modules,
// then executes every *.lua file in scriptDir in lexicographic order.
//
// Precondition: zoneID must be non-empty; scriptDir must be a readable directory.
// Postcondition: Zone VM is registered; returns error on Lua load failure.
func (m *Manager) LoadZone(zoneID, scriptDir string, instLimit int) error {
	return m.loadInto(zoneID, scriptDir, instLimit)
}

// LoadGlobal creates the "__global__" VM for shared scripts accessible
// as a CallHook fallback from any zone.
//
// Precondition: scriptDir must be a readable directory.
// Postcondition: Global VM is registered; returns error on Lua load failure.
func (m *Manager) LoadGlobal(scriptDir string, instLimit int) error {
	return m.loadInto(globalZoneID, scriptDir, instLimit)
}

// LoadZoneFile creates a sandboxed VM for zoneID from a single script file.
//
// Precondition: path must name a readable Lua file.
// Postcondition: Zone VM is registered; returns error on Lua load failure.
func (m *Manager) LoadZoneFile(zoneID, path string, instLimit int) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("scripting: zone %q script: %w", zoneID, err)
	}
	return m.loadFiles(zoneID, []string{path}, instLimit)
}

func (m *Manager) loadInto(key, scriptDir string, instLimit int) error {
	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		return fmt.Errorf("scripting: reading script dir %q for %q: %w", scriptDir, key, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)
	return m.loadFiles(key, luaFiles, instLimit)
}

func (m *Manager) loadFiles(key string, luaFiles []string, instLimit int) error {
	L := NewSandboxedState(instLimit)
	m.RegisterModules(L)
	for _, path := range luaFiles {
		if err := runLimited(L, instLimit, func() error { return L.DoFile(path) }); err != nil {
			L.Close()
			return fmt.Errorf("scripting: loading %q for %q: %w", path, key, err)
		}
	}

	m.mu.Lock()
	old := m.states[key]
	m.states[key] = &vm{L: L, limit: instLimit}
	m.mu.Unlock()
	if old != nil {
		old.mu.Lock()
		old.L.Close()
		old.mu.Unlock()
	}
	m.logger.Info("scripting: zone loaded",
		zap.String("zone", key),
		zap.Int("files", len(luaFiles)),
	)
	return nil
}

// HasZone reports whether zoneID has its own VM.
func (m *Manager) HasZone(zoneID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.states[zoneID]
	return ok
}

// CallHook calls the named Lua global function in zoneID's VM. If the zone has
// no VM, the __global__ VM is tried as a fallback. Returns (LNil, nil) if the
// hook is not defined or no VM exists. Lua runtime errors are logged at Warn
// level and never propagated.
//
// Precondition: args must be valid lua.LValue instances.
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(zoneID, hook string, args ...lua.LValue) (lua.LValue, error) {
	m.mu.RLock()
	v, ok := m.states[zoneID]
	if !ok {
		v = m.states[globalZoneID]
	}
	m.mu.RUnlock()

	if v == nil {
		m.logger.Info("scripting: no VM for zone",
			zap.String("zone", zoneID),
			zap.String("hook", hook),
		)
		return lua.LNil, nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	L := v.L
	if L.IsClosed() {
		return lua.LNil, nil
	}
	fn := L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil, nil
	}

	err := runLimited(L, v.limit, func() error {
		return L.CallByParam(lua.P{
			Fn:      fn,
			NRet:    1,
			Protect: true,
		}, args...)
	})
	if err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("zone", zoneID),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, nil
	}

	ret := L.Get(-1)
	L.Pop(1)
	return ret, nil
}

// Close releases every VM. CallHook afterwards finds no zones.
func (m *Manager) Close() {
	m.mu.Lock()
	states := m.states
	m.states = make(map[string]*vm)
	m.mu.Unlock()
	for _, v := range states {
		v.mu.Lock()
		v.L.Close()
		v.mu.Unlock()
	}
}

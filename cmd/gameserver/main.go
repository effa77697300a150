// Package main runs the MUDtrix game server: the telnet frontend, the world,
// the monster engine and persistence in one process.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/mudtrix/internal/config"
	"github.com/cory-johannsen/mudtrix/internal/frontend/handlers"
	"github.com/cory-johannsen/mudtrix/internal/frontend/telnet"
	"github.com/cory-johannsen/mudtrix/internal/game/attr"
	"github.com/cory-johannsen/mudtrix/internal/game/command"
	"github.com/cory-johannsen/mudtrix/internal/game/dice"
	"github.com/cory-johannsen/mudtrix/internal/game/npc"
	"github.com/cory-johannsen/mudtrix/internal/game/session"
	"github.com/cory-johannsen/mudtrix/internal/game/spell"
	"github.com/cory-johannsen/mudtrix/internal/game/world"
	"github.com/cory-johannsen/mudtrix/internal/gameserver"
	"github.com/cory-johannsen/mudtrix/internal/observability"
	"github.com/cory-johannsen/mudtrix/internal/scripting"
	"github.com/cory-johannsen/mudtrix/internal/server"
	"github.com/cory-johannsen/mudtrix/internal/storage/boltstore"
	"github.com/cory-johannsen/mudtrix/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting game server",
		zap.String("name", cfg.Server.Name),
		zap.String("mode", cfg.Server.Mode),
		zap.String("telnet_addr", cfg.Telnet.Addr()),
	)

	ctx := context.Background()
	lifecycle := server.NewLifecycle(logger)

	// Persistence
	var (
		accounts handlers.AccountStore
		store    attr.Store
	)
	if cfg.Server.Offline() {
		logger.Warn("offline mode: accounts and character attributes are kept in memory")
		accounts = handlers.NewMemoryAccounts()
		store = attr.NewMemoryStore()
	} else {
		dbStart := time.Now()
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		logger.Info("database connected",
			zap.String("host", cfg.Database.Host),
			zap.Int("port", cfg.Database.Port),
			zap.String("database", cfg.Database.Name),
			zap.Duration("elapsed", time.Since(dbStart)),
		)
		accounts = postgres.NewAccountRepository(pool.DB())
		store = postgres.NewAttributeRepository(pool.DB())
		lifecycle.Add("postgres", &server.ContextService{
			Run: func(ctx context.Context) error {
				defer pool.Close()
				ticker := time.NewTicker(30 * time.Second)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return ctx.Err()
					case <-ticker.C:
						if err := pool.Health(ctx, 5*time.Second); err != nil {
							logger.Warn("database health check failed", zap.Error(err))
						}
					}
				}
			},
		})
	}

	// World
	zoneStart := time.Now()
	zones, err := world.LoadZonesFromDir(cfg.Game.ZonesDir)
	if err != nil {
		logger.Fatal("loading zones", zap.Error(err))
	}
	worldMgr, err := world.NewManager(zones)
	if err != nil {
		logger.Fatal("creating world manager", zap.Error(err))
	}
	if err := worldMgr.ValidateExits(); err != nil {
		logger.Fatal("validating exits", zap.Error(err))
	}
	if worldMgr.StartRoom() == nil {
		logger.Fatal("no zone declares a start room")
	}
	logger.Info("world loaded",
		zap.Int("zones", len(zones)),
		zap.Int("rooms", worldMgr.RoomCount()),
		zap.Duration("elapsed", time.Since(zoneStart)),
	)

	templates, err := loadTemplates(cfg.Game.MonstersDir)
	if err != nil {
		logger.Fatal("loading monster templates", zap.Error(err))
	}
	logger.Info("monster templates loaded", zap.Int("templates", len(templates)))

	roller := dice.NewRoller(dice.NewCryptoSource(), observability.Component(logger, "dice"))

	// Scripting
	var scripts *scripting.Manager
	if cfg.Game.ScriptsDir != "" {
		scripts = scripting.NewManager(roller, observability.Component(logger, "scripting"))
		defer scripts.Close()
		for _, z := range zones {
			if z.ScriptFile == "" {
				continue
			}
			path := filepath.Join(cfg.Game.ScriptsDir, z.ScriptFile)
			if err := scripts.LoadZoneFile(z.ID, path, 0); err != nil {
				logger.Fatal("loading zone script", zap.String("zone", z.ID), zap.Error(err))
			}
		}
	}

	// Game
	sessions := session.NewManager()
	monsters := npc.NewManager()
	rooms := gameserver.NewRoomHooks(worldMgr, sessions, scripts, store, roller, observability.Component(logger, "rooms"))
	bridge := gameserver.NewMonsterBridge(worldMgr, sessions, scripts, rooms, templates, logger)
	npcLogger := observability.Component(logger, "npc")
	engine := npc.NewEngine(npc.Deps{
		Monsters:   monsters,
		Topology:   worldMgr,
		Roster:     sessions,
		Messenger:  sessions,
		Roller:     roller,
		Logger:     npcLogger,
		Hooks:      bridge,
		DefeatRoom: cfg.Game.DefeatRoom,
	})
	bridge.BindScripts(monsters)
	caster := spell.NewCaster(sessions, sessions, monsters, engine, roller, spell.DefaultWand(), observability.Component(logger, "spell"))

	svc := gameserver.NewGameService(gameserver.Deps{
		World:    worldMgr,
		Sessions: sessions,
		Engine:   engine,
		Caster:   caster,
		Book:     spell.DefaultBook(),
		Commands: command.DefaultRegistry(),
		Rooms:    rooms,
		Store:    store,
		Roller:   roller,
		Logger:   observability.Component(logger, "game"),
	})

	// Monsters
	if err := os.MkdirAll(filepath.Dir(cfg.Game.StatePath), 0o755); err != nil {
		logger.Fatal("creating state directory", zap.Error(err))
	}
	bolt, err := boltstore.Open(cfg.Game.StatePath)
	if err != nil {
		logger.Fatal("opening monster state", zap.String("path", cfg.Game.StatePath), zap.Error(err))
	}
	defer bolt.Close()

	sched := npc.NewScheduler(engine, npcLogger)
	spawned, err := gameserver.StartMonsters(engine, sched, templates, worldMgr, bolt, npcLogger)
	if err != nil {
		logger.Fatal("starting monsters", zap.Error(err))
	}

	ticker := gameserver.NewIrregularTicker(cfg.Game.EchoInterval)
	for _, z := range zones {
		ticker.RegisterTick(z.ID, gameserver.ZoneEchoes(z, engine, rooms, roller))
	}
	snapshots := gameserver.NewSnapshotter(monsters, bolt, cfg.Game.SnapshotInterval, npcLogger)

	auth := handlers.NewAuthHandler(accounts, svc, observability.Component(logger, "telnet"))
	acceptor := telnet.NewAcceptor(cfg.Telnet, auth, logger)

	// Services stop in reverse order: players leave before the final snapshot.
	lifecycle.Add("attack-timers", &server.ContextService{Run: sched.Run})
	lifecycle.Add("echoes", &server.ContextService{Run: ticker.Run})
	lifecycle.Add("snapshots", &server.ContextService{Run: snapshots.Run})
	lifecycle.Add("telnet", acceptor)

	logger.Info("game server initialized",
		zap.Duration("startup", time.Since(start)),
		zap.Int("monsters", len(spawned)),
		zap.String("telnet_addr", fmt.Sprintf("%s:%d", cfg.Telnet.Host, cfg.Telnet.Port)),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Error("server error", zap.Error(err))
	}
}

// loadTemplates reads monster templates from dir, falling back to the
// builtin table when dir is empty or missing.
func loadTemplates(dir string) (map[string]*npc.Template, error) {
	if dir == "" {
		return npc.TemplateMap(npc.Builtin())
	}
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		return npc.TemplateMap(npc.Builtin())
	}
	loaded, err := npc.LoadTemplates(dir)
	if err != nil {
		return nil, err
	}
	return npc.TemplateMap(loaded)
}

// Package main grants an account the player, builder or superuser role.
//
// Builders may change other players' scores; superusers additionally get the
// admin commands and are ignored by monsters.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/cory-johannsen/mudtrix/internal/config"
	"github.com/cory-johannsen/mudtrix/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	username := flag.String("username", "", "target account username (required)")
	role := flag.String("role", "", "role to assign: player, builder, or superuser (required)")
	flag.Parse()

	if *username == "" || *role == "" {
		flag.Usage()
		os.Exit(2)
	}
	if err := run(*configPath, *username, *role); err != nil {
		log.Fatal(err)
	}
}

func run(configPath, username, role string) error {
	start := time.Now()
	if !postgres.ValidRole(role) {
		return fmt.Errorf("invalid role %q: must be one of %s, %s, %s",
			role, postgres.RolePlayer, postgres.RoleBuilder, postgres.RoleSuperuser)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cfg.Server.Offline() {
		return fmt.Errorf("server.mode is offline: roles of in-memory accounts cannot be changed from outside the server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer pool.Close()

	repo := postgres.NewAccountRepository(pool.DB())
	acct, err := repo.GetByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("looking up account %q: %w", username, err)
	}
	if acct.Role == role {
		fmt.Fprintf(os.Stdout, "%s (#%d) is already %s\n", acct.Username, acct.ID, role)
		return nil
	}
	if err := repo.SetRole(ctx, acct.ID, role); err != nil {
		return fmt.Errorf("setting role: %w", err)
	}

	fmt.Fprintf(os.Stdout, "set role for %s (#%d): %s -> %s [%s]\n",
		acct.Username, acct.ID, acct.Role, role, time.Since(start))
	return nil
}

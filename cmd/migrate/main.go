package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"techdesk_backend/internal/config"
	"techdesk_backend/internal/database"
	"techdesk_backend/pkg/utils"

	"github.com/golang-migrate/migrate/v4"
)

func main() {
	steps := flag.Int("steps", 0, "number of migrations to roll back with down (0 = all)")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: migrate [-steps N] up|down|version")
	}
	flag.Parse()

	cfg := config.Load()
	utils.InitLogger(cfg.LogLevel, cfg.LogFormat)

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	m, err := database.NewMigrator(cfg.DB.URL())
	if err != nil {
		utils.LogError(err, "Failed to create migrator")
		os.Exit(1)
	}
	defer m.Close()

	switch flag.Arg(0) {
	case "up":
		err = m.Up()
	case "down":
		if *steps > 0 {
			err = m.Steps(-*steps)
		} else {
			err = m.Down()
		}
	case "version":
		version, dirty, verr := m.Version()
		if errors.Is(verr, migrate.ErrNilVersion) {
			fmt.Println("no migrations applied")
			return
		}
		if verr != nil {
			utils.LogError(verr, "Failed to read schema version")
			os.Exit(1)
		}
		fmt.Printf("version %d (dirty: %t)\n", version, dirty)
		return
	default:
		flag.Usage()
		os.Exit(2)
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		utils.LogError(err, "Migration failed", map[string]interface{}{"command": flag.Arg(0)})
		os.Exit(1)
	}
	utils.LogInfo("Migration finished", map[string]interface{}{"command": flag.Arg(0)})
}

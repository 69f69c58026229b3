package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/shared/config"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/shared/utils"
)

func main() {
	var dir string
	var command string

	flag.StringVar(&dir, "dir", "migrations/postgres", "Migration directory")
	flag.StringVar(&command, "cmd", "up", "Migration command (up, down, version, force)")
	flag.Parse()

	cfg := config.LoadConfig()
	utils.InitLogger(cfg.Env, cfg.LogLevel)

	if cfg.DatabaseURL == "" {
		fatal("DATABASE_URL is required", nil)
	}

	migrationPath := "file://" + dir
	utils.LogInfo("running migrations", map[string]interface{}{
		"path":     migrationPath,
		"database": maskDatabaseURL(cfg.DatabaseURL),
		"command":  command,
	})

	m, err := migrate.New(migrationPath, cfg.DatabaseURL)
	if err != nil {
		fatal("failed to create migrate instance", err)
	}
	defer m.Close()

	switch command {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			fatal("migration up failed", err)
		}
		utils.LogInfo("migrations up completed", nil)

	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			fatal("migration down failed", err)
		}
		utils.LogInfo("migrations down completed", nil)

	case "version":
		version, dirty, err := m.Version()
		if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
			fatal("failed to get version", err)
		}
		fmt.Printf("version %d (dirty: %t)\n", version, dirty)

	case "force":
		if flag.NArg() < 1 {
			fatal("force needs a version number", nil)
		}
		forceVersion, err := strconv.Atoi(flag.Arg(0))
		if err != nil {
			fatal("invalid version number", err)
		}
		if err := m.Force(forceVersion); err != nil {
			fatal("force failed", err)
		}
		utils.LogInfo("forced migration version", map[string]interface{}{"version": forceVersion})

	default:
		fatal(fmt.Sprintf("unknown command %q (use: up, down, version, force)", command), nil)
	}
}

func fatal(msg string, err error) {
	utils.LogError(msg, err, nil)
	os.Exit(1)
}

// maskDatabaseURL hides password in database URL for logging
func maskDatabaseURL(url string) string {
	if len(url) < 20 {
		return "***"
	}
	return url[:20] + "***" + url[len(url)-10:]
}

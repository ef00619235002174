package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"agrofund/internal/config"
	"agrofund/migrations"
	"agrofund/pkg/database"
	"agrofund/pkg/logger"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

const usage = "usage: agrofund-migrate [up | down [n] | version | force <version>]"

func main() {
	cfg := config.Load()

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "agrofund-migrate")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	args := os.Args[1:]
	if len(args) == 0 {
		args = []string{"up"}
	}

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		log.Fatal("Failed to open embedded migrations", zap.Error(err))
	}
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		log.Fatal("Failed to create migrate driver", zap.Error(err))
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		log.Fatal("Failed to create migrator", zap.Error(err))
	}

	if err := run(m, args); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("No migrations to apply")
			return
		}
		log.Fatal("Migration failed", zap.Strings("args", args), zap.Error(err))
	}

	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		log.Info("Schema is empty")
	case err != nil:
		log.Fatal("Failed to read schema version", zap.Error(err))
	default:
		log.Info("Schema version", zap.Uint("version", version), zap.Bool("dirty", dirty))
	}
}

func run(m *migrate.Migrate, args []string) error {
	switch args[0] {
	case "up":
		return m.Up()
	case "down":
		steps := 1
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil || n <= 0 {
				return fmt.Errorf("invalid step count %q", args[1])
			}
			steps = n
		}
		return m.Steps(-steps)
	case "version":
		return nil
	case "force":
		if len(args) < 2 {
			return errors.New(usage)
		}
		v, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid version %q", args[1])
		}
		return m.Force(v)
	default:
		return errors.New(usage)
	}
}

package main

import (
	"flag"

	"go.uber.org/zap"

	"github.com/pageza/fridgechef/backend/config"
	"github.com/pageza/fridgechef/backend/internal/database"
	"github.com/pageza/fridgechef/backend/internal/logger"
	"github.com/pageza/fridgechef/backend/internal/models"
)

func main() {
	reset := flag.Bool("reset", false, "Drop every table before migrating")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.Log.Level, "console"); err != nil {
		panic(err)
	}
	defer logger.Sync()

	db, err := database.New(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if *reset {
		if err := cfg.Env.GuardNonProduction("reset database"); err != nil {
			logger.Fatal("Refusing to reset the database", zap.Error(err))
		}
		all := models.All()
		// Drop dependents first
		for i := len(all) - 1; i >= 0; i-- {
			if err := db.Migrator().DropTable(all[i]); err != nil {
				logger.Fatal("Failed to drop table", zap.Error(err))
			}
		}
		logger.Info("Dropped all tables")
	}

	if err := database.RunMigrations(db); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	logger.Info("All migrations applied successfully")
}

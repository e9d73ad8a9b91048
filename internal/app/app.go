package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"metas/internal/config"
	"metas/internal/db"
	"metas/internal/repository"
	"metas/internal/store"
)

type App struct {
	Cfg            *config.Config
	DB             *sqlx.DB
	Store          store.Store
	GoalRepository repository.GoalRepository
}

func New(cfg *config.Config) (*App, error) {
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	st := store.NewSQL(database)

	return &App{
		Cfg:            cfg,
		DB:             database,
		Store:          st,
		GoalRepository: repository.NewGoalRepository(st),
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

package config

import (
	"context"
	"errors"

	"github.com/emrgen/pagepurge/internal/blob"
	"github.com/emrgen/pagepurge/internal/jobs"
	"github.com/emrgen/pagepurge/internal/queue"
	"github.com/emrgen/pagepurge/internal/service"
	"github.com/emrgen/pagepurge/internal/store"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds the wired components shared by the commands and the server.
type App struct {
	Config    *Config
	DB        *gorm.DB
	Store     *store.GormStore
	Blobs     *blob.Store
	Registry  *jobs.Registry
	Queue     queue.TaskQueue
	Scheduler jobs.Scheduler
	Purge     *service.PurgeService
	Counter   *service.CategoryCounter

	local *jobs.LocalScheduler
}

// NewApp opens the database and builds every collaborator of the purge
// service from cfg.
func NewApp(ctx context.Context, cfg *Config) (*App, error) {
	db, err := GetDb(cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:   cfg,
		DB:       db,
		Store:    store.NewGormStore(db),
		Registry: jobs.NewRegistry(),
	}

	app.Blobs, err = CreateBlobStore(ctx, &cfg.Blobs)
	if err != nil {
		return nil, err
	}

	repo, err := CreateRepository(ctx, &cfg.Repository)
	if err != nil {
		return nil, err
	}

	existence, err := CreateExistenceCache(&cfg.Cache)
	if err != nil {
		return nil, err
	}

	app.Counter = service.NewCategoryCounter(app.Store)
	app.Counter.Register(app.Registry)

	app.Queue, err = CreateTaskQueue(&cfg.Jobs)
	if err != nil {
		return nil, err
	}
	if app.Queue == nil {
		app.local = jobs.NewLocalScheduler(app.Registry, cfg.Jobs.Workers, cfg.Jobs.Batch)
		app.Scheduler = app.local
	} else {
		app.Scheduler = jobs.NewQueueScheduler(app.Queue)
	}

	app.Purge = service.NewPurgeService(app.Store, PurgeOptions(cfg), service.Deps{
		Blobs:     app.Blobs,
		Files:     service.NewFileCleaner(repo, existence),
		Cache:     existence,
		Scheduler: app.Scheduler,
		Rights:    service.NewRights(app.Store, cfg.Rights.Groups),
	})

	return app, nil
}

// Close waits for local tasks, then releases the queue and the database.
func (a *App) Close() error {
	if a.local != nil {
		a.local.Close()
	}

	var errs []error
	if a.Queue != nil {
		errs = append(errs, a.Queue.Close())
	}

	if sqlDB, err := a.DB.DB(); err == nil {
		errs = append(errs, sqlDB.Close())
	}

	err := errors.Join(errs...)
	if err != nil {
		logrus.Warnf("closing app: %v", err)
	}

	return err
}

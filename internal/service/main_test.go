package service

import (
	"context"
	"sync"
	"testing"

	"github.com/emrgen/pagepurge/internal/cache"
	"github.com/emrgen/pagepurge/internal/filerepo"
	"github.com/emrgen/pagepurge/internal/jobs"
	"github.com/emrgen/pagepurge/internal/store"
	"github.com/emrgen/pagepurge/internal/tester"
	"gorm.io/gorm"
)

type recordingScheduler struct {
	mu    sync.Mutex
	tasks []*jobs.Task
}

func (r *recordingScheduler) Schedule(ctx context.Context, task *jobs.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tasks = append(r.tasks, task)
	return nil
}

func (r *recordingScheduler) categories() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []string
	for _, task := range r.tasks {
		out = append(out, task.Category)
	}
	return out
}

type failingRepo struct{}

func (f *failingRepo) DeleteLive(ctx context.Context, tx store.Store, name string, reason string, actor int64) filerepo.Result {
	return filerepo.Failed(filerepo.ErrObjectNotFound)
}

func (f *failingRepo) Exists(ctx context.Context, path string) (bool, error) {
	return false, nil
}

func (f *failingRepo) CleanupDeletedBatch(ctx context.Context, tx store.FileStore, keys []string) ([]string, filerepo.Result) {
	return nil, filerepo.OK()
}

type env struct {
	db        *gorm.DB
	store     *store.GormStore
	fx        *tester.Fixture
	backend   *filerepo.MemoryBackend
	cache     *cache.MemoryExistenceCache
	scheduler *recordingScheduler
}

func newEnv(t *testing.T) *env {
	db := tester.Setup(t)

	return &env{
		db:        db,
		store:     store.NewGormStore(db),
		fx:        tester.NewFixture(t, db),
		backend:   filerepo.NewMemoryBackend(),
		cache:     cache.NewMemoryExistenceCache(),
		scheduler: &recordingScheduler{},
	}
}

func defaultOptions() Options {
	return Options{
		Namespaces: map[int]bool{
			0:  true,
			1:  true,
			6:  true,
			14: true,
		},
		DeleteContent: true,
	}
}

func (e *env) service(opts Options, repo FileRepository) *PurgeService {
	if repo == nil {
		repo = filerepo.New(e.backend)
	}

	return NewPurgeService(e.store, opts, Deps{
		Files:     NewFileCleaner(repo, e.cache),
		Cache:     e.cache,
		Scheduler: e.scheduler,
		Rights: NewRights(e.store, map[string][]string{
			"sysop": {"delete", RightDeletePerm},
			"user":  {"edit"},
		}),
	})
}

package tester

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/emrgen/pagepurge/internal/model"
	"github.com/ory/dockertest/v3"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DockerEnabled reports whether tests backed by containers should run.
func DockerEnabled() bool {
	return os.Getenv("PAGEPURGE_DOCKER_TESTS") == "1"
}

// SetupDocker starts a postgres container and returns a migrated connection.
// The container is purged when the test ends.
func SetupDocker(t testing.TB) *gorm.DB {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("could not construct pool: %s", err)
	}

	// uses pool to try to connect to Docker
	if err = pool.Client.Ping(); err != nil {
		t.Fatalf("could not connect to docker: %s", err)
	}

	resource, err := pool.Run("postgres", "16", []string{
		"POSTGRES_USER=purge",
		"POSTGRES_PASSWORD=purge",
		"POSTGRES_DB=purge",
	})
	if err != nil {
		t.Fatalf("could not start resource: %s", err)
	}

	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			logrus.Errorf("could not purge resource: %s", err)
		}
	})

	dsn := fmt.Sprintf("host=localhost port=%s user=purge password=purge dbname=purge sslmode=disable",
		resource.GetPort("5432/tcp"))

	var db *gorm.DB
	pool.MaxWait = 60 * time.Second
	err = pool.Retry(func() error {
		var err error
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
		if err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Ping()
	})
	if err != nil {
		t.Fatalf("could not connect to postgres: %s", err)
	}

	if err := model.Migrate(db); err != nil {
		t.Fatalf("migrate postgres: %v", err)
	}

	return db
}

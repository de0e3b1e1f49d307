package config

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/emrgen/pagepurge/internal/cache"
	"github.com/emrgen/pagepurge/internal/queue"
	"github.com/emrgen/pagepurge/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRepository(t *testing.T) {
	ctx := context.Background()

	repo, err := CreateRepository(ctx, &RepositoryConfig{Type: "memory", ReadOnly: true})
	require.NoError(t, err)
	assert.True(t, repo.ReadOnly())

	repo, err = CreateRepository(ctx, &RepositoryConfig{
		Type:       "filesystem",
		Filesystem: map[string]any{"path": t.TempDir()},
	})
	require.NoError(t, err)
	assert.False(t, repo.ReadOnly())

	_, err = CreateRepository(ctx, &RepositoryConfig{Type: "filesystem"})
	assert.Error(t, err)

	_, err = CreateRepository(ctx, &RepositoryConfig{Type: "ftp"})
	assert.Error(t, err)
}

func TestCreateExistenceCache(t *testing.T) {
	c, err := CreateExistenceCache(&CacheConfig{Type: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &cache.MemoryExistenceCache{}, c)

	c, err = CreateExistenceCache(&CacheConfig{Type: "redis", Redis: map[string]any{"addr": "localhost:6390", "db": 2}})
	require.NoError(t, err)
	assert.IsType(t, &cache.RedisExistenceCache{}, c)
}

func TestTokenVerifier(t *testing.T) {
	verifier := TokenVerifier(&ServerConfig{Tokens: []TokenConfig{{Actor: "Admin", Token: "0123456789abcdef"}}})

	name, err := verifier.VerifyToken(context.Background(), "0123456789abcdef")
	require.NoError(t, err)
	assert.Equal(t, "Admin", name)

	_, err = TokenVerifier(&ServerConfig{}).VerifyToken(context.Background(), "0123456789abcdef")
	assert.Error(t, err)
}

func TestCreateTaskQueue(t *testing.T) {
	q, err := CreateTaskQueue(&JobsConfig{Backend: "local"})
	require.NoError(t, err)
	assert.Nil(t, q)

	q, err = CreateTaskQueue(&JobsConfig{Backend: "redis", Redis: map[string]any{"queue": "purge"}})
	require.NoError(t, err)
	assert.IsType(t, &queue.RedisQueue{}, q)

	q, err = CreateTaskQueue(&JobsConfig{Backend: "kafka", Kafka: map[string]any{"brokers": "localhost:9092"}})
	require.NoError(t, err)
	assert.IsType(t, &queue.KafkaQueue{}, q)

	_, err = CreateTaskQueue(&JobsConfig{Backend: "kafka"})
	assert.Error(t, err)
}

func TestCreateBlobStore(t *testing.T) {
	_, err := CreateBlobStore(context.Background(), &BlobsConfig{Compression: "gzip"})
	require.NoError(t, err)

	_, err = CreateBlobStore(context.Background(), &BlobsConfig{Compression: "zip"})
	assert.Error(t, err)
}

func TestNewApp(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Database.DSN = filepath.Join(t.TempDir(), "wiki.db")
	cfg.Repository.Type = "memory"

	app, err := NewApp(context.Background(), cfg)
	require.NoError(t, err)
	defer app.Close()

	require.NoError(t, app.Store.Migrate())
	ok, err := app.Purge.IsDeletable(context.Background(), 0, "Missing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, service.DefaultReason, app.Purge.Options().Reason)
}

package redis

import (
	"context"
	"os"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fastygo/clients/domain"
	"github.com/fastygo/clients/repository/memory"
)

func TestPersonCache_FallsThroughWhenRedisIsDown(t *testing.T) {
	client := redislib.NewClient(&redislib.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	core, logs := observer.New(zap.WarnLevel)
	repo := NewPersonCache(memory.NewPersonStore(), client, time.Minute, zap.New(core))
	ctx := context.Background()

	saved, err := repo.Save(ctx, &domain.Person{DocumentNumber: "44556677", DocumentType: domain.DocumentDNI})
	require.NoError(t, err)

	got, err := repo.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "44556677", got.DocumentNumber)
	assert.Positive(t, logs.FilterMessage("person cache read failed").Len())

	require.NoError(t, repo.Delete(ctx, saved.ID))
	_, err = repo.FindByID(ctx, saved.ID)
	assert.ErrorIs(t, err, domain.ErrPersonNotFound)
}

// REDIS_TEST_URL=redis://localhost:6379/15 exercises the cache against a live server.
func TestPersonCache_ServesAndEvicts(t *testing.T) {
	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		t.Skip("REDIS_TEST_URL not set")
	}
	opts, err := redislib.ParseURL(url)
	require.NoError(t, err)
	client := redislib.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	inner := memory.NewPersonStore()
	repo := NewPersonCache(inner, client, time.Minute, nil)

	saved, err := repo.Save(ctx, &domain.Person{DocumentNumber: "CE-1", DocumentType: domain.DocumentCE, Name: "Luis"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Del(ctx, "person:"+saved.ID).Err() })

	_, err = repo.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	cached, err := client.Exists(ctx, "person:"+saved.ID).Result()
	require.NoError(t, err)
	assert.EqualValues(t, 1, cached)

	saved.Name = "Luisa"
	_, err = repo.Save(ctx, saved)
	require.NoError(t, err)

	got, err := repo.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Luisa", got.Name)
}

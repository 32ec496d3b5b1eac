package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestResetTokenRepository(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7.0-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp"),
	}
	redisC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	assert.NoError(t, err)
	defer redisC.Terminate(ctx)

	host, err := redisC.Host(ctx)
	assert.NoError(t, err)
	port, err := redisC.MappedPort(ctx, "6379")
	assert.NoError(t, err)

	rdb := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%s", host, port.Port()),
	})
	defer rdb.Close()

	err = rdb.Ping(ctx).Err()
	assert.NoError(t, err)

	repo := NewResetTokenRepository(rdb, 2*time.Second)

	t.Run("Save and Consume", func(t *testing.T) {
		err := repo.Save(ctx, "tok-1", 42)
		assert.NoError(t, err)

		userID, err := repo.Consume(ctx, "tok-1")
		assert.NoError(t, err)
		assert.Equal(t, int64(42), userID)
	})

	t.Run("token is consumed at most once", func(t *testing.T) {
		err := repo.Save(ctx, "tok-2", 7)
		assert.NoError(t, err)

		_, err = repo.Consume(ctx, "tok-2")
		assert.NoError(t, err)

		_, err = repo.Consume(ctx, "tok-2")
		assert.ErrorIs(t, err, ErrResetTokenNotFound)
	})

	t.Run("unknown token", func(t *testing.T) {
		_, err := repo.Consume(ctx, "never-issued")
		assert.ErrorIs(t, err, ErrResetTokenNotFound)
	})

	t.Run("token expires with the TTL", func(t *testing.T) {
		err := repo.Save(ctx, "tok-3", 9)
		assert.NoError(t, err)

		time.Sleep(3 * time.Second)

		_, err = repo.Consume(ctx, "tok-3")
		assert.ErrorIs(t, err, ErrResetTokenNotFound)
	})
}

package client

import (
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"submission-service/internal/config"
)

func TestRedisOptions_DisablesRetries(t *testing.T) {
	opts, err := redisOptions(config.RedisConfig{
		URL:      "redis://localhost:6379/0",
		Password: "secret",
		DB:       2,
		PoolSize: 7,
	})
	require.NoError(t, err)

	assert.Equal(t, -1, opts.MaxRetries)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, 7, opts.PoolSize)
	assert.Nil(t, opts.TLSConfig)

	// NewClient does not dial; it normalizes -1 to zero retries.
	c := redis.NewClient(opts)
	defer c.Close()
	assert.Equal(t, 0, c.Options().MaxRetries)
}

func TestRedisOptions_KeepsURLPassword(t *testing.T) {
	opts, err := redisOptions(config.RedisConfig{
		URL:      "redis://:fromurl@localhost:6379",
		Password: "fromenv",
	})
	require.NoError(t, err)
	assert.Equal(t, "fromurl", opts.Password)
}

func TestRedisOptions_RejectsBadURL(t *testing.T) {
	_, err := redisOptions(config.RedisConfig{URL: "http://localhost"})
	assert.Error(t, err)
}

package testutil

import (
	"context"

	"github.com/ory/dockertest/v3"
	"github.com/redis/go-redis/v9"
)

type RedisContainerInfo struct {
	Addr    string
	Cleanup func()
}

// StartRedisContainer runs a disposable redis 7 that backs both the asynq
// queue and the status store in the integration suite.
func StartRedisContainer() (*RedisContainerInfo, error) {
	c, err := runContainer("redis", &dockertest.RunOptions{Repository: "redis", Tag: "7"}, "6379/tcp",
		func(ctx context.Context, host string) error {
			rdb := redis.NewClient(&redis.Options{Addr: host})
			defer rdb.Close()
			return rdb.Ping(ctx).Err()
		})
	if err != nil {
		return nil, err
	}
	return &RedisContainerInfo{Addr: c.addr, Cleanup: c.purge}, nil
}

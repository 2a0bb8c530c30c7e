package mock

import (
	"context"
	"sync"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

var redisConnOnce sync.Once
var redisConn *redis.Client
var redisServer *miniredis.Miniredis

// NewRedis returns a client for the shared miniredis server used by the rate limiter.
func NewRedis() *redis.Client {
	redisConnOnce.Do(func() {
		redisConn = openRedisConn()
	})
	return redisConn
}

func openRedisConn() *redis.Client {
	var err error
	redisServer, err = miniredis.Run()
	if err != nil {
		panic(err)
	}

	return redis.NewClient(&redis.Options{
		Addr: redisServer.Addr(),
	})
}

// ClearRedis removes every key.
func ClearRedis(client *redis.Client) error {
	return client.FlushAll(context.TODO()).Err()
}

// FastForwardRedis advances key expiry on the shared server.
func FastForwardRedis(d time.Duration) {
	if redisServer != nil {
		redisServer.FastForward(d)
	}
}

package cache

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// Connect builds a Redis client. Accepts either a redis:// URL or a bare
// host:port address.
func Connect(_ context.Context, target string) (*redis.Client, error) {
	if !strings.Contains(target, "://") {
		return redis.NewClient(&redis.Options{Addr: target}), nil
	}
	opt, err := redis.ParseURL(target)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return redis.NewClient(opt), nil
}

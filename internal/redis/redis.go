package redis

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Client wraps the shared redis handle so stores depend on one local
// type rather than the driver directly.
type Client struct {
	*goredis.Client
}

// New connects and pings, so a misconfigured address fails at startup
// instead of on the first session write.
func New(addr, password string) (*Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &Client{Client: client}, nil
}

package redisclient

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

type Client struct {
	redisdb *redis.Client
}

type Config struct {
	Addr     string
	Password string
	DB       int
}

func New(cfg Config) *Client {
	redisdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	return &Client{redisdb: redisdb}
}

func (c *Client) Ping(ctx context.Context) error {
	return c.redisdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.redisdb.Close()
}

// GetJSON loads and unmarshals a cached value. Returns false on a miss or any
// error; cache failures must never fail the request.
func (c *Client) GetJSON(ctx context.Context, key string, out any) bool {
	raw, err := c.redisdb.Get(ctx, key).Bytes()

	if err != nil {
		return false
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return false
	}

	return true
}

func (c *Client) SetJSON(ctx context.Context, key string, val any, ttl time.Duration) {
	raw, err := json.Marshal(val)

	if err != nil {
		return
	}

	_ = c.redisdb.Set(ctx, key, raw, ttl).Err()
}

func (c *Client) Delete(ctx context.Context, key string) {
	_ = c.redisdb.Del(ctx, key).Err()
}

// Raw exposes the underlying client.
func (c *Client) Raw() *redis.Client {
	return c.redisdb
}

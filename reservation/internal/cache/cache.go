package cache

import (
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/Astemirdum/room-reservation/reservation/internal/model"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Config struct {
	Addr     string        `envconfig:"REDIS_ADDR"`
	Password string        `envconfig:"REDIS_PASSWORD"`
	DB       int           `envconfig:"REDIS_DB" default:"0"`
	TTL      time.Duration `envconfig:"CACHE_TTL" default:"30s"`
}

const (
	prefix     = "rooms"
	versionKey = prefix + ":version"
)

// RoomCache keeps room listings keyed by filter; Invalidate drops every listing at once.
// Get returns the versioned stamp it looked up; a listing read after a miss is stored with
// Set under that stamp, so an Invalidate in between leaves it unreachable.
type RoomCache interface {
	Get(ctx context.Context, key string) (rooms []model.Room, stamp string, ok bool)
	Set(ctx context.Context, stamp string, rooms []model.Room)
	Invalidate(ctx context.Context)
}

// client is the part of *redis.Client the cache uses.
type client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
	Close() error
}

type redisCache struct {
	rdb client
	ttl time.Duration
	log *zap.Logger
}

// New returns a Redis backed cache, or a no-op one when Addr is empty.
func New(ctx context.Context, cfg Config, log *zap.Logger) (RoomCache, error) {
	if cfg.Addr == "" {
		return Nop{}, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return nil, errors.Wrap(err, "redis ping")
	}
	return newRedisCache(rdb, cfg.TTL, log), nil
}

func newRedisCache(rdb client, ttl time.Duration, log *zap.Logger) *redisCache {
	return &redisCache{
		rdb: rdb,
		ttl: ttl,
		log: log.Named("cache"),
	}
}

func (c *redisCache) Get(ctx context.Context, key string) ([]model.Room, string, bool) {
	stamp, err := c.stamp(ctx, key)
	if err != nil {
		c.log.Warn("cache version", zap.Error(err))
		return nil, "", false
	}
	bs, err := c.rdb.Get(ctx, stamp).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("cache get", zap.Error(err))
		}
		return nil, stamp, false
	}
	var rooms []model.Room
	if err := json.Unmarshal(bs, &rooms); err != nil {
		c.log.Warn("cache decode", zap.Error(err))
		return nil, stamp, false
	}
	return rooms, stamp, true
}

func (c *redisCache) Set(ctx context.Context, stamp string, rooms []model.Room) {
	if stamp == "" {
		return
	}
	bs, err := json.Marshal(rooms)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, stamp, bs, c.ttl).Err(); err != nil {
		c.log.Warn("cache set", zap.Error(err))
	}
}

func (c *redisCache) Invalidate(ctx context.Context) {
	if err := c.rdb.Incr(ctx, versionKey).Err(); err != nil {
		c.log.Warn("cache invalidate", zap.Error(err))
	}
}

func (c *redisCache) stamp(ctx context.Context, key string) (string, error) {
	v, err := c.rdb.Get(ctx, versionKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	return listingKey(v, key), nil
}

func listingKey(version int64, key string) string {
	sum := sha1.Sum([]byte(key))
	return fmt.Sprintf("%s:v%s:%x", prefix, strconv.FormatInt(version, 10), sum[:])
}

func (c *redisCache) Close() error {
	return c.rdb.Close()
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]model.Room, string, bool) { return nil, "", false }
func (Nop) Set(context.Context, string, []model.Room)                {}
func (Nop) Invalidate(context.Context)                               {}

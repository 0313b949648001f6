package db

import (
	"context"
	"errors"
)

// ErrCacheMiss is returned by Get when the key does not exist.
var ErrCacheMiss = errors.New("cache miss")

// RedisClient is the subset of Redis the record store needs.
type RedisClient interface {
	Set(ctx context.Context, key, value string) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	Keys(ctx context.Context, pattern string) ([]string, error)
	AddLocationWithJSON(ctx context.Context, geoKey, memberKey string, lat, lng float64, data interface{}) error
	RemoveLocation(ctx context.Context, geoKey string, memberKeys ...string) error
	GetLocationsWithinRadius(ctx context.Context, geoKey string, lat, lng, radiusKm float64) ([]string, error)
	Ping(ctx context.Context) error
}

package db_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"nightlife-server/db"
)

func TestRedisClient_SetAndGet(t *testing.T) {
	tests := []struct {
		name   string
		client db.RedisClient
	}{
		{"MockRedisClient", db.NewMockRedisClient()},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ctx := context.Background()

			err := test.client.Set(ctx, "test-key", "test-value")
			assert.NoError(t, err)

			retrieved, err := test.client.Get(ctx, "test-key")
			assert.NoError(t, err)
			assert.Equal(t, "test-value", retrieved)

			_, err = test.client.Get(ctx, "missing")
			assert.ErrorIs(t, err, db.ErrCacheMiss)
		})
	}
}

func TestMockRedisClient_KeysAndDel(t *testing.T) {
	ctx := context.Background()
	client := db.NewMockRedisClient()
	assert.NoError(t, client.Set(ctx, "venue:2", "b"))
	assert.NoError(t, client.Set(ctx, "venue:1", "a"))
	assert.NoError(t, client.Set(ctx, "events", "[]"))

	keys, err := client.Keys(ctx, "venue:*")
	assert.NoError(t, err)
	assert.Equal(t, []string{"venue:1", "venue:2"}, keys)

	assert.NoError(t, client.Del(ctx, "venue:1", "missing"))

	keys, err = client.Keys(ctx, "venue:*")
	assert.NoError(t, err)
	assert.Equal(t, []string{"venue:2"}, keys)
}

func TestRedisClient_AddLocationWithJSONAndGetLocationsWithinRadius(t *testing.T) {
	ctx := context.Background()
	client := db.NewMockRedisClient()
	geoKey := "venues"

	// Dubai Mall and Burj Al Arab are roughly 15km apart.
	assert.NoError(t, client.AddLocationWithJSON(ctx, geoKey, "venue:mall", 25.1972, 55.2796, map[string]string{"id": "mall"}))
	assert.NoError(t, client.AddLocationWithJSON(ctx, geoKey, "venue:arab", 25.1412, 55.1853, map[string]string{"id": "arab"}))

	near, err := client.GetLocationsWithinRadius(ctx, geoKey, 25.1972, 55.2796, 5)
	assert.NoError(t, err)
	if assert.Len(t, near, 1) {
		var v map[string]string
		assert.NoError(t, json.Unmarshal([]byte(near[0]), &v))
		assert.Equal(t, "mall", v["id"])
	}

	wide, err := client.GetLocationsWithinRadius(ctx, geoKey, 25.1972, 55.2796, 50)
	assert.NoError(t, err)
	assert.Len(t, wide, 2)

	assert.NoError(t, client.RemoveLocation(ctx, geoKey, "venue:arab"))
	wide, err = client.GetLocationsWithinRadius(ctx, geoKey, 25.1972, 55.2796, 50)
	assert.NoError(t, err)
	assert.Len(t, wide, 1)
}

func TestRedisClient_Ping(t *testing.T) {
	assert.NoError(t, db.NewMockRedisClient().Ping(context.Background()))
}

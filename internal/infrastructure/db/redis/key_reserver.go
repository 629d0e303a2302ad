package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// reservationTTL only needs to outlive the millisecond a key is derived from.
const reservationTTL = time.Minute

// KeyReserver claims blob keys with SET NX so concurrent uploads never share one.
// Key format: blobkey:<blob key>
type KeyReserver struct {
	client *redis.Client
}

// NewKeyReserver creates a KeyReserver wrapping the given Redis client.
func NewKeyReserver(client *redis.Client) *KeyReserver {
	return &KeyReserver{client: client}
}

// Reserve reports whether key was free and is now held by the caller.
func (k *KeyReserver) Reserve(ctx context.Context, key string) (bool, error) {
	ok, err := k.client.SetNX(ctx, k.key(key), "1", reservationTTL).Result()
	if err != nil {
		return false, fmt.Errorf("reserve blob key: %w", err)
	}
	return ok, nil
}

// Ping checks the connection for readiness probes.
func (k *KeyReserver) Ping(ctx context.Context) error {
	return k.client.Ping(ctx).Err()
}

func (k *KeyReserver) key(blobKey string) string {
	return "blobkey:" + blobKey
}

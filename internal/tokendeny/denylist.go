package tokendeny

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "auth:denied:"

// Denylist records revoked token ids in Redis until their natural expiry.
// Tokens stay self-contained; this is the only server-side state they touch.
type Denylist struct {
	client *redis.Client
}

// New builds a denylist over an existing Redis client.
func New(client *redis.Client) *Denylist {
	return &Denylist{client: client}
}

// Deny marks a token id revoked for the remainder of its validity. A ttl at
// or below zero means the token already expired and there is nothing to store.
func (d *Denylist) Deny(ctx context.Context, tokenID string, ttl time.Duration) error {
	if d == nil || d.client == nil {
		return errors.New("denylist not configured")
	}
	if tokenID == "" || ttl <= 0 {
		return nil
	}
	return d.client.Set(ctx, keyPrefix+tokenID, "1", ttl).Err()
}

// IsDenied reports whether the token id has been revoked.
func (d *Denylist) IsDenied(ctx context.Context, tokenID string) (bool, error) {
	if d == nil || d.client == nil {
		return false, errors.New("denylist not configured")
	}
	n, err := d.client.Exists(ctx, keyPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

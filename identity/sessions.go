package identity

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
)

// Revocations records signed-out ID tokens in Redis so every instance rejects
// them until they expire naturally.
type Revocations struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRevocations creates a revocation set with the given TTL, which should be
// at least the token lifetime.
func NewRevocations(client *redis.Client, ttl time.Duration) *Revocations {
	return &Revocations{client: client, ttl: ttl}
}

func revocationKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "revoked:" + hex.EncodeToString(sum[:])
}

// Revoke marks the token as signed out.
func (r *Revocations) Revoke(ctx context.Context, token string) error {
	if r.client == nil || token == "" {
		return nil
	}
	return r.client.SetNX(ctx, revocationKey(token), 1, r.ttl).Err()
}

// Revoked reports whether the token has been signed out. Redis errors fail
// open: a broken revocation store must not lock every user out.
func (r *Revocations) Revoked(ctx context.Context, token string) bool {
	if r.client == nil || token == "" {
		return false
	}
	n, err := r.client.Exists(ctx, revocationKey(token)).Result()
	if err != nil {
		return false
	}
	return n > 0
}

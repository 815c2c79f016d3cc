package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/trophydesk/trophydesk/internal/shared"
)

const tokenKeyPrefix = "auth:token:"

// TokenStore keeps issued bearer tokens server-side so they can be
// revoked individually.
type TokenStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTokenStore builds a Redis-backed token store.
func NewTokenStore(client *redis.Client, ttl time.Duration) *TokenStore {
	return &TokenStore{client: client, ttl: ttl}
}

// Issue mints an opaque token for the actor and stores it with TTL.
func (st *TokenStore) Issue(ctx context.Context, actor shared.Actor) (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("auth: generate token: %w", err)
	}
	token := hex.EncodeToString(buf)

	payload, err := json.Marshal(actor)
	if err != nil {
		return "", fmt.Errorf("auth: marshal actor: %w", err)
	}
	if err := st.client.Set(ctx, tokenKeyPrefix+token, payload, st.ttl).Err(); err != nil {
		return "", fmt.Errorf("auth: store token: %w", err)
	}
	return token, nil
}

// Resolve returns the actor behind a token, refreshing its TTL.
func (st *TokenStore) Resolve(ctx context.Context, token string) (shared.Actor, error) {
	payload, err := st.client.GetEx(ctx, tokenKeyPrefix+token, st.ttl).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return shared.Actor{}, ErrTokenExpired
		}
		return shared.Actor{}, fmt.Errorf("auth: resolve token: %w", err)
	}
	var actor shared.Actor
	if err := json.Unmarshal(payload, &actor); err != nil {
		return shared.Actor{}, fmt.Errorf("auth: unmarshal actor: %w", err)
	}
	return actor, nil
}

// Revoke deletes a token.
func (st *TokenStore) Revoke(ctx context.Context, token string) error {
	return st.client.Del(ctx, tokenKeyPrefix+token).Err()
}

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newAuthFixture(t *testing.T) (*Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	hash, err := HashPassword("correct horse battery")
	require.NoError(t, err)

	repo := NewMemoryRepository()
	repo.Seed(
		User{ID: 1, Username: "somchai", DisplayName: "สมชาย", PasswordHash: hash, IsActive: true},
		User{ID: 2, Username: "retired", DisplayName: "เกษียณ", PasswordHash: hash, IsActive: false},
	)
	return NewService(repo, NewTokenStore(client, time.Hour)), mr
}

func TestLoginIssuesResolvableToken(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	token, user, err := svc.Login(ctx, "somchai", "correct horse battery")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, int64(1), user.ID)

	actor, err := svc.ResolveToken(ctx, token)
	require.NoError(t, err)
	require.Equal(t, int64(1), actor.ID)
	require.Equal(t, "สมชาย", actor.Name)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	_, _, err := svc.Login(ctx, "somchai", "wrong password!")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody", "correct horse battery")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "retired", "correct horse battery")
	require.ErrorIs(t, err, ErrInvalidCredentials, "inactive accounts cannot log in")
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	token, _, err := svc.Login(ctx, "somchai", "correct horse battery")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, token))

	_, err = svc.ResolveToken(ctx, token)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenExpiresWithTTL(t *testing.T) {
	svc, mr := newAuthFixture(t)
	ctx := context.Background()

	token, _, err := svc.Login(ctx, "somchai", "correct horse battery")
	require.NoError(t, err)

	mr.FastForward(2 * time.Hour)

	_, err = svc.ResolveToken(ctx, token)
	require.ErrorIs(t, err, ErrTokenExpired)
}

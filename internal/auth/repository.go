package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository looks up staff accounts.
type Repository interface {
	FindByUsername(ctx context.Context, username string) (*User, error)
}

type pgRepository struct {
	pool *pgxpool.Pool
}

// NewRepository builds a Postgres-backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

func (r *pgRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, username, display_name, password_hash, is_active, created_at
FROM users WHERE username = $1`, username)
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.DisplayName, &u.PasswordHash, &u.IsActive, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("auth: find user %s: %w", username, err)
	}
	return &u, nil
}

// MemoryRepository is an in-memory user store for tests and the
// development seed path.
type MemoryRepository struct {
	mu    sync.Mutex
	users map[string]User
}

// NewMemoryRepository builds an empty in-memory user store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[string]User)}
}

// Seed inserts accounts keyed by username.
func (r *MemoryRepository) Seed(users ...User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range users {
		r.users[strings.ToLower(u.Username)] = u
	}
}

func (r *MemoryRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[strings.ToLower(username)]
	if !ok {
		return nil, ErrInvalidCredentials
	}
	return &u, nil
}

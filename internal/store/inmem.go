package store

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/wargaid/apiserver/types"
)

// InMemUserRepository is a map-backed UserRepository with the same
// semantics as the Postgres one. Used by tests and local development.
type InMemUserRepository struct {
	mu    sync.RWMutex
	users map[int64]types.User
}

func NewInMemUserRepository() *InMemUserRepository {
	return &InMemUserRepository{users: make(map[int64]types.User)}
}

func (r *InMemUserRepository) CountByID(ctx context.Context, id int64) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.users[id]; ok {
		return 1, nil
	}
	return 0, nil
}

func (r *InMemUserRepository) GetByID(ctx context.Context, id int64) (types.User, error) {
	if err := ctx.Err(); err != nil {
		return types.User{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return types.User{}, ErrNotFound
	}
	return user, nil
}

func (r *InMemUserRepository) GetByToken(ctx context.Context, token string) (types.User, error) {
	if err := ctx.Err(); err != nil {
		return types.User{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.users {
		if user.Token.Valid && user.Token.String == token {
			return user, nil
		}
	}
	return types.User{}, ErrNotFound
}

func (r *InMemUserRepository) Create(ctx context.Context, user types.User) (types.User, error) {
	if err := ctx.Err(); err != nil {
		return types.User{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; ok {
		return types.User{}, ErrDuplicateID
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = user
	return user, nil
}

func (r *InMemUserRepository) UpdateProfile(ctx context.Context, id int64, patch types.UserPatch) (types.User, error) {
	if err := ctx.Err(); err != nil {
		return types.User{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return types.User{}, ErrNotFound
	}
	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.NIKHash != nil {
		user.NIKHash = *patch.NIKHash
	}
	user.UpdatedAt = time.Now()
	r.users[id] = user
	return user, nil
}

func (r *InMemUserRepository) UpdateToken(ctx context.Context, id int64, token sql.NullString) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return ErrNotFound
	}
	user.Token = token
	user.UpdatedAt = time.Now()
	r.users[id] = user
	return nil
}

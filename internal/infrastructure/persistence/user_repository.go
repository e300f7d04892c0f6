package persistence

import (
	"context"
	"sync"

	"github.com/conveyor-ci/conveyor/internal/domain/identity"
	"github.com/conveyor-ci/conveyor/internal/domain/user"
)

// UserRepository is an in-memory user store.
type UserRepository struct {
	mu    sync.RWMutex
	users map[identity.UserID]*user.User
}

// NewUserRepository creates an empty user store.
func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[identity.UserID]*user.User)}
}

// Save stores a user.
func (r *UserRepository) Save(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID()] = u
	return nil
}

// FindByID returns the user or nil when absent.
func (r *UserRepository) FindByID(_ context.Context, id identity.UserID) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.users[id], nil
}

// FindByUsername returns the user with the given username or nil.
func (r *UserRepository) FindByUsername(_ context.Context, username string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Username() == username {
			return u, nil
		}
	}
	return nil, nil
}

// FindByEmail returns the user with the given email or nil.
func (r *UserRepository) FindByEmail(_ context.Context, email string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email() == email {
			return u, nil
		}
	}
	return nil, nil
}

// FindAll returns every stored user.
func (r *UserRepository) FindAll(_ context.Context) ([]*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*user.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

// Update stores the user, inserting if absent.
func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	return r.Save(ctx, u)
}

// Delete removes a user if present.
func (r *UserRepository) Delete(_ context.Context, id identity.UserID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

// Exists reports whether a user is stored under the ID.
func (r *UserRepository) Exists(_ context.Context, id identity.UserID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.users[id]
	return ok, nil
}

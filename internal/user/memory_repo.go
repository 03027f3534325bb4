package user

import (
	"context"
	"sync"
)

// MemoryRepository is a mutex-guarded in-memory Repository, used by tests
// and the server's no-database development mode.
type MemoryRepository struct {
	mu     sync.RWMutex
	users  map[string]User
	order  []string
	nextID int64
}

// NewMemoryRepository creates an empty in-memory user repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[string]User), nextID: 1}
}

func (r *MemoryRepository) Create(_ context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.Username]; ok {
		return ErrDuplicateUsername
	}
	u.ID = r.nextID
	r.nextID++
	r.users[u.Username] = *u
	r.order = append(r.order, u.Username)
	return nil
}

func (r *MemoryRepository) GetByUsername(_ context.Context, username string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[username]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (r *MemoryRepository) FindAll(_ context.Context) ([]User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]User, 0, len(r.order))
	for _, username := range r.order {
		out = append(out, r.users[username])
	}
	return out, nil
}

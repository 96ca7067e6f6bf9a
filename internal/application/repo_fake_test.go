package application

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/goodthings/api/internal/domain/entity"
	repo "github.com/goodthings/api/internal/domain/repository"
)

var errWriteFailed = errors.New("write failed")

// memRepo is an in-memory stand-in for the credential store. failWrites makes
// every mutation fail so error propagation can be asserted.
type memRepo struct {
	mu         sync.Mutex
	users      map[string]*entity.User
	failWrites bool
}

func newMemRepo() *memRepo {
	return &memRepo{users: map[string]*entity.User{}}
}

func cloneUser(u *entity.User) *entity.User {
	cp := *u
	cp.Deals = append([]entity.Deal{}, u.Deals...)
	cp.Friends = append([]string{}, u.Friends...)
	return &cp
}

func (r *memRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *memRepo) ListAll(_ context.Context) ([]entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *cloneUser(u))
	}
	return out, nil
}

func (r *memRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWrites {
		return errWriteFailed
	}
	if _, ok := r.users[u.Email]; ok {
		return repo.ErrEmailTaken
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	r.users[u.Email] = cloneUser(u)
	return nil
}

func (r *memRepo) UpdateName(_ context.Context, email, name string) error {
	return r.update(email, func(u *entity.User) { u.Name = name })
}

func (r *memRepo) UpdateDeals(_ context.Context, email string, deals []entity.Deal) error {
	return r.update(email, func(u *entity.User) { u.Deals = append([]entity.Deal{}, deals...) })
}

func (r *memRepo) UpdateFriends(_ context.Context, email string, friends []string) error {
	return r.update(email, func(u *entity.User) { u.Friends = append([]string{}, friends...) })
}

func (r *memRepo) Delete(_ context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWrites {
		return errWriteFailed
	}
	if _, ok := r.users[email]; !ok {
		return repo.ErrNotFound
	}
	delete(r.users, email)
	return nil
}

func (r *memRepo) update(email string, fn func(u *entity.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWrites {
		return errWriteFailed
	}
	u, ok := r.users[email]
	if !ok {
		return repo.ErrNotFound
	}
	fn(u)
	u.UpdatedAt = time.Now()
	return nil
}

func (r *memRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

var _ repo.UserRepository = (*memRepo)(nil)

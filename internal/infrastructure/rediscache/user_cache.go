package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/goodthings/api/internal/domain/entity"
	"github.com/goodthings/api/internal/domain/repository"
)

func userKey(email string) string { return "user:doc:" + email }

// Cmdable is the slice of the redis client the decorator needs.
// *redis.Client satisfies it; tests substitute an in-memory fake.
type Cmdable interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// cachedUser is the cache wire form of a user document. It is distinct from
// entity.User so the password hash survives the round trip: the entity hides
// the hash from API JSON, but the cache must keep it or every login served
// from a cache hit would fail verification.
type cachedUser struct {
	Email        string        `json:"email"`
	Name         string        `json:"name"`
	PasswordHash string        `json:"password_hash"`
	Deals        []entity.Deal `json:"deals"`
	Friends      []string      `json:"friends"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

func encodeUser(u *entity.User) ([]byte, error) {
	return json.Marshal(cachedUser{
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Deals:        u.Deals,
		Friends:      u.Friends,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	})
}

func decodeUser(b []byte) (*entity.User, error) {
	var c cachedUser
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	return &entity.User{
		Email:        c.Email,
		Name:         c.Name,
		PasswordHash: c.PasswordHash,
		Deals:        c.Deals,
		Friends:      c.Friends,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}, nil
}

// UserRepository decorates a store with a cache-aside read path. Every write
// goes straight to the inner store and invalidates the cached document, so a
// hit can never be staler than the last completed write. Redis failures
// fail open to the store.
type UserRepository struct {
	inner  repository.UserRepository
	rdb    Cmdable
	ttl    time.Duration
	logger *logrus.Logger
}

func NewUserRepository(inner repository.UserRepository, rdb Cmdable, ttl time.Duration, logger *logrus.Logger) *UserRepository {
	return &UserRepository{inner: inner, rdb: rdb, ttl: ttl, logger: logger}
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	key := userKey(email)
	if b, err := r.rdb.Get(ctx, key).Bytes(); err == nil {
		if u, err := decodeUser(b); err == nil {
			return u, nil
		}
	} else if !errors.Is(err, redis.Nil) && r.logger != nil {
		r.logger.WithError(err).WithField("key", key).Warn("cache read failed")
	}

	u, err := r.inner.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if b, err := encodeUser(u); err == nil {
		if err := r.rdb.Set(ctx, key, b, r.ttl).Err(); err != nil && r.logger != nil {
			r.logger.WithError(err).WithField("key", key).Warn("cache write failed")
		}
	}
	return u, nil
}

// ListAll is a full scan and bypasses the per-document cache.
func (r *UserRepository) ListAll(ctx context.Context) ([]entity.User, error) {
	return r.inner.ListAll(ctx)
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	if err := r.inner.Create(ctx, u); err != nil {
		return err
	}
	r.invalidate(ctx, u.Email)
	return nil
}

func (r *UserRepository) UpdateName(ctx context.Context, email, name string) error {
	if err := r.inner.UpdateName(ctx, email, name); err != nil {
		return err
	}
	r.invalidate(ctx, email)
	return nil
}

func (r *UserRepository) UpdateDeals(ctx context.Context, email string, deals []entity.Deal) error {
	if err := r.inner.UpdateDeals(ctx, email, deals); err != nil {
		return err
	}
	r.invalidate(ctx, email)
	return nil
}

func (r *UserRepository) UpdateFriends(ctx context.Context, email string, friends []string) error {
	if err := r.inner.UpdateFriends(ctx, email, friends); err != nil {
		return err
	}
	r.invalidate(ctx, email)
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, email string) error {
	if err := r.inner.Delete(ctx, email); err != nil {
		return err
	}
	r.invalidate(ctx, email)
	return nil
}

func (r *UserRepository) invalidate(ctx context.Context, email string) {
	if err := r.rdb.Del(ctx, userKey(email)).Err(); err != nil && r.logger != nil {
		r.logger.WithError(err).WithField("email", email).Warn("cache invalidation failed")
	}
}

var _ repository.UserRepository = (*UserRepository)(nil)

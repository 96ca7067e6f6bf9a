package repository

import (
	"context"
	"errors"

	"github.com/goodthings/api/internal/domain/entity"
)

var (
	// ErrNotFound is returned when no user exists under the given email.
	ErrNotFound = errors.New("user not found")
	// ErrEmailTaken is returned when an insert collides with the unique email key.
	ErrEmailTaken = errors.New("email already registered")
)

// UserRepository is the credential store boundary: single-document reads and
// updates keyed by email. Deals and friends are written as whole lists; there
// is no cross-document atomicity beyond the one row.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	ListAll(ctx context.Context) ([]entity.User, error)
	Create(ctx context.Context, u *entity.User) error
	UpdateName(ctx context.Context, email, name string) error
	UpdateDeals(ctx context.Context, email string, deals []entity.Deal) error
	UpdateFriends(ctx context.Context, email string, friends []string) error
	Delete(ctx context.Context, email string) error
}

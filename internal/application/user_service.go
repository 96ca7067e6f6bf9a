package application

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/goodthings/api/internal/domain/entity"
	repo "github.com/goodthings/api/internal/domain/repository"
)

// ErrUserNotFound is returned when an operation targets a missing user.
var ErrUserNotFound = errors.New("user not found")

// UserService mutates the per-user embedded collections. Every operation is a
// read-modify-write against one user document; write failures propagate
// instead of falling back to a stale re-read.
type UserService struct {
	Repo   repo.UserRepository
	Logger *logrus.Logger
}

func NewUserService(r repo.UserRepository, logger *logrus.Logger) *UserService {
	return &UserService{Repo: r, Logger: logger}
}

func (s *UserService) ListUsers(ctx context.Context) ([]entity.User, error) {
	return s.Repo.ListAll(ctx)
}

func (s *UserService) GetUser(ctx context.Context, email string) (*entity.User, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// UpdateName changes the user's display name and returns the updated record.
// The principal inside an already-issued token keeps the old name until the
// token expires; that is inherent to stateless sessions.
func (s *UserService) UpdateName(ctx context.Context, email, name string) (*entity.User, error) {
	if err := s.Repo.UpdateName(ctx, email, name); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.GetUser(ctx, email)
}

func (s *UserService) DeleteAccount(ctx context.Context, email string) error {
	if err := s.Repo.Delete(ctx, email); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if s.Logger != nil {
		s.Logger.WithField("email", email).Info("account deleted")
	}
	return nil
}

func (s *UserService) ListDeals(ctx context.Context, email string) ([]entity.Deal, error) {
	u, err := s.GetUser(ctx, email)
	if err != nil {
		return nil, err
	}
	return u.Deals, nil
}

// CreateDeal appends a deal and returns the full list. Titles are not
// deduplicated; each entry gets its own id.
func (s *UserService) CreateDeal(ctx context.Context, email, title string) ([]entity.Deal, error) {
	u, err := s.GetUser(ctx, email)
	if err != nil {
		return nil, err
	}
	deals := append(u.Deals, entity.Deal{ID: uuid.NewString(), Title: title})
	if err := s.Repo.UpdateDeals(ctx, email, deals); err != nil {
		return nil, err
	}
	return deals, nil
}

// UpdateDeal retitles the deal with the given id. An unknown id leaves the
// list untouched and is not an error.
func (s *UserService) UpdateDeal(ctx context.Context, email, id, newTitle string) ([]entity.Deal, error) {
	u, err := s.GetUser(ctx, email)
	if err != nil {
		return nil, err
	}
	changed := false
	for i := range u.Deals {
		if u.Deals[i].ID == id {
			u.Deals[i].Title = newTitle
			changed = true
		}
	}
	if !changed {
		return u.Deals, nil
	}
	if err := s.Repo.UpdateDeals(ctx, email, u.Deals); err != nil {
		return nil, err
	}
	return u.Deals, nil
}

// RemoveDeal drops every deal with the given id and returns what remains.
func (s *UserService) RemoveDeal(ctx context.Context, email, id string) ([]entity.Deal, error) {
	u, err := s.GetUser(ctx, email)
	if err != nil {
		return nil, err
	}
	deals := make([]entity.Deal, 0, len(u.Deals))
	for _, d := range u.Deals {
		if d.ID != id {
			deals = append(deals, d)
		}
	}
	if len(deals) == len(u.Deals) {
		return u.Deals, nil
	}
	if err := s.Repo.UpdateDeals(ctx, email, deals); err != nil {
		return nil, err
	}
	return deals, nil
}

func (s *UserService) ListFriends(ctx context.Context, email string) ([]string, error) {
	u, err := s.GetUser(ctx, email)
	if err != nil {
		return nil, err
	}
	return u.Friends, nil
}

// AddFriend appends the friend's email. Duplicates are allowed; the list is a
// sequence, not a set.
func (s *UserService) AddFriend(ctx context.Context, email, friendEmail string) ([]string, error) {
	u, err := s.GetUser(ctx, email)
	if err != nil {
		return nil, err
	}
	friends := append(u.Friends, friendEmail)
	if err := s.Repo.UpdateFriends(ctx, email, friends); err != nil {
		return nil, err
	}
	return friends, nil
}

// RemoveFriend drops every entry matching the email and returns what remains.
func (s *UserService) RemoveFriend(ctx context.Context, email, friendEmail string) ([]string, error) {
	u, err := s.GetUser(ctx, email)
	if err != nil {
		return nil, err
	}
	friends := make([]string, 0, len(u.Friends))
	for _, f := range u.Friends {
		if f != friendEmail {
			friends = append(friends, f)
		}
	}
	if len(friends) == len(u.Friends) {
		return u.Friends, nil
	}
	if err := s.Repo.UpdateFriends(ctx, email, friends); err != nil {
		return nil, err
	}
	return friends, nil
}

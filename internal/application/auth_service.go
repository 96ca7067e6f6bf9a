package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/goodthings/api/internal/domain/entity"
	repo "github.com/goodthings/api/internal/domain/repository"
	"github.com/goodthings/api/pkg/helpers"
)

var (
	// ErrInvalidCredentials is returned for an unknown email and for a wrong
	// password alike; callers must not be able to tell the two apart.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken is returned when registration hits an existing email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrTokenInvalid is returned for any unusable token.
	ErrTokenInvalid = helpers.ErrTokenInvalid
)

// userRegisteredEvent is published to the event queue after a successful
// registration for downstream consumers.
type userRegisteredEvent struct {
	Event string `json:"event"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// AuthService owns password verification and token issuance/validation.
// Sessions are stateless: nothing is retained after a token is signed.
type AuthService struct {
	Repo   repo.UserRepository
	JWT    *helpers.JWTManager
	Hasher *helpers.Hasher
	Logger *logrus.Logger
	Pub    *helpers.RabbitPublisher
}

func NewAuthService(r repo.UserRepository, jwt *helpers.JWTManager, hasher *helpers.Hasher, logger *logrus.Logger, pub *helpers.RabbitPublisher) *AuthService {
	return &AuthService{Repo: r, JWT: jwt, Hasher: hasher, Logger: logger, Pub: pub}
}

// Register creates a new user with empty deal and friend lists. The email
// check here gives the common-path error; the store's unique constraint
// closes the lookup-then-insert race.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*entity.User, error) {
	if existing, err := s.Repo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	} else if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	hash, err := s.Hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Deals:        []entity.Deal{},
		Friends:      []string{},
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.publishRegistered(ctx, u)
	return u, nil
}

// Authenticate verifies email/password and returns the session principal.
// A missing record and a mismatched password produce the same error.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (helpers.Principal, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return helpers.Principal{}, ErrInvalidCredentials
		}
		return helpers.Principal{}, err
	}
	if !helpers.Compare(u.PasswordHash, password) {
		return helpers.Principal{}, ErrInvalidCredentials
	}
	return helpers.Principal{Email: u.Email, Name: u.Name}, nil
}

// IssueToken signs a fresh token for the principal.
func (s *AuthService) IssueToken(p helpers.Principal) (string, time.Time, error) {
	token, exp, err := s.JWT.Issue(p)
	if err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("email", p.Email).Error("token signing failed")
	}
	return token, exp, err
}

// ValidateToken verifies signature and expiry; every failure is ErrTokenInvalid.
func (s *AuthService) ValidateToken(token string) (helpers.Principal, error) {
	return s.JWT.Verify(token)
}

// Login authenticates and issues a token in one step.
func (s *AuthService) Login(ctx context.Context, email, password string) (helpers.Principal, string, time.Time, error) {
	p, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return helpers.Principal{}, "", time.Time{}, err
	}
	token, exp, err := s.IssueToken(p)
	if err != nil {
		return helpers.Principal{}, "", time.Time{}, err
	}
	return p, token, exp, nil
}

// publishRegistered emits a user.registered event. Publishing is best-effort
// and never fails the registration.
func (s *AuthService) publishRegistered(ctx context.Context, u *entity.User) {
	if s.Pub == nil {
		return
	}
	ev := userRegisteredEvent{Event: "user.registered", Email: u.Email, Name: u.Name}
	if err := s.Pub.PublishJSON(ctx, ev); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("email", u.Email).Warn("publish user.registered failed")
	}
}

package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/goodthings/api/internal/domain/entity"
	"github.com/goodthings/api/internal/domain/repository"
)

const uniqueViolation = "23505"

// UserRepository stores each user as one row; deals and friends live in jsonb
// columns so every mutation stays a single-document write.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	deals, err := json.Marshal(emptyIfNilDeals(u.Deals))
	if err != nil {
		return err
	}
	friends, err := json.Marshal(emptyIfNil(u.Friends))
	if err != nil {
		return err
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, name, password_hash, deals, friends)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`, u.Email, u.Name, u.PasswordHash, deals, friends)

	if err := row.Scan(&u.CreatedAt, &u.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return repository.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT email, name, password_hash, deals, friends, created_at, updated_at
		FROM users
		WHERE email = $1
	`, email)

	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) ListAll(ctx context.Context) ([]entity.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT email, name, password_hash, deals, friends, created_at, updated_at
		FROM users
		ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *UserRepository) UpdateName(ctx context.Context, email, name string) error {
	return r.exec(ctx, `
		UPDATE users SET name = $1, updated_at = $2 WHERE email = $3
	`, name, time.Now(), email)
}

func (r *UserRepository) UpdateDeals(ctx context.Context, email string, deals []entity.Deal) error {
	b, err := json.Marshal(emptyIfNilDeals(deals))
	if err != nil {
		return err
	}
	return r.exec(ctx, `
		UPDATE users SET deals = $1, updated_at = $2 WHERE email = $3
	`, b, time.Now(), email)
}

func (r *UserRepository) UpdateFriends(ctx context.Context, email string, friends []string) error {
	b, err := json.Marshal(emptyIfNil(friends))
	if err != nil {
		return err
	}
	return r.exec(ctx, `
		UPDATE users SET friends = $1, updated_at = $2 WHERE email = $3
	`, b, time.Now(), email)
}

func (r *UserRepository) Delete(ctx context.Context, email string) error {
	return r.exec(ctx, `DELETE FROM users WHERE email = $1`, email)
}

func (r *UserRepository) exec(ctx context.Context, sql string, args ...any) error {
	res, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	var deals, friends []byte
	if err := row.Scan(&u.Email, &u.Name, &u.PasswordHash, &deals, &friends,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(deals, &u.Deals); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(friends, &u.Friends); err != nil {
		return nil, err
	}
	return u, nil
}

func emptyIfNilDeals(d []entity.Deal) []entity.Deal {
	if d == nil {
		return []entity.Deal{}
	}
	return d
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

var _ repository.UserRepository = (*UserRepository)(nil)

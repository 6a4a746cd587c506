package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Alex-byteai/bola-security-demo/internal/auth"
	dErrors "github.com/Alex-byteai/bola-security-demo/pkg/domain-errors"
)

const uniqueViolation = "23505"

// PostgresUserStore persists accounts in the users table.
type PostgresUserStore struct {
	pool *pgxpool.Pool
}

func NewPostgresUserStore(pool *pgxpool.Pool) *PostgresUserStore {
	return &PostgresUserStore{pool: pool}
}

func (s *PostgresUserStore) GetByID(ctx context.Context, id int64) (auth.User, error) {
	return s.getOne(ctx,
		`SELECT id, email, name, password_hash, role, created_at FROM users WHERE id = $1`, id)
}

func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (auth.User, error) {
	return s.getOne(ctx,
		`SELECT id, email, name, password_hash, role, created_at FROM users WHERE lower(email) = lower($1)`, email)
}

func (s *PostgresUserStore) getOne(ctx context.Context, query string, arg any) (auth.User, error) {
	var u auth.User
	err := s.pool.QueryRow(ctx, query, arg).
		Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return auth.User{}, dErrors.New(dErrors.CodeNotFound, "user not found")
	}
	if err != nil {
		return auth.User{}, dErrors.Wrap(dErrors.CodeInternal, "query user", err)
	}
	return u, nil
}

func (s *PostgresUserStore) List(ctx context.Context, limit, offset int) ([]auth.User, int, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, email, name, password_hash, role, created_at
		 FROM users ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, dErrors.Wrap(dErrors.CodeInternal, "list users", err)
	}
	defer rows.Close()

	users := make([]auth.User, 0, limit)
	for rows.Next() {
		var u auth.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.CreatedAt); err != nil {
			return nil, 0, dErrors.Wrap(dErrors.CodeInternal, "scan user", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dErrors.Wrap(dErrors.CodeInternal, "list users", err)
	}

	var total int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, dErrors.Wrap(dErrors.CodeInternal, "count users", err)
	}
	return users, total, nil
}

func (s *PostgresUserStore) Create(ctx context.Context, user auth.User) (auth.User, error) {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (email, name, password_hash, role)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		user.Email, user.Name, user.PasswordHash, user.Role).
		Scan(&user.ID, &user.CreatedAt)
	if isUniqueViolation(err) {
		return auth.User{}, dErrors.New(dErrors.CodeConflict, "email already registered")
	}
	if err != nil {
		return auth.User{}, dErrors.Wrap(dErrors.CodeInternal, "insert user", err)
	}
	return user, nil
}

func (s *PostgresUserStore) Update(ctx context.Context, id int64, name, email string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE users SET name = $1, email = $2 WHERE id = $3`, name, email, id)
	if isUniqueViolation(err) {
		return dErrors.New(dErrors.CodeConflict, "email already registered")
	}
	if err != nil {
		return dErrors.Wrap(dErrors.CodeInternal, "update user", err)
	}
	if tag.RowsAffected() == 0 {
		return dErrors.New(dErrors.CodeNotFound, "user not found")
	}
	return nil
}

func (s *PostgresUserStore) Delete(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return dErrors.Wrap(dErrors.CodeInternal, "delete user", err)
	}
	if tag.RowsAffected() == 0 {
		return dErrors.New(dErrors.CodeNotFound, "user not found")
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

package identity

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) CreateUser(ctx context.Context, u User) (User, error) {
	err := s.DB.QueryRow(ctx, `
    INSERT INTO users (name, email, password_hash, role, is_active, employee_id)
    VALUES ($1, $2, $3, $4, $5, $6)
    RETURNING id
  `, u.Name, u.Email, u.PasswordHash, u.Role, u.IsActive, u.EmployeeID).Scan(&u.ID)
	if err != nil {
		return User{}, translateErr(err)
	}
	return u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, email, password_hash, role, is_active, employee_id
    FROM users
    ORDER BY id
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]User, 0)
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.EmployeeID); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *Store) UserByID(ctx context.Context, id int64) (User, error) {
	return s.fetch(ctx, "id = $1", id)
}

func (s *Store) UserByEmail(ctx context.Context, email string) (User, error) {
	return s.fetch(ctx, "email = $1", email)
}

func (s *Store) fetch(ctx context.Context, where string, arg any) (User, error) {
	var u User
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, email, password_hash, role, is_active, employee_id
    FROM users
    WHERE `+where, arg).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.EmployeeID)
	if err != nil {
		return User{}, translateErr(err)
	}
	return u, nil
}

func (s *Store) EmployeeLinked(ctx context.Context, employeeID int64) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM users WHERE employee_id = $1", employeeID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func translateErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return ErrDuplicateEmail
		case "23503":
			return ErrEmployeeMissing
		}
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

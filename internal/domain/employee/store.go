package employee

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

func (s *Store) ListEmployees(ctx context.Context, scope *int64) ([]Employee, error) {
	query := `
    SELECT id, name, email, role, department, status
    FROM employees
  `
	args := []any{}
	if scope != nil {
		query += " WHERE id = $1"
		args = append(args, *scope)
	}
	query += " ORDER BY id"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := make([]Employee, 0)
	for rows.Next() {
		var e Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.Email, &e.Role, &e.Department, &e.Status); err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

func (s *Store) GetEmployee(ctx context.Context, id int64) (Employee, error) {
	var e Employee
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, email, role, department, status
    FROM employees
    WHERE id = $1
  `, id).Scan(&e.ID, &e.Name, &e.Email, &e.Role, &e.Department, &e.Status)
	if err != nil {
		return Employee{}, translateErr(err)
	}
	return e, nil
}

func (s *Store) CreateEmployee(ctx context.Context, e Employee) (Employee, error) {
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employees (name, email, role, department, status)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING id
  `, e.Name, e.Email, e.Role, e.Department, e.Status).Scan(&e.ID)
	if err != nil {
		return Employee{}, translateErr(err)
	}
	return e, nil
}

func (s *Store) UpdateEmployee(ctx context.Context, e Employee) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET name = $1, email = $2, role = $3, department = $4, status = $5, updated_at = now()
    WHERE id = $6
  `, e.Name, e.Email, e.Role, e.Department, e.Status, e.ID)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteEmployee(ctx context.Context, id int64) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM employees WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) EmployeeExists(ctx context.Context, id int64) (bool, error) {
	var count int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees WHERE id = $1", id).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func translateErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateEmail
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

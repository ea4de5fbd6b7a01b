package goal

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

const goalColumns = `
    id, title, description,
    to_char(start_date, 'YYYY-MM-DD'),
    to_char(end_date, 'YYYY-MM-DD'),
    status, progress, employee_id`

func (s *Store) ListGoals(ctx context.Context, scope *int64) ([]Goal, error) {
	query := "SELECT " + goalColumns + " FROM goals"
	args := []any{}
	if scope != nil {
		query += " WHERE employee_id = $1"
		args = append(args, *scope)
	}
	query += " ORDER BY id"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	goals := make([]Goal, 0)
	for rows.Next() {
		var g Goal
		if err := rows.Scan(&g.ID, &g.Title, &g.Description, &g.StartDate, &g.EndDate, &g.Status, &g.Progress, &g.EmployeeID); err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func (s *Store) GetGoal(ctx context.Context, id int64) (Goal, error) {
	var g Goal
	err := s.DB.QueryRow(ctx, "SELECT "+goalColumns+" FROM goals WHERE id = $1", id).
		Scan(&g.ID, &g.Title, &g.Description, &g.StartDate, &g.EndDate, &g.Status, &g.Progress, &g.EmployeeID)
	if err != nil {
		return Goal{}, translateErr(err)
	}
	return g, nil
}

func (s *Store) CreateGoal(ctx context.Context, g Goal) (Goal, error) {
	err := s.DB.QueryRow(ctx, `
    INSERT INTO goals (title, description, start_date, end_date, status, progress, employee_id)
    VALUES ($1, $2, $3::date, $4::date, $5, $6, $7)
    RETURNING id
  `, g.Title, g.Description, g.StartDate, g.EndDate, g.Status, g.Progress, g.EmployeeID).Scan(&g.ID)
	if err != nil {
		return Goal{}, translateErr(err)
	}
	return g, nil
}

func (s *Store) UpdateGoal(ctx context.Context, g Goal) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE goals
    SET title = $1, description = $2, start_date = $3::date, end_date = $4::date,
        status = $5, progress = $6, employee_id = $7, updated_at = now()
    WHERE id = $8
  `, g.Title, g.Description, g.StartDate, g.EndDate, g.Status, g.Progress, g.EmployeeID, g.ID)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteGoal(ctx context.Context, id int64) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM goals WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func translateErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return ErrEmployeeMissing
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

package review

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

func (s *Store) ListReviews(ctx context.Context, scope *int64) ([]Review, error) {
	query := `
    SELECT id, month, rating, feedback, reviewer_name, employee_id
    FROM performance_reviews
  `
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

	reviews := make([]Review, 0)
	for rows.Next() {
		var r Review
		if err := rows.Scan(&r.ID, &r.Month, &r.Rating, &r.Feedback, &r.ReviewerName, &r.EmployeeID); err != nil {
			return nil, err
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}

func (s *Store) GetReview(ctx context.Context, id int64) (Review, error) {
	var r Review
	err := s.DB.QueryRow(ctx, `
    SELECT id, month, rating, feedback, reviewer_name, employee_id
    FROM performance_reviews
    WHERE id = $1
  `, id).Scan(&r.ID, &r.Month, &r.Rating, &r.Feedback, &r.ReviewerName, &r.EmployeeID)
	if err != nil {
		return Review{}, translateErr(err)
	}
	return r, nil
}

func (s *Store) CreateReview(ctx context.Context, r Review) (Review, error) {
	err := s.DB.QueryRow(ctx, `
    INSERT INTO performance_reviews (month, rating, feedback, reviewer_name, employee_id)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING id
  `, r.Month, r.Rating, r.Feedback, r.ReviewerName, r.EmployeeID).Scan(&r.ID)
	if err != nil {
		return Review{}, translateErr(err)
	}
	return r, nil
}

func (s *Store) UpdateReview(ctx context.Context, r Review) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE performance_reviews
    SET month = $1, rating = $2, feedback = $3, reviewer_name = $4, employee_id = $5, updated_at = now()
    WHERE id = $6
  `, r.Month, r.Rating, r.Feedback, r.ReviewerName, r.EmployeeID, r.ID)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteReview(ctx context.Context, id int64) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM performance_reviews WHERE id = $1", id)
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

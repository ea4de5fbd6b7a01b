package review

import "context"

type StoreAPI interface {
	// ListReviews returns every review when scope is nil, otherwise only
	// reviews owned by that employee.
	ListReviews(ctx context.Context, scope *int64) ([]Review, error)
	GetReview(ctx context.Context, id int64) (Review, error)
	CreateReview(ctx context.Context, r Review) (Review, error)
	UpdateReview(ctx context.Context, r Review) error
	DeleteReview(ctx context.Context, id int64) error
}

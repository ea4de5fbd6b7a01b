package goal

import "context"

type StoreAPI interface {
	// ListGoals returns every goal when scope is nil, otherwise only goals
	// owned by that employee.
	ListGoals(ctx context.Context, scope *int64) ([]Goal, error)
	GetGoal(ctx context.Context, id int64) (Goal, error)
	CreateGoal(ctx context.Context, g Goal) (Goal, error)
	UpdateGoal(ctx context.Context, g Goal) error
	DeleteGoal(ctx context.Context, id int64) error
}

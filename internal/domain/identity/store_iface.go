package identity

import "context"

type StoreAPI interface {
	CreateUser(ctx context.Context, u User) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	UserByID(ctx context.Context, id int64) (User, error)
	UserByEmail(ctx context.Context, email string) (User, error)
	EmployeeLinked(ctx context.Context, employeeID int64) (bool, error)
}

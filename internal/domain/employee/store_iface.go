package employee

import "context"

type StoreAPI interface {
	// ListEmployees returns all rows when scope is nil, otherwise only the
	// employee with that id.
	ListEmployees(ctx context.Context, scope *int64) ([]Employee, error)
	GetEmployee(ctx context.Context, id int64) (Employee, error)
	CreateEmployee(ctx context.Context, e Employee) (Employee, error)
	UpdateEmployee(ctx context.Context, e Employee) error
	DeleteEmployee(ctx context.Context, id int64) error
	EmployeeExists(ctx context.Context, id int64) (bool, error)
}

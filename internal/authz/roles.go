package authz

// Known account roles. Anything outside this set is denied everywhere.
const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleEmployee = "employee"
)

// Resource identifies what a decision is about. The employee resource is the
// degenerate case: its "owning employee" is the record's own id.
type Resource string

const (
	Employees Resource = "employees"
	Goals     Resource = "goals"
	Reviews   Resource = "reviews"
)

// Fields an employee-role caller may change on their own records. Everything
// else in an update payload is ignored for them.
var (
	EmployeeGoalFields   = []string{"progress", "status"}
	EmployeeReviewFields = []string{"month", "rating", "feedback", "reviewer_name"}
)

func isElevated(role string) bool {
	return role == RoleAdmin || role == RoleManager
}

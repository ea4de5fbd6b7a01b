package employee

// Employee is a staff record. Role here is a job-title label, not an access
// role; Status is free text and defaults to "active".
type Employee struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Role       *string `json:"role"`
	Department *string `json:"department"`
	Status     string  `json:"status"`
}

package goal

// Goal tracks an objective owned by one employee. Dates are "YYYY-MM-DD"
// strings on the wire; Progress is intended to stay within 0-100 but is not
// enforced. Status is free text and defaults to "in-progress".
type Goal struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
	Status      string  `json:"status"`
	Progress    int     `json:"progress"`
	EmployeeID  int64   `json:"employee_id"`
}

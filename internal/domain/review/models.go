package review

// Review is a monthly performance review for one employee. Month is a
// "YYYY-MM" string; ReviewerName is free text so employees can record
// self-evaluations.
type Review struct {
	ID           int64   `json:"id"`
	Month        string  `json:"month"`
	Rating       int     `json:"rating"`
	Feedback     *string `json:"feedback"`
	ReviewerName string  `json:"reviewer_name"`
	EmployeeID   int64   `json:"employee_id"`
}

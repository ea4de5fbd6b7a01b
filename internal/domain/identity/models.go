package identity

// User is an authenticable account. It is distinct from an employee record;
// EmployeeID is an optional back-reference used to scope resource access.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         string
	IsActive     bool
	EmployeeID   *int64
}

// PublicUser is the projection returned to clients. It never carries the
// password hash.
type PublicUser struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	IsActive   bool   `json:"is_active"`
	EmployeeID *int64 `json:"employee_id"`
}

func (u User) Public() PublicUser {
	return PublicUser{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		IsActive:   u.IsActive,
		EmployeeID: u.EmployeeID,
	}
}

package identity

import "errors"

var (
	ErrNotFound        = errors.New("user not found")
	ErrDuplicateEmail  = errors.New("user email already exists")
	ErrEmployeeMissing = errors.New("linked employee does not exist")
	ErrEmployeeLinked  = errors.New("employee already linked to another user")
)

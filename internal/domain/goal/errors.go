package goal

import "errors"

var (
	ErrNotFound        = errors.New("goal not found")
	ErrEmployeeMissing = errors.New("owning employee does not exist")
)

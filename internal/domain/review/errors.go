package review

import "errors"

var (
	ErrNotFound        = errors.New("review not found")
	ErrEmployeeMissing = errors.New("owning employee does not exist")
)

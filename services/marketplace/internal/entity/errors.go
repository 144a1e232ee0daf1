package entity

import "errors"

// Error taxonomy shared by use cases and handlers. Wrap with fmt.Errorf("%w").
var (
	ErrUnauthenticated = errors.New("not authenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation error")
	ErrStorageIO       = errors.New("storage error")
	ErrTransform       = errors.New("transform failed")

	ErrUserNotFound = errors.New("user not found")
)

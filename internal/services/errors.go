package services

import "errors"

var (
	// ErrIDExists is returned when registering an ID that is already taken.
	ErrIDExists = errors.New("ID already exists")

	// ErrInvalidCredentials is returned for a failed login. It deliberately
	// does not distinguish an unknown ID from a wrong secret.
	ErrInvalidCredentials = errors.New("ID or NIK wrong")
)

package domain

import (
	"errors"
	"fmt"
)

// ErrResourceNotFound is the parent of every not-found error; match it with
// errors.Is when the kind of resource does not matter.
var ErrResourceNotFound = errors.New("resource not found")

var (
	ErrGymNotFound     = fmt.Errorf("gym: %w", ErrResourceNotFound)
	ErrCheckInNotFound = fmt.Errorf("check-in: %w", ErrResourceNotFound)
	ErrUserNotFound    = fmt.Errorf("user: %w", ErrResourceNotFound)
)

var ErrMaxDistanceExceeded = errors.New("max distance reached")
var ErrDuplicateCheckIn = errors.New("max number of check-ins reached for today")
var ErrValidationWindowExpired = errors.New("the check-in can only be validated until 20 minutes of its creation")
var ErrAlreadyValidated = errors.New("check-in already validated")

// ErrInvalidCredentials covers both an unknown email and a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserAlreadyExists = errors.New("e-mail already exists")
var ErrForbidden = errors.New("access forbidden")

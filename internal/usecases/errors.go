package usecases

import (
	"errors"

	"project_resident/internal/repository"
)

var (
	ErrNotFound           = repository.ErrNotFound
	ErrConflict           = repository.ErrConflict
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidState       = errors.New("invalid state transition")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactive           = errors.New("business is not active")
	ErrRateLimited        = errors.New("rate limit exceeded")
	ErrBusy               = errors.New("conversation is busy")
)

package service

import (
	"errors"
	"fmt"

	"backoffice/internal/repository"
)

var (
	ErrNotFound            = errors.New("resource not found")
	ErrDuplicate           = errors.New("resource already exists")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrAgentDisabled       = errors.New("agent is disabled")
	ErrForbidden           = errors.New("permission denied")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrAlreadyResolved     = errors.New("withdrawal already resolved")
	ErrUserInactive        = errors.New("user is not active")
	ErrStorageUnavailable  = errors.New("object storage is not configured")
)

// invalid wraps ErrInvalidInput with a message that is safe to show to clients.
func invalid(format string, a ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, a...))
}

// mapRepoErr translates repository sentinels into service sentinels.
func mapRepoErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrDuplicate):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}

package service

import (
	"errors"
	"fmt"

	"learnly/internal/repository"

	pkgerrors "github.com/pkg/errors"
)

var (
	// ErrValidation rejects input before any backend call
	ErrValidation = errors.New("validation failed")

	// ErrNotMember is returned when the caller is not in the group's member set
	ErrNotMember = errors.New("not a member of this group")

	// ErrBackend wraps storage failures that are not one of the known kinds
	ErrBackend = errors.New("backend failure")
)

func invalid(msg string) error {
	return pkgerrors.Wrap(ErrValidation, msg)
}

// backendErr passes known repository errors through and tags the rest.
func backendErr(err error, op string) error {
	if err == nil {
		return nil
	}
	if repository.IsNotFound(err) || errors.Is(err, repository.ErrConflict) || errors.Is(err, ErrNotMember) {
		return err
	}
	return pkgerrors.Wrap(fmt.Errorf("%w: %w", ErrBackend, err), op)
}

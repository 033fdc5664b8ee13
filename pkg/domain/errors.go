package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrEntityNotFound      *notFoundError
	ErrPolicyAlreadyExists = errors.New("a policy for this path pattern already exists")
)

type notFoundError struct {
	EntityType string
	ID         string
}

func (e *notFoundError) Error() string {
	return fmt.Sprintf("%s with ID '%s' not found", e.EntityType, e.ID)
}

func NewNotFoundError(entityType string, id uuid.UUID) error {
	return &notFoundError{
		EntityType: entityType,
		ID:         id.String(),
	}
}

// NewNotFoundByKeyError is used for lookups by a natural key such as a path
// pattern.
func NewNotFoundByKeyError(entityType string, key string) error {
	return &notFoundError{
		EntityType: entityType,
		ID:         key,
	}
}

func IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var notFoundError *notFoundError
	ok := errors.As(err, &notFoundError)
	return ok
}

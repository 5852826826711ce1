// Package registry adds persons to the store, rejecting names that are
// equivalent to one already registered.
package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"meetcal/internal/models"
	"meetcal/internal/names"
	"meetcal/internal/storage"
)

// ErrInvalidName is returned for names that fail syntactic validation.
var ErrInvalidName = errors.New("invalid person name")

// DuplicateError reports that a name is equivalent to a stored one.
type DuplicateError struct {
	Name     string // the rejected name
	Existing string // the stored name it collided with
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s is equivalent to an existing name: %s", e.Name, e.Existing)
}

// Registry is the gateway for person registration.
type Registry struct {
	logger *slog.Logger
	store  storage.Store
}

// New creates a Registry backed by the given store.
func New(logger *slog.Logger, store storage.Store) *Registry {
	return &Registry{logger: logger, store: store}
}

// AddPerson stores a new person unless an equivalent name is already
// registered. Every stored name is compared with token-set equivalence,
// a linear scan that is fine at the expected scale of tens to low
// thousands of persons. The name is stored exactly as given; casing and
// hyphenation are never rewritten.
func (r *Registry) AddPerson(ctx context.Context, name string) error {
	if !names.IsValid(name) {
		return ErrInvalidName
	}

	existingNames, err := r.store.ListPersonNames(ctx)
	if err != nil {
		return fmt.Errorf("list existing persons: %w", err)
	}
	for _, existing := range existingNames {
		if names.Equivalent(name, existing) {
			r.logger.Info("Person not added, equivalent name exists.", "name", name, "existing", existing)
			return &DuplicateError{Name: name, Existing: existing}
		}
	}

	person := models.Person{ID: uuid.New().String(), Name: name}
	if err := r.store.InsertPerson(ctx, person); err != nil {
		return fmt.Errorf("insert person: %w", err)
	}
	r.logger.Info("Added person.", "name", name)
	return nil
}

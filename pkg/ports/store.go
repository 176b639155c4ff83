package ports

import (
	"context"

	"github.com/aretw0/switchyard/pkg/domain"
)

// ProjectStore defines the interface for persisting project records.
type ProjectStore interface {
	// Save persists the record under its ID, replacing any previous version.
	Save(ctx context.Context, rec *domain.ProjectRecord) error

	// Load retrieves a record.
	// Returns domain.ErrProjectNotFound if the record does not exist.
	Load(ctx context.Context, id string) (*domain.ProjectRecord, error)

	// Delete removes a record. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the ids of every stored record.
	List(ctx context.Context) ([]string, error)
}

package repositories

import (
	"context"

	"atelier/internal/domain/models"
)

// ProjectRepository defines data access operations for projects.
// Like files, every operation is scoped by owner ID.
type ProjectRepository interface {
	// Create inserts a new project row
	Create(ctx context.Context, project *models.Project) error

	// GetByID retrieves a project by ID
	GetByID(ctx context.Context, id, ownerID string) (*models.Project, error)

	// Update writes the mutable columns of a project row
	Update(ctx context.Context, project *models.Project) error

	// Delete removes a project row
	Delete(ctx context.Context, id, ownerID string) error

	// List retrieves all projects for an owner, ordered by updated_at DESC
	List(ctx context.Context, ownerID string) ([]models.Project, error)

	// Exists reports whether a project with the given ID exists for the owner
	Exists(ctx context.Context, id, ownerID string) (bool, error)
}

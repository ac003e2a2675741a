package services

import (
	"context"

	"atelier/internal/domain/models"
)

// ProjectService handles project business logic
type ProjectService interface {
	// List retrieves all projects for the owner
	List(ctx context.Context, ownerID string) ([]models.Project, error)

	// Get retrieves a project by ID
	Get(ctx context.Context, ownerID, id string) (*models.Project, error)

	// Create creates a new project
	Create(ctx context.Context, ownerID string, req *CreateProjectRequest) (*models.Project, error)

	// Update applies a partial update to a project
	Update(ctx context.Context, ownerID, id string, req *UpdateProjectRequest) (*models.Project, error)

	// Delete removes a project; files referencing it have their project
	// link cleared in the same transaction. Returns the deleted record.
	Delete(ctx context.Context, ownerID, id string) (*models.Project, error)
}

// CreateProjectRequest represents a project creation request
type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// UpdateProjectRequest represents a partial project update
type UpdateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

package service

import (
	"context"
	"fmt"

	"atelier/internal/domain/models"
	"atelier/internal/domain/repositories"
)

// ResourceValidator checks parent and project references before creates and
// updates mutate anything. The checks are single owner-scoped existence
// lookups; they never mutate.
type ResourceValidator struct {
	fileRepo    repositories.FileRepository
	projectRepo repositories.ProjectRepository
}

// NewResourceValidator creates a new resource validator
func NewResourceValidator(
	fileRepo repositories.FileRepository,
	projectRepo repositories.ProjectRepository,
) *ResourceValidator {
	return &ResourceValidator{
		fileRepo:    fileRepo,
		projectRepo: projectRepo,
	}
}

// ParentExists reports whether parentID resolves to an item owned by
// ownerID. With requireFolder the item must also be of folder kind.
func (v *ResourceValidator) ParentExists(ctx context.Context, ownerID, parentID string, requireFolder bool) (bool, error) {
	var kind *models.FileKind
	if requireFolder {
		folder := models.FileKindFolder
		kind = &folder
	}

	exists, err := v.fileRepo.Exists(ctx, parentID, ownerID, kind)
	if err != nil {
		return false, fmt.Errorf("check parent: %w", err)
	}
	return exists, nil
}

// ProjectExists reports whether projectID resolves to a project owned by
// ownerID.
func (v *ResourceValidator) ProjectExists(ctx context.Context, ownerID, projectID string) (bool, error) {
	exists, err := v.projectRepo.Exists(ctx, projectID, ownerID)
	if err != nil {
		return false, fmt.Errorf("check project: %w", err)
	}
	return exists, nil
}

// IsSelfParent reports whether assigning parentID would make an item its own
// parent (the trivial cycle).
func IsSelfParent(itemID, parentID string) bool {
	return itemID == parentID
}

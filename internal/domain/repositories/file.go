package repositories

import (
	"context"

	"atelier/internal/domain/models"
)

// FileListQuery describes the filters, pagination and ordering of a file
// list request. Unset filters impose no constraint. ParentSet distinguishes
// "no parent filter" from "explicitly root-level" (ParentID == nil).
type FileListQuery struct {
	Kind      *models.FileKind
	ProjectID *string
	ParentSet bool
	ParentID  *string
	Search    string

	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

// FileRepository defines data access operations for files and folders.
// Every operation is scoped by owner ID; rows belonging to other owners are
// invisible.
type FileRepository interface {
	// Create inserts a new file row
	Create(ctx context.Context, file *models.FileItem) error

	// GetByID retrieves a file by ID
	GetByID(ctx context.Context, id, ownerID string) (*models.FileItem, error)

	// Update writes all mutable columns of a file row
	Update(ctx context.Context, file *models.FileItem) error

	// Delete removes a single file row
	Delete(ctx context.Context, id, ownerID string) error

	// List returns one page of files matching the query plus the total
	// match count before pagination
	List(ctx context.Context, ownerID string, q *FileListQuery) ([]models.FileItem, int, error)

	// GetByIDs retrieves every file in ids owned by ownerID; missing or
	// foreign IDs are silently absent from the result
	GetByIDs(ctx context.Context, ids []string, ownerID string) ([]models.FileItem, error)

	// DeleteByIDs removes every matched row and returns the count deleted
	DeleteByIDs(ctx context.Context, ids []string, ownerID string) (int64, error)

	// DeleteChildren removes all rows whose parent_id equals parentID
	// (direct children only) and returns the count deleted
	DeleteChildren(ctx context.Context, parentID, ownerID string) (int64, error)

	// MoveToParent re-parents every matched row and refreshes updated_at,
	// returning the count updated
	MoveToParent(ctx context.Context, ids []string, targetID, ownerID string) (int64, error)

	// Exists reports whether a file with the given ID exists for the owner,
	// optionally restricted to a kind
	Exists(ctx context.Context, id, ownerID string, kind *models.FileKind) (bool, error)

	// ClearProjectRefs clears project_id on every file referencing the
	// project, returning the count updated
	ClearProjectRefs(ctx context.Context, projectID, ownerID string) (int64, error)
}

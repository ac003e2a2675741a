package services

import (
	"context"

	"atelier/internal/domain/models"
	"atelier/internal/domain/repositories"
)

// Batch operations applied across a set of file IDs.
const (
	BatchOpDelete = "delete"
	BatchOpMove   = "move"
	BatchOpCopy   = "copy"
)

// FileService handles file and folder business logic
type FileService interface {
	// List returns one page of the caller's files matching the query
	List(ctx context.Context, ownerID string, q *repositories.FileListQuery) (*FileListResult, error)

	// Get retrieves a single file by ID
	Get(ctx context.Context, ownerID, id string) (*models.FileItem, error)

	// Create creates a new file or folder
	Create(ctx context.Context, ownerID string, req *CreateFileRequest) (*models.FileItem, error)

	// Update applies a partial update; only supplied fields change
	Update(ctx context.Context, ownerID, id string, req *UpdateFileRequest) (*models.FileItem, error)

	// Delete removes a file; deleting a folder also removes its direct
	// children in the same transaction. Returns the deleted record.
	Delete(ctx context.Context, ownerID, id string) (*models.FileItem, error)

	// Batch applies one operation (delete, move or copy) across a set of
	// file IDs atomically
	Batch(ctx context.Context, ownerID string, req *BatchRequest) (*BatchResult, error)
}

// CreateFileRequest represents a file creation request
type CreateFileRequest struct {
	Name      string  `json:"name"`
	Kind      string  `json:"kind"` // "file" (default) or "folder"
	ParentID  *string `json:"parentId"`
	Path      string  `json:"path"`
	Body      string  `json:"codeBody"`
	ProjectID *string `json:"projectId"`
}

// OptionalRef tracks tri-state semantics for nullable reference updates
// (RFC 7396 PATCH). Transport-agnostic (no JSON tags) - the handler maps
// from httputil.OptionalString.
//   - Present=false: field absent from request (don't change)
//   - Present=true, Value=nil: field is null (clear / move to root)
//   - Present=true, Value=&id: field references id
type OptionalRef struct {
	Present bool
	Value   *string
}

// UpdateFileRequest represents a partial file update. Only non-nil /
// present fields are applied.
type UpdateFileRequest struct {
	Name              *string
	Kind              *string
	Path              *string
	Body              *string
	CollaboratorsJSON *string
	Version           *int
	ParentID          OptionalRef
	ProjectID         OptionalRef
}

// Pagination describes the page returned by a list query
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// FileListResult is one page of files plus pagination metadata
type FileListResult struct {
	Files      []models.FileItem `json:"files"`
	Pagination Pagination        `json:"pagination"`
}

// BatchRequest represents a bulk operation over 1-100 file IDs
type BatchRequest struct {
	Operation string   `json:"operation"`
	FileIDs   []string `json:"fileIds"`
	TargetID  *string  `json:"targetId"`
}

// BatchResult reports what a batch operation did
type BatchResult struct {
	Operation string  `json:"operation"`
	Affected  int64   `json:"affected"`
	TargetID  *string `json:"targetId,omitempty"`
}

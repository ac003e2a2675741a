package models

import (
	"time"
)

// FileKind discriminates files from folders.
type FileKind string

const (
	FileKindFile   FileKind = "file"
	FileKindFolder FileKind = "folder"
)

// Valid reports whether k is a known kind.
func (k FileKind) Valid() bool {
	return k == FileKindFile || k == FileKindFolder
}

// FileItem is a file or folder record owned by a user, optionally nested
// under a parent folder and optionally scoped to a project. Every read and
// write is filtered by OwnerID.
type FileItem struct {
	ID                string    `json:"id" db:"id"`
	OwnerID           string    `json:"ownerId" db:"owner_id"`
	Name              string    `json:"name" db:"name"`
	Kind              FileKind  `json:"kind" db:"kind"`
	ParentID          *string   `json:"parentId" db:"parent_id"` // NULL = root level
	Path              string    `json:"path,omitempty" db:"path"`
	Body              string    `json:"codeBody,omitempty" db:"body"`
	ProjectID         *string   `json:"projectId" db:"project_id"`
	CollaboratorsJSON *string   `json:"collaboratorsJson,omitempty" db:"collaborators_json"`
	Version           *int      `json:"version,omitempty" db:"version"`
	CreatedAt         time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time `json:"updatedAt" db:"updated_at"`
}

// IsFolder reports whether the item can hold children.
func (f *FileItem) IsFolder() bool {
	return f.Kind == FileKindFolder
}

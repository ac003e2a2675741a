package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"atelier/internal/config"
	"atelier/internal/domain"
	"atelier/internal/domain/models"
	"atelier/internal/domain/repositories"
	"atelier/internal/domain/services"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

type fileService struct {
	fileRepo  repositories.FileRepository
	validator *ResourceValidator
	txManager repositories.TransactionManager
	logger    *slog.Logger
}

// NewFileService creates a new file service
func NewFileService(
	fileRepo repositories.FileRepository,
	validator *ResourceValidator,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.FileService {
	return &fileService{
		fileRepo:  fileRepo,
		validator: validator,
		txManager: txManager,
		logger:    logger,
	}
}

// List returns one page of the caller's files matching the query
func (s *fileService) List(ctx context.Context, ownerID string, q *repositories.FileListQuery) (*services.FileListResult, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = config.DefaultListLimit
	}
	if q.Limit > config.MaxListLimit {
		q.Limit = config.MaxListLimit
	}

	files, total, err := s.fileRepo.List(ctx, ownerID, q)
	if err != nil {
		return nil, err
	}
	if files == nil {
		files = []models.FileItem{}
	}

	return &services.FileListResult{
		Files: files,
		Pagination: services.Pagination{
			Page:       q.Page,
			Limit:      q.Limit,
			Total:      total,
			TotalPages: (total + q.Limit - 1) / q.Limit,
		},
	}, nil
}

// Get retrieves a single file by ID
func (s *fileService) Get(ctx context.Context, ownerID, id string) (*models.FileItem, error) {
	return s.fileRepo.GetByID(ctx, id, ownerID)
}

// Create creates a new file or folder
func (s *fileService) Create(ctx context.Context, ownerID string, req *services.CreateFileRequest) (*models.FileItem, error) {
	if err := validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	kind := models.FileKind(req.Kind)
	if req.Kind == "" {
		kind = models.FileKindFile
	}

	// Normalize empty string to nil for root-level files
	if req.ParentID != nil && *req.ParentID == "" {
		req.ParentID = nil
	}
	if req.ProjectID != nil && *req.ProjectID == "" {
		req.ProjectID = nil
	}

	// The parent is a constraint on the new item, not the requested
	// resource, so a bad reference is a validation failure rather than
	// NotFound.
	if req.ParentID != nil {
		exists, err := s.validator.ParentExists(ctx, ownerID, *req.ParentID, false)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, fmt.Errorf("%w: parent folder %s not found", domain.ErrValidation, *req.ParentID)
		}
	}
	if req.ProjectID != nil {
		exists, err := s.validator.ProjectExists(ctx, ownerID, *req.ProjectID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, fmt.Errorf("%w: project %s not found", domain.ErrValidation, *req.ProjectID)
		}
	}

	now := time.Now()
	file := &models.FileItem{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Name:      strings.TrimSpace(req.Name),
		Kind:      kind,
		ParentID:  req.ParentID,
		Path:      req.Path,
		Body:      req.Body,
		ProjectID: req.ProjectID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.fileRepo.Create(ctx, file); err != nil {
		return nil, err
	}

	s.logger.Info("file created",
		"id", file.ID,
		"name", file.Name,
		"kind", file.Kind,
		"owner_id", ownerID,
		"parent_id", file.ParentID,
	)

	return file, nil
}

// Update applies a partial update; only supplied fields change
func (s *fileService) Update(ctx context.Context, ownerID, id string, req *services.UpdateFileRequest) (*models.FileItem, error) {
	if err := validateUpdateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	file, err := s.fileRepo.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		file.Name = strings.TrimSpace(*req.Name)
	}
	if req.Kind != nil {
		file.Kind = models.FileKind(*req.Kind)
	}
	if req.Path != nil {
		file.Path = *req.Path
	}
	if req.Body != nil {
		file.Body = *req.Body
	}
	if req.CollaboratorsJSON != nil {
		file.CollaboratorsJSON = req.CollaboratorsJSON
	}
	if req.Version != nil {
		file.Version = req.Version
	}

	// Tri-state: only touch the parent link if the field was present
	if req.ParentID.Present {
		if req.ParentID.Value != nil {
			if IsSelfParent(id, *req.ParentID.Value) {
				return nil, fmt.Errorf("%w: a file cannot be its own parent", domain.ErrValidation)
			}
			exists, err := s.validator.ParentExists(ctx, ownerID, *req.ParentID.Value, true)
			if err != nil {
				return nil, err
			}
			if !exists {
				return nil, fmt.Errorf("%w: parent folder %s not found", domain.ErrValidation, *req.ParentID.Value)
			}
			file.ParentID = req.ParentID.Value
		} else {
			// null = move to root
			file.ParentID = nil
		}
	}

	if req.ProjectID.Present {
		if req.ProjectID.Value != nil {
			exists, err := s.validator.ProjectExists(ctx, ownerID, *req.ProjectID.Value)
			if err != nil {
				return nil, err
			}
			if !exists {
				return nil, fmt.Errorf("%w: project %s not found", domain.ErrValidation, *req.ProjectID.Value)
			}
			file.ProjectID = req.ProjectID.Value
		} else {
			file.ProjectID = nil
		}
	}

	file.UpdatedAt = time.Now()

	if err := s.fileRepo.Update(ctx, file); err != nil {
		return nil, err
	}

	s.logger.Info("file updated",
		"id", file.ID,
		"name", file.Name,
		"owner_id", ownerID,
	)

	return file, nil
}

// Delete removes a file. Deleting a folder removes the folder and its direct
// children in one transaction; partial failure rolls back entirely.
func (s *fileService) Delete(ctx context.Context, ownerID, id string) (*models.FileItem, error) {
	file, err := s.fileRepo.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if file.IsFolder() {
		err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
			deleted, err := s.fileRepo.DeleteChildren(txCtx, id, ownerID)
			if err != nil {
				return err
			}
			s.logger.Debug("folder children deleted", "folder_id", id, "count", deleted)

			return s.fileRepo.Delete(txCtx, id, ownerID)
		})
	} else {
		err = s.fileRepo.Delete(ctx, id, ownerID)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("file deleted",
		"id", file.ID,
		"name", file.Name,
		"kind", file.Kind,
		"owner_id", ownerID,
	)

	return file, nil
}

// Batch applies one operation across a set of file IDs atomically
func (s *fileService) Batch(ctx context.Context, ownerID string, req *services.BatchRequest) (*services.BatchResult, error) {
	// Shape validation happens before any transaction opens
	if err := validateBatchRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	// Every requested ID must resolve to an item owned by the caller;
	// partial batches are rejected outright.
	items, err := s.fileRepo.GetByIDs(ctx, req.FileIDs, ownerID)
	if err != nil {
		return nil, err
	}
	if len(items) != len(req.FileIDs) {
		return nil, fmt.Errorf("%w: one or more files not found", domain.ErrValidation)
	}

	var targetID string
	if req.Operation == services.BatchOpMove || req.Operation == services.BatchOpCopy {
		if req.TargetID == nil || *req.TargetID == "" {
			return nil, fmt.Errorf("%w: targetId is required for %s", domain.ErrValidation, req.Operation)
		}
		targetID = *req.TargetID

		exists, err := s.validator.ParentExists(ctx, ownerID, targetID, true)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, fmt.Errorf("%w: target folder %s not found", domain.ErrValidation, targetID)
		}
	}

	result := &services.BatchResult{Operation: req.Operation}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		// Re-assert membership now that the transaction holds a consistent
		// snapshot; a concurrent delete since the precheck shrinks the set.
		items, err = s.fileRepo.GetByIDs(txCtx, req.FileIDs, ownerID)
		if err != nil {
			return err
		}
		if len(items) != len(req.FileIDs) {
			return fmt.Errorf("%w: one or more files not found", domain.ErrValidation)
		}

		switch req.Operation {
		case services.BatchOpDelete:
			affected, err := s.fileRepo.DeleteByIDs(txCtx, req.FileIDs, ownerID)
			if err != nil {
				return err
			}
			result.Affected = affected

		case services.BatchOpMove:
			affected, err := s.fileRepo.MoveToParent(txCtx, req.FileIDs, targetID, ownerID)
			if err != nil {
				return err
			}
			result.Affected = affected
			result.TargetID = &targetID

		case services.BatchOpCopy:
			now := time.Now()
			for i := range items {
				src := &items[i]
				clone := &models.FileItem{
					ID:                uuid.NewString(),
					OwnerID:           ownerID,
					Name:              src.Name + " (copy)",
					Kind:              src.Kind,
					ParentID:          &targetID,
					Path:              src.Path,
					Body:              src.Body,
					ProjectID:         src.ProjectID,
					CollaboratorsJSON: src.CollaboratorsJSON,
					Version:           src.Version,
					CreatedAt:         now,
					UpdatedAt:         now,
				}
				if err := s.fileRepo.Create(txCtx, clone); err != nil {
					return err
				}
			}
			result.Affected = int64(len(items))
			result.TargetID = &targetID
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("batch operation completed",
		"operation", req.Operation,
		"affected", result.Affected,
		"owner_id", ownerID,
	)

	return result, nil
}

// validateCreateRequest validates a file creation request
func validateCreateRequest(req *services.CreateFileRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, config.MaxFileNameLength)),
		validation.Field(&req.Kind, validation.In(string(models.FileKindFile), string(models.FileKindFolder))),
		validation.Field(&req.Path, validation.Length(0, config.MaxFilePathLength)),
	)
}

// validateUpdateRequest validates a partial file update
func validateUpdateRequest(req *services.UpdateFileRequest) error {
	rules := []*validation.FieldRules{}

	if req.Name != nil {
		rules = append(rules,
			validation.Field(&req.Name, validation.Required, validation.Length(1, config.MaxFileNameLength)),
		)
	}
	if req.Kind != nil {
		// In skips empty values, so Required is needed to reject "" here
		rules = append(rules,
			validation.Field(&req.Kind, validation.Required, validation.In(string(models.FileKindFile), string(models.FileKindFolder))),
		)
	}
	if req.Path != nil {
		rules = append(rules,
			validation.Field(&req.Path, validation.Length(0, config.MaxFilePathLength)),
		)
	}

	return validation.ValidateStruct(req, rules...)
}

// validateBatchRequest validates a batch request shape. Unknown operations
// and out-of-range ID sets are rejected here, before any store access.
func validateBatchRequest(req *services.BatchRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Operation,
			validation.Required,
			validation.In(services.BatchOpDelete, services.BatchOpMove, services.BatchOpCopy),
		),
		validation.Field(&req.FileIDs,
			validation.Required,
			validation.Length(1, config.MaxBatchSize),
		),
	)
}

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

type projectService struct {
	projectRepo repositories.ProjectRepository
	fileRepo    repositories.FileRepository
	txManager   repositories.TransactionManager
	logger      *slog.Logger
}

// NewProjectService creates a new project service
func NewProjectService(
	projectRepo repositories.ProjectRepository,
	fileRepo repositories.FileRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.ProjectService {
	return &projectService{
		projectRepo: projectRepo,
		fileRepo:    fileRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// List retrieves all projects for the owner
func (s *projectService) List(ctx context.Context, ownerID string) ([]models.Project, error) {
	projects, err := s.projectRepo.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if projects == nil {
		projects = []models.Project{}
	}
	return projects, nil
}

// Get retrieves a project by ID
func (s *projectService) Get(ctx context.Context, ownerID, id string) (*models.Project, error) {
	return s.projectRepo.GetByID(ctx, id, ownerID)
}

// Create creates a new project
func (s *projectService) Create(ctx context.Context, ownerID string, req *services.CreateProjectRequest) (*models.Project, error) {
	if err := validateCreateProjectRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	now := time.Now()
	project := &models.Project{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}

	s.logger.Info("project created",
		"id", project.ID,
		"name", project.Name,
		"owner_id", ownerID,
	)

	return project, nil
}

// Update applies a partial update to a project
func (s *projectService) Update(ctx context.Context, ownerID, id string, req *services.UpdateProjectRequest) (*models.Project, error) {
	if err := validateUpdateProjectRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	project, err := s.projectRepo.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		project.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	project.UpdatedAt = time.Now()

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, err
	}

	s.logger.Info("project updated", "id", project.ID, "owner_id", ownerID)

	return project, nil
}

// Delete removes a project. Files referencing it have their project link
// cleared in the same transaction so no dangling references survive.
func (s *projectService) Delete(ctx context.Context, ownerID, id string) (*models.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		cleared, err := s.fileRepo.ClearProjectRefs(txCtx, id, ownerID)
		if err != nil {
			return err
		}
		s.logger.Debug("project refs cleared", "project_id", id, "count", cleared)

		return s.projectRepo.Delete(txCtx, id, ownerID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("project deleted",
		"id", project.ID,
		"name", project.Name,
		"owner_id", ownerID,
	)

	return project, nil
}

// validateCreateProjectRequest validates a project creation request
func validateCreateProjectRequest(req *services.CreateProjectRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, config.MaxProjectNameLength)),
	)
}

// validateUpdateProjectRequest validates a partial project update
func validateUpdateProjectRequest(req *services.UpdateProjectRequest) error {
	// At least one field must be provided
	if req.Name == nil && req.Description == nil {
		return fmt.Errorf("at least one field must be provided")
	}

	rules := []*validation.FieldRules{}
	if req.Name != nil {
		rules = append(rules,
			validation.Field(&req.Name, validation.Required, validation.Length(1, config.MaxProjectNameLength)),
		)
	}

	return validation.ValidateStruct(req, rules...)
}

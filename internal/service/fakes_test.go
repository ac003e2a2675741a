package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"atelier/internal/domain"
	"atelier/internal/domain/models"
	"atelier/internal/domain/repositories"
)

// memFileRepo is an in-memory FileRepository used by service tests. It
// mirrors the owner scoping and filter semantics of the postgres
// implementation.
type memFileRepo struct {
	files map[string]models.FileItem
}

func newMemFileRepo() *memFileRepo {
	return &memFileRepo{files: make(map[string]models.FileItem)}
}

func (r *memFileRepo) Create(ctx context.Context, file *models.FileItem) error {
	if _, ok := r.files[file.ID]; ok {
		return fmt.Errorf("duplicate id %s", file.ID)
	}
	r.files[file.ID] = *file
	return nil
}

func (r *memFileRepo) GetByID(ctx context.Context, id, ownerID string) (*models.FileItem, error) {
	file, ok := r.files[id]
	if !ok || file.OwnerID != ownerID {
		return nil, fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
	}
	copied := file
	return &copied, nil
}

func (r *memFileRepo) Update(ctx context.Context, file *models.FileItem) error {
	existing, ok := r.files[file.ID]
	if !ok || existing.OwnerID != file.OwnerID {
		return fmt.Errorf("file %s: %w", file.ID, domain.ErrNotFound)
	}
	r.files[file.ID] = *file
	return nil
}

func (r *memFileRepo) Delete(ctx context.Context, id, ownerID string) error {
	file, ok := r.files[id]
	if !ok || file.OwnerID != ownerID {
		return fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
	}
	delete(r.files, id)
	return nil
}

func (r *memFileRepo) List(ctx context.Context, ownerID string, q *repositories.FileListQuery) ([]models.FileItem, int, error) {
	var matched []models.FileItem
	for _, file := range r.files {
		if file.OwnerID != ownerID {
			continue
		}
		if q.Kind != nil && file.Kind != *q.Kind {
			continue
		}
		if q.ProjectID != nil && (file.ProjectID == nil || *file.ProjectID != *q.ProjectID) {
			continue
		}
		if q.ParentSet {
			if q.ParentID == nil {
				if file.ParentID != nil {
					continue
				}
			} else if file.ParentID == nil || *file.ParentID != *q.ParentID {
				continue
			}
		}
		if q.Search != "" && !strings.Contains(strings.ToLower(file.Name), strings.ToLower(q.Search)) {
			continue
		}
		matched = append(matched, file)
	}

	desc := !strings.EqualFold(q.SortOrder, "asc")
	sort.Slice(matched, func(i, j int) bool {
		var less bool
		switch q.SortBy {
		case "name":
			less = matched[i].Name < matched[j].Name
		case "kind":
			less = matched[i].Kind < matched[j].Kind
		case "created_at":
			less = matched[i].CreatedAt.Before(matched[j].CreatedAt)
		default:
			less = matched[i].UpdatedAt.Before(matched[j].UpdatedAt)
		}
		if desc {
			return !less
		}
		return less
	})

	total := len(matched)
	start := (q.Page - 1) * q.Limit
	if start > total {
		start = total
	}
	end := start + q.Limit
	if end > total {
		end = total
	}

	return matched[start:end], total, nil
}

func (r *memFileRepo) GetByIDs(ctx context.Context, ids []string, ownerID string) ([]models.FileItem, error) {
	var found []models.FileItem
	for _, id := range ids {
		if file, ok := r.files[id]; ok && file.OwnerID == ownerID {
			found = append(found, file)
		}
	}
	return found, nil
}

func (r *memFileRepo) DeleteByIDs(ctx context.Context, ids []string, ownerID string) (int64, error) {
	var count int64
	for _, id := range ids {
		if file, ok := r.files[id]; ok && file.OwnerID == ownerID {
			delete(r.files, id)
			count++
		}
	}
	return count, nil
}

func (r *memFileRepo) DeleteChildren(ctx context.Context, parentID, ownerID string) (int64, error) {
	var count int64
	for id, file := range r.files {
		if file.OwnerID == ownerID && file.ParentID != nil && *file.ParentID == parentID {
			delete(r.files, id)
			count++
		}
	}
	return count, nil
}

func (r *memFileRepo) MoveToParent(ctx context.Context, ids []string, targetID, ownerID string) (int64, error) {
	var count int64
	for _, id := range ids {
		if file, ok := r.files[id]; ok && file.OwnerID == ownerID {
			file.ParentID = &targetID
			file.UpdatedAt = time.Now()
			r.files[id] = file
			count++
		}
	}
	return count, nil
}

func (r *memFileRepo) Exists(ctx context.Context, id, ownerID string, kind *models.FileKind) (bool, error) {
	file, ok := r.files[id]
	if !ok || file.OwnerID != ownerID {
		return false, nil
	}
	if kind != nil && file.Kind != *kind {
		return false, nil
	}
	return true, nil
}

func (r *memFileRepo) ClearProjectRefs(ctx context.Context, projectID, ownerID string) (int64, error) {
	var count int64
	for id, file := range r.files {
		if file.OwnerID == ownerID && file.ProjectID != nil && *file.ProjectID == projectID {
			file.ProjectID = nil
			file.UpdatedAt = time.Now()
			r.files[id] = file
			count++
		}
	}
	return count, nil
}

// memProjectRepo is an in-memory ProjectRepository used by service tests
type memProjectRepo struct {
	projects map[string]models.Project
}

func newMemProjectRepo() *memProjectRepo {
	return &memProjectRepo{projects: make(map[string]models.Project)}
}

func (r *memProjectRepo) Create(ctx context.Context, project *models.Project) error {
	r.projects[project.ID] = *project
	return nil
}

func (r *memProjectRepo) GetByID(ctx context.Context, id, ownerID string) (*models.Project, error) {
	project, ok := r.projects[id]
	if !ok || project.OwnerID != ownerID {
		return nil, fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}
	copied := project
	return &copied, nil
}

func (r *memProjectRepo) Update(ctx context.Context, project *models.Project) error {
	existing, ok := r.projects[project.ID]
	if !ok || existing.OwnerID != project.OwnerID {
		return fmt.Errorf("project %s: %w", project.ID, domain.ErrNotFound)
	}
	r.projects[project.ID] = *project
	return nil
}

func (r *memProjectRepo) Delete(ctx context.Context, id, ownerID string) error {
	project, ok := r.projects[id]
	if !ok || project.OwnerID != ownerID {
		return fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}
	delete(r.projects, id)
	return nil
}

func (r *memProjectRepo) List(ctx context.Context, ownerID string) ([]models.Project, error) {
	var projects []models.Project
	for _, project := range r.projects {
		if project.OwnerID == ownerID {
			projects = append(projects, project)
		}
	}
	sort.Slice(projects, func(i, j int) bool {
		return projects[i].UpdatedAt.After(projects[j].UpdatedAt)
	})
	return projects, nil
}

func (r *memProjectRepo) Exists(ctx context.Context, id, ownerID string) (bool, error) {
	project, ok := r.projects[id]
	return ok && project.OwnerID == ownerID, nil
}

// memTxManager runs the function directly; the in-memory repositories have
// no transaction support, so tests only exercise the success paths of
// transactional flows.
type memTxManager struct{}

func (memTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

// hookTxManager runs a hook just before the transactional function, letting
// tests interleave a store mutation between a precheck and the transaction.
type hookTxManager struct {
	before func()
}

func (m hookTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	if m.before != nil {
		m.before()
	}
	return fn(ctx)
}

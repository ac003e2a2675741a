package postgres

import (
	"context"
	"fmt"
	"strings"

	"atelier/internal/domain"
	"atelier/internal/domain/models"
	"atelier/internal/domain/repositories"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// fileColumns is the column list shared by every SELECT on the files table.
const fileColumns = "id, owner_id, name, kind, parent_id, path, body, project_id, collaborators_json, version, created_at, updated_at"

// sortColumns whitelists the columns a list query may order by. Anything
// else falls back to updated_at.
var sortColumns = map[string]string{
	"name":       "name",
	"kind":       "kind",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

// PostgresFileRepository implements the FileRepository interface
type PostgresFileRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewFileRepository creates a new file repository
func NewFileRepository(config *RepositoryConfig) repositories.FileRepository {
	return &PostgresFileRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a new file row
func (r *PostgresFileRepository) Create(ctx context.Context, file *models.FileItem) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, r.tables.Files, fileColumns)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		file.ID,
		file.OwnerID,
		file.Name,
		file.Kind,
		file.ParentID,
		file.Path,
		file.Body,
		file.ProjectID,
		file.CollaboratorsJSON,
		file.Version,
		file.CreatedAt,
		file.UpdatedAt,
	)
	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ValidationError{Message: fmt.Sprintf("file %s already exists", file.ID)}
		}
		if IsPgForeignKeyError(err) {
			return &domain.ValidationError{Message: "parent or project reference is invalid"}
		}
		return fmt.Errorf("create file: %w", err)
	}

	return nil
}

// GetByID retrieves a file by ID, scoped by owner
func (r *PostgresFileRepository) GetByID(ctx context.Context, id, ownerID string) (*models.FileItem, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND owner_id = $2
	`, fileColumns, r.tables.Files)

	executor := GetExecutor(ctx, r.pool)
	file, err := scanFile(executor.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get file: %w", err)
	}

	return file, nil
}

// Update writes all mutable columns of a file row
func (r *PostgresFileRepository) Update(ctx context.Context, file *models.FileItem) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, kind = $2, parent_id = $3, path = $4, body = $5,
		    project_id = $6, collaborators_json = $7, version = $8, updated_at = $9
		WHERE id = $10 AND owner_id = $11
	`, r.tables.Files)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		file.Name,
		file.Kind,
		file.ParentID,
		file.Path,
		file.Body,
		file.ProjectID,
		file.CollaboratorsJSON,
		file.Version,
		file.UpdatedAt,
		file.ID,
		file.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("update file: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("file %s: %w", file.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete removes a single file row
func (r *PostgresFileRepository) Delete(ctx context.Context, id, ownerID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND owner_id = $2
	`, r.tables.Files)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// List returns one page of files matching the query plus the total match
// count before pagination. Filters are combined with AND; the ParentSet flag
// distinguishes "no parent filter" from "explicitly root-level".
func (r *PostgresFileRepository) List(ctx context.Context, ownerID string, q *repositories.FileListQuery) ([]models.FileItem, int, error) {
	conditions := []string{"owner_id = $1"}
	args := []interface{}{ownerID}

	if q.Kind != nil {
		args = append(args, *q.Kind)
		conditions = append(conditions, fmt.Sprintf("kind = $%d", len(args)))
	}
	if q.ProjectID != nil {
		args = append(args, *q.ProjectID)
		conditions = append(conditions, fmt.Sprintf("project_id = $%d", len(args)))
	}
	if q.ParentSet {
		if q.ParentID == nil {
			conditions = append(conditions, "parent_id IS NULL")
		} else {
			args = append(args, *q.ParentID)
			conditions = append(conditions, fmt.Sprintf("parent_id = $%d", len(args)))
		}
	}
	if q.Search != "" {
		args = append(args, "%"+q.Search+"%")
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", len(args)))
	}

	whereClause := strings.Join(conditions, " AND ")
	executor := GetExecutor(ctx, r.pool)

	// Total count before pagination
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s`, r.tables.Files, whereClause)
	var total int
	if err := executor.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count files: %w", err)
	}

	sortBy, ok := sortColumns[q.SortBy]
	if !ok {
		sortBy = "updated_at"
	}
	sortOrder := "DESC"
	if strings.EqualFold(q.SortOrder, "asc") {
		sortOrder = "ASC"
	}

	args = append(args, q.Limit, (q.Page-1)*q.Limit)
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, fileColumns, r.tables.Files, whereClause, sortBy, sortOrder, len(args)-1, len(args))

	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()

	files, err := scanFiles(rows)
	if err != nil {
		return nil, 0, err
	}

	return files, total, nil
}

// GetByIDs retrieves every file in ids owned by ownerID
func (r *PostgresFileRepository) GetByIDs(ctx context.Context, ids []string, ownerID string) ([]models.FileItem, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = ANY($1) AND owner_id = $2
	`, fileColumns, r.tables.Files)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, ids, ownerID)
	if err != nil {
		return nil, fmt.Errorf("get files by ids: %w", err)
	}
	defer rows.Close()

	return scanFiles(rows)
}

// DeleteByIDs removes every matched row and returns the count deleted
func (r *PostgresFileRepository) DeleteByIDs(ctx context.Context, ids []string, ownerID string) (int64, error) {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = ANY($1) AND owner_id = $2
	`, r.tables.Files)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, ids, ownerID)
	if err != nil {
		return 0, fmt.Errorf("delete files by ids: %w", err)
	}

	return result.RowsAffected(), nil
}

// DeleteChildren removes all direct children of a folder and returns the
// count deleted. Grandchildren are not touched.
func (r *PostgresFileRepository) DeleteChildren(ctx context.Context, parentID, ownerID string) (int64, error) {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE parent_id = $1 AND owner_id = $2
	`, r.tables.Files)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, parentID, ownerID)
	if err != nil {
		return 0, fmt.Errorf("delete folder children: %w", err)
	}

	return result.RowsAffected(), nil
}

// MoveToParent re-parents every matched row and refreshes updated_at
func (r *PostgresFileRepository) MoveToParent(ctx context.Context, ids []string, targetID, ownerID string) (int64, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET parent_id = $1, updated_at = now()
		WHERE id = ANY($2) AND owner_id = $3
	`, r.tables.Files)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, targetID, ids, ownerID)
	if err != nil {
		return 0, fmt.Errorf("move files: %w", err)
	}

	return result.RowsAffected(), nil
}

// Exists reports whether a file exists for the owner, optionally restricted
// to a kind. Backs the hierarchy validator; never mutates.
func (r *PostgresFileRepository) Exists(ctx context.Context, id, ownerID string, kind *models.FileKind) (bool, error) {
	var query string
	var args []interface{}

	if kind == nil {
		query = fmt.Sprintf(`
			SELECT EXISTS(SELECT 1 FROM %s WHERE id = $1 AND owner_id = $2)
		`, r.tables.Files)
		args = []interface{}{id, ownerID}
	} else {
		query = fmt.Sprintf(`
			SELECT EXISTS(SELECT 1 FROM %s WHERE id = $1 AND owner_id = $2 AND kind = $3)
		`, r.tables.Files)
		args = []interface{}{id, ownerID, *kind}
	}

	var exists bool
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check file exists: %w", err)
	}

	return exists, nil
}

// ClearProjectRefs clears project_id on every file referencing the project
func (r *PostgresFileRepository) ClearProjectRefs(ctx context.Context, projectID, ownerID string) (int64, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET project_id = NULL, updated_at = now()
		WHERE project_id = $1 AND owner_id = $2
	`, r.tables.Files)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, projectID, ownerID)
	if err != nil {
		return 0, fmt.Errorf("clear project refs: %w", err)
	}

	return result.RowsAffected(), nil
}

// scanFile scans a single file row
func scanFile(row pgx.Row) (*models.FileItem, error) {
	var file models.FileItem
	err := row.Scan(
		&file.ID,
		&file.OwnerID,
		&file.Name,
		&file.Kind,
		&file.ParentID,
		&file.Path,
		&file.Body,
		&file.ProjectID,
		&file.CollaboratorsJSON,
		&file.Version,
		&file.CreatedAt,
		&file.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// scanFiles drains a result set of file rows
func scanFiles(rows pgx.Rows) ([]models.FileItem, error) {
	var files []models.FileItem
	for rows.Next() {
		file, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, *file)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate files: %w", err)
	}

	return files, nil
}

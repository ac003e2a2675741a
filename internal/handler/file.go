package handler

import (
	"log/slog"
	"math"
	"net/http"

	"atelier/internal/config"
	"atelier/internal/domain/models"
	"atelier/internal/domain/repositories"
	"atelier/internal/domain/services"
	"atelier/internal/httputil"
)

// sortParams maps API sort values onto the columns the repository orders
// by. Both camelCase and snake_case spellings are accepted.
var sortParams = map[string]string{
	"name":       "name",
	"kind":       "kind",
	"createdAt":  "created_at",
	"created_at": "created_at",
	"updatedAt":  "updated_at",
	"updated_at": "updated_at",
}

// FileHandler handles file HTTP requests
type FileHandler struct {
	fileService services.FileService
	logger      *slog.Logger
}

// NewFileHandler creates a new file handler
func NewFileHandler(fileService services.FileService, logger *slog.Logger) *FileHandler {
	return &FileHandler{
		fileService: fileService,
		logger:      logger,
	}
}

// fileResponse wraps a single file record
type fileResponse struct {
	File *models.FileItem `json:"file"`
}

// deleteFileResponse reports a completed deletion
type deleteFileResponse struct {
	Deleted bool             `json:"deleted"`
	File    *models.FileItem `json:"file"`
}

// List retrieves one page of the caller's files
// GET /api/files?kind=&projectId=&parentId=&search=&page=&limit=&sort=&order=
//
// parentId distinguishes three states: absent (no constraint), the literal
// "null" (root-level items only), or a folder ID.
func (h *FileHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetUserID(r)
	params := r.URL.Query()

	q := &repositories.FileListQuery{
		Search:    params.Get("search"),
		Page:      QueryInt(r, "page", 1, 1, math.MaxInt),
		Limit:     QueryInt(r, "limit", config.DefaultListLimit, 1, config.MaxListLimit),
		SortBy:    sortParams[params.Get("sort")],
		SortOrder: params.Get("order"),
	}

	if kind := params.Get("kind"); kind != "" {
		k := models.FileKind(kind)
		q.Kind = &k
	}
	if projectID := params.Get("projectId"); projectID != "" {
		q.ProjectID = &projectID
	}
	if values, ok := params["parentId"]; ok && len(values) > 0 {
		q.ParentSet = true
		if values[0] != "" && values[0] != "null" {
			q.ParentID = &values[0]
		}
	}

	result, err := h.fileService.List(r.Context(), ownerID, q)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// Get retrieves a file by ID
// GET /api/files/{id}
func (h *FileHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "File ID")
	if !ok {
		return
	}

	ownerID := httputil.GetUserID(r)
	file, err := h.fileService.Get(r.Context(), ownerID, id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, fileResponse{File: file})
}

// Create creates a new file or folder
// POST /api/files
func (h *FileHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetUserID(r)

	var req services.CreateFileRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	file, err := h.fileService.Create(r.Context(), ownerID, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, fileResponse{File: file})
}

// updateFileBody is the wire shape of a file update. OptionalString fields
// keep the absent / null / value distinction that *string cannot express.
type updateFileBody struct {
	Name              *string                 `json:"name"`
	Kind              *string                 `json:"kind"`
	ParentID          httputil.OptionalString `json:"parentId"`
	Path              *string                 `json:"path"`
	Body              *string                 `json:"codeBody"`
	ProjectID         httputil.OptionalString `json:"projectId"`
	CollaboratorsJSON *string                 `json:"collaboratorsJson"`
	Version           *int                    `json:"version"`
}

// Update applies a partial update to a file
// PUT /api/files/{id}
func (h *FileHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "File ID")
	if !ok {
		return
	}

	ownerID := httputil.GetUserID(r)

	var body updateFileBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req := services.UpdateFileRequest{
		Name:              body.Name,
		Kind:              body.Kind,
		Path:              body.Path,
		Body:              body.Body,
		CollaboratorsJSON: body.CollaboratorsJSON,
		Version:           body.Version,
		ParentID:          services.OptionalRef{Present: body.ParentID.Present, Value: body.ParentID.Value},
		ProjectID:         services.OptionalRef{Present: body.ProjectID.Present, Value: body.ProjectID.Value},
	}

	file, err := h.fileService.Update(r.Context(), ownerID, id, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, fileResponse{File: file})
}

// Delete removes a file; folders also lose their direct children
// DELETE /api/files/{id}
func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "File ID")
	if !ok {
		return
	}

	ownerID := httputil.GetUserID(r)
	file, err := h.fileService.Delete(r.Context(), ownerID, id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, deleteFileResponse{Deleted: true, File: file})
}

// Batch applies one bulk operation across up to 100 files atomically
// POST /api/files/batch
func (h *FileHandler) Batch(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetUserID(r)

	var req services.BatchRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.fileService.Batch(r.Context(), ownerID, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

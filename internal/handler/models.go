package handler

import (
	"log/slog"
	"net/http"

	"atelier/internal/catalog"
	"atelier/internal/httputil"
)

// ModelsHandler serves the static sandbox model catalog
type ModelsHandler struct {
	registry *catalog.Registry
	logger   *slog.Logger
}

// NewModelsHandler creates a new models handler
func NewModelsHandler(registry *catalog.Registry, logger *slog.Logger) *ModelsHandler {
	return &ModelsHandler{
		registry: registry,
		logger:   logger,
	}
}

type modelListResponse struct {
	Models []catalog.SandboxModel `json:"models"`
}

// List returns every sandbox model in the catalog
// GET /api/models
func (h *ModelsHandler) List(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, modelListResponse{Models: h.registry.ListModels()})
}

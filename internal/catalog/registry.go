package catalog

import (
	"embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed config/*.yaml
var configFiles embed.FS

// Registry holds the sandbox model catalog loaded from embedded YAML
type Registry struct {
	models []SandboxModel
	mu     sync.RWMutex
}

// NewRegistry creates a new catalog registry and loads the embedded YAML file
func NewRegistry() (*Registry, error) {
	r := &Registry{}

	data, err := configFiles.ReadFile("config/models.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read model catalog: %w", err)
	}

	var file modelFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal model catalog: %w", err)
	}

	r.mu.Lock()
	r.models = file.Models
	r.mu.Unlock()

	return r, nil
}

// ListModels returns all catalog models (ordered as defined in YAML)
func (r *Registry) ListModels() []SandboxModel {
	r.mu.RLock()
	defer r.mu.RUnlock()

	models := make([]SandboxModel, len(r.models))
	copy(models, r.models)
	return models
}

// GetModel returns the catalog entry for a model ID
func (r *Registry) GetModel(id string) (*SandboxModel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.models {
		if r.models[i].ID == id {
			return &r.models[i], nil
		}
	}

	return nil, fmt.Errorf("unknown model: %s", id)
}

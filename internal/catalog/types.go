package catalog

// SandboxModel describes one AI model available in the dashboard's sandbox
// pages. The catalog is static metadata; no provider is contacted.
type SandboxModel struct {
	ID            string   `yaml:"id" json:"id"`
	DisplayName   string   `yaml:"display_name" json:"displayName"`
	Description   string   `yaml:"description" json:"description"`
	Provider      string   `yaml:"provider" json:"provider"`
	ContextWindow int      `yaml:"context_window" json:"contextWindow"`
	SupportsImage bool     `yaml:"supports_image" json:"supportsImage"`
	Tags          []string `yaml:"tags" json:"tags"`
}

// modelFile is the on-disk shape of the embedded catalog
type modelFile struct {
	Models []SandboxModel `yaml:"models"`
}

package config

const (
	// MaxFileNameLength is the maximum length for file and folder names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255) and provide
	// reasonable UX (names should be short and descriptive).
	MaxFileNameLength = 255

	// MaxProjectNameLength is the maximum length for project names.
	// Same bound as file names for consistency.
	MaxProjectNameLength = 255

	// MaxFilePathLength is the maximum length for the denormalized display
	// path stored on a file. The path is caller-supplied, never derived from
	// parent links, so the bound only protects the column width.
	MaxFilePathLength = 1000

	// MaxBatchSize is the maximum number of file IDs accepted by a single
	// batch operation. The whole batch executes inside one transaction.
	MaxBatchSize = 100

	// MaxListLimit caps the page size of list queries.
	MaxListLimit = 100

	// DefaultListLimit is the page size used when the caller does not
	// specify one.
	DefaultListLimit = 50
)

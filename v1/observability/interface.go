package observability

import "time"

// OperationContext describes one completed store operation.
type OperationContext struct {
	// Component identifies the adapter, e.g. "pgvector" or "searchindex".
	Component string
	// Operation is the operation name, e.g. "write_documents".
	Operation string
	// Resource is the table or index the operation ran against.
	Resource string
	// Duration is the wall-clock time of the operation.
	Duration time.Duration
	// Error is the operation outcome, nil on success.
	Error error
	// Size is an operation-specific magnitude: documents written, results
	// returned, ids deleted.
	Size int64
	// Metadata carries additional operation-specific context.
	Metadata map[string]any
}

// Observer receives operation notifications from store adapters.
// Implementations must be safe for concurrent use.
type Observer interface {
	ObserveOperation(ctx OperationContext)
}

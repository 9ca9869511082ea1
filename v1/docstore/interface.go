package docstore

import "context"

// SearchOptions tunes a keyword or vector search call.
type SearchOptions struct {
	// Filter restricts the candidate set. Nil means no filtering.
	Filter Filter

	// TopK is the maximum number of results to return. Zero means the
	// store default of 10.
	TopK int

	// Function overrides the store's configured similarity metric for a
	// single vector search call. Ignored by keyword search. With the HNSW
	// strategy an override different from the index's build metric cannot
	// use the index.
	Function VectorFunction
}

const defaultTopK = 10

// Limit returns the effective result limit.
func (o SearchOptions) Limit() int {
	if o.TopK <= 0 {
		return defaultTopK
	}
	return o.TopK
}

// Store is the common interface for all document store backends.
//
// A Store owns a single logical backend session, created lazily on first
// real access and reused afterwards. Instances do not guarantee
// thread-safety of concurrent calls; callers sharing an instance across
// goroutines must serialize access.
type Store interface {
	// CountDocuments returns how many documents are present in the store.
	CountDocuments(ctx context.Context) (int, error)

	// WriteDocuments writes a batch of documents under the given duplicate
	// policy and returns the number of documents inserted or overwritten.
	// Skipped documents are excluded from the count. The batch is rejected
	// wholly when any element is malformed, and under DuplicateFail a
	// single existing id fails the whole call with ErrDuplicateDocument
	// and no partial effect.
	WriteDocuments(ctx context.Context, documents []Document, policy DuplicatePolicy) (int, error)

	// FilterDocuments returns the documents matching the filter. A nil
	// filter returns every document.
	FilterDocuments(ctx context.Context, filter Filter) ([]Document, error)

	// DeleteDocuments removes the documents with the given ids. Empty
	// input is a no-op; missing ids are tolerated, not an error.
	DeleteDocuments(ctx context.Context, ids []string) error

	// KeywordSearch returns documents matching the full-text query,
	// ordered by rank score descending.
	KeywordSearch(ctx context.Context, query string, opts SearchOptions) ([]Document, error)

	// VectorSearch returns the documents most similar to the query
	// embedding. Results are ordered descending by score for similarity
	// metrics and ascending for l2_distance. The query embedding length
	// must equal the store's embedding dimension.
	VectorSearch(ctx context.Context, queryEmbedding []float32, opts SearchOptions) ([]Document, error)
}

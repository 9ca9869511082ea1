package docstore

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Blob carries an opaque binary payload attached to a document, for example
// the original file a document was extracted from. The core never inspects
// the data; adapters persist it unchanged where the backend supports it.
type Blob struct {
	Data     []byte         `json:"data"`
	Meta     map[string]any `json:"meta,omitempty"`
	MimeType string         `json:"mimeType,omitempty"`
}

// Document is the unit of storage. Documents are transient value objects
// owned by the caller; a store never retains them between calls.
//
// Metadata values must be typed scalars (string, bool, int64, float64).
// Embedding, when present, must have exactly the store's configured
// embedding dimension. Violations are caller errors, not storage errors.
type Document struct {
	// ID is the stable identity of the document, unique within a store.
	ID string `json:"id"`

	// Content is the text of the document, searchable via KeywordSearch.
	Content string `json:"content,omitempty"`

	// Embedding is the dense vector representation, or nil when the
	// document has not been embedded.
	Embedding []float32 `json:"embedding,omitempty"`

	// Meta holds user-defined metadata used for filtering.
	Meta map[string]any `json:"meta,omitempty"`

	// DataFrame is an opaque tabular payload, passed through unchanged.
	DataFrame json.RawMessage `json:"dataframe,omitempty"`

	// Blob is an opaque binary payload, passed through unchanged.
	Blob *Blob `json:"blob,omitempty"`

	// Score is populated on search results: a rank score for keyword
	// search, a similarity or distance value for vector search.
	Score *float64 `json:"score,omitempty"`
}

// NewDocument creates a Document with a random id and the given content.
func NewDocument(content string) Document {
	return Document{
		ID:      uuid.NewString(),
		Content: content,
	}
}

// Validate reports whether the document is well-formed for a store with the
// given embedding dimension. A zero embeddingDimension skips the length check.
func (d Document) Validate(embeddingDimension int) error {
	if d.ID == "" {
		return InvalidArgumentErrorf("document id must be a non-empty string")
	}
	if d.Embedding != nil && embeddingDimension > 0 && len(d.Embedding) != embeddingDimension {
		return InvalidArgumentErrorf(
			"document %q has embedding of dimension %d, store expects %d",
			d.ID, len(d.Embedding), embeddingDimension,
		)
	}
	return nil
}

// Package searchindex implements the docstore.Store contract on an
// OpenSearch index.
//
// Each document attribute maps to one index field: id as the document key,
// content as searchable text, the embedding as a knn_vector field with the
// configured dimension, and one typed field per declared metadata key. The
// metadata schema is a closed set of field kinds; an undeclared kind is a
// configuration error raised when the index is defined, not when documents
// are written.
//
// The index is created lazily on first real access when it does not exist.
// With the hnsw strategy the vector field carries an HNSW method built for
// the configured similarity metric; exact search scores every candidate
// with a script instead.
//
// OpenSearch has no native multi-document conflict clause, so the duplicate
// policy is applied imperatively: the existence of every id in the batch is
// probed first and the policy decided before anything is uploaded, which
// keeps the observable semantics identical to the relational backend.
//
// Documents without an embedding are stored with an internal placeholder
// vector to satisfy the non-null vector field; the placeholder is
// translated back to "no embedding" on every read path and never reaches
// callers.
package searchindex

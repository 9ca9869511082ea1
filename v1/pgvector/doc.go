// Package pgvector implements the docstore.Store contract on PostgreSQL with
// the pgvector extension.
//
// Documents live in one table per store: id (primary key), a fixed-dimension
// vector column, text content, opaque dataframe/blob payloads and a JSONB
// metadata column. A GIN index over the tsvector of the content column backs
// keyword search; an optional HNSW index over the embedding column backs
// approximate vector search.
//
// The store holds one lazily-created connection. The table, the keyword
// index and, with the hnsw strategy, the vector index are created on first
// real access, at most once per store session. Every write call runs as a
// single transaction; duplicate policy semantics are expressed declaratively
// through ON CONFLICT clauses so a batch is applied or rolled back as a
// whole.
//
// Filters compile to parameterized SQL: the filter value is always bound as
// a positional parameter and never becomes part of the query text.
//
//	store, err := pgvector.NewStore(*pgvector.DefaultConfig().
//	    WithConnString(docstore.SecretFromEnv("PG_CONN_STR")).
//	    WithTable("documents"))
//	if err != nil {
//	    return err
//	}
//	defer store.Close(ctx)
//
//	written, err := store.WriteDocuments(ctx, docs, docstore.DuplicateOverwrite)
package pgvector

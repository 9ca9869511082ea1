// Package docstore defines the backend-neutral contract for document storage
// and retrieval: the Document model, the metadata filter AST, duplicate-write
// policies, vector search configuration, and the Store interface implemented
// by each backend adapter.
//
// The package contains no backend I/O. Adapters (pgvector, searchindex)
// translate the types defined here into their native query formats, so
// application code can switch backends without changes:
//
//	var store docstore.Store
//	switch cfg.Backend {
//	case "pgvector":
//	    store, err = pgvector.NewStore(cfg.Pgvector)
//	case "searchindex":
//	    store, err = searchindex.NewStore(cfg.SearchIndex)
//	}
//
// # Filters
//
// Filters form a small boolean expression tree. Leaves are comparisons of a
// single field against a value; internal nodes combine sub-filters with
// AND, OR, or NOT:
//
//	f := docstore.And(
//	    docstore.Eq("city", "London"),
//	    docstore.Or(
//	        docstore.Eq("priority", int64(1)),
//	        docstore.Eq("priority", int64(2)),
//	    ),
//	)
//
// Each adapter compiles the same tree into its own dialect (parameterized SQL
// for pgvector, a bool query for searchindex) with identical match semantics.
// Values are never inlined into query text; they always travel as parameters.
//
// # Errors
//
// All adapter errors wrap one of the sentinels in errors.go, so callers can
// classify failures with errors.Is or the IsXxxError helpers without
// depending on backend-native error types.
package docstore

package pgvector

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Aleph-Alpha/docstore/v1/docstore"
)

// FilterDocuments returns the documents matching the filter. A nil filter
// returns every document.
func (s *Store) FilterDocuments(ctx context.Context, filter docstore.Filter) ([]docstore.Document, error) {
	start := time.Now()
	documents, err := s.filterDocuments(ctx, filter)
	s.observe("filter_documents", start, err, int64(len(documents)))
	return documents, err
}

func (s *Store) filterDocuments(ctx context.Context, filter docstore.Filter) ([]docstore.Document, error) {
	sql := "SELECT " + selectColumns + " FROM " + s.qualifiedTable()
	var params []any
	if filter != nil {
		fragment, filterParams, err := compileFilter(filter, 1)
		if err != nil {
			return nil, err
		}
		sql += " WHERE " + fragment
		params = filterParams
	}

	conn, err := s.session(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := conn.Query(ctx, sql, params...)
	if err != nil {
		s.log.Debug("filter query failed", zap.String("sql", sql), zap.Error(err))
		return nil, docstore.StoreErrorf("could not filter documents")
	}
	documents, err := scanDocuments(rows, false)
	if err != nil {
		s.log.Debug("scanning filtered documents failed", zap.Error(err))
		return nil, docstore.StoreErrorf("could not read filtered documents")
	}
	return documents, nil
}

// KeywordSearch returns documents matching the full-text query, ordered by
// ts_rank_cd score descending.
func (s *Store) KeywordSearch(ctx context.Context, query string, opts docstore.SearchOptions) ([]docstore.Document, error) {
	start := time.Now()
	documents, err := s.keywordSearch(ctx, query, opts)
	s.observe("keyword_search", start, err, int64(len(documents)))
	return documents, err
}

func (s *Store) keywordSearch(ctx context.Context, query string, opts docstore.SearchOptions) ([]docstore.Document, error) {
	if query == "" {
		return nil, docstore.InvalidArgumentErrorf("query must be a non-empty string")
	}

	language := quoteLiteral(s.cfg.Language)
	sql := fmt.Sprintf(
		"SELECT %s, ts_rank_cd(to_tsvector(%s, content), query) AS score FROM %s, plainto_tsquery(%s, $1) query "+
			"WHERE to_tsvector(%s, content) @@ query",
		selectColumns, language, s.qualifiedTable(), language, language,
	)
	params := []any{query}
	if opts.Filter != nil {
		fragment, filterParams, err := compileFilter(opts.Filter, 2)
		if err != nil {
			return nil, err
		}
		sql += " AND (" + fragment + ")"
		params = append(params, filterParams...)
	}
	sql += fmt.Sprintf(" ORDER BY score DESC LIMIT %d", opts.Limit())

	conn, err := s.session(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := conn.Query(ctx, sql, params...)
	if err != nil {
		s.log.Debug("keyword query failed", zap.String("sql", sql), zap.Error(err))
		return nil, docstore.StoreErrorf("could not run keyword search")
	}
	documents, err := scanDocuments(rows, true)
	if err != nil {
		s.log.Debug("scanning keyword results failed", zap.Error(err))
		return nil, docstore.StoreErrorf("could not read keyword search results")
	}
	return documents, nil
}

// VectorSearch returns the documents most similar to the query embedding.
// Scores follow the metric's convention: cosine similarity and inner
// product sort descending, l2 distance ascending.
func (s *Store) VectorSearch(ctx context.Context, queryEmbedding []float32, opts docstore.SearchOptions) ([]docstore.Document, error) {
	start := time.Now()
	documents, err := s.vectorSearch(ctx, queryEmbedding, opts)
	s.observe("vector_search", start, err, int64(len(documents)))
	return documents, err
}

func (s *Store) vectorSearch(ctx context.Context, queryEmbedding []float32, opts docstore.SearchOptions) ([]docstore.Document, error) {
	if len(queryEmbedding) == 0 {
		return nil, docstore.InvalidArgumentErrorf("query embedding must not be empty")
	}
	if len(queryEmbedding) != s.cfg.VectorSearch.EmbeddingDimension {
		return nil, docstore.InvalidArgumentErrorf(
			"query embedding dimension (%d) does not match the store's embedding dimension (%d)",
			len(queryEmbedding), s.cfg.VectorSearch.EmbeddingDimension,
		)
	}
	function := s.cfg.VectorSearch.Function
	if opts.Function != "" {
		if !opts.Function.Valid() {
			return nil, docstore.InvalidArgumentErrorf("unknown vector function %q", opts.Function)
		}
		function = opts.Function
	}

	// Score expressions follow the pgvector conventions: the cosine
	// operator yields a distance, so similarity is 1 - distance; the
	// inner product operator is negated.
	var scoreExpr string
	switch function {
	case docstore.CosineSimilarity:
		scoreExpr = "1 - (embedding <=> $1::vector) AS score"
	case docstore.InnerProduct:
		scoreExpr = "(embedding <#> $1::vector) * -1 AS score"
	case docstore.L2Distance:
		scoreExpr = "embedding <-> $1::vector AS score"
	}

	sql := fmt.Sprintf("SELECT %s, %s FROM %s", selectColumns, scoreExpr, s.qualifiedTable())
	params := []any{encodeVector(queryEmbedding)}
	if opts.Filter != nil {
		fragment, filterParams, err := compileFilter(opts.Filter, 2)
		if err != nil {
			return nil, err
		}
		sql += " WHERE " + fragment
		params = append(params, filterParams...)
	}

	order := "DESC"
	if function.Ascending() {
		order = "ASC"
	}
	sql += fmt.Sprintf(" ORDER BY score %s LIMIT %d", order, opts.Limit())

	conn, err := s.session(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.applyEfSearch(ctx, conn); err != nil {
		return nil, err
	}
	rows, err := conn.Query(ctx, sql, params...)
	if err != nil {
		s.log.Debug("vector query failed", zap.String("sql", sql), zap.Error(err))
		return nil, docstore.StoreErrorf("could not run vector search")
	}
	documents, err := scanDocuments(rows, true)
	if err != nil {
		s.log.Debug("scanning vector results failed", zap.Error(err))
		return nil, docstore.StoreErrorf("could not read vector search results")
	}
	return documents, nil
}

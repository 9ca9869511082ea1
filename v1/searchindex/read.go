package searchindex

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"sort"
	"time"

	"github.com/opensearch-project/opensearch-go/v4/opensearchapi"
	"go.uber.org/zap"

	"github.com/Aleph-Alpha/docstore/v1/docstore"
)

// filterWindow bounds unranked filter reads. It matches the engine's
// default max_result_window.
const filterWindow = 10000

// FilterDocuments returns the documents matching the filter. A nil filter
// returns every document.
func (s *Store) FilterDocuments(ctx context.Context, filter docstore.Filter) ([]docstore.Document, error) {
	start := time.Now()
	documents, err := s.filterDocuments(ctx, filter)
	s.observe("filter_documents", start, err, int64(len(documents)))
	return documents, err
}

func (s *Store) filterDocuments(ctx context.Context, filter docstore.Filter) ([]docstore.Document, error) {
	query := map[string]any{"match_all": map[string]any{}}
	if filter != nil {
		clause, err := compileFilter(filter)
		if err != nil {
			return nil, err
		}
		query = clause
	}
	body := map[string]any{"size": filterWindow, "query": query}

	hits, err := s.search(ctx, body, "filter query failed")
	if err != nil {
		return nil, err
	}
	return s.collectDocuments(hits, false)
}

// GetDocuments returns the documents with the given ids, in input order.
// Missing ids are skipped, not an error.
func (s *Store) GetDocuments(ctx context.Context, ids []string) ([]docstore.Document, error) {
	start := time.Now()
	documents, err := s.getDocuments(ctx, ids)
	s.observe("get_documents", start, err, int64(len(documents)))
	return documents, err
}

func (s *Store) getDocuments(ctx context.Context, ids []string) ([]docstore.Document, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	body := map[string]any{
		"size":  len(ids),
		"query": map[string]any{"ids": map[string]any{"values": ids}},
	}
	hits, err := s.search(ctx, body, "get query failed")
	if err != nil {
		return nil, err
	}
	documents, err := s.collectDocuments(hits, false)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]docstore.Document, len(documents))
	for _, doc := range documents {
		byID[doc.ID] = doc
	}
	ordered := make([]docstore.Document, 0, len(documents))
	for _, id := range ids {
		if doc, ok := byID[id]; ok {
			ordered = append(ordered, doc)
		}
	}
	return ordered, nil
}

// KeywordSearch returns documents matching the full-text query, ordered by
// relevance score descending.
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

	boolQuery := map[string]any{
		"must": map[string]any{"match": map[string]any{"content": query}},
	}
	if opts.Filter != nil {
		clause, err := compileFilter(opts.Filter)
		if err != nil {
			return nil, err
		}
		boolQuery["filter"] = []map[string]any{clause}
	}
	body := map[string]any{
		"size":  opts.Limit(),
		"query": map[string]any{"bool": boolQuery},
	}

	hits, err := s.search(ctx, body, "keyword query failed")
	if err != nil {
		return nil, err
	}
	return s.collectDocuments(hits, true)
}

// VectorSearch returns the documents most similar to the query embedding.
// Scores follow the metric's convention: cosine similarity and inner
// product sort descending, l2 distance ascending. Scores are computed
// from the stored vectors, so they are directly comparable with the SQL
// backend's regardless of the engine's internal score transform.
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

	var filter map[string]any
	if opts.Filter != nil {
		clause, err := compileFilter(opts.Filter)
		if err != nil {
			return nil, err
		}
		filter = clause
	}

	limit := opts.Limit()
	body := map[string]any{
		"size":  limit,
		"query": s.vectorQuery(queryEmbedding, function, filter, limit),
	}

	hits, err := s.search(ctx, body, "vector query failed")
	if err != nil {
		return nil, err
	}
	return s.rankByFunction(hits, queryEmbedding, function, limit)
}

// vectorQuery builds the candidate retrieval query. The HNSW strategy
// uses the engine's knn query against the prebuilt graph; the exact
// strategy scores every candidate with the engine's knn_score script.
func (s *Store) vectorQuery(embedding []float32, function docstore.VectorFunction, filter map[string]any, k int) map[string]any {
	if s.cfg.VectorSearch.Strategy == docstore.SearchHNSW {
		knn := map[string]any{
			"knn": map[string]any{"embedding": map[string]any{"vector": embedding, "k": k}},
		}
		boolQuery := map[string]any{"must": knn}
		if filter != nil {
			boolQuery["filter"] = []map[string]any{filter}
		}
		return map[string]any{"bool": boolQuery}
	}

	candidates := map[string]any{"match_all": map[string]any{}}
	if filter != nil {
		candidates = filter
	}
	return map[string]any{
		"script_score": map[string]any{
			"query": candidates,
			"script": map[string]any{
				"source": "knn_score",
				"lang":   "knn",
				"params": map[string]any{
					"field":       "embedding",
					"query_value": embedding,
					"space_type":  spaceTypes[function],
				},
			},
		},
	}
}

// rankByFunction rescores the candidates against the query vector with
// the requested metric and orders them by its convention. Documents
// stored without an embedding never rank.
func (s *Store) rankByFunction(hits []opensearchapi.SearchHit, queryEmbedding []float32, function docstore.VectorFunction, limit int) ([]docstore.Document, error) {
	documents := make([]docstore.Document, 0, len(hits))
	for _, hit := range hits {
		doc, err := documentFromSource(hit.ID, hit.Source, nil, s.cfg.MetadataFields)
		if err != nil {
			return nil, err
		}
		if len(doc.Embedding) != len(queryEmbedding) {
			continue
		}
		score := vectorScore(function, queryEmbedding, doc.Embedding)
		doc.Score = &score
		documents = append(documents, doc)
	}

	ascending := function.Ascending()
	sort.SliceStable(documents, func(i, j int) bool {
		if ascending {
			return *documents[i].Score < *documents[j].Score
		}
		return *documents[i].Score > *documents[j].Score
	})
	if len(documents) > limit {
		documents = documents[:limit]
	}
	return documents, nil
}

func vectorScore(function docstore.VectorFunction, query, stored []float32) float64 {
	var dot, queryNorm, storedNorm, dist float64
	for i := range query {
		q := float64(query[i])
		v := float64(stored[i])
		dot += q * v
		queryNorm += q * q
		storedNorm += v * v
		dist += (q - v) * (q - v)
	}
	switch function {
	case docstore.InnerProduct:
		return dot
	case docstore.L2Distance:
		return math.Sqrt(dist)
	default:
		norm := math.Sqrt(queryNorm) * math.Sqrt(storedNorm)
		if norm == 0 {
			return 0
		}
		return dot / norm
	}
}

// search runs one search request and returns the raw hits.
func (s *Store) search(ctx context.Context, body map[string]any, failure string) ([]opensearchapi.SearchHit, error) {
	client, err := s.session(ctx)
	if err != nil {
		return nil, err
	}
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, docstore.StoreErrorf("could not encode search request")
	}
	resp, err := client.Search(ctx, &opensearchapi.SearchReq{
		Indices: []string{s.cfg.IndexName},
		Body:    bytes.NewReader(encoded),
	})
	if err != nil {
		s.log.Debug(failure, zap.Error(err))
		return nil, docstore.StoreErrorf("could not run search")
	}
	return resp.Hits.Hits, nil
}

// collectDocuments converts raw hits, optionally carrying the engine's
// relevance score.
func (s *Store) collectDocuments(hits []opensearchapi.SearchHit, withScore bool) ([]docstore.Document, error) {
	documents := make([]docstore.Document, 0, len(hits))
	for _, hit := range hits {
		var score *float64
		if withScore {
			value := float64(hit.Score)
			score = &value
		}
		doc, err := documentFromSource(hit.ID, hit.Source, score, s.cfg.MetadataFields)
		if err != nil {
			return nil, err
		}
		documents = append(documents, doc)
	}
	return documents, nil
}

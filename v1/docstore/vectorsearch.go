package docstore

// VectorFunction is the similarity metric used to rank vectors by closeness
// to a query vector.
type VectorFunction string

const (
	// CosineSimilarity ranks by the cosine of the angle between vectors.
	// Higher scores indicate greater similarity.
	CosineSimilarity VectorFunction = "cosine_similarity"
	// InnerProduct ranks by the dot product. Higher scores indicate
	// greater similarity.
	InnerProduct VectorFunction = "inner_product"
	// L2Distance ranks by straight-line distance. Lower scores indicate
	// greater similarity.
	L2Distance VectorFunction = "l2_distance"
)

// Valid reports whether f is a supported metric.
func (f VectorFunction) Valid() bool {
	switch f {
	case CosineSimilarity, InnerProduct, L2Distance:
		return true
	}
	return false
}

// Ascending reports the result sort direction for this metric: distances
// sort ascending (lower is better), similarities descending. The convention
// holds regardless of how a backend's native operator is signed internally.
func (f VectorFunction) Ascending() bool {
	return f == L2Distance
}

// SearchStrategy selects between brute-force and index-accelerated
// similarity search.
type SearchStrategy string

const (
	// SearchExact computes the similarity per query against every row.
	// Perfect recall, no index required.
	SearchExact SearchStrategy = "exact_nearest_neighbor"
	// SearchHNSW uses an approximate HNSW index, trading some recall for
	// speed. The index is built for one metric; queries must keep using
	// that metric to benefit from it.
	SearchHNSW SearchStrategy = "hnsw"
)

// Valid reports whether s is a supported strategy.
func (s SearchStrategy) Valid() bool {
	return s == SearchExact || s == SearchHNSW
}

// VectorSearchConfig fixes the vector search behavior of a store at
// creation time. EmbeddingDimension is immutable thereafter; changing it
// requires recreating the underlying storage.
type VectorSearchConfig struct {
	// EmbeddingDimension is the fixed length of every stored embedding.
	EmbeddingDimension int `yaml:"embedding_dimension" env:"DOCSTORE_EMBEDDING_DIMENSION"`

	// Function is the similarity metric. When Strategy is SearchHNSW the
	// index is built for this metric and must not silently serve queries
	// for a different one.
	Function VectorFunction `yaml:"function" env:"DOCSTORE_VECTOR_FUNCTION"`

	// Strategy selects exact or approximate search.
	Strategy SearchStrategy `yaml:"strategy" env:"DOCSTORE_SEARCH_STRATEGY"`

	// IndexName identifies the approximate index. Only used with SearchHNSW.
	IndexName string `yaml:"index_name" env:"DOCSTORE_HNSW_INDEX_NAME"`

	// RecreateIfExists drops and rebuilds an existing approximate index
	// with the current configuration.
	RecreateIfExists bool `yaml:"recreate_if_exists" env:"DOCSTORE_HNSW_RECREATE"`

	// M is the HNSW graph degree, applied at build time. Zero keeps the
	// backend default.
	M int `yaml:"m" env:"DOCSTORE_HNSW_M"`

	// EfConstruction is the HNSW build-time search breadth. Zero keeps
	// the backend default.
	EfConstruction int `yaml:"ef_construction" env:"DOCSTORE_HNSW_EF_CONSTRUCTION"`

	// EfSearch is the HNSW query-time search breadth, applied as a
	// session-scoped setting before similarity queries. It does not alter
	// the index itself. Zero keeps the backend default.
	EfSearch int `yaml:"ef_search" env:"DOCSTORE_HNSW_EF_SEARCH"`
}

// DefaultVectorSearchConfig provides sensible defaults for most use cases.
func DefaultVectorSearchConfig() VectorSearchConfig {
	return VectorSearchConfig{
		EmbeddingDimension: 768,
		Function:           CosineSimilarity,
		Strategy:           SearchExact,
		IndexName:          "docstore_hnsw_index",
	}
}

// Validate fails fast on an unusable configuration.
func (c VectorSearchConfig) Validate() error {
	if c.EmbeddingDimension <= 0 {
		return ConfigurationErrorf("embedding dimension must be positive, got %d", c.EmbeddingDimension)
	}
	if !c.Function.Valid() {
		return ConfigurationErrorf("vector function must be one of %q, %q, %q, got %q",
			CosineSimilarity, InnerProduct, L2Distance, c.Function)
	}
	if !c.Strategy.Valid() {
		return ConfigurationErrorf("search strategy must be %q or %q, got %q",
			SearchExact, SearchHNSW, c.Strategy)
	}
	if c.Strategy == SearchHNSW && c.IndexName == "" {
		return ConfigurationErrorf("index name is required with the %q strategy", SearchHNSW)
	}
	return nil
}

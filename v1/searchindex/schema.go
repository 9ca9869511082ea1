package searchindex

import (
	"github.com/Aleph-Alpha/docstore/v1/docstore"
)

// spaceTypes maps the similarity function to the engine's space name.
var spaceTypes = map[docstore.VectorFunction]string{
	docstore.CosineSimilarity: "cosinesimil",
	docstore.InnerProduct:     "innerproduct",
	docstore.L2Distance:       "l2",
}

// fieldTypes maps a declared metadata kind to the index field type.
// Text maps to keyword so equality filters behave like exact matches
// rather than analyzed full-text matches.
var fieldTypes = map[docstore.FieldKind]string{
	docstore.FieldText:    "keyword",
	docstore.FieldBoolean: "boolean",
	docstore.FieldInteger: "long",
	docstore.FieldFloat:   "double",
}

// indexBody builds the index creation request: settings plus mappings
// for the document fields and every declared metadata field.
func indexBody(cfg Config) map[string]any {
	vs := cfg.VectorSearch

	properties := map[string]any{
		"content":   map[string]any{"type": "text"},
		"embedding": embeddingMapping(vs),
	}
	for name, kind := range cfg.MetadataFields {
		properties[name] = map[string]any{"type": fieldTypes[kind]}
	}

	index := map[string]any{"knn": true}
	if vs.Strategy == docstore.SearchHNSW && vs.EfSearch > 0 {
		index["knn.algo_param.ef_search"] = vs.EfSearch
	}

	return map[string]any{
		"settings": map[string]any{"index": index},
		"mappings": map[string]any{"properties": properties},
	}
}

func embeddingMapping(vs docstore.VectorSearchConfig) map[string]any {
	mapping := map[string]any{
		"type":      "knn_vector",
		"dimension": vs.EmbeddingDimension,
	}
	if vs.Strategy == docstore.SearchHNSW {
		parameters := map[string]any{}
		if vs.M > 0 {
			parameters["m"] = vs.M
		}
		if vs.EfConstruction > 0 {
			parameters["ef_construction"] = vs.EfConstruction
		}
		mapping["method"] = map[string]any{
			"name":       "hnsw",
			"engine":     "faiss",
			"space_type": spaceTypes[vs.Function],
			"parameters": parameters,
		}
	}
	return mapping
}

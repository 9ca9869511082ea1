package searchindex

import (
	"encoding/json"
	"testing"

	"github.com/Aleph-Alpha/docstore/v1/docstore"
)

var testFields = docstore.MetadataFields{
	"city":     docstore.FieldText,
	"likes":    docstore.FieldInteger,
	"score":    docstore.FieldFloat,
	"archived": docstore.FieldBoolean,
}

func TestDocumentToSource_FlattensDeclaredMetadata(t *testing.T) {
	doc := docstore.Document{
		ID:        "doc-1",
		Content:   "hello",
		Embedding: []float32{0.1, 0.2},
		Meta:      map[string]any{"city": "London", "likes": int64(7)},
	}
	source, dropped := documentToSource(doc, testFields, 2)
	if len(dropped) != 0 {
		t.Errorf("expected no dropped keys, got %v", dropped)
	}
	if source["content"] != "hello" {
		t.Errorf("unexpected content %v", source["content"])
	}
	if source["city"] != "London" {
		t.Errorf("metadata not flattened: %v", source["city"])
	}
	if source["likes"] != int64(7) {
		t.Errorf("metadata not flattened: %v", source["likes"])
	}
	if _, hasMeta := source["meta"]; hasMeta {
		t.Error("source must not carry a nested meta object")
	}
}

func TestDocumentToSource_DropsUndeclaredKeys(t *testing.T) {
	doc := docstore.Document{
		ID:   "doc-1",
		Meta: map[string]any{"city": "London", "mood": "sunny"},
	}
	source, dropped := documentToSource(doc, testFields, 2)
	if len(dropped) != 1 || dropped[0] != "mood" {
		t.Errorf("expected 'mood' dropped, got %v", dropped)
	}
	if _, present := source["mood"]; present {
		t.Error("undeclared key must not be written")
	}
}

func TestDocumentToSource_PlaceholderForMissingEmbedding(t *testing.T) {
	source, _ := documentToSource(docstore.Document{ID: "doc-1"}, nil, 3)
	embedding, ok := source["embedding"].([]float32)
	if !ok {
		t.Fatalf("expected embedding slice, got %T", source["embedding"])
	}
	if len(embedding) != 3 {
		t.Fatalf("expected placeholder of dimension 3, got %d", len(embedding))
	}
	for i, component := range embedding {
		if component != placeholderComponent {
			t.Errorf("component %d: expected placeholder, got %v", i, component)
		}
	}
}

func TestDocumentToSource_KeepsRealEmbedding(t *testing.T) {
	source, _ := documentToSource(docstore.Document{
		ID:        "doc-1",
		Embedding: []float32{0.5, -0.5},
	}, nil, 2)
	embedding := source["embedding"].([]float32)
	if embedding[0] != 0.5 || embedding[1] != -0.5 {
		t.Errorf("embedding altered: %v", embedding)
	}
}

func TestDocumentFromSource_RoundTrip(t *testing.T) {
	original := docstore.Document{
		ID:        "doc-1",
		Content:   "hello",
		Embedding: []float32{0.25, -1.5},
		Meta:      map[string]any{"city": "London", "likes": int64(7), "archived": true},
		DataFrame: json.RawMessage(`{"rows":[1,2]}`),
		Blob: &docstore.Blob{
			Data:     []byte{0xde, 0xad},
			MimeType: "application/octet-stream",
			Meta:     map[string]any{"source": "upload"},
		},
	}
	source, _ := documentToSource(original, testFields, 2)
	raw, err := json.Marshal(source)
	if err != nil {
		t.Fatalf("could not marshal source: %v", err)
	}

	doc, err := documentFromSource("doc-1", raw, nil, testFields)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.ID != "doc-1" || doc.Content != "hello" {
		t.Errorf("unexpected document %+v", doc)
	}
	if len(doc.Embedding) != 2 || doc.Embedding[0] != 0.25 || doc.Embedding[1] != -1.5 {
		t.Errorf("embedding did not round-trip: %v", doc.Embedding)
	}
	if doc.Meta["city"] != "London" {
		t.Errorf("city did not round-trip: %v", doc.Meta["city"])
	}
	if doc.Meta["likes"] != int64(7) {
		t.Errorf("integer metadata should come back as int64, got %T", doc.Meta["likes"])
	}
	if doc.Meta["archived"] != true {
		t.Errorf("boolean did not round-trip: %v", doc.Meta["archived"])
	}
	if doc.Blob == nil || doc.Blob.Data[0] != 0xde || doc.Blob.MimeType != "application/octet-stream" {
		t.Errorf("blob did not round-trip: %+v", doc.Blob)
	}
	var frame map[string]any
	if err := json.Unmarshal(doc.DataFrame, &frame); err != nil {
		t.Errorf("dataframe did not round-trip: %v", err)
	}
}

func TestDocumentFromSource_PlaceholderNeverLeaks(t *testing.T) {
	source, _ := documentToSource(docstore.Document{ID: "doc-1", Content: "x"}, nil, 4)
	raw, err := json.Marshal(source)
	if err != nil {
		t.Fatalf("could not marshal source: %v", err)
	}
	doc, err := documentFromSource("doc-1", raw, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Embedding != nil {
		t.Errorf("placeholder leaked as embedding: %v", doc.Embedding)
	}
}

func TestDocumentFromSource_RealEmbeddingWithPlaceholderComponent(t *testing.T) {
	// A vector that merely contains the placeholder component is real.
	source, _ := documentToSource(docstore.Document{
		ID:        "doc-1",
		Embedding: []float32{placeholderComponent, 1},
	}, nil, 2)
	raw, _ := json.Marshal(source)
	doc, err := documentFromSource("doc-1", raw, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Embedding) != 2 {
		t.Errorf("real embedding was stripped: %v", doc.Embedding)
	}
}

func TestDocumentFromSource_CarriesScore(t *testing.T) {
	score := 0.75
	doc, err := documentFromSource("doc-1", json.RawMessage(`{"content":"x"}`), &score, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Score == nil || *doc.Score != 0.75 {
		t.Errorf("score not carried: %v", doc.Score)
	}
}

func TestVectorScore_Metrics(t *testing.T) {
	query := []float32{1, 0}
	stored := []float32{0, 1}

	if got := vectorScore(docstore.InnerProduct, query, stored); got != 0 {
		t.Errorf("inner product: expected 0, got %v", got)
	}
	if got := vectorScore(docstore.CosineSimilarity, query, query); got < 0.999 {
		t.Errorf("cosine of identical vectors should be 1, got %v", got)
	}
	if got := vectorScore(docstore.L2Distance, query, query); got != 0 {
		t.Errorf("l2 of identical vectors should be 0, got %v", got)
	}
	l2 := vectorScore(docstore.L2Distance, query, stored)
	if l2 < 1.414 || l2 > 1.415 {
		t.Errorf("expected sqrt(2), got %v", l2)
	}
}

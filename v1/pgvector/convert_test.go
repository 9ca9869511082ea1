package pgvector

import (
	"encoding/json"
	"testing"

	"github.com/Aleph-Alpha/docstore/v1/docstore"
)

func TestEncodeVector(t *testing.T) {
	encoded := encodeVector([]float32{0.1, -0.2, 3})
	if encoded != "[0.1,-0.2,3]" {
		t.Errorf("unexpected encoding %q", encoded)
	}
}

func TestEncodeVector_Empty(t *testing.T) {
	if encodeVector(nil) != "[]" {
		t.Errorf("unexpected encoding %q", encodeVector(nil))
	}
}

func TestDecodeVector_RoundTrip(t *testing.T) {
	original := []float32{0.25, -1.5, 0, 42.125}
	decoded, err := decodeVector(encodeVector(original))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(decoded) != len(original) {
		t.Fatalf("expected %d components, got %d", len(original), len(decoded))
	}
	for i := range original {
		if decoded[i] != original[i] {
			t.Errorf("component %d: expected %v, got %v", i, original[i], decoded[i])
		}
	}
}

func TestDecodeVector_WithSpaces(t *testing.T) {
	decoded, err := decodeVector("[0.1, 0.2, 0.3]")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(decoded) != 3 {
		t.Errorf("expected 3 components, got %d", len(decoded))
	}
}

func TestDecodeVector_Malformed(t *testing.T) {
	_, err := decodeVector("[0.1,not-a-number]")
	if !docstore.IsStoreError(err) {
		t.Errorf("expected store error, got %v", err)
	}
}

func TestDocumentToRow_FullDocument(t *testing.T) {
	doc := docstore.Document{
		ID:        "doc-1",
		Content:   "hello",
		Embedding: []float32{0.1, 0.2},
		Meta:      map[string]any{"type": "article"},
		DataFrame: json.RawMessage(`{"rows": []}`),
		Blob: &docstore.Blob{
			Data:     []byte{0x01, 0x02},
			MimeType: "application/octet-stream",
			Meta:     map[string]any{"source": "upload"},
		},
	}
	row, err := documentToRow(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(row) != 8 {
		t.Fatalf("expected 8 columns, got %d", len(row))
	}
	if row[0] != "doc-1" {
		t.Errorf("unexpected id column %v", row[0])
	}
	if row[1] != "[0.1,0.2]" {
		t.Errorf("unexpected embedding column %v", row[1])
	}
	if row[2] != "hello" {
		t.Errorf("unexpected content column %v", row[2])
	}
}

func TestDocumentToRow_AbsentFieldsBecomeNull(t *testing.T) {
	row, err := documentToRow(docstore.Document{ID: "doc-2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 1; i < 7; i++ {
		if row[i] != nil {
			t.Errorf("column %d should be nil, got %v", i, row[i])
		}
	}
	if string(row[7].([]byte)) != "{}" {
		t.Errorf("meta column should default to empty object, got %v", row[7])
	}
}

func TestDocumentToRow_MetaEncoded(t *testing.T) {
	row, err := documentToRow(docstore.Document{
		ID:   "doc-3",
		Meta: map[string]any{"likes": 7},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(row[7].([]byte), &decoded); err != nil {
		t.Fatalf("meta column is not valid JSON: %v", err)
	}
	if decoded["likes"] != float64(7) {
		t.Errorf("unexpected meta %v", decoded)
	}
}

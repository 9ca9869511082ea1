package searchindex

import (
	"encoding/base64"
	"encoding/json"

	"github.com/Aleph-Alpha/docstore/v1/docstore"
)

// placeholderComponent fills the embedding of documents written without
// one. The index requires a vector per document; the placeholder is
// translated back to an absent embedding on every read path and never
// reaches callers.
const placeholderComponent = float32(-10.0)

// documentToSource flattens a document into an index source body. Declared
// metadata keys become top-level fields; undeclared keys are dropped and
// returned so the caller can log them. The id travels separately as the
// index document id.
func documentToSource(doc docstore.Document, fields docstore.MetadataFields, dimension int) (map[string]any, []string) {
	source := map[string]any{
		"content":   doc.Content,
		"embedding": embeddingOrPlaceholder(doc.Embedding, dimension),
	}
	if len(doc.DataFrame) > 0 {
		source["dataframe"] = json.RawMessage(doc.DataFrame)
	}
	if doc.Blob != nil {
		source["blob_data"] = base64.StdEncoding.EncodeToString(doc.Blob.Data)
		source["blob_mime_type"] = doc.Blob.MimeType
		if len(doc.Blob.Meta) > 0 {
			source["blob_meta"] = doc.Blob.Meta
		}
	}

	var dropped []string
	for key, value := range doc.Meta {
		if _, declared := fields[key]; !declared {
			dropped = append(dropped, key)
			continue
		}
		source[key] = value
	}
	return source, dropped
}

// documentFromSource rebuilds a document from an index hit. Metadata
// values come back with JSON's generic types and are coerced to the
// declared kind, so an integer round-trips as an integer.
func documentFromSource(id string, raw json.RawMessage, score *float64, fields docstore.MetadataFields) (docstore.Document, error) {
	var source map[string]any
	if err := json.Unmarshal(raw, &source); err != nil {
		return docstore.Document{}, docstore.StoreErrorf("could not decode document %q", id)
	}

	doc := docstore.Document{ID: id, Score: score}
	if content, ok := source["content"].(string); ok {
		doc.Content = content
	}
	doc.Embedding = embeddingFromSource(source["embedding"])

	if frame, ok := source["dataframe"]; ok {
		encoded, err := json.Marshal(frame)
		if err != nil {
			return docstore.Document{}, docstore.StoreErrorf("could not decode document %q", id)
		}
		doc.DataFrame = encoded
	}
	if blob, err := blobFromSource(source); err != nil {
		return docstore.Document{}, docstore.StoreErrorf("could not decode document %q", id)
	} else if blob != nil {
		doc.Blob = blob
	}

	meta := make(map[string]any)
	for key, kind := range fields {
		value, ok := source[key]
		if !ok || value == nil {
			continue
		}
		meta[key] = coerceMetaValue(value, kind)
	}
	if len(meta) > 0 {
		doc.Meta = meta
	}
	return doc, nil
}

func blobFromSource(source map[string]any) (*docstore.Blob, error) {
	encoded, ok := source["blob_data"].(string)
	if !ok {
		return nil, nil
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, err
	}
	blob := &docstore.Blob{Data: data}
	if mime, ok := source["blob_mime_type"].(string); ok {
		blob.MimeType = mime
	}
	if meta, ok := source["blob_meta"].(map[string]any); ok {
		blob.Meta = meta
	}
	return blob, nil
}

func embeddingOrPlaceholder(embedding []float32, dimension int) []float32 {
	if len(embedding) > 0 {
		return embedding
	}
	placeholder := make([]float32, dimension)
	for i := range placeholder {
		placeholder[i] = placeholderComponent
	}
	return placeholder
}

// embeddingFromSource converts the JSON number slice back to float32 and
// strips the placeholder.
func embeddingFromSource(value any) []float32 {
	raw, ok := value.([]any)
	if !ok || len(raw) == 0 {
		return nil
	}
	embedding := make([]float32, len(raw))
	isPlaceholder := true
	for i, v := range raw {
		f, ok := v.(float64)
		if !ok {
			return nil
		}
		embedding[i] = float32(f)
		if embedding[i] != placeholderComponent {
			isPlaceholder = false
		}
	}
	if isPlaceholder {
		return nil
	}
	return embedding
}

// coerceMetaValue aligns a JSON-decoded value with the declared field
// kind. JSON has a single number type; declared integers are narrowed
// back to int64.
func coerceMetaValue(value any, kind docstore.FieldKind) any {
	if kind == docstore.FieldInteger {
		if f, ok := value.(float64); ok {
			return int64(f)
		}
	}
	return value
}

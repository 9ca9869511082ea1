package pgvector

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/Aleph-Alpha/docstore/v1/docstore"
)

// selectColumns is the read projection shared by every read path. The
// embedding is cast to text so it can be decoded without a registered
// vector codec.
const selectColumns = "id, embedding::text, content, dataframe, blob_data, blob_meta, blob_mime_type, meta"

// documentToRow converts a document into the insert argument list, in
// column order. Absent optional fields become NULL.
func documentToRow(doc docstore.Document) ([]any, error) {
	var embedding any
	if doc.Embedding != nil {
		embedding = encodeVector(doc.Embedding)
	}

	var content any
	if doc.Content != "" {
		content = doc.Content
	}

	var dataframe any
	if len(doc.DataFrame) > 0 {
		dataframe = []byte(doc.DataFrame)
	}

	var blobData, blobMeta, blobMime any
	if doc.Blob != nil {
		blobData = doc.Blob.Data
		if doc.Blob.MimeType != "" {
			blobMime = doc.Blob.MimeType
		}
		if doc.Blob.Meta != nil {
			encoded, err := json.Marshal(doc.Blob.Meta)
			if err != nil {
				return nil, docstore.InvalidArgumentErrorf("document %q has unencodable blob metadata: %v", doc.ID, err)
			}
			blobMeta = encoded
		}
	}

	meta := []byte("{}")
	if doc.Meta != nil {
		encoded, err := json.Marshal(doc.Meta)
		if err != nil {
			return nil, docstore.InvalidArgumentErrorf("document %q has unencodable metadata: %v", doc.ID, err)
		}
		meta = encoded
	}

	return []any{doc.ID, embedding, content, dataframe, blobData, blobMeta, blobMime, meta}, nil
}

// scanDocuments drains rows into documents. withScore expects one trailing
// score column after the shared projection.
func scanDocuments(rows pgx.Rows, withScore bool) ([]docstore.Document, error) {
	defer rows.Close()

	var documents []docstore.Document
	for rows.Next() {
		var (
			id                  string
			embedding, content  *string
			dataframe           []byte
			blobData, blobMeta  []byte
			blobMime            *string
			meta                []byte
			score               *float64
		)
		dest := []any{&id, &embedding, &content, &dataframe, &blobData, &blobMeta, &blobMime, &meta}
		if withScore {
			dest = append(dest, &score)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}

		doc := docstore.Document{ID: id, Score: score}
		if content != nil {
			doc.Content = *content
		}
		if embedding != nil {
			vector, err := decodeVector(*embedding)
			if err != nil {
				return nil, err
			}
			doc.Embedding = vector
		}
		if len(dataframe) > 0 {
			doc.DataFrame = json.RawMessage(dataframe)
		}
		if blobData != nil || blobMeta != nil || blobMime != nil {
			blob := &docstore.Blob{Data: blobData}
			if blobMime != nil {
				blob.MimeType = *blobMime
			}
			if len(blobMeta) > 0 {
				if err := json.Unmarshal(blobMeta, &blob.Meta); err != nil {
					return nil, err
				}
			}
			doc.Blob = blob
		}
		if len(meta) > 0 {
			var decoded map[string]any
			if err := json.Unmarshal(meta, &decoded); err != nil {
				return nil, err
			}
			if len(decoded) > 0 {
				doc.Meta = decoded
			}
		}
		documents = append(documents, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return documents, nil
}

// encodeVector renders an embedding in pgvector's text input format,
// e.g. "[0.1,0.2,0.3]".
func encodeVector(embedding []float32) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, component := range embedding {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(component), 'g', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}

func decodeVector(text string) ([]float32, error) {
	trimmed := strings.TrimSpace(text)
	trimmed = strings.TrimPrefix(trimmed, "[")
	trimmed = strings.TrimSuffix(trimmed, "]")
	if trimmed == "" {
		return []float32{}, nil
	}
	parts := strings.Split(trimmed, ",")
	vector := make([]float32, len(parts))
	for i, part := range parts {
		component, err := strconv.ParseFloat(strings.TrimSpace(part), 32)
		if err != nil {
			return nil, docstore.StoreErrorf("could not decode stored embedding")
		}
		vector[i] = float32(component)
	}
	return vector, nil
}

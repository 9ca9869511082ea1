package searchindex

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/opensearch-project/opensearch-go/v4/opensearchapi"
	"go.uber.org/zap"

	"github.com/Aleph-Alpha/docstore/v1/docstore"
)

// bulkChunkSize bounds the number of documents per bulk request.
const bulkChunkSize = 1000

// WriteDocuments writes the batch under the duplicate policy and returns
// how many documents were written. Existing ids are probed before any
// upload, so under the fail policy a duplicate leaves the index untouched.
func (s *Store) WriteDocuments(ctx context.Context, docs []docstore.Document, policy docstore.DuplicatePolicy) (int, error) {
	start := time.Now()
	written, err := s.writeDocuments(ctx, docs, policy)
	s.observe("write_documents", start, err, int64(written))
	return written, err
}

func (s *Store) writeDocuments(ctx context.Context, docs []docstore.Document, policy docstore.DuplicatePolicy) (int, error) {
	if !policy.Valid() {
		return 0, docstore.InvalidArgumentErrorf("unknown duplicate policy %q", policy)
	}
	if policy == "" {
		policy = s.cfg.DefaultPolicy
	}
	policy = policy.Resolve()

	if len(docs) == 0 {
		return 0, nil
	}

	dimension := s.cfg.VectorSearch.EmbeddingDimension
	seen := make(map[string]bool, len(docs))
	for _, doc := range docs {
		if err := doc.Validate(dimension); err != nil {
			return 0, err
		}
		if policy == docstore.DuplicateFail && seen[doc.ID] {
			return 0, docstore.DuplicateDocumentErrorf("document %q appears more than once in the batch", doc.ID)
		}
		seen[doc.ID] = true
	}

	client, err := s.session(ctx)
	if err != nil {
		return 0, err
	}

	toWrite := docs
	if policy != docstore.DuplicateOverwrite {
		existing, err := s.existingIDs(ctx, client, docs)
		if err != nil {
			return 0, err
		}
		if policy == docstore.DuplicateFail && len(existing) > 0 {
			return 0, docstore.DuplicateDocumentErrorf("document %q already exists", firstExisting(docs, existing))
		}
		if policy == docstore.DuplicateSkip {
			// An id repeated within the batch is skipped too, keeping the
			// first occurrence like the SQL backend's ON CONFLICT DO NOTHING.
			kept := make([]docstore.Document, 0, len(docs))
			inBatch := make(map[string]bool, len(docs))
			for _, doc := range docs {
				if existing[doc.ID] || inBatch[doc.ID] {
					continue
				}
				inBatch[doc.ID] = true
				kept = append(kept, doc)
			}
			toWrite = kept
		}
	}

	written := 0
	for len(toWrite) > 0 {
		chunk := toWrite
		if len(chunk) > bulkChunkSize {
			chunk = chunk[:bulkChunkSize]
		}
		toWrite = toWrite[len(chunk):]

		n, err := s.bulkIndex(ctx, client, chunk)
		written += n
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

// existingIDs probes each document id and returns the set already present.
func (s *Store) existingIDs(ctx context.Context, client *opensearchapi.Client, docs []docstore.Document) (map[string]bool, error) {
	existing := make(map[string]bool)
	for _, doc := range docs {
		if existing[doc.ID] {
			continue
		}
		resp, err := client.Document.Exists(ctx, opensearchapi.DocumentExistsReq{
			Index:      s.cfg.IndexName,
			DocumentID: doc.ID,
		})
		if err != nil {
			if resp != nil && resp.StatusCode == http.StatusNotFound {
				continue
			}
			s.log.Debug("existence probe failed", zap.String("document_id", doc.ID), zap.Error(err))
			return nil, docstore.StoreErrorf("could not check document %q", doc.ID)
		}
		if resp.StatusCode == http.StatusOK {
			existing[doc.ID] = true
		}
	}
	return existing, nil
}

func firstExisting(docs []docstore.Document, existing map[string]bool) string {
	for _, doc := range docs {
		if existing[doc.ID] {
			return doc.ID
		}
	}
	return ""
}

// bulkIndex uploads one chunk. The index action replaces existing
// documents, which is safe here: policy handling already decided which
// ids may be written.
func (s *Store) bulkIndex(ctx context.Context, client *opensearchapi.Client, docs []docstore.Document) (int, error) {
	var body bytes.Buffer
	for _, doc := range docs {
		source, dropped := documentToSource(doc, s.cfg.MetadataFields, s.cfg.VectorSearch.EmbeddingDimension)
		if len(dropped) > 0 {
			s.log.Warn("dropping undeclared metadata keys",
				zap.String("document_id", doc.ID),
				zap.Strings("keys", dropped))
		}

		action, err := json.Marshal(map[string]any{
			"index": map[string]any{"_index": s.cfg.IndexName, "_id": doc.ID},
		})
		if err != nil {
			return 0, docstore.StoreErrorf("could not encode bulk action")
		}
		line, err := json.Marshal(source)
		if err != nil {
			return 0, docstore.StoreErrorf("could not encode document %q", doc.ID)
		}
		body.Write(action)
		body.WriteByte('\n')
		body.Write(line)
		body.WriteByte('\n')
	}

	resp, err := client.Bulk(ctx, opensearchapi.BulkReq{
		Body:   &body,
		Params: opensearchapi.BulkParams{Refresh: "true"},
	})
	if err != nil {
		s.log.Debug("bulk write failed", zap.Error(err))
		return 0, docstore.StoreErrorf("could not write documents")
	}

	written := 0
	for _, item := range resp.Items {
		for _, result := range item {
			if result.Status >= http.StatusOK && result.Status < http.StatusMultipleChoices {
				written++
			} else if result.Error != nil {
				s.log.Debug("bulk item rejected",
					zap.String("document_id", result.ID),
					zap.Int("status", result.Status),
					zap.String("reason", result.Error.Reason))
			}
		}
	}
	if resp.Errors {
		return written, docstore.StoreErrorf("could not write %d of %d documents", len(docs)-written, len(docs))
	}
	return written, nil
}

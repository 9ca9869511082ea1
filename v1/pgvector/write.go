package pgvector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/Aleph-Alpha/docstore/v1/docstore"
)

const (
	insertStatement = "INSERT INTO %s (id, embedding, content, dataframe, blob_data, blob_meta, blob_mime_type, meta) " +
		"VALUES ($1, $2, $3, $4, $5, $6, $7, $8)"

	overwriteClause = " ON CONFLICT (id) DO UPDATE SET " +
		"embedding = EXCLUDED.embedding, " +
		"content = EXCLUDED.content, " +
		"dataframe = EXCLUDED.dataframe, " +
		"blob_data = EXCLUDED.blob_data, " +
		"blob_meta = EXCLUDED.blob_meta, " +
		"blob_mime_type = EXCLUDED.blob_mime_type, " +
		"meta = EXCLUDED.meta"

	skipClause = " ON CONFLICT DO NOTHING"
)

// uniqueViolation is the PostgreSQL error code for a unique constraint hit.
const uniqueViolation = "23505"

// WriteDocuments writes a batch of documents as one transaction and returns
// the number of documents inserted or overwritten.
//
// The duplicate policy maps to the statement's conflict clause: DuplicateFail
// uses a plain insert, so the first existing id aborts the batch with
// ErrDuplicateDocument; DuplicateSkip adds ON CONFLICT DO NOTHING, leaving
// existing rows untouched and excluded from the count; DuplicateOverwrite
// adds ON CONFLICT DO UPDATE, replacing every field of an existing row.
// Any error rolls the whole call back; callers never observe a partial
// batch.
func (s *Store) WriteDocuments(ctx context.Context, documents []docstore.Document, policy docstore.DuplicatePolicy) (int, error) {
	start := time.Now()
	written, err := s.writeDocuments(ctx, documents, policy)
	s.observe("write_documents", start, err, written)
	if err != nil {
		return 0, err
	}
	return int(written), nil
}

func (s *Store) writeDocuments(ctx context.Context, documents []docstore.Document, policy docstore.DuplicatePolicy) (int64, error) {
	if !policy.Valid() {
		return 0, docstore.InvalidArgumentErrorf("unknown duplicate policy %q", policy)
	}
	if policy == "" {
		policy = s.cfg.DefaultPolicy
	}
	policy = policy.Resolve()

	// The whole batch is rejected before any backend work when an element
	// is malformed.
	rows := make([][]any, len(documents))
	for i, doc := range documents {
		if err := doc.Validate(s.cfg.VectorSearch.EmbeddingDimension); err != nil {
			return 0, err
		}
		args, err := documentToRow(doc)
		if err != nil {
			return 0, err
		}
		rows[i] = args
	}
	if len(rows) == 0 {
		return 0, nil
	}

	sql := fmt.Sprintf(insertStatement, s.qualifiedTable())
	switch policy {
	case docstore.DuplicateOverwrite:
		sql += overwriteClause
	case docstore.DuplicateSkip:
		sql += skipClause
	}

	conn, err := s.session(ctx)
	if err != nil {
		return 0, err
	}

	tx, err := conn.Begin(ctx)
	if err != nil {
		s.log.Debug("begin transaction failed", zap.Error(err))
		return 0, docstore.StoreErrorf("could not begin a write transaction")
	}
	// Rollback after a successful commit is a no-op.
	defer func() { _ = tx.Rollback(ctx) }()

	batch := &pgx.Batch{}
	for _, args := range rows {
		batch.Queue(sql, args...)
	}

	results := tx.SendBatch(ctx, batch)
	var written int64
	for range rows {
		tag, err := results.Exec()
		if err != nil {
			_ = results.Close()
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return 0, docstore.DuplicateDocumentErrorf("a document id in the batch already exists")
			}
			s.log.Debug("write statement failed", zap.String("sql", sql), zap.Error(err))
			return 0, docstore.StoreErrorf("could not write documents; the failing statement is in the debug logs")
		}
		written += tag.RowsAffected()
	}
	if err := results.Close(); err != nil {
		s.log.Debug("closing batch results failed", zap.Error(err))
		return 0, docstore.StoreErrorf("could not write documents")
	}

	if err := tx.Commit(ctx); err != nil {
		s.log.Debug("commit failed", zap.Error(err))
		return 0, docstore.StoreErrorf("could not commit the write transaction")
	}
	return written, nil
}

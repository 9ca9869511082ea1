package pgvector

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/Aleph-Alpha/docstore/v1/docstore"
)

const createTableStatement = `CREATE TABLE IF NOT EXISTS %s (
id VARCHAR(128) PRIMARY KEY,
embedding VECTOR(%d),
content TEXT,
dataframe JSONB,
blob_data BYTEA,
blob_meta JSONB,
blob_mime_type VARCHAR(255),
meta JSONB)`

// initSchema creates the documents table and its indexes. Identifiers and
// configuration-time literals are quoted into the statements; no caller
// value ever is.
func (s *Store) initSchema(ctx context.Context, conn *pgx.Conn) error {
	if s.cfg.RecreateTable {
		if err := s.dropTable(ctx, conn); err != nil {
			return err
		}
	}

	createTable := fmt.Sprintf(createTableStatement, s.qualifiedTable(), s.cfg.VectorSearch.EmbeddingDimension)
	if _, err := conn.Exec(ctx, createTable); err != nil {
		s.log.Debug("create table failed", zap.String("sql", createTable), zap.Error(err))
		return docstore.StoreErrorf("could not create table %q", s.cfg.Table)
	}

	if err := s.ensureKeywordIndex(ctx, conn); err != nil {
		return err
	}

	if s.cfg.VectorSearch.Strategy == docstore.SearchHNSW {
		if err := s.ensureVectorIndex(ctx, conn); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) ensureKeywordIndex(ctx context.Context, conn *pgx.Conn) error {
	exists, err := s.indexExists(ctx, conn, s.cfg.KeywordIndexName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	createIndex := fmt.Sprintf(
		"CREATE INDEX %s ON %s USING GIN (to_tsvector(%s, content))",
		quoteIdent(s.cfg.KeywordIndexName), s.qualifiedTable(), quoteLiteral(s.cfg.Language),
	)
	if _, err := conn.Exec(ctx, createIndex); err != nil {
		s.log.Debug("create keyword index failed", zap.String("sql", createIndex), zap.Error(err))
		return docstore.StoreErrorf("could not create keyword index %q", s.cfg.KeywordIndexName)
	}
	return nil
}

// ensureVectorIndex manages the HNSW index lifecycle. It is idempotent: an
// existing index is left untouched unless RecreateIfExists is set, in which
// case it is dropped and rebuilt with the current configuration. An index
// build or drop failure fails the call; there is no silent fallback to
// exact search.
func (s *Store) ensureVectorIndex(ctx context.Context, conn *pgx.Conn) error {
	vs := s.cfg.VectorSearch

	exists, err := s.indexExists(ctx, conn, vs.IndexName)
	if err != nil {
		return err
	}

	if exists && !vs.RecreateIfExists {
		// The build parameters of the existing index are not introspected;
		// it may have been built for a different metric or parameter set.
		s.log.Warn("HNSW index already exists and will not be recreated; "+
			"set recreate_if_exists to rebuild it with the current configuration",
			zap.String("index", vs.IndexName))
		return nil
	}

	if exists {
		dropIndex := fmt.Sprintf("DROP INDEX IF EXISTS %s.%s", quoteIdent(s.cfg.Schema), quoteIdent(vs.IndexName))
		if _, err := conn.Exec(ctx, dropIndex); err != nil {
			s.log.Debug("drop HNSW index failed", zap.String("sql", dropIndex), zap.Error(err))
			return docstore.StoreErrorf("could not drop HNSW index %q", vs.IndexName)
		}
	}

	ops, err := vectorOps(vs.Function)
	if err != nil {
		return err
	}
	createIndex := fmt.Sprintf(
		"CREATE INDEX %s ON %s USING hnsw (embedding %s)",
		quoteIdent(vs.IndexName), s.qualifiedTable(), ops,
	)
	var params []string
	if vs.M > 0 {
		params = append(params, fmt.Sprintf("m = %d", vs.M))
	}
	if vs.EfConstruction > 0 {
		params = append(params, fmt.Sprintf("ef_construction = %d", vs.EfConstruction))
	}
	if len(params) > 0 {
		createIndex += " WITH (" + strings.Join(params, ", ") + ")"
	}

	if _, err := conn.Exec(ctx, createIndex); err != nil {
		s.log.Debug("create HNSW index failed", zap.String("sql", createIndex), zap.Error(err))
		return docstore.StoreErrorf("could not create HNSW index %q", vs.IndexName)
	}
	return nil
}

func (s *Store) indexExists(ctx context.Context, conn *pgx.Conn, indexName string) (bool, error) {
	var one int
	err := conn.QueryRow(ctx,
		"SELECT 1 FROM pg_indexes WHERE schemaname = $1 AND tablename = $2 AND indexname = $3",
		s.cfg.Schema, s.cfg.Table, indexName,
	).Scan(&one)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		s.log.Debug("index existence check failed", zap.Error(err))
		return false, docstore.StoreErrorf("could not check whether index %q exists", indexName)
	}
	return true, nil
}

// applyEfSearch sets the query-time HNSW search breadth for this session.
// It does not alter the index.
func (s *Store) applyEfSearch(ctx context.Context, conn *pgx.Conn) error {
	efSearch := s.cfg.VectorSearch.EfSearch
	if s.cfg.VectorSearch.Strategy != docstore.SearchHNSW || efSearch <= 0 {
		return nil
	}
	if _, err := conn.Exec(ctx, fmt.Sprintf("SET hnsw.ef_search = %d", efSearch)); err != nil {
		s.log.Debug("setting hnsw.ef_search failed", zap.Error(err))
		return docstore.StoreErrorf("could not set hnsw.ef_search")
	}
	return nil
}

// DeleteTable drops the documents table, indexes included. The next
// operation on the store recreates the schema.
func (s *Store) DeleteTable(ctx context.Context) error {
	conn, err := s.session(ctx)
	if err != nil {
		return err
	}
	if err := s.dropTable(ctx, conn); err != nil {
		return err
	}
	s.schemaReady = false
	return nil
}

func (s *Store) dropTable(ctx context.Context, conn *pgx.Conn) error {
	if _, err := conn.Exec(ctx, "DROP TABLE IF EXISTS "+s.qualifiedTable()); err != nil {
		s.log.Debug("drop table failed", zap.Error(err))
		return docstore.StoreErrorf("could not drop table %q", s.cfg.Table)
	}
	return nil
}

func vectorOps(f docstore.VectorFunction) (string, error) {
	switch f {
	case docstore.CosineSimilarity:
		return "vector_cosine_ops", nil
	case docstore.InnerProduct:
		return "vector_ip_ops", nil
	case docstore.L2Distance:
		return "vector_l2_ops", nil
	}
	return "", docstore.InvalidArgumentErrorf("unknown vector function %q", f)
}

func (s *Store) qualifiedTable() string {
	return quoteIdent(s.cfg.Schema) + "." + quoteIdent(s.cfg.Table)
}

// quoteIdent quotes a SQL identifier. Identifiers come from configuration,
// never from callers, but quoting keeps the statements well-formed for any
// name.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// quoteLiteral quotes a configuration-time string literal, such as the text
// search language. Caller-supplied values are always bound as parameters
// instead.
func quoteLiteral(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}

package pgvector

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/Aleph-Alpha/docstore/v1/docstore"
	"github.com/Aleph-Alpha/docstore/v1/observability"
)

// Store implements docstore.Store on PostgreSQL with the pgvector extension.
//
// A Store owns one connection, created lazily on first real access and
// reused for the lifetime of the instance. Connection pooling, if any, is
// the caller's concern: wrap the store, not this package. Instances are not
// safe for unsynchronized concurrent use.
type Store struct {
	cfg      Config
	log      *zap.Logger
	observer observability.Observer

	conn        *pgx.Conn
	schemaReady bool
}

var _ docstore.Store = (*Store)(nil)

// NewStore validates the configuration and creates a Store. No connection
// is established until the first operation.
func NewStore(cfg Config) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		cfg:      cfg,
		log:      log,
		observer: cfg.Observer,
	}, nil
}

// session returns the live connection, establishing it and initializing the
// storage schema on first use. Schema initialization runs at most once per
// store session; the one-shot flag is set only after it succeeds, so a
// failed initialization is retried on the next call.
func (s *Store) session(ctx context.Context) (*pgx.Conn, error) {
	if s.conn == nil {
		connString, err := s.cfg.ConnString.Resolve()
		if err != nil {
			return nil, err
		}
		conn, err := pgx.Connect(ctx, connString)
		if err != nil {
			s.log.Debug("postgres connection failed", zap.Error(err))
			return nil, docstore.StoreErrorf("could not connect to PostgreSQL")
		}
		// The vector type must exist before the documents table references it.
		if _, err := conn.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
			_ = conn.Close(ctx)
			s.log.Debug("creating pgvector extension failed", zap.Error(err))
			return nil, docstore.StoreErrorf("could not enable the pgvector extension")
		}
		s.conn = conn
	}
	if !s.schemaReady {
		if err := s.initSchema(ctx, s.conn); err != nil {
			return nil, err
		}
		s.schemaReady = true
	}
	return s.conn, nil
}

// Close releases the underlying connection. The store may be used again
// afterwards; the next operation reconnects.
func (s *Store) Close(ctx context.Context) error {
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close(ctx)
	s.conn = nil
	s.schemaReady = false
	if err != nil {
		s.log.Debug("closing connection failed", zap.Error(err))
		return docstore.StoreErrorf("could not close the PostgreSQL connection")
	}
	return nil
}

// CountDocuments returns how many documents are present in the store.
func (s *Store) CountDocuments(ctx context.Context) (int, error) {
	start := time.Now()
	count, err := s.countDocuments(ctx)
	s.observe("count_documents", start, err, int64(count))
	return count, err
}

func (s *Store) countDocuments(ctx context.Context) (int, error) {
	conn, err := s.session(ctx)
	if err != nil {
		return 0, err
	}
	var count int
	if err := conn.QueryRow(ctx, "SELECT COUNT(*) FROM "+s.qualifiedTable()).Scan(&count); err != nil {
		s.log.Debug("count query failed", zap.Error(err))
		return 0, docstore.StoreErrorf("could not count documents")
	}
	return count, nil
}

// DeleteDocuments removes the documents with the given ids. Empty input is
// a no-op; ids that do not exist are tolerated.
func (s *Store) DeleteDocuments(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	start := time.Now()
	err := s.deleteDocuments(ctx, ids)
	s.observe("delete_documents", start, err, int64(len(ids)))
	return err
}

func (s *Store) deleteDocuments(ctx context.Context, ids []string) error {
	conn, err := s.session(ctx)
	if err != nil {
		return err
	}
	if _, err := conn.Exec(ctx, "DELETE FROM "+s.qualifiedTable()+" WHERE id = ANY($1)", ids); err != nil {
		s.log.Debug("delete failed", zap.Error(err))
		return docstore.StoreErrorf("could not delete documents")
	}
	return nil
}

func (s *Store) observe(operation string, start time.Time, err error, size int64) {
	if s.observer == nil {
		return
	}
	s.observer.ObserveOperation(observability.OperationContext{
		Component: "pgvector",
		Operation: operation,
		Resource:  s.cfg.Schema + "." + s.cfg.Table,
		Duration:  time.Since(start),
		Error:     err,
		Size:      size,
	})
}

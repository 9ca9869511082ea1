package searchindex

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"net/http"
	"time"

	"github.com/opensearch-project/opensearch-go/v4"
	"github.com/opensearch-project/opensearch-go/v4/opensearchapi"
	"go.uber.org/zap"

	"github.com/Aleph-Alpha/docstore/v1/docstore"
	"github.com/Aleph-Alpha/docstore/v1/observability"
)

// Store is a document store backed by an OpenSearch index.
//
// The index is created lazily on first access when CreateIndex is set;
// every operation goes through session so callers never have to manage
// the handshake themselves.
type Store struct {
	cfg      Config
	log      *zap.Logger
	observer observability.Observer

	client     *opensearchapi.Client
	indexReady bool
}

var _ docstore.Store = (*Store)(nil)

// NewStore validates the configuration and returns an unconnected store.
// No network traffic happens until the first operation.
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
		log:      log.With(zap.String("index", cfg.IndexName)),
		observer: cfg.Observer,
	}, nil
}

// session returns a ready client, connecting and ensuring the index on
// the first call. A failed attempt leaves the store retryable.
func (s *Store) session(ctx context.Context) (*opensearchapi.Client, error) {
	if s.client == nil {
		password, err := s.cfg.Password.Resolve()
		if err != nil {
			return nil, err
		}

		transport := http.DefaultTransport.(*http.Transport).Clone()
		if s.cfg.InsecureSSL {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		}

		client, err := opensearchapi.NewClient(opensearchapi.Config{
			Client: opensearch.Config{
				Addresses: s.cfg.Addresses,
				Username:  s.cfg.Username,
				Password:  password,
				Transport: transport,
			},
		})
		if err != nil {
			return nil, docstore.ConfigurationErrorf("could not create search client: %v", err)
		}
		s.client = client
	}

	if !s.indexReady {
		if err := s.ensureIndex(ctx); err != nil {
			return nil, err
		}
		s.indexReady = true
	}
	return s.client, nil
}

// ensureIndex creates the index when it is missing and index creation is
// enabled. A missing index without creation enabled is a configuration
// error, surfacing a typo'd index name early instead of at search time.
func (s *Store) ensureIndex(ctx context.Context) error {
	exists, err := s.indexExists(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	if !s.cfg.CreateIndex {
		return docstore.ConfigurationErrorf(
			"index %q does not exist and index creation is disabled", s.cfg.IndexName)
	}

	body, err := json.Marshal(indexBody(s.cfg))
	if err != nil {
		return docstore.StoreErrorf("could not encode index schema: %v", err)
	}
	s.log.Info("creating index",
		zap.String("function", string(s.cfg.VectorSearch.Function)),
		zap.Int("dimension", s.cfg.VectorSearch.EmbeddingDimension))
	_, err = s.client.Indices.Create(ctx, opensearchapi.IndicesCreateReq{
		Index: s.cfg.IndexName,
		Body:  bytes.NewReader(body),
	})
	if err != nil {
		s.log.Debug("index creation failed", zap.Error(err))
		return docstore.StoreErrorf("could not create index %q", s.cfg.IndexName)
	}
	return nil
}

func (s *Store) indexExists(ctx context.Context) (bool, error) {
	resp, err := s.client.Indices.Exists(ctx, opensearchapi.IndicesExistsReq{
		Indices: []string{s.cfg.IndexName},
	})
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return false, nil
		}
		s.log.Debug("index existence check failed", zap.Error(err))
		return false, docstore.StoreErrorf("could not check index %q", s.cfg.IndexName)
	}
	return resp.StatusCode == http.StatusOK, nil
}

// DeleteIndex removes the whole index. The next operation recreates it
// when index creation is enabled.
func (s *Store) DeleteIndex(ctx context.Context) error {
	client, err := s.session(ctx)
	if err != nil {
		return err
	}
	_, err = client.Indices.Delete(ctx, opensearchapi.IndicesDeleteReq{
		Indices: []string{s.cfg.IndexName},
	})
	if err != nil {
		s.log.Debug("index deletion failed", zap.Error(err))
		return docstore.StoreErrorf("could not delete index %q", s.cfg.IndexName)
	}
	s.indexReady = false
	return nil
}

// CountDocuments returns the number of documents in the index.
func (s *Store) CountDocuments(ctx context.Context) (int, error) {
	start := time.Now()
	count, err := s.countDocuments(ctx)
	s.observe("count_documents", start, err, int64(count))
	return count, err
}

func (s *Store) countDocuments(ctx context.Context) (int, error) {
	client, err := s.session(ctx)
	if err != nil {
		return 0, err
	}
	resp, err := client.Search(ctx, &opensearchapi.SearchReq{
		Indices: []string{s.cfg.IndexName},
		Params: opensearchapi.SearchParams{
			Size:           opensearchapi.ToPointer(0),
			TrackTotalHits: true,
		},
	})
	if err != nil {
		s.log.Debug("count failed", zap.Error(err))
		return 0, docstore.StoreErrorf("could not count documents")
	}
	return resp.Hits.Total.Value, nil
}

// DeleteDocuments removes documents by id. Unknown ids are no-ops.
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
	client, err := s.session(ctx)
	if err != nil {
		return err
	}
	query := map[string]any{
		"query": map[string]any{"ids": map[string]any{"values": ids}},
	}
	body, err := json.Marshal(query)
	if err != nil {
		return docstore.StoreErrorf("could not encode delete query: %v", err)
	}
	_, err = client.Document.DeleteByQuery(ctx, opensearchapi.DocumentDeleteByQueryReq{
		Indices: []string{s.cfg.IndexName},
		Body:    bytes.NewReader(body),
		Params:  opensearchapi.DocumentDeleteByQueryParams{Refresh: opensearchapi.ToPointer(true)},
	})
	if err != nil {
		s.log.Debug("delete failed", zap.Error(err))
		return docstore.StoreErrorf("could not delete documents")
	}
	return nil
}

// Close releases the client. The underlying HTTP client has no
// connection state to tear down.
func (s *Store) Close(ctx context.Context) error {
	s.client = nil
	s.indexReady = false
	return nil
}

func (s *Store) observe(operation string, start time.Time, err error, size int64) {
	if s.observer == nil {
		return
	}
	s.observer.ObserveOperation(observability.OperationContext{
		Component: "searchindex",
		Operation: operation,
		Resource:  s.cfg.IndexName,
		Duration:  time.Since(start),
		Error:     err,
		Size:      size,
	})
}

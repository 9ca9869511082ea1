package pgvector

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Aleph-Alpha/docstore/v1/observability"
)

// TestObserver is a mock observer for testing.
type TestObserver struct {
	mu         sync.Mutex
	operations []observability.OperationContext
}

func (t *TestObserver) ObserveOperation(ctx observability.OperationContext) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.operations = append(t.operations, ctx)
}

func (t *TestObserver) GetOperations() []observability.OperationContext {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]observability.OperationContext, len(t.operations))
	copy(out, t.operations)
	return out
}

func TestObserveNilObserverNoPanic(t *testing.T) {
	s := &Store{cfg: *DefaultConfig()}

	// Should not panic.
	s.observe("count_documents", time.Now(), nil, 0)
}

func TestObserveCallsObserver(t *testing.T) {
	obs := &TestObserver{}
	cfg := DefaultConfig()
	cfg.Schema = "public"
	cfg.Table = "documents"
	s := &Store{cfg: *cfg, observer: obs}

	s.observe("write_documents", time.Now(), nil, 5)

	ops := obs.GetOperations()
	if len(ops) != 1 {
		t.Fatalf("expected 1 operation, got %d", len(ops))
	}
	if ops[0].Component != "pgvector" {
		t.Errorf("expected component pgvector, got %q", ops[0].Component)
	}
	if ops[0].Operation != "write_documents" {
		t.Errorf("expected operation write_documents, got %q", ops[0].Operation)
	}
	if ops[0].Resource != "public.documents" {
		t.Errorf("expected resource public.documents, got %q", ops[0].Resource)
	}
	if ops[0].Size != 5 {
		t.Errorf("expected size 5, got %d", ops[0].Size)
	}
	if ops[0].Error != nil {
		t.Errorf("expected nil error, got %v", ops[0].Error)
	}
}

func TestObserveCarriesError(t *testing.T) {
	obs := &TestObserver{}
	s := &Store{cfg: *DefaultConfig(), observer: obs}

	failure := errors.New("boom")
	s.observe("delete_documents", time.Now(), failure, 0)

	ops := obs.GetOperations()
	if len(ops) != 1 {
		t.Fatalf("expected 1 operation, got %d", len(ops))
	}
	if !errors.Is(ops[0].Error, failure) {
		t.Errorf("expected error to be carried, got %v", ops[0].Error)
	}
}

package pgvector

import (
	"testing"

	"github.com/Aleph-Alpha/docstore/v1/docstore"
)

func TestVectorOps(t *testing.T) {
	tests := []struct {
		function docstore.VectorFunction
		expected string
	}{
		{docstore.CosineSimilarity, "vector_cosine_ops"},
		{docstore.InnerProduct, "vector_ip_ops"},
		{docstore.L2Distance, "vector_l2_ops"},
	}
	for _, tt := range tests {
		ops, err := vectorOps(tt.function)
		if err != nil {
			t.Errorf("vectorOps(%q) failed: %v", tt.function, err)
			continue
		}
		if ops != tt.expected {
			t.Errorf("vectorOps(%q) = %q, want %q", tt.function, ops, tt.expected)
		}
	}
}

func TestVectorOps_Unknown(t *testing.T) {
	_, err := vectorOps("hamming")
	if !docstore.IsInvalidArgumentError(err) {
		t.Errorf("expected invalid argument error, got %v", err)
	}
}

func TestQuoteIdent(t *testing.T) {
	if quoteIdent("documents") != `"documents"` {
		t.Errorf("unexpected quoting %q", quoteIdent("documents"))
	}
	if quoteIdent(`we"ird`) != `"we""ird"` {
		t.Errorf("embedded quotes not doubled: %q", quoteIdent(`we"ird`))
	}
}

func TestQuoteLiteral(t *testing.T) {
	if quoteLiteral("english") != "'english'" {
		t.Errorf("unexpected quoting %q", quoteLiteral("english"))
	}
	if quoteLiteral("it's") != "'it''s'" {
		t.Errorf("embedded quotes not doubled: %q", quoteLiteral("it's"))
	}
}

func TestConfig_ValidateDefaults(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default configuration should validate, got %v", err)
	}
}

func TestConfig_ValidateRejectsEmptyTable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Table = ""
	if err := cfg.Validate(); !docstore.IsConfigurationError(err) {
		t.Errorf("expected configuration error, got %v", err)
	}
}

func TestConfig_ValidateRejectsBadDimension(t *testing.T) {
	cfg := DefaultConfig()
	cfg.VectorSearch.EmbeddingDimension = 0
	if err := cfg.Validate(); !docstore.IsConfigurationError(err) {
		t.Errorf("expected configuration error, got %v", err)
	}
}

func TestConfig_ValidateRejectsHNSWWithoutIndexName(t *testing.T) {
	cfg := DefaultConfig()
	cfg.VectorSearch.Strategy = docstore.SearchHNSW
	cfg.VectorSearch.IndexName = ""
	if err := cfg.Validate(); !docstore.IsConfigurationError(err) {
		t.Errorf("expected configuration error, got %v", err)
	}
}

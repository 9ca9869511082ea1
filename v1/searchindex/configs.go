package searchindex

import (
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Aleph-Alpha/docstore/v1/docstore"
	"github.com/Aleph-Alpha/docstore/v1/observability"
)

// reservedFields are index fields owned by the document model; metadata
// keys must not collide with them.
var reservedFields = map[string]bool{
	"id":             true,
	"content":        true,
	"embedding":      true,
	"dataframe":      true,
	"blob_data":      true,
	"blob_meta":      true,
	"blob_mime_type": true,
}

// Config holds connection and behavior settings for an OpenSearch-backed
// document store.
//
// Example:
//
//	cfg := searchindex.DefaultConfig()
//	cfg.Addresses = []string{"https://localhost:9200"}
//	cfg.MetadataFields = docstore.MetadataFields{
//	    "city":     docstore.FieldText,
//	    "priority": docstore.FieldInteger,
//	}
type Config struct {
	// Addresses of the OpenSearch cluster, e.g. ["https://localhost:9200"].
	Addresses []string `yaml:"addresses" env:"SEARCHINDEX_ADDRESSES"`

	// Username for basic authentication.
	Username string `yaml:"username" env:"SEARCHINDEX_USERNAME"`

	// Password is the deferred credential, resolved at connection time.
	Password docstore.Secret `yaml:"-"`

	// InsecureSSL skips TLS certificate verification. Test clusters only.
	InsecureSSL bool `yaml:"insecure_ssl" env:"SEARCHINDEX_INSECURE_SSL"`

	// IndexName is the index holding the documents.
	IndexName string `yaml:"index" env:"SEARCHINDEX_INDEX"`

	// CreateIndex creates the index on first access when it is missing.
	// When false, a missing index is a configuration error.
	CreateIndex bool `yaml:"create_index" env:"SEARCHINDEX_CREATE_INDEX"`

	// MetadataFields declares one typed, filterable index field per
	// metadata key. Keys absent from the declaration are not written.
	MetadataFields docstore.MetadataFields `yaml:"metadata_fields"`

	// VectorSearch fixes the vector search behavior of the store.
	VectorSearch docstore.VectorSearchConfig `yaml:"vector_search"`

	// DefaultPolicy applies when a write call passes the zero policy.
	DefaultPolicy docstore.DuplicatePolicy `yaml:"default_policy" env:"SEARCHINDEX_DEFAULT_POLICY"`

	// Logger receives structured store logs. Nil means no logging.
	Logger *zap.Logger `yaml:"-"`

	// Observer receives operation notifications. Nil means none.
	Observer observability.Observer `yaml:"-"`
}

// DefaultConfig provides sensible defaults for most use cases.
func DefaultConfig() *Config {
	return &Config{
		Addresses:    []string{"https://localhost:9200"},
		Username:     "admin",
		Password:     docstore.SecretFromEnv("SEARCHINDEX_PASSWORD"),
		IndexName:    "default",
		CreateIndex:  true,
		VectorSearch: docstore.DefaultVectorSearchConfig(),
	}
}

// LoadConfig reads a Config from a YAML file, applied over DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, docstore.ConfigurationErrorf("could not read config file %q: %v", path, err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, docstore.ConfigurationErrorf("could not parse config file %q: %v", path, err)
	}
	return cfg, nil
}

// Builder-style helpers (optional, ergonomic)

func (c *Config) WithAddresses(addresses ...string) *Config {
	c.Addresses = addresses
	return c
}

func (c *Config) WithCredentials(username string, password docstore.Secret) *Config {
	c.Username = username
	c.Password = password
	return c
}

func (c *Config) WithIndexName(name string) *Config {
	c.IndexName = name
	return c
}

func (c *Config) WithMetadataFields(fields docstore.MetadataFields) *Config {
	c.MetadataFields = fields
	return c
}

func (c *Config) WithVectorSearch(vs docstore.VectorSearchConfig) *Config {
	c.VectorSearch = vs
	return c
}

func (c *Config) WithLogger(log *zap.Logger) *Config {
	c.Logger = log
	return c
}

func (c *Config) WithObserver(o observability.Observer) *Config {
	c.Observer = o
	return c
}

// Validate fails fast on an unusable configuration.
func (c *Config) Validate() error {
	if len(c.Addresses) == 0 {
		return docstore.ConfigurationErrorf("at least one address is required")
	}
	if c.IndexName == "" {
		return docstore.ConfigurationErrorf("index name is required")
	}
	if err := c.MetadataFields.Validate(); err != nil {
		return err
	}
	for name := range c.MetadataFields {
		if reservedFields[name] {
			return docstore.ConfigurationErrorf("metadata field %q collides with a document field", name)
		}
	}
	if !c.DefaultPolicy.Valid() {
		return docstore.ConfigurationErrorf("unknown default duplicate policy %q", c.DefaultPolicy)
	}
	return c.VectorSearch.Validate()
}

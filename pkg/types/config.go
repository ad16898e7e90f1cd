package types

import "time"

// HTTPConfig holds shared HTTP settings for components that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "archive-trends/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// ProviderConfig holds settings for the archive search provider client.
type ProviderConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// DocumentType selects the archive collection to search (default "digavis",
	// the digitized newspaper collection).
	DocumentType string `json:"document_type" yaml:"document_type" mapstructure:"document_type"`

	// MaxResults caps the number of hits requested per query (default 2000).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`

	// MaxRetries is the number of retry attempts on rate-limited or transient
	// provider failures (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`

	// APIKey is an optional bearer token for the archive API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`
}

// CacheConfig holds settings for the result cache.
type CacheConfig struct {
	// Dir is the directory holding cached artifacts and the cache index
	// database (default "cache").
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// TTL is how long a cached result stays valid. Zero means entries never
	// expire and must be invalidated explicitly.
	TTL time.Duration `json:"ttl" yaml:"ttl" mapstructure:"ttl"`
}

// MetadataConfig holds settings for the publication metadata table.
type MetadataConfig struct {
	// Path is the YAML reference table mapping publication identifiers to
	// display metadata. Empty or missing means every lookup falls back to
	// the placeholder.
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// QueryDefaults holds the default query parameters used when a request omits them.
type QueryDefaults struct {
	// SearchTerm is the phrase counted when none is given.
	SearchTerm string `json:"search_term" yaml:"search_term" mapstructure:"search_term"`

	// SearchMode is one of "fulltext", "freetext", "exact_phrase".
	SearchMode string `json:"search_mode" yaml:"search_mode" mapstructure:"search_mode"`

	// FromYear and ToYear bound the query, both inclusive.
	FromYear int `json:"from_year" yaml:"from_year" mapstructure:"from_year"`
	ToYear   int `json:"to_year" yaml:"to_year" mapstructure:"to_year"`

	// TopN is the ranking size for the visualization payload (default 10).
	TopN int `json:"top_n" yaml:"top_n" mapstructure:"top_n"`

	// Ranking selects the top-N policy: "global" or "per_period".
	Ranking string `json:"ranking" yaml:"ranking" mapstructure:"ranking"`

	// FetchTimeout bounds one provider fetch (default 120 s).
	FetchTimeout time.Duration `json:"fetch_timeout" yaml:"fetch_timeout" mapstructure:"fetch_timeout"`
}

// ServerConfig holds settings for the HTTP server.
type ServerConfig struct {
	Host         string        `json:"host" yaml:"host" mapstructure:"host"`
	Port         int           `json:"port" yaml:"port" mapstructure:"port"`
	ReadTimeout  time.Duration `json:"read_timeout" yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout" mapstructure:"write_timeout"`

	// CORSEnabled allows browser frontends on other origins to call the API.
	CORSEnabled bool `json:"cors_enabled" yaml:"cors_enabled" mapstructure:"cors_enabled"`
}

// AppConfig groups all component configurations.
type AppConfig struct {
	Provider ProviderConfig `json:"provider" yaml:"provider" mapstructure:"provider"`
	Cache    CacheConfig    `json:"cache" yaml:"cache" mapstructure:"cache"`
	Metadata MetadataConfig `json:"metadata" yaml:"metadata" mapstructure:"metadata"`
	Query    QueryDefaults  `json:"query" yaml:"query" mapstructure:"query"`
	Server   ServerConfig   `json:"server" yaml:"server" mapstructure:"server"`
}

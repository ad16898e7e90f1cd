// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/archive-trends/internal/cache"
	"github.com/pdiddy/archive-trends/internal/metadata"
	"github.com/pdiddy/archive-trends/internal/provider"
	"github.com/pdiddy/archive-trends/internal/query"
	"github.com/pdiddy/archive-trends/internal/secrets"
	"github.com/pdiddy/archive-trends/pkg/types"
)

const defaultUserAgent = "archive-trends/0.1"

// loadAppConfig merges the config file, environment, and built-in defaults
// into one AppConfig. Secrets fill the API key when the config leaves it empty.
func loadAppConfig() types.AppConfig {
	viper.SetDefault("provider.timeout", 60*time.Second)
	viper.SetDefault("provider.user_agent", defaultUserAgent)
	viper.SetDefault("provider.document_type", "digavis")
	viper.SetDefault("provider.max_results", 2000)
	viper.SetDefault("provider.max_retries", 3)
	viper.SetDefault("cache.dir", "cache")
	viper.SetDefault("metadata.path", "data/publications.yaml")
	viper.SetDefault("query.search_term", "historiske spel")
	viper.SetDefault("query.search_mode", "exact_phrase")
	viper.SetDefault("query.from_year", 2015)
	viper.SetDefault("query.to_year", time.Now().Year())
	viper.SetDefault("query.top_n", 10)
	viper.SetDefault("query.ranking", "global")
	viper.SetDefault("query.fetch_timeout", query.DefaultFetchTimeout)
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 5000)
	viper.SetDefault("server.read_timeout", 15*time.Second)
	viper.SetDefault("server.write_timeout", query.DefaultFetchTimeout+15*time.Second)
	viper.SetDefault("server.cors_enabled", true)

	var cfg types.AppConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		logger.Warn().Err(err).Msg("config unmarshal failed, using defaults")
	}

	if cfg.Provider.APIKey == "" {
		cfg.Provider.APIKey = loadedSecrets[secrets.ArchiveAPIKey]
	}
	return cfg
}

// buildOrchestrator assembles the pipeline from the configuration. The cache
// may be disabled; the metadata table is optional and a load failure only
// costs enrichment.
func buildOrchestrator(cfg types.AppConfig, useCache bool) (*query.Orchestrator, *cache.Store, error) {
	o := &query.Orchestrator{
		Provider: provider.NewClient(cfg.Provider, logger),
		Log:      logger,
	}

	var store *cache.Store
	if useCache {
		var err error
		store, err = cache.Open(cfg.Cache, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("opening cache: %w", err)
		}
		o.Cache = store
	}

	meta, err := metadata.Load(cfg.Metadata.Path)
	if err != nil {
		logger.Warn().Err(err).Str("path", cfg.Metadata.Path).Msg("metadata table unavailable, using placeholders")
		meta = metadata.Empty()
	}
	o.Meta = meta

	return o, store, nil
}

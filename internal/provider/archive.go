// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/archive-trends/internal/httputil"
	"github.com/pdiddy/archive-trends/pkg/types"
)

// archiveAPIBase is the archive's corpus-build endpoint. Declared as a var
// so tests can substitute an httptest server.
var archiveAPIBase = "https://api.nb.no/dhlab/build_corpus"

// Client queries the national library archive API.
type Client struct {
	HTTP *http.Client
	cfg  types.ProviderConfig
	log  zerolog.Logger
}

// NewClient builds an archive client from the provider configuration.
func NewClient(cfg types.ProviderConfig, log zerolog.Logger) *Client {
	return &Client{
		HTTP: &http.Client{Timeout: cfg.Timeout},
		cfg:  cfg,
		log:  log,
	}
}

// corpusRequest is the archive API request body.
type corpusRequest struct {
	DocType  string `json:"doctype"`
	FullText string `json:"fulltext,omitempty"`
	FreeText string `json:"freetext,omitempty"`
	FromYear int    `json:"from_year"`
	ToYear   int    `json:"to_year"`
	Limit    int    `json:"limit"`
}

// corpusResponse is the archive API response envelope.
type corpusResponse struct {
	Corpus []types.Hit `json:"corpus"`
}

// Search queries the archive and returns the raw hits. An exact-phrase
// query is sent as a quote-wrapped full-text query; the other modes pass
// the term through unchanged.
func (c *Client) Search(ctx context.Context, req Request) ([]types.Hit, error) {
	docType := req.DocumentType
	if docType == "" {
		docType = c.cfg.DocumentType
	}
	limit := req.Limit
	if limit <= 0 {
		limit = c.cfg.MaxResults
	}

	body := corpusRequest{
		DocType:  docType,
		FromYear: req.FromYear,
		ToYear:   req.ToYearExclusive,
		Limit:    limit,
	}
	switch req.Mode {
	case ModeFullText:
		body.FullText = req.Term
	case ModeFreeText:
		body.FreeText = req.Term
	case ModeExactPhrase:
		body.FullText = quoteWrap(req.Term)
	default:
		return nil, fmt.Errorf("unknown search mode %q", req.Mode)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding corpus request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, archiveAPIBase, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("User-Agent", c.cfg.UserAgent)
	if c.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := httputil.DoWithRetry(ctx, c.HTTP, httpReq, c.cfg.MaxRetries, c.log)
	if err != nil {
		return nil, fmt.Errorf("archive API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("archive API returned HTTP %d", resp.StatusCode)
	}

	var cr corpusResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("parsing archive response: %w", err)
	}

	c.log.Debug().
		Int("hits", len(cr.Corpus)).
		Str("mode", string(req.Mode)).
		Str("doctype", docType).
		Msg("archive fetch complete")

	return cr.Corpus, nil
}

// quoteWrap wraps a term in quotation marks unless it already carries them.
func quoteWrap(term string) string {
	if strings.HasPrefix(term, `"`) && strings.HasSuffix(term, `"`) && len(term) >= 2 {
		return term
	}
	return `"` + term + `"`
}

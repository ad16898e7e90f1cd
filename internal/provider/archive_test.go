// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/archive-trends/pkg/types"
)

func testClient(baseURL string) *Client {
	c := NewClient(types.ProviderConfig{
		HTTPConfig:   types.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "archive-trends-test/0.1"},
		DocumentType: "digavis",
		MaxResults:   2000,
		MaxRetries:   1,
	}, zerolog.Nop())
	archiveAPIBase = baseURL
	return c
}

func corpusHandler(t *testing.T, capture *corpusRequest, hits []types.Hit) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(capture))
		json.NewEncoder(w).Encode(corpusResponse{Corpus: hits})
	}
}

func TestSearchFullText(t *testing.T) {
	var got corpusRequest
	ts := httptest.NewServer(corpusHandler(t, &got, []types.Hit{
		{Identifier: "u1", PublicationTitle: "aftenposten", Year: 2020, Timestamp: "20200315"},
	}))
	defer ts.Close()

	c := testClient(ts.URL)
	hits, err := c.Search(context.Background(), Request{
		Mode:            ModeFullText,
		Term:            "historiske spel",
		FromYear:        2015,
		ToYearExclusive: 2026,
	})
	require.NoError(t, err)

	assert.Equal(t, "historiske spel", got.FullText)
	assert.Empty(t, got.FreeText)
	assert.Equal(t, "digavis", got.DocType)
	assert.Equal(t, 2015, got.FromYear)
	assert.Equal(t, 2026, got.ToYear)
	assert.Equal(t, 2000, got.Limit)

	require.Len(t, hits, 1)
	assert.Equal(t, "u1", hits[0].Identifier)
	assert.Equal(t, 2020, hits[0].Year)
}

func TestSearchFreeText(t *testing.T) {
	var got corpusRequest
	ts := httptest.NewServer(corpusHandler(t, &got, nil))
	defer ts.Close()

	c := testClient(ts.URL)
	_, err := c.Search(context.Background(), Request{
		Mode: ModeFreeText, Term: "historiske spel", FromYear: 2015, ToYearExclusive: 2026,
	})
	require.NoError(t, err)

	assert.Equal(t, "historiske spel", got.FreeText)
	assert.Empty(t, got.FullText)
}

func TestSearchExactPhraseWrapsQuotes(t *testing.T) {
	var got corpusRequest
	ts := httptest.NewServer(corpusHandler(t, &got, nil))
	defer ts.Close()

	c := testClient(ts.URL)
	_, err := c.Search(context.Background(), Request{
		Mode: ModeExactPhrase, Term: "historiske spel", FromYear: 2015, ToYearExclusive: 2026,
	})
	require.NoError(t, err)

	assert.Equal(t, `"historiske spel"`, got.FullText)
}

func TestSearchHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	c := testClient(ts.URL)
	_, err := c.Search(context.Background(), Request{
		Mode: ModeFullText, Term: "x", FromYear: 2015, ToYearExclusive: 2026,
	})
	assert.ErrorContains(t, err, "HTTP 403")
}

func TestSearchUnknownModeRejected(t *testing.T) {
	c := testClient("http://unused.invalid")
	_, err := c.Search(context.Background(), Request{Mode: "fuzzy", Term: "x"})
	assert.ErrorContains(t, err, "unknown search mode")
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    SearchMode
		wantErr bool
	}{
		{"fulltext", ModeFullText, false},
		{"freetext", ModeFreeText, false},
		{"exact_phrase", ModeExactPhrase, false},
		{"", "", true},
		{"phrase", "", true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "ParseMode(%q)", tt.in)
			continue
		}
		require.NoError(t, err, "ParseMode(%q)", tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestQuoteWrapIdempotent(t *testing.T) {
	assert.Equal(t, `"spel"`, quoteWrap("spel"))
	assert.Equal(t, `"spel"`, quoteWrap(`"spel"`))
}

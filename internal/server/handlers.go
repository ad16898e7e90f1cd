// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/pdiddy/archive-trends/internal/query"
	"github.com/pdiddy/archive-trends/internal/reshape"
	"github.com/pdiddy/archive-trends/pkg/types"
)

// searchBody is the POST /search request. Every field is optional; omitted
// fields fall back to the configured defaults.
type searchBody struct {
	SearchTerm string `json:"searchTerm"`
	FromYear   *int   `json:"fromYear"`
	ToYear     *int   `json:"toYear"`
}

type successResponse struct {
	Status  string                      `json:"status"`
	Data    *types.VisualizationPayload `json:"data"`
	Message string                      `json:"message"`
}

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var body searchBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && err != io.EOF {
		s.writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	req := query.Request{
		Term:     s.defaults.SearchTerm,
		Mode:     s.defaults.SearchMode,
		FromYear: s.defaults.FromYear,
		ToYear:   s.defaults.ToYear,
		TopN:     s.defaults.TopN,
		Ranking:  reshape.Ranking(s.defaults.Ranking),

		FetchTimeout: s.defaults.FetchTimeout,
	}
	if body.SearchTerm != "" {
		req.Term = body.SearchTerm
	}
	if body.FromYear != nil {
		req.FromYear = *body.FromYear
	}
	if body.ToYear != nil {
		req.ToYear = *body.ToYear
	}

	res, err := s.orch.Run(r.Context(), req)
	if err != nil {
		s.writeQueryError(w, err)
		return
	}

	message := "Search completed successfully"
	if res.FromCache {
		message = "Using cached search results"
	}
	s.writeJSON(w, http.StatusOK, successResponse{
		Status:  "success",
		Data:    res.Payload,
		Message: message,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "archive-trends server is running",
	})
}

// writeQueryError maps the pipeline's error kinds onto HTTP status codes.
func (s *Server) writeQueryError(w http.ResponseWriter, err error) {
	var qe *query.Error
	if !errors.As(err, &qe) {
		s.writeError(w, http.StatusInternalServerError, "internal error", err.Error())
		return
	}

	status := http.StatusInternalServerError
	switch qe.Kind {
	case query.KindUnknownSearchMode:
		status = http.StatusBadRequest
	case query.KindEmptyResult:
		status = http.StatusNotFound
	case query.KindTimeout:
		status = http.StatusGatewayTimeout
	case query.KindProviderUnavailable:
		status = http.StatusBadGateway
	}
	s.writeError(w, status, qe.Message, qe.Detail)
}

func (s *Server) writeError(w http.ResponseWriter, status int, message, detail string) {
	s.writeJSON(w, status, errorResponse{
		Status:  "error",
		Message: message,
		Error:   detail,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("encoding response failed")
	}
}

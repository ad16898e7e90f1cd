// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import "errors"

// Kind classifies a query failure so callers can branch on it instead of
// matching message text.
type Kind string

const (
	// KindProviderUnavailable means the archive API could not be reached
	// or refused the request.
	KindProviderUnavailable Kind = "provider_unavailable"

	// KindEmptyResult means the provider responded but returned zero hits.
	// The pipeline itself did not fail; remediation is a different query.
	KindEmptyResult Kind = "empty_result"

	// KindTimeout means the fetch exceeded its bound.
	KindTimeout Kind = "timeout"

	// KindUnknownSearchMode means an unsupported mode value was requested.
	KindUnknownSearchMode Kind = "unknown_search_mode"
)

// Error is a structured query failure: a short user-facing message plus
// diagnostic detail, never one collapsed free-text string.
type Error struct {
	Kind    Kind
	Message string
	Detail  string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return e.Message
	}
	return e.Message + ": " + e.Detail
}

// KindOf extracts the failure kind from an error, or "" for errors that
// did not come from the orchestrator.
func KindOf(err error) Kind {
	var qe *Error
	if errors.As(err, &qe) {
		return qe.Kind
	}
	return ""
}

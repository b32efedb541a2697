package api

import "subburn/pkg/cuesheet"

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	UptimeS int64  `json:"uptime_s"`
}

// CompileResponse is returned by POST /v1/compile.
type CompileResponse struct {
	Format   string   `json:"format"`
	Document string   `json:"document"`
	Fonts    []string `json:"fonts"`
	Styles   int      `json:"styles"`
	Events   int      `json:"events"`
}

// FontsResponse is returned by GET /v1/fonts.
type FontsResponse struct {
	Fonts []string `json:"fonts"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error  string       `json:"error"`
	Code   string       `json:"code"`
	Issues []IssueEntry `json:"issues,omitempty"`
}

// IssueEntry is one rejected cue entry.
type IssueEntry struct {
	Entry   int    `json:"entry"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func issueEntries(errs cuesheet.ValidationErrors) []IssueEntry {
	out := make([]IssueEntry, 0, len(errs))
	for _, e := range errs {
		out = append(out, IssueEntry{Entry: e.Line, Field: e.Field, Message: e.Message})
	}
	return out
}

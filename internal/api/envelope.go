package api

import "encoding/json"

// Row is one record as returned by the backend: an open mapping from field
// name to value. The only guaranteed contents are the resource's primary
// key fields.
type Row = map[string]any

// Meta is the pagination block of a list response.
type Meta struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
	Total    int `json:"total"`
}

// Envelope is the uniform response shape of every backend endpoint.
// Success is the sole authoritative failure signal; HTTP status codes are
// advisory only.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
	Meta    *Meta           `json:"meta,omitempty"`
	URL     string          `json:"url,omitempty"`
}

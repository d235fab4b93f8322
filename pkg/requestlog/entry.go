package requestlog

import "time"

// Entry captures one request and the response it got.
type Entry struct {
	// ID is a unique identifier assigned by the store when empty.
	ID string `json:"id"`

	// Timestamp is when the request was read.
	Timestamp time.Time `json:"timestamp"`

	// ConnID identifies the connection in operational logs.
	ConnID string `json:"connId,omitempty"`

	RemoteAddr  string `json:"remoteAddr,omitempty"`
	Method      string `json:"method"`
	Path        string `json:"path"`
	QueryString string `json:"queryString,omitempty"`

	// RouteIndex is the position of the matched route, nil when none matched.
	RouteIndex *int `json:"routeIndex,omitempty"`

	ResponseStatus int `json:"responseStatus"`
	ResponseBytes  int `json:"responseBytes"`

	// DurationMs includes any simulated latency.
	DurationMs int64 `json:"durationMs"`

	// Error holds the diagnostic of a failed request, e.g. a missing file.
	Error string `json:"error,omitempty"`

	// NearMisses lists routes that almost matched an unmatched request.
	NearMisses []NearMissInfo `json:"nearMisses,omitempty"`
}

// Matched reports whether a route matched the request.
func (e *Entry) Matched() bool {
	return e.RouteIndex != nil
}

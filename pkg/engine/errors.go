package engine

import "errors"

// Request outcome errors. They are recorded and logged per connection and
// never escape the connection goroutine.
var (
	// ErrNoRoute means no route matched the request method and path.
	ErrNoRoute = errors.New("no matching route")
	// ErrQueryMismatch means the matched route's query contract was violated.
	ErrQueryMismatch = errors.New("query parameters mismatch")
	// ErrFileResolution means a file-backed payload could not be read.
	ErrFileResolution = errors.New("file not found")
)

// Lifecycle errors.
var (
	ErrServerRunning = errors.New("server is already running")
	ErrServerClosed  = errors.New("server closed")
)

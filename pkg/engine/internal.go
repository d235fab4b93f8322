package engine

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/stubd/stubd/internal/wire"
	"github.com/stubd/stubd/pkg/metrics"
	"github.com/stubd/stubd/pkg/requestlog"
)

// InternalPrefix is the path prefix of the built-in endpoints.
const InternalPrefix = "/__stubd/"

// defaultRequestsLimit is the number of entries /__stubd/requests returns
// when no limit parameter is given.
const defaultRequestsLimit = 100

// internalEndpoints answers GET requests under InternalPrefix that no
// configured route claimed. A nil *internalEndpoints serves nothing.
type internalEndpoints struct {
	cors     bool
	registry *metrics.Registry
	requests requestlog.Store
}

func (e *internalEndpoints) serve(req wire.Request) (*wire.Response, bool) {
	if e == nil || req.Method != "GET" || !strings.HasPrefix(req.Path, InternalPrefix) {
		return nil, false
	}

	switch strings.TrimSuffix(strings.TrimPrefix(req.Path, InternalPrefix), "/") {
	case "health":
		return e.respond("text/plain", []byte("ok")), true

	case "metrics":
		if e.registry == nil {
			return nil, false
		}
		var buf bytes.Buffer
		if err := e.registry.WriteText(&buf); err != nil {
			return nil, false
		}
		return e.respond(metrics.ContentType, buf.Bytes()), true

	case "requests":
		if e.requests == nil {
			return nil, false
		}
		limit := defaultRequestsLimit
		if v, err := strconv.Atoi(req.Query["limit"]); err == nil && v > 0 {
			limit = v
		}
		entries := e.requests.List(&requestlog.Filter{Limit: limit})
		body, err := json.Marshal(entries)
		if err != nil {
			return nil, false
		}
		return e.respond("application/json", body), true
	}
	return nil, false
}

func (e *internalEndpoints) respond(contentType string, body []byte) *wire.Response {
	return &wire.Response{Status: wire.StatusOK, ContentType: contentType, CORS: e.cors, Body: body}
}

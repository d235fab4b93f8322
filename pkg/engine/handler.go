package engine

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ohler55/ojg/oj"

	"github.com/stubd/stubd/internal/matching"
	"github.com/stubd/stubd/internal/wire"
	"github.com/stubd/stubd/pkg/config"
	"github.com/stubd/stubd/pkg/logging"
	"github.com/stubd/stubd/pkg/metrics"
)

// mismatchBody is the body of every 400 response.
const mismatchBody = "Parameters mismatch"

// nearMissLimit caps the near misses reported for one unmatched request.
const nearMissLimit = 3

// Result is the outcome of handling one request.
type Result struct {
	// Response is always set.
	Response *wire.Response
	// RouteIndex is the matched route, or -1.
	RouteIndex int
	// Delay is the simulated latency to apply before writing.
	Delay time.Duration
	// Err explains a non-200 outcome: ErrNoRoute, ErrQueryMismatch or
	// ErrFileResolution, possibly wrapped.
	Err error
	// NearMisses is set when no route matched.
	NearMisses []matching.NearMiss
}

// Matched reports whether a route matched the request.
func (r *Result) Matched() bool {
	return r.RouteIndex >= 0
}

// Handler turns parsed requests into responses. It is safe for concurrent
// use.
type Handler struct {
	routes   []*route
	cors     bool
	fallback []byte
	readFile ReadFileFunc
	log      *slog.Logger
	metrics  *metrics.ServerMetrics
	internal *internalEndpoints
}

// NewHandler builds a handler over the routes of cfg. cfg must have
// defaults applied. A nil readFile means os.ReadFile.
func NewHandler(cfg *config.ServerConfig, readFile ReadFileFunc) *Handler {
	return &Handler{
		routes:   buildRoutes(cfg),
		cors:     cfg.CORS,
		fallback: []byte(cfg.Error),
		readFile: readFile,
		log:      logging.Nop(),
	}
}

// Handle matches req against the route table and builds the response.
func (h *Handler) Handle(req wire.Request) Result {
	idx := matching.First(h.routes, req.Method, req.Path)
	if idx < 0 {
		if resp, ok := h.internal.serve(req); ok {
			return Result{Response: resp, RouteIndex: -1}
		}
		return Result{
			Response:   h.notFound(),
			RouteIndex: -1,
			Err:        ErrNoRoute,
			NearMisses: matching.NearMisses(h.routes, req.Method, req.Path, nearMissLimit),
		}
	}

	rt := h.routes[idx]
	res := Result{RouteIndex: idx, Delay: rt.delay}

	var mismatch error
	if !rt.contract.Satisfied(req.Query) {
		missing, unexpected := rt.contract.Diff(req.Query)
		mismatch = fmt.Errorf("%w: missing %v, unexpected %v", ErrQueryMismatch, missing, unexpected)
	}

	// The body is built even when the contract failed.
	body, err := h.body(rt)

	switch {
	case mismatch != nil:
		res.Response = h.errorResponse(wire.StatusBadRequest, []byte(mismatchBody))
		res.Err = mismatch
	case err != nil:
		res.Response = h.notFound()
		res.Err = err
	default:
		res.Response = &wire.Response{
			Status:      wire.StatusOK,
			ContentType: rt.mediaType,
			CORS:        h.cors,
			Body:        body,
		}
	}
	return res
}

// body returns the payload of rt, resolving a file-backed payload if needed.
func (h *Handler) body(rt *route) ([]byte, error) {
	body, fresh, err := rt.payload.load(h.readFile)
	if !fresh {
		return body, err
	}

	result := "ok"
	if err != nil {
		result = "error"
	}
	if h.metrics != nil {
		h.metrics.FileReadsTotal.MustWithLabels(rt.label(), result).Inc()
	}

	if err != nil {
		h.log.Error("file not found", "route", rt.index, "path", rt.payload.path, "error", err)
		return nil, err
	}
	h.log.Debug("payload file loaded", "route", rt.index, "path", rt.payload.path, "bytes", len(body))
	if rt.contentType == config.ContentTypeJSON {
		if _, perr := oj.Parse(body); perr != nil {
			h.log.Warn("payload file is not valid JSON", "route", rt.index, "path", rt.payload.path, "error", perr)
		}
	}
	return body, nil
}

func (h *Handler) notFound() *wire.Response {
	return h.errorResponse(wire.StatusNotFound, h.fallback)
}

func (h *Handler) errorResponse(status int, body []byte) *wire.Response {
	return &wire.Response{
		Status:      status,
		ContentType: wire.ErrorContentType,
		CORS:        h.cors,
		Body:        body,
	}
}

// RouteCount returns the number of routes in the table.
func (h *Handler) RouteCount() int {
	return len(h.routes)
}

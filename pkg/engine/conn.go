package engine

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/stubd/stubd/internal/wire"
	"github.com/stubd/stubd/pkg/config"
	"github.com/stubd/stubd/pkg/requestlog"
)

// handleConn serves exactly one request on conn and closes it. Every
// failure stays local to this connection.
func (s *Server) handleConn(conn net.Conn) {
	defer s.untrack(conn)
	defer func() { _ = conn.Close() }()

	active := s.metrics.ActiveConnections.Vec()
	active.Inc()
	defer active.Dec()

	connID := uuid.NewString()
	remote := conn.RemoteAddr().String()
	log := s.log.With("conn", connID)
	log.Debug("connection accepted", "remote", remote)

	buf := make([]byte, s.cfg.ReadBufferSize)
	n, err := conn.Read(buf)
	start := time.Now()
	if n == 0 {
		if err != nil && !errors.Is(err, io.EOF) {
			log.Debug("read failed", "error", fmt.Errorf("reading request: %w", err))
		}
		return
	}

	req := wire.ParseRequest(buf[:n])
	res := s.handler.Handle(req)
	logOutcome(log, req, &res)

	if !s.delay(res.Delay) {
		log.Debug("delay interrupted by shutdown", "path", req.Path)
		return
	}

	if s.cfg.WriteTimeout > 0 {
		_ = conn.SetWriteDeadline(time.Now().Add(time.Duration(s.cfg.WriteTimeout) * time.Second))
	}
	written, err := res.Response.WriteTo(conn)
	elapsed := time.Since(start)

	entry := &requestlog.Entry{
		ConnID:         connID,
		Timestamp:      start,
		RemoteAddr:     remote,
		Method:         req.Method,
		Path:           req.Path,
		QueryString:    req.RawQuery,
		ResponseStatus: res.Response.Status,
		ResponseBytes:  int(written),
		DurationMs:     elapsed.Milliseconds(),
	}
	if res.Matched() {
		idx := res.RouteIndex
		entry.RouteIndex = &idx
	}
	if res.Err != nil {
		entry.Error = res.Err.Error()
	}
	for _, nm := range res.NearMisses {
		entry.NearMisses = append(entry.NearMisses, requestlog.NearMissInfo{
			RouteIndex: nm.Index, Method: nm.Method, Path: nm.Path, Reason: nm.Reason,
		})
	}

	if err != nil {
		err = fmt.Errorf("writing response: %w", err)
		entry.Error = err.Error()
		if errors.Is(err, os.ErrDeadlineExceeded) {
			log.Warn("write timed out", "error", err)
		} else {
			log.Warn("write failed", "error", err)
		}
	}
	s.requests.Log(entry)

	method := methodLabel(req.Method)
	s.metrics.RequestsTotal.MustWithLabels(method, strconv.Itoa(res.Response.Status)).Inc()
	if h, herr := s.metrics.RequestDuration.WithLabels(method); herr == nil {
		h.Observe(elapsed.Seconds())
	}

	if err == nil {
		s.lingerClose(conn)
	}
}

// lingerTimeout bounds how long unread request bytes are drained after the
// response was sent.
const lingerTimeout = 500 * time.Millisecond

// lingerLimit caps the bytes drained per connection.
const lingerLimit = 256 << 10

// lingerClose half-closes conn and discards what the client still sends.
// Closing a socket with unread input makes the kernel reset the connection,
// which can destroy the response before the client has read it.
func (s *Server) lingerClose(conn net.Conn) {
	cw, ok := conn.(interface{ CloseWrite() error })
	if !ok || s.ctx.Err() != nil {
		return
	}
	if err := cw.CloseWrite(); err != nil {
		return
	}
	_ = conn.SetReadDeadline(time.Now().Add(lingerTimeout))
	_, _ = io.Copy(io.Discard, io.LimitReader(conn, lingerLimit))
}

// delay holds the response for d. It returns false if the server began
// stopping first.
func (s *Server) delay(d time.Duration) bool {
	if d <= 0 {
		return true
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-s.ctx.Done():
		return false
	}
}

// logOutcome logs one handled request. Misses carry their near misses.
func logOutcome(log *slog.Logger, req wire.Request, res *Result) {
	attrs := []any{"method", req.Method, "path", req.Path, "status", res.Response.Status}
	if res.Matched() {
		attrs = append(attrs, "route", res.RouteIndex)
	}
	if res.Delay > 0 {
		attrs = append(attrs, "delay", res.Delay)
	}

	switch {
	case res.Err == nil:
		log.Info("request", attrs...)
	case errors.Is(res.Err, ErrNoRoute):
		for _, nm := range res.NearMisses {
			attrs = append(attrs, slog.Group("near_miss_"+strconv.Itoa(nm.Index),
				"method", nm.Method, "path", nm.Path, "reason", nm.Reason))
		}
		log.Info("no matching route", attrs...)
	case errors.Is(res.Err, ErrQueryMismatch):
		log.Warn("parameters mismatch", append(attrs, "error", res.Err)...)
	default:
		log.Warn("request failed", append(attrs, "error", res.Err)...)
	}
}

// methodLabel bounds the cardinality of the method metric label.
func methodLabel(m string) string {
	if config.Method(m).Valid() {
		return m
	}
	return "OTHER"
}

package wire

import (
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// Request is what the server knows about an incoming request: its request
// line, split into parts.
type Request struct {
	Method string
	// Target is the raw request target, e.g. "/users?id=1".
	Target string
	// Path is Target up to the first '?'.
	Path string
	// RawQuery is Target after the first '?', or "".
	RawQuery string
	// Query holds the decoded parameters of RawQuery.
	Query map[string]string
}

// DecodeLossy converts raw bytes to a string, replacing invalid UTF-8
// sequences with U+FFFD.
func DecodeLossy(b []byte) string {
	out, err := unicode.UTF8.NewDecoder().Bytes(b)
	if err != nil {
		return strings.ToValidUTF8(string(b), "\uFFFD")
	}
	return string(out)
}

// ParseRequest extracts the method and target from the first line of buf.
// buf may be truncated anywhere; missing tokens come back as empty strings.
func ParseRequest(buf []byte) Request {
	text := DecodeLossy(buf)
	line, _, _ := strings.Cut(text, "\n")
	fields := strings.Fields(line)

	var req Request
	if len(fields) > 0 {
		req.Method = fields[0]
	}
	if len(fields) > 1 {
		req.Target = fields[1]
	}
	req.Path, req.RawQuery, _ = strings.Cut(req.Target, "?")
	req.Query = ParseQuery(req.RawQuery)
	return req
}

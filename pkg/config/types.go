package config

import (
	"encoding/json"
	"net"
	"path/filepath"
	"strconv"
	"time"
)

// ServerConfig describes one stub server and its ordered route table.
type ServerConfig struct {
	// Host is the address to bind to.
	Host string `json:"host" yaml:"host"`
	// Port is the TCP port to bind to. 0 lets the OS pick one.
	Port int `json:"port" yaml:"port"`
	// Base is the path prefix every route URL is joined to.
	Base string `json:"base" yaml:"base"`
	// CORS adds the permissive cross-origin header block to every response.
	CORS bool `json:"cors" yaml:"cors"`
	// Error is the body of the 404 response sent when nothing could be served.
	Error string `json:"error" yaml:"error"`

	// LogLevel is used when no --log-level flag is given (debug, info, warn, error).
	LogLevel string `json:"log_level,omitempty" yaml:"log_level,omitempty"`
	// LogFormat is used when no --log-format flag is given (text, json).
	LogFormat string `json:"log_format,omitempty" yaml:"log_format,omitempty"`

	// Include lists glob patterns of extra route files, relative to this file.
	// Relative is_file paths inside an included file are relative to that file.
	Include []string `json:"include,omitempty" yaml:"include,omitempty"`

	// ReadBufferSize is the size of the single read taken from each connection.
	// Anything past it is ignored. Default: 1024
	ReadBufferSize int `json:"read_buffer_size,omitempty" yaml:"read_buffer_size,omitempty"`
	// ReadTimeout is the per-connection read deadline in seconds (0 = none).
	ReadTimeout int `json:"read_timeout,omitempty" yaml:"read_timeout,omitempty"`
	// WriteTimeout is the per-connection write deadline in seconds (0 = none).
	// It starts after any simulated latency.
	WriteTimeout int `json:"write_timeout,omitempty" yaml:"write_timeout,omitempty"`

	// InternalEndpoints enables /__stubd/health, /__stubd/metrics and
	// /__stubd/requests for requests that match no configured route.
	InternalEndpoints bool `json:"internal_endpoints,omitempty" yaml:"internal_endpoints,omitempty"`

	// APIs is the ordered route table.
	APIs []Route `json:"apis" yaml:"apis"`

	// BaseDir anchors relative file paths. LoadFromFile sets it to the
	// directory of the loaded file.
	BaseDir string `json:"-" yaml:"-"`
}

// Route pairs a request pattern with the response served when it matches.
type Route struct {
	Request  RequestPattern   `json:"request" yaml:"request"`
	Response ResponseTemplate `json:"response" yaml:"response"`
}

// RequestPattern is what an incoming request line is matched against.
type RequestPattern struct {
	Method Method `json:"method" yaml:"method"`
	// URL is joined to ServerConfig.Base to form the full matched path.
	URL string `json:"url" yaml:"url"`
	// Query lists the expected query parameter names. Nil means no contract;
	// an explicit empty list means the request must carry no parameters.
	Query []string `json:"query,omitempty" yaml:"query,omitempty"`
}

// queryPattern is the encoded form of RequestPattern. Query is a pointer so
// that an explicit empty list survives encoding while nil is omitted.
type queryPattern struct {
	Method Method    `json:"method" yaml:"method"`
	URL    string    `json:"url" yaml:"url"`
	Query  *[]string `json:"query,omitempty" yaml:"query,omitempty"`
}

func (p RequestPattern) encoded() queryPattern {
	out := queryPattern{Method: p.Method, URL: p.URL}
	if p.Query != nil {
		q := p.Query
		out.Query = &q
	}
	return out
}

// MarshalYAML writes an empty query list as [] and leaves out a nil one.
func (p RequestPattern) MarshalYAML() (any, error) {
	return p.encoded(), nil
}

// MarshalJSON writes an empty query list as [] and leaves out a nil one.
func (p RequestPattern) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.encoded())
}

// HasQueryContract reports whether the pattern declares expected query names.
func (p RequestPattern) HasQueryContract() bool {
	return p.Query != nil
}

// ResponseTemplate is the canned response of a route.
type ResponseTemplate struct {
	// Timeout is the simulated latency in seconds (0 = none).
	Timeout int `json:"timeout" yaml:"timeout"`
	// ContentType selects the Content-Type header. Empty means TEXT.
	ContentType ContentType `json:"content_type,omitempty" yaml:"content_type,omitempty"`
	// IsFile marks Data as a file path to read on first use. Unset or false
	// means Data is served literally.
	IsFile *bool `json:"is_file,omitempty" yaml:"is_file,omitempty"`
	// Data is the literal body, or the file path when IsFile is true.
	Data string `json:"data" yaml:"data"`
}

// FileBacked reports whether Data names a file to be read and cached.
func (t ResponseTemplate) FileBacked() bool {
	return t.IsFile != nil && *t.IsFile
}

// Delay returns the simulated latency as a duration.
func (t ResponseTemplate) Delay() time.Duration {
	if t.Timeout <= 0 {
		return 0
	}
	return time.Duration(t.Timeout) * time.Second
}

// Addr returns the host:port listen address.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// ResolvePath resolves a possibly relative file path against BaseDir.
// Absolute paths and paths with an empty BaseDir are returned unchanged.
func (c *ServerConfig) ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) || c.BaseDir == "" {
		return p
	}
	return filepath.Join(c.BaseDir, p)
}

// Bool returns a pointer to b, for building ResponseTemplate.IsFile in code.
func Bool(b bool) *bool {
	return &b
}

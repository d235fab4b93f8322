package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func route(method Method, url string) Route {
	return Route{
		Request:  RequestPattern{Method: method, URL: url},
		Response: ResponseTemplate{Data: "ok"},
	}
}

func fields(errs []ValidationError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Field)
	}
	return out
}

func TestCheck_ServerFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ServerConfig)
		fields []string
	}{
		{name: "default is valid", mutate: func(*ServerConfig) {}},
		{name: "port 0 is valid", mutate: func(c *ServerConfig) { c.Port = 0 }},
		{name: "port too large", mutate: func(c *ServerConfig) { c.Port = 65536 }, fields: []string{"port"}},
		{name: "negative port", mutate: func(c *ServerConfig) { c.Port = -1 }, fields: []string{"port"}},
		{name: "relative base", mutate: func(c *ServerConfig) { c.Base = "api" }, fields: []string{"base"}},
		{name: "unknown log level", mutate: func(c *ServerConfig) { c.LogLevel = "loud" }, fields: []string{"log_level"}},
		{name: "unknown log format", mutate: func(c *ServerConfig) { c.LogFormat = "xml" }, fields: []string{"log_format"}},
		{name: "negative buffer", mutate: func(c *ServerConfig) { c.ReadBufferSize = -1 }, fields: []string{"read_buffer_size"}},
		{
			name:   "negative timeouts",
			mutate: func(c *ServerConfig) { c.ReadTimeout = -1; c.WriteTimeout = -1 },
			fields: []string{"read_timeout", "write_timeout"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			result := cfg.Check()
			if len(tt.fields) == 0 {
				assert.True(t, result.IsValid(), result.Error())
				assert.NoError(t, cfg.Validate())
				return
			}
			assert.Equal(t, tt.fields, fields(result.Errors))
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestCheck_Routes(t *testing.T) {
	tests := []struct {
		name     string
		route    Route
		errors   []string
		warnings []string
	}{
		{name: "plain route", route: route(MethodGet, "/users")},
		{name: "missing method", route: route("", "/users"), errors: []string{"apis[0].request.method"}},
		{name: "unknown method", route: route("FETCH", "/users"), errors: []string{"apis[0].request.method"}},
		{name: "missing url", route: route(MethodGet, ""), errors: []string{"apis[0].request.url"}},
		{name: "relative url", route: route(MethodGet, "users"), errors: []string{"apis[0].request.url"}},
		{name: "url with query", route: route(MethodGet, "/users?a=1"), warnings: []string{"apis[0].request.url"}},
		{
			name: "empty parameter name",
			route: Route{
				Request:  RequestPattern{Method: MethodGet, URL: "/", Query: []string{"a", ""}},
				Response: ResponseTemplate{Data: "x"},
			},
			errors: []string{"apis[0].request.query[1]"},
		},
		{
			name: "duplicate parameter name",
			route: Route{
				Request:  RequestPattern{Method: MethodGet, URL: "/", Query: []string{"a", "a"}},
				Response: ResponseTemplate{Data: "x"},
			},
			warnings: []string{"apis[0].request.query[1]"},
		},
		{
			name: "negative timeout",
			route: Route{
				Request:  RequestPattern{Method: MethodGet, URL: "/"},
				Response: ResponseTemplate{Timeout: -1},
			},
			errors: []string{"apis[0].response.timeout"},
		},
		{
			name: "unknown content type",
			route: Route{
				Request:  RequestPattern{Method: MethodGet, URL: "/"},
				Response: ResponseTemplate{ContentType: "XML"},
			},
			errors: []string{"apis[0].response.content_type"},
		},
		{
			name: "broken JSON literal",
			route: Route{
				Request:  RequestPattern{Method: MethodGet, URL: "/"},
				Response: ResponseTemplate{ContentType: ContentTypeJSON, Data: `{"a":`},
			},
			warnings: []string{"apis[0].response.data"},
		},
		{
			name: "file without path",
			route: Route{
				Request:  RequestPattern{Method: MethodGet, URL: "/"},
				Response: ResponseTemplate{IsFile: Bool(true)},
			},
			errors: []string{"apis[0].response.data"},
		},
		{
			name: "missing file",
			route: Route{
				Request:  RequestPattern{Method: MethodGet, URL: "/"},
				Response: ResponseTemplate{IsFile: Bool(true), Data: "does-not-exist.json"},
			},
			warnings: []string{"apis[0].response.data"},
		},
		{
			name: "is_file false serves data literally",
			route: Route{
				Request:  RequestPattern{Method: MethodGet, URL: "/"},
				Response: ResponseTemplate{IsFile: Bool(false), Data: "does-not-exist.json"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &ServerConfig{Port: 8080, BaseDir: t.TempDir(), APIs: []Route{tt.route}}
			result := cfg.Check()
			assert.Equal(t, tt.errors, nilIfEmpty(fields(result.Errors)))
			assert.Equal(t, tt.warnings, nilIfEmpty(fields(result.Warnings)))
		})
	}
}

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}

func TestCheck_FileRoutes(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "body.json"), []byte(`{}`), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	cfg := &ServerConfig{
		Port:    8080,
		BaseDir: dir,
		APIs: []Route{
			{Request: RequestPattern{Method: MethodGet, URL: "/a"}, Response: ResponseTemplate{IsFile: Bool(true), Data: "body.json"}},
			{Request: RequestPattern{Method: MethodGet, URL: "/b"}, Response: ResponseTemplate{IsFile: Bool(true), Data: "sub"}},
		},
	}
	result := cfg.Check()
	assert.True(t, result.IsValid())
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "apis[1].response.data", result.Warnings[0].Field)
	assert.Contains(t, result.Warnings[0].Message, "directory")
}

func TestCheck_Unreachable(t *testing.T) {
	cfg := &ServerConfig{
		Port: 8080,
		Base: "/api/",
		APIs: []Route{
			route(MethodGet, "/users"),
			route(MethodPost, "/users"),
			route(MethodGet, "/users/"),
			route(MethodGet, "/Users"),
			route(MethodGet, "/users"),
		},
	}

	result := cfg.Check()
	assert.True(t, result.IsValid())
	assert.Equal(t, []string{"apis[2]", "apis[4]"}, fields(result.Warnings))
	assert.Contains(t, result.Warnings[0].Message, "apis[0] already serves GET /api/users")
}

func TestValidationResult(t *testing.T) {
	r := &ValidationResult{}
	assert.True(t, r.IsValid())

	r.AddWarning("apis[0]", "just a warning")
	assert.True(t, r.IsValid())

	r.AddError("port", "bad")
	r.AddError("", "general")
	assert.False(t, r.IsValid())
	assert.Equal(t, "port: bad\ngeneral", r.Error())

	got, ok := AsValidationResult(r)
	require.True(t, ok)
	assert.Same(t, r, got)

	_, ok = AsValidationResult(assert.AnError)
	assert.False(t, ok)
}

func TestCheckJSON(t *testing.T) {
	assert.NoError(t, CheckJSON(`{"a":[1,2,{"b":null}]}`))
	assert.Error(t, CheckJSON(`{"a":`))
	assert.Error(t, CheckJSON(`not json`))
}

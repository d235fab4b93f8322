package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `host: 0.0.0.0
port: 9000
base: /api
cors: true
error: nothing here
apis:
  - request:
      method: get
      url: /users
      query: [page]
    response:
      timeout: 2
      content_type: json
      data: '[{"id":1}]'
  - request:
      method: POST
      url: /users
      query: []
    response:
      is_file: true
      data: created.txt
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFile_YAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "api.yml", sampleYAML)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "/api", cfg.Base)
	assert.True(t, cfg.CORS)
	assert.Equal(t, "nothing here", cfg.Error)
	assert.Equal(t, dir, cfg.BaseDir)
	assert.Equal(t, DefaultReadBufferSize, cfg.ReadBufferSize)
	require.Len(t, cfg.APIs, 2)

	get := cfg.APIs[0]
	assert.Equal(t, MethodGet, get.Request.Method)
	assert.Equal(t, []string{"page"}, get.Request.Query)
	assert.Equal(t, ContentTypeJSON, get.Response.ContentType)
	assert.Equal(t, 2, get.Response.Timeout)
	assert.False(t, get.Response.FileBacked())

	post := cfg.APIs[1]
	assert.True(t, post.Request.HasQueryContract())
	assert.Empty(t, post.Request.Query)
	assert.True(t, post.Response.FileBacked())
	assert.Equal(t, filepath.Join(dir, "created.txt"), cfg.ResolvePath(post.Response.Data))
}

func TestLoadFromFile_JSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "api.json", `{
		"port": 8081,
		"apis": [
			{"request": {"method": "DELETE", "url": "/x"}, "response": {"data": "gone"}}
		]
	}`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultHost, cfg.Host)
	assert.Equal(t, DefaultBase, cfg.Base)
	assert.Equal(t, DefaultError, cfg.Error)
	require.Len(t, cfg.APIs, 1)
	assert.Equal(t, MethodDelete, cfg.APIs[0].Request.Method)
	assert.False(t, cfg.APIs[0].Request.HasQueryContract())
	assert.Equal(t, "TEXT", cfg.APIs[0].Response.ContentType.String())
}

func TestLoadFromFile_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
		wantErr error
	}{
		{name: "invalid JSON", file: "bad.json", content: `{ invalid json }`, wantErr: ErrInvalidJSON},
		{name: "invalid YAML", file: "bad.yml", content: "port: [1, 2", wantErr: ErrInvalidYAML},
		{name: "empty", file: "empty.yml", content: "", wantErr: ErrEmptyFile},
		{name: "unknown key", file: "typo.yml", content: "port: 1\nprot: 2\n", wantErr: ErrSchema},
		{name: "missing port", file: "noport.yml", content: "host: localhost\n", wantErr: ErrSchema},
		{name: "port type", file: "porttype.yml", content: "port: eighty\n", wantErr: ErrSchema},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.file, tt.content)
			cfg, err := LoadFromFile(path)
			assert.Nil(t, cfg)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("not found", func(t *testing.T) {
		_, err := LoadFromFile(filepath.Join(dir, "nope.yml"))
		assert.ErrorIs(t, err, ErrFileNotFound)
	})

	t.Run("directory", func(t *testing.T) {
		_, err := LoadFromFile(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "is a directory")
	})

	t.Run("validation", func(t *testing.T) {
		path := writeFile(t, dir, "invalid.yml", "port: 1\nbase: api\napis: []\n")
		_, err := LoadFromFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "validation failed")
		result, ok := AsValidationResult(err)
		require.True(t, ok)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, "base", result.Errors[0].Field)
	})
}

func TestLoadFromFile_Include(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "api.yml", `port: 8080
include:
  - routes/**/*.yml
  - routes/b.yml
apis:
  - request: {method: GET, url: /main}
    response: {data: main}
`)
	writeFile(t, dir, "routes/b.yml", `- request: {method: GET, url: /b}
  response: {data: b}
`)
	writeFile(t, dir, "routes/a.yml", `apis:
  - request: {method: GET, url: /a}
    response: {data: a}
`)
	writeFile(t, dir, "routes/nested/c.yml", `- request: {method: GET, url: /c}
  response: {is_file: true, data: c.txt}
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	urls := make([]string, 0, len(cfg.APIs))
	for _, api := range cfg.APIs {
		urls = append(urls, api.Request.URL)
	}
	assert.Equal(t, []string{"/main", "/a", "/b", "/c"}, urls)

	// payload paths follow the file that declares them
	nested := cfg.APIs[3].Response
	assert.Equal(t, filepath.Join("routes", "nested", "c.txt"), nested.Data)
	assert.Equal(t, filepath.Join(dir, "routes", "nested", "c.txt"), cfg.ResolvePath(nested.Data))
}

func TestLoadFromFile_IncludeAbsolutePayload(t *testing.T) {
	dir := t.TempDir()
	abs := filepath.Join(dir, "shared", "body.txt")
	path := writeFile(t, dir, "api.yml", "port: 8080\ninclude: [routes/*.yml]\napis: []\n")
	writeFile(t, dir, "routes/x.yml", "- request: {method: GET, url: /x}\n  response: {is_file: true, data: '"+abs+"'}\n- request: {method: GET, url: /y}\n  response: {data: plain.txt}\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	require.Len(t, cfg.APIs, 2)
	assert.Equal(t, abs, cfg.APIs[0].Response.Data)
	assert.Equal(t, "plain.txt", cfg.APIs[1].Response.Data, "literal payloads are not paths")
}

func TestLoadFromFile_IncludeBroken(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "api.yml", "port: 8080\ninclude: [extra.yml]\napis: []\n")
	writeFile(t, dir, "extra.yml", "apis: {not: a list}\n")

	_, err := LoadFromFile(path)
	assert.ErrorIs(t, err, ErrInvalidYAML)
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML), FormatYAML)
	require.NoError(t, err)
	assert.Len(t, cfg.APIs, 2)
	assert.Empty(t, cfg.BaseDir)

	_, err = Parse(nil, FormatYAML)
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatFromPath("api.yml"))
	assert.Equal(t, FormatYAML, FormatFromPath("API.YAML"))
	assert.Equal(t, FormatJSON, FormatFromPath("api.json"))
	assert.Equal(t, FormatJSON, FormatFromPath("api"))
}

func TestSaveToFile(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		assert.Error(t, SaveToFile(filepath.Join(t.TempDir(), "x.yml"), nil))
	})

	t.Run("creates directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "a", "b", "api.yml")
		require.NoError(t, SaveToFile(path, Default()))
		_, err := os.Stat(path)
		require.NoError(t, err)
		_, err = os.Stat(path + ".tmp")
		assert.True(t, os.IsNotExist(err))
	})
}

func TestSaveLoadRoundTrip(t *testing.T) {
	for _, name := range []string{"api.yml", "api.json"} {
		t.Run(name, func(t *testing.T) {
			cfg, err := Parse([]byte(sampleYAML), FormatYAML)
			require.NoError(t, err)

			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, SaveToFile(path, cfg))

			loaded, err := LoadFromFile(path)
			require.NoError(t, err)
			assert.Equal(t, cfg.APIs, loaded.APIs)
			assert.Equal(t, cfg.Port, loaded.Port)
			assert.Equal(t, cfg.Base, loaded.Base)

			// an explicit empty query list is not the same as none
			assert.True(t, loaded.APIs[1].Request.HasQueryContract())
			assert.False(t, loaded.APIs[0].Response.FileBacked())
		})
	}
}

func TestEncode_QueryContract(t *testing.T) {
	none := Route{Request: RequestPattern{Method: MethodGet, URL: "/a"}}
	empty := Route{Request: RequestPattern{Method: MethodGet, URL: "/a", Query: []string{}}}

	t.Run("yaml", func(t *testing.T) {
		cfg := &ServerConfig{Port: 1, APIs: []Route{none, empty}}
		data, err := Encode(cfg, FormatYAML)
		require.NoError(t, err)
		assert.Contains(t, string(data), "query: []")
		assert.Equal(t, 1, strings.Count(string(data), "query:"))
	})

	t.Run("json", func(t *testing.T) {
		cfg := &ServerConfig{Port: 1, APIs: []Route{none, empty}}
		data, err := Encode(cfg, FormatJSON)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"query": []`)
		assert.Equal(t, 1, strings.Count(string(data), `"query"`))
	})
}

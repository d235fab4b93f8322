package wire

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponse_Bytes(t *testing.T) {
	t.Parallel()

	t.Run("plain", func(t *testing.T) {
		r := &Response{Status: StatusOK, ContentType: "application/json", Body: []byte(`{"a":1}`)}
		assert.Equal(t,
			"HTTP/1.1 200 OK\r\nContent-Type: application/json\r\nContent-Length: 7\r\n\r\n{\"a\":1}",
			string(r.Bytes()))
	})

	t.Run("cors block precedes content type", func(t *testing.T) {
		r := &Response{Status: StatusBadRequest, ContentType: ErrorContentType, CORS: true, Body: []byte("Parameters mismatch")}
		want := "HTTP/1.1 400 OK\r\n" +
			"Access-Control-Allow-Origin: *\r\n" +
			"Access-Control-Allow-Methods: *\r\n" +
			"Access-Control-Allow-Headers: Content-Type, Authorization, Content-Length, X-Requested-With\r\n" +
			"Access-Control-Allow-Credentials: true\r\n" +
			"Content-Type: text/plain; charset=utf-8\r\n" +
			"Content-Length: 19\r\n\r\n" +
			"Parameters mismatch"
		assert.Equal(t, want, string(r.Bytes()))
	})

	t.Run("content length counts bytes", func(t *testing.T) {
		r := &Response{Status: StatusOK, ContentType: "text/plain", Body: []byte("héllo")}
		assert.Contains(t, string(r.Bytes()), "Content-Length: 6\r\n")
	})

	t.Run("empty body", func(t *testing.T) {
		r := &Response{Status: StatusNotFound, ContentType: ErrorContentType}
		assert.True(t, bytes.HasSuffix(r.Bytes(), []byte("Content-Length: 0\r\n\r\n")))
	})
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestResponse_WriteTo(t *testing.T) {
	t.Parallel()

	r := &Response{Status: StatusOK, ContentType: "text/html", Body: []byte("<p>hi</p>")}
	var buf bytes.Buffer
	n, err := r.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.Equal(t, r.Bytes(), buf.Bytes())

	_, err = r.WriteTo(failingWriter{})
	assert.Error(t, err)
}

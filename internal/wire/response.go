package wire

import (
	"bytes"
	"io"
	"strconv"
)

// Status codes the server produces.
const (
	StatusOK         = 200
	StatusBadRequest = 400
	StatusNotFound   = 404
)

// ErrorContentType is the Content-Type of 400 and 404 responses.
const ErrorContentType = "text/plain; charset=utf-8"

// corsBlock is written after the status line when CORS is enabled.
const corsBlock = "Access-Control-Allow-Origin: *\r\n" +
	"Access-Control-Allow-Methods: *\r\n" +
	"Access-Control-Allow-Headers: Content-Type, Authorization, Content-Length, X-Requested-With\r\n" +
	"Access-Control-Allow-Credentials: true\r\n"

// Response is a complete response ready to be written to a connection.
type Response struct {
	Status      int
	ContentType string
	CORS        bool
	Body        []byte
}

// Bytes renders the response. The reason phrase is always "OK", whatever
// the status.
func (r *Response) Bytes() []byte {
	var b bytes.Buffer
	b.Grow(160 + len(r.Body))

	b.WriteString("HTTP/1.1 ")
	b.WriteString(strconv.Itoa(r.Status))
	b.WriteString(" OK\r\n")
	if r.CORS {
		b.WriteString(corsBlock)
	}
	b.WriteString("Content-Type: ")
	b.WriteString(r.ContentType)
	b.WriteString("\r\nContent-Length: ")
	b.WriteString(strconv.Itoa(len(r.Body)))
	b.WriteString("\r\n\r\n")
	b.Write(r.Body)
	return b.Bytes()
}

// WriteTo writes the rendered response to w in a single call.
func (r *Response) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(r.Bytes())
	return int64(n), err
}

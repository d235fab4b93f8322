// Package wire reads the request line of a raw HTTP/1.x request and writes
// the minimal responses the stub server sends back.
//
// Only the first line of a request is interpreted. Headers and bodies are
// ignored, and every response carries its own Content-Length so the
// connection can be closed right after it is written.
package wire

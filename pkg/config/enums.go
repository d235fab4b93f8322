package config

import (
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"
)

// Method is an HTTP method from the closed set stubd can match on.
type Method string

// Supported methods.
const (
	MethodGet     Method = "GET"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodDelete  Method = "DELETE"
	MethodHead    Method = "HEAD"
	MethodPatch   Method = "PATCH"
	MethodOptions Method = "OPTIONS"
	MethodConnect Method = "CONNECT"
	MethodTrace   Method = "TRACE"
)

// Methods lists every supported method in declaration order.
var Methods = []Method{
	MethodGet, MethodPost, MethodPut, MethodDelete, MethodHead,
	MethodPatch, MethodOptions, MethodConnect, MethodTrace,
}

// ParseMethod normalizes s to upper case. The result may be invalid; check
// with Valid.
func ParseMethod(s string) Method {
	return Method(strings.ToUpper(strings.TrimSpace(s)))
}

// Valid reports whether m is one of the supported methods.
func (m Method) Valid() bool {
	for _, known := range Methods {
		if m == known {
			return true
		}
	}
	return false
}

// String returns the method token as it appears on the wire.
func (m Method) String() string { return string(m) }

// UnmarshalYAML accepts the method in any case.
func (m *Method) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	*m = ParseMethod(s)
	return nil
}

// UnmarshalJSON accepts the method in any case.
func (m *Method) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*m = ParseMethod(s)
	return nil
}

// ContentType is the closed set of response body kinds.
type ContentType string

// Supported content types.
const (
	ContentTypeText ContentType = "TEXT"
	ContentTypeJSON ContentType = "JSON"
	ContentTypeHTML ContentType = "HTML"
)

// ContentTypes lists every supported content type.
var ContentTypes = []ContentType{ContentTypeText, ContentTypeJSON, ContentTypeHTML}

// ParseContentType normalizes s to upper case. Blank input stays unset, which
// String and MediaType treat as TEXT.
func ParseContentType(s string) ContentType {
	return ContentType(strings.ToUpper(strings.TrimSpace(s)))
}

// Valid reports whether c is a supported content type. The zero value is
// valid and behaves as TEXT.
func (c ContentType) Valid() bool {
	switch c {
	case "", ContentTypeText, ContentTypeJSON, ContentTypeHTML:
		return true
	}
	return false
}

// MediaType returns the Content-Type header value for c.
func (c ContentType) MediaType() string {
	switch c {
	case ContentTypeJSON:
		return "application/json"
	case ContentTypeHTML:
		return "text/html"
	default:
		return "text/plain"
	}
}

// String returns the tag, reporting the zero value as TEXT.
func (c ContentType) String() string {
	if c == "" {
		return string(ContentTypeText)
	}
	return string(c)
}

// UnmarshalYAML accepts the tag in any case.
func (c *ContentType) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	*c = ParseContentType(s)
	return nil
}

// UnmarshalJSON accepts the tag in any case.
func (c *ContentType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*c = ParseContentType(s)
	return nil
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ohler55/ojg/oj"

	"github.com/stubd/stubd/internal/matching"
	"github.com/stubd/stubd/pkg/logging"
)

// ValidationError is a single problem found in a configuration, located by
// its config path, e.g. "apis[2].request.method".
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// ValidationResult collects every error and warning found in a configuration.
// Errors make a config unusable; warnings describe routes that will load but
// probably not behave as intended.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// IsValid returns true if there are no validation errors.
func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

// Error returns all errors, one per line.
func (r *ValidationResult) Error() string {
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "\n")
}

// AddError adds a validation error.
func (r *ValidationResult) AddError(field, message string) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Message: message})
}

// AddWarning adds a validation warning.
func (r *ValidationResult) AddWarning(field, message string) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Message: message})
}

// Validate returns a *ValidationResult holding the errors of Check, or nil
// when there are none. Warnings alone never fail validation.
func (c *ServerConfig) Validate() error {
	if r := c.Check(); !r.IsValid() {
		return r
	}
	return nil
}

// AsValidationResult unwraps err to a *ValidationResult if it holds one.
func AsValidationResult(err error) (*ValidationResult, bool) {
	var r *ValidationResult
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}

// Check validates the configuration and returns every error and warning.
func (c *ServerConfig) Check() *ValidationResult {
	result := &ValidationResult{}

	if c.Port < 0 || c.Port > 65535 {
		result.AddError("port", fmt.Sprintf("invalid port %d, must be 0-65535", c.Port))
	}
	if c.Base != "" && !strings.HasPrefix(c.Base, "/") {
		result.AddError("base", fmt.Sprintf("must start with '/', got %q", c.Base))
	}
	if !logging.IsValidLevel(c.LogLevel) {
		result.AddError("log_level", fmt.Sprintf("unknown level %q (debug, info, warn, error)", c.LogLevel))
	}
	if !logging.IsValidFormat(c.LogFormat) {
		result.AddError("log_format", fmt.Sprintf("unknown format %q (text, json)", c.LogFormat))
	}
	if c.ReadBufferSize < 0 {
		result.AddError("read_buffer_size", "must not be negative")
	}
	if c.ReadTimeout < 0 {
		result.AddError("read_timeout", "must not be negative")
	}
	if c.WriteTimeout < 0 {
		result.AddError("write_timeout", "must not be negative")
	}

	base := c.Base
	if base == "" {
		base = DefaultBase
	}
	firstByKey := make(map[string]int)

	for i := range c.APIs {
		path := fmt.Sprintf("apis[%d]", i)
		route := &c.APIs[i]
		c.checkRoute(route, path, result)

		if !route.Request.Method.Valid() || !strings.HasPrefix(route.Request.URL, "/") {
			continue
		}
		key := route.Request.Method.String() + " " + matching.JoinPath(base, route.Request.URL)
		if first, ok := firstByKey[key]; ok {
			result.AddWarning(path, fmt.Sprintf("unreachable: apis[%d] already serves %s", first, key))
			continue
		}
		firstByKey[key] = i
	}

	return result
}

func (c *ServerConfig) checkRoute(route *Route, path string, result *ValidationResult) {
	req := route.Request
	switch {
	case req.Method == "":
		result.AddError(path+".request.method", "required")
	case !req.Method.Valid():
		result.AddError(path+".request.method", fmt.Sprintf("unsupported method %q", string(req.Method)))
	}

	switch {
	case req.URL == "":
		result.AddError(path+".request.url", "required")
	case !strings.HasPrefix(req.URL, "/"):
		result.AddError(path+".request.url", fmt.Sprintf("must start with '/', got %q", req.URL))
	case strings.ContainsAny(req.URL, "? "):
		result.AddWarning(path+".request.url", "contains '?' or a space and can never match; declare expected parameters in query")
	}

	seen := make(map[string]bool, len(req.Query))
	for j, name := range req.Query {
		field := fmt.Sprintf("%s.request.query[%d]", path, j)
		if name == "" {
			result.AddError(field, "parameter name must not be empty")
			continue
		}
		if seen[name] {
			result.AddWarning(field, fmt.Sprintf("duplicate parameter name %q", name))
		}
		seen[name] = true
	}

	resp := route.Response
	if resp.Timeout < 0 {
		result.AddError(path+".response.timeout", "must not be negative")
	}
	if !resp.ContentType.Valid() {
		result.AddError(path+".response.content_type",
			fmt.Sprintf("unsupported content type %q (TEXT, JSON, HTML)", string(resp.ContentType)))
	}

	if resp.FileBacked() {
		if resp.Data == "" {
			result.AddError(path+".response.data", "file path required when is_file is true")
			return
		}
		info, err := os.Stat(c.ResolvePath(resp.Data))
		switch {
		case err != nil:
			result.AddWarning(path+".response.data", fmt.Sprintf("file not found: %s (requests will get the fallback 404)", resp.Data))
		case info.IsDir():
			result.AddWarning(path+".response.data", fmt.Sprintf("path is a directory: %s", resp.Data))
		}
		return
	}

	if resp.ContentType == ContentTypeJSON {
		if err := CheckJSON(resp.Data); err != nil {
			result.AddWarning(path+".response.data", fmt.Sprintf("JSON body does not parse: %v", err))
		}
	}
}

// CheckJSON reports whether data is a well-formed JSON document.
func CheckJSON(data string) error {
	_, err := oj.ParseString(data)
	return err
}

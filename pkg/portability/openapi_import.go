package portability

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/stubd/stubd/pkg/config"
)

// ImportResult holds the routes built from a document and notes about
// operations that could not be represented exactly.
type ImportResult struct {
	Routes   []config.Route
	Warnings []string
}

// ImportOpenAPI builds one route per operation of an OpenAPI 3 document,
// in path order and then method order. The payload is the example of the
// lowest 2xx response (or the default response), preferring JSON content.
func ImportOpenAPI(data []byte) (*ImportResult, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, &Error{Op: OpImport, Message: "failed to parse document", Cause: err}
	}
	if doc.Paths == nil || doc.Paths.Len() == 0 {
		return nil, &Error{Op: OpImport, Message: "document has no paths"}
	}

	result := &ImportResult{}
	paths := doc.Paths.Map()
	keys := make([]string, 0, len(paths))
	for k := range paths {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, path := range keys {
		item := paths[path]
		if strings.Contains(path, "{") {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s: path parameters are matched literally", path))
		}
		ops := item.Operations()
		for _, method := range config.Methods {
			op, ok := ops[method.String()]
			if !ok || op == nil {
				continue
			}
			route, warn := operationRoute(path, method, op)
			if warn != "" {
				result.Warnings = append(result.Warnings, fmt.Sprintf("%s %s: %s", method, path, warn))
			}
			result.Routes = append(result.Routes, route)
		}
	}
	return result, nil
}

func operationRoute(path string, method config.Method, op *openapi3.Operation) (config.Route, string) {
	route := config.Route{
		Request: config.RequestPattern{Method: method, URL: path},
	}

	for _, p := range op.Parameters {
		if p == nil || p.Value == nil || p.Value.In != openapi3.ParameterInQuery {
			continue
		}
		route.Request.Query = append(route.Request.Query, p.Value.Name)
	}

	resp := successResponse(op)
	if resp == nil {
		route.Response = config.ResponseTemplate{ContentType: config.ContentTypeText}
		return route, "no success response, payload left empty"
	}

	mediaType, media := pickContent(resp.Content)
	route.Response.ContentType = contentTypeFor(mediaType)
	if media == nil {
		return route, ""
	}

	example, ok := mediaExample(media)
	if !ok {
		return route, "no example, payload left empty"
	}
	if s, isString := example.(string); isString {
		route.Response.Data = s
		return route, ""
	}
	b, err := json.MarshalIndent(example, "", "  ")
	if err != nil {
		return route, fmt.Sprintf("example not encodable: %v", err)
	}
	route.Response.Data = string(b)
	route.Response.ContentType = config.ContentTypeJSON
	return route, ""
}

// successResponse returns the lowest 2xx response, else the default one.
func successResponse(op *openapi3.Operation) *openapi3.Response {
	if op.Responses == nil {
		return nil
	}
	best := 0
	var found *openapi3.Response
	for code, ref := range op.Responses.Map() {
		n, err := strconv.Atoi(code)
		if err != nil || n < 200 || n > 299 || ref == nil || ref.Value == nil {
			continue
		}
		if found == nil || n < best {
			best, found = n, ref.Value
		}
	}
	if found != nil {
		return found
	}
	if ref := op.Responses.Default(); ref != nil {
		return ref.Value
	}
	return nil
}

// pickContent prefers JSON, then HTML, then the first media type by name.
func pickContent(content openapi3.Content) (string, *openapi3.MediaType) {
	if len(content) == 0 {
		return "", nil
	}
	keys := make([]string, 0, len(content))
	for k := range content {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, want := range []string{"application/json", "text/html"} {
		for _, k := range keys {
			if strings.HasPrefix(k, want) {
				return k, content[k]
			}
		}
	}
	return keys[0], content[keys[0]]
}

func contentTypeFor(mediaType string) config.ContentType {
	switch {
	case strings.HasPrefix(mediaType, "application/json"), strings.HasSuffix(mediaType, "+json"):
		return config.ContentTypeJSON
	case strings.HasPrefix(mediaType, "text/html"):
		return config.ContentTypeHTML
	default:
		return config.ContentTypeText
	}
}

// mediaExample returns the media example, else the first named example in
// name order, else the schema example.
func mediaExample(m *openapi3.MediaType) (any, bool) {
	if m.Example != nil {
		return m.Example, true
	}
	if len(m.Examples) > 0 {
		names := make([]string, 0, len(m.Examples))
		for n := range m.Examples {
			names = append(names, n)
		}
		slices.Sort(names)
		for _, n := range names {
			if ref := m.Examples[n]; ref != nil && ref.Value != nil && ref.Value.Value != nil {
				return ref.Value.Value, true
			}
		}
	}
	if m.Schema != nil && m.Schema.Value != nil && m.Schema.Value.Example != nil {
		return m.Schema.Value.Example, true
	}
	return nil, false
}

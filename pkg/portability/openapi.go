package portability

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/ohler55/ojg/oj"

	"github.com/stubd/stubd/internal/matching"
	"github.com/stubd/stubd/pkg/config"
)

// DelayExtension carries a route's simulated latency in seconds.
const DelayExtension = "x-stubd-delay-seconds"

// ExportOptions controls ExportOpenAPI.
type ExportOptions struct {
	// Title of the document. Default: "stubd".
	Title string
	// Version of the described API. Default: "1.0.0".
	Version string
	// AsYAML outputs YAML instead of JSON.
	AsYAML bool
	// SkipFiles leaves file-backed payloads out of the examples instead of
	// reading them.
	SkipFiles bool
}

// ExportOpenAPI describes the reachable routes of cfg as an OpenAPI 3.0
// document. Routes shadowed by an earlier route with the same method and
// full path are left out.
func ExportOpenAPI(cfg *config.ServerConfig, opts ExportOptions) ([]byte, error) {
	doc, err := BuildOpenAPI(cfg, opts)
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, &Error{Op: OpExport, Message: "failed to marshal document", Cause: err}
	}
	if opts.AsYAML {
		data, err = jsonToYAML(data)
		if err != nil {
			return nil, &Error{Op: OpExport, Message: "failed to convert to YAML", Cause: err}
		}
		return data, nil
	}
	return append(data, '\n'), nil
}

// BuildOpenAPI builds and validates the document ExportOpenAPI renders.
func BuildOpenAPI(cfg *config.ServerConfig, opts ExportOptions) (*openapi3.T, error) {
	if cfg == nil {
		return nil, &Error{Op: OpExport, Message: "config cannot be nil"}
	}
	if opts.Title == "" {
		opts.Title = "stubd"
	}
	if opts.Version == "" {
		opts.Version = "1.0.0"
	}

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       opts.Title,
			Description: "Generated from a stubd route table",
			Version:     opts.Version,
		},
		Paths: openapi3.NewPaths(),
	}
	if cfg.Host != "" {
		doc.Servers = openapi3.Servers{{URL: fmt.Sprintf("http://%s", cfg.Addr())}}
	}

	seen := make(map[string]bool)
	for i := range cfg.APIs {
		api := &cfg.APIs[i]
		path := matching.JoinPath(cfg.Base, api.Request.URL)
		key := api.Request.Method.String() + " " + path
		if seen[key] {
			continue
		}
		seen[key] = true
		doc.AddOperation(path, api.Request.Method.String(), routeOperation(cfg, i, api, opts))
	}

	if err := doc.Validate(context.Background()); err != nil {
		return nil, &Error{Op: OpExport, Message: "generated document is invalid", Cause: err}
	}
	return doc, nil
}

func routeOperation(cfg *config.ServerConfig, index int, api *config.Route, opts ExportOptions) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.OperationID = fmt.Sprintf("route%d", index)
	op.Summary = fmt.Sprintf("%s %s", api.Request.Method, api.Request.URL)

	for _, name := range matching.NewContract(api.Request.Query).Names() {
		op.AddParameter(openapi3.NewQueryParameter(name).
			WithRequired(true).
			WithSchema(openapi3.NewStringSchema()))
	}

	resp := api.Response
	ok := openapi3.NewResponse().WithDescription("Canned response")
	body, haveBody := exportBody(cfg, resp, opts)
	media := &openapi3.MediaType{Schema: bodySchema(resp.ContentType).NewRef()}
	if haveBody {
		media.Example = exampleValue(resp.ContentType, body)
	}
	ok.Content = openapi3.Content{resp.ContentType.MediaType(): media}
	op.AddResponse(200, ok)

	if api.Request.HasQueryContract() {
		op.AddResponse(400, errorResponse("Query parameter names differ from the expected set", "Parameters mismatch"))
	}
	if resp.FileBacked() {
		op.AddResponse(404, errorResponse("Payload file could not be read", cfg.Error))
	}

	if resp.Timeout > 0 {
		op.Extensions = map[string]any{DelayExtension: resp.Timeout}
	}
	return op
}

func exportBody(cfg *config.ServerConfig, resp config.ResponseTemplate, opts ExportOptions) (string, bool) {
	if !resp.FileBacked() {
		return resp.Data, true
	}
	if opts.SkipFiles {
		return "", false
	}
	data, err := os.ReadFile(cfg.ResolvePath(resp.Data))
	if err != nil {
		return "", false
	}
	return string(data), true
}

func bodySchema(ct config.ContentType) *openapi3.Schema {
	if ct == config.ContentTypeJSON {
		return openapi3.NewSchema()
	}
	return openapi3.NewStringSchema()
}

// exampleValue embeds a JSON payload as structured data when it parses.
func exampleValue(ct config.ContentType, body string) any {
	if ct == config.ContentTypeJSON {
		if v, err := oj.ParseString(body); err == nil {
			return v
		}
	}
	return body
}

func errorResponse(description, body string) *openapi3.Response {
	r := openapi3.NewResponse().WithDescription(description)
	r.Content = openapi3.Content{
		"text/plain": &openapi3.MediaType{
			Schema:  openapi3.NewStringSchema().NewRef(),
			Example: body,
		},
	}
	return r
}

// Package portability converts a stub server route table to and from
// OpenAPI 3 documents.
//
// Export describes every reachable route as an operation: expected query
// parameters become required query parameters, and the canned payload
// becomes the example of the 200 response. Import goes the other way and
// builds routes from the operations and examples of an existing document,
// which is a quick way to stub an API before it exists.
//
//	data, err := portability.ExportOpenAPI(cfg, portability.ExportOptions{AsYAML: true})
//
//	result, err := portability.ImportOpenAPI(specBytes)
//	cfg.APIs = append(cfg.APIs, result.Routes...)
package portability

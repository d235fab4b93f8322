// Package cli provides the command-line interface for stubd.
//
// Running stubd without a subcommand serves the routes of a config file
// until SIGINT or SIGTERM. The subcommands work on the same file:
//   - init: write a starter config, optionally through an interactive form
//   - validate: load a config and report its errors and warnings
//   - routes: print the effective route table in match order
//   - export: describe the routes as an OpenAPI 3.0 document
//   - import: build routes from an OpenAPI 3 document
//   - version: show build information
//
// Usage:
//
//	stubd
//	stubd -f stubs/api.yml --port 0 --print-url
//	stubd init -i
//	stubd routes --json
//	stubd export -o openapi.yaml
//	stubd import petstore.yaml -o api.yml --append
package cli

// Package config provides the configuration model and loader for stubd.
//
// A configuration file describes one stub server:
//   - ServerConfig: host, port, base path, CORS flag, fallback error text
//   - Route: a RequestPattern paired with a ResponseTemplate
//   - RequestPattern: method, URL suffix (joined to the base path), and the
//     optional list of expected query parameter names
//   - ResponseTemplate: simulated latency, content type, file flag, and data
//
// Route order matters: the engine serves the first route whose method and full
// path match, so a later route with the same method and path is unreachable.
//
// File-based Configuration:
//
// Files are YAML (.yml, .yaml) or JSON (anything else):
//
//	cfg, err := config.LoadFromFile("api.yml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// A minimal YAML file:
//
//	host: 127.0.0.1
//	port: 8080
//	base: /api
//	cors: true
//	error: 404 not found
//	apis:
//	  - request:
//	      method: GET
//	      url: /users
//	      query: [page]
//	    response:
//	      timeout: 0
//	      content_type: JSON
//	      is_file: true
//	      data: ./users.json
//
// Extra route files can be pulled in with include globs (doublestar syntax,
// relative to the main file). Their routes are appended after the main file's.
package config

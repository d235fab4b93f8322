// Package engine serves a configured route table over raw TCP.
//
// # Request flow
//
// Every accepted connection gets its own goroutine, which takes a single
// read from the socket and interprets only the request line:
//
//	accept -> read (read_buffer_size bytes) -> wire.ParseRequest
//	       -> Handler.Handle -> simulated latency -> write -> close
//
// Handler.Handle picks the first route whose method and full path match,
// checks the route's query contract and builds the body. The outcome is
// decided by a fixed priority:
//
//  1. query contract violated: 400 "Parameters mismatch"
//  2. no route, or the payload file could not be read: 404 with the
//     configured fallback text
//  3. otherwise: 200 with the route's payload
//
// The route's timeout delays whichever of these a matched route produced.
//
// # Shared state
//
// The route table is built once by NewServer and never changes. The only
// mutable state shared between connections is the payload cell of each
// file-backed route: the first request that needs it reads the file and
// every later request reuses the bytes. A failed read leaves the cell
// unresolved so the next request tries again.
//
// # Basic usage
//
//	cfg, err := config.LoadFromFile("api.yml")
//	if err != nil {
//	    return err
//	}
//	srv := engine.NewServer(cfg, engine.WithLogger(log))
//	if err := srv.Start(); err != nil {
//	    return err
//	}
//	defer srv.Stop(context.Background())
package engine

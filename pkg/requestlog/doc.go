// Package requestlog records the requests a stub server answered so users
// can inspect what came in, which route matched and what was sent back.
//
// It is distinct from operational logging, which uses log/slog.
//
//	store := requestlog.NewMemoryStore(1000)
//	store.Log(&requestlog.Entry{Method: "GET", Path: "/api/users", ResponseStatus: 200})
//	recent := store.List(&requestlog.Filter{Limit: 10})
//
// This is a leaf package with no internal dependencies.
package requestlog

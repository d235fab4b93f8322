// Package matching provides the request matching rules of the stub server.
//
// Matching is deliberately simple and order-sensitive:
//
//   - Paths are compared literally after stripping at most one trailing '/'
//     (the root path "/" is never reduced).
//   - A route's full path is the server base path joined with its URL suffix.
//   - First returns the first target whose method and full path equal the
//     request's; later targets with the same method and path are unreachable.
//   - A Contract checks the observed query parameter names against the names a
//     route declares. It is evaluated only for the route First selected.
//
// NearMisses explains a miss by listing the targets that almost matched.
package matching

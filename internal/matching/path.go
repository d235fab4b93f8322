package matching

import "strings"

// NormalizePath strips a single trailing '/' unless the path is exactly "/".
//
//	NormalizePath("/api/users/") == "/api/users"
//	NormalizePath("//") == "/"
//	NormalizePath("/") == "/"
func NormalizePath(path string) string {
	if len(path) > 1 && strings.HasSuffix(path, "/") {
		return path[:len(path)-1]
	}
	return path
}

// JoinPath forms the full path of a route from the server base path and the
// route's URL suffix. A base of "/" contributes nothing and a suffix of "/"
// addresses the base itself. The result is normalized.
//
//	JoinPath("/", "/hello") == "/hello"
//	JoinPath("/hello", "/") == "/hello"
//	JoinPath("/hello", "/reine") == "/hello/reine"
func JoinPath(base, suffix string) string {
	base = NormalizePath(base)
	switch {
	case base == "" || base == "/":
		if suffix == "" {
			return "/"
		}
		return NormalizePath(suffix)
	case suffix == "" || suffix == "/":
		return base
	default:
		return NormalizePath(base + suffix)
	}
}

// PathEquals reports whether a raw request path addresses fullPath, a path
// produced by JoinPath.
func PathEquals(requestPath, fullPath string) bool {
	return NormalizePath(requestPath) == fullPath
}

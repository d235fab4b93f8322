package matching

// Target is something a request line can be matched against.
type Target interface {
	// MatchMethod returns the method token, e.g. "GET".
	MatchMethod() string
	// MatchPath returns the full normalized path, as built by JoinPath.
	MatchPath() string
}

// First returns the index of the first target whose method equals method
// and whose full path equals the normalized request path, or -1.
// Scanning stops at the first hit.
func First[T Target](targets []T, method, path string) int {
	if method == "" {
		return -1
	}
	path = NormalizePath(path)
	for i, t := range targets {
		if t.MatchMethod() == method && t.MatchPath() == path {
			return i
		}
	}
	return -1
}

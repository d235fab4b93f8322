package wire

import "strings"

// ParseQuery splits a raw query string into a parameter map. Segments are
// separated by '&' and split on their first '='. Segments without '=' are
// dropped, the last of duplicate keys wins, and nothing is percent-decoded.
//
//	ParseQuery("a=1&b=2&a=3&c") == map[string]string{"a": "3", "b": "2"}
func ParseQuery(raw string) map[string]string {
	params := make(map[string]string)
	if raw == "" {
		return params
	}
	for _, seg := range strings.Split(raw, "&") {
		k, v, ok := strings.Cut(seg, "=")
		if !ok {
			continue
		}
		params[k] = v
	}
	return params
}

package matching

import "strings"

// Near-miss reasons.
const (
	ReasonMethod        = "method"         // path matched, method did not
	ReasonTrailingSlash = "trailing-slash" // differs only by a doubled trailing slash
	ReasonCase          = "case"           // path differs only in letter case
)

// NearMiss is a target that did not match a request but came close.
type NearMiss struct {
	Index  int    `json:"index"`
	Method string `json:"method"`
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// NearMisses lists the targets that would have matched but for one detail,
// in target order, at most limit entries (limit <= 0 means no limit).
// It is used to explain 404s in logs.
func NearMisses[T Target](targets []T, method, path string, limit int) []NearMiss {
	norm := NormalizePath(path)
	var out []NearMiss
	for i, t := range targets {
		tm, tp := t.MatchMethod(), t.MatchPath()
		reason := ""
		switch {
		case tp == norm && tm != method:
			reason = ReasonMethod
		case tm == method && tp != norm && strings.TrimRight(path, "/") == strings.TrimRight(tp, "/"):
			reason = ReasonTrailingSlash
		case tm == method && tp != norm && strings.EqualFold(tp, norm):
			reason = ReasonCase
		default:
			continue
		}
		out = append(out, NearMiss{Index: i, Method: tm, Path: tp, Reason: reason})
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

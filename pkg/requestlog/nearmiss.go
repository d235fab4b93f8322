package requestlog

// NearMissInfo is a log-friendly summary of a route that almost matched.
type NearMissInfo struct {
	RouteIndex int    `json:"routeIndex"`
	Method     string `json:"method"`
	Path       string `json:"path"`

	// Reason names the single detail that differed: method, trailing-slash or case.
	Reason string `json:"reason"`
}

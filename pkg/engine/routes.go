package engine

import (
	"strconv"
	"time"

	"github.com/stubd/stubd/internal/matching"
	"github.com/stubd/stubd/pkg/config"
)

// route is the immutable runtime form of a config.Route.
type route struct {
	index       int
	method      string
	path        string // full normalized path
	contract    matching.Contract
	mediaType   string
	contentType config.ContentType
	delay       time.Duration
	payload     *payloadCell
}

func (r *route) MatchMethod() string { return r.method }
func (r *route) MatchPath() string   { return r.path }

// label is the route's value of the route metric label.
func (r *route) label() string { return strconv.Itoa(r.index) }

// buildRoutes converts the config route list, in order. Relative file paths
// are resolved against cfg.BaseDir.
func buildRoutes(cfg *config.ServerConfig) []*route {
	routes := make([]*route, 0, len(cfg.APIs))
	for i, api := range cfg.APIs {
		r := &route{
			index:       i,
			method:      api.Request.Method.String(),
			path:        matching.JoinPath(cfg.Base, api.Request.URL),
			contract:    matching.NewContract(api.Request.Query),
			mediaType:   api.Response.ContentType.MediaType(),
			contentType: api.Response.ContentType,
			delay:       api.Response.Delay(),
		}
		if api.Response.FileBacked() {
			r.payload = filePayload(cfg.ResolvePath(api.Response.Data))
		} else {
			r.payload = literalPayload(api.Response.Data)
		}
		routes = append(routes, r)
	}
	return routes
}

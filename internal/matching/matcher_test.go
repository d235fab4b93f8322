package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type target struct {
	method string
	path   string
}

func (t target) MatchMethod() string { return t.method }
func (t target) MatchPath() string   { return t.path }

func TestFirst(t *testing.T) {
	t.Parallel()

	targets := []target{
		{"GET", "/a"},
		{"POST", "/a"},
		{"GET", "/a"},
		{"GET", "/"},
	}

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"first of duplicates wins", "GET", "/a", 0},
		{"method distinguishes", "POST", "/a", 1},
		{"trailing slash", "GET", "/a/", 0},
		{"root", "GET", "/", 3},
		{"double slash is root", "GET", "//", 3},
		{"unknown path", "GET", "/b", -1},
		{"unknown method", "PUT", "/a", -1},
		{"methods are case sensitive", "get", "/a", -1},
		{"empty method", "", "/a", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, First(targets, tt.method, tt.path))
		})
	}
}

func TestFirst_Empty(t *testing.T) {
	t.Parallel()
	assert.Equal(t, -1, First([]target(nil), "GET", "/"))
}

package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"/", "/"},
		{"//", "/"},
		{"/hello", "/hello"},
		{"/hello/", "/hello"},
		{"/hello//", "/hello/"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePath(tt.in))
		})
	}
}

func TestJoinPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		base   string
		suffix string
		want   string
	}{
		{"root base", "/", "/hello", "/hello"},
		{"root base trailing suffix", "/", "/hello/", "/hello"},
		{"root suffix", "/hello", "/", "/hello"},
		{"both root", "/", "/", "/"},
		{"nested", "/hello", "/reine", "/hello/reine"},
		{"base with trailing slash", "/api/", "/users", "/api/users"},
		{"empty base", "", "/x", "/x"},
		{"empty suffix", "/api", "", "/api"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, JoinPath(tt.base, tt.suffix))
		})
	}
}

func TestPathEquals(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path   string
		base   string
		suffix string
		want   bool
	}{
		{"/hello/", "/hello", "/", true},
		{"/hello", "/hello", "/", true},
		{"/hello/", "/", "/hello", true},
		{"/hello/reine", "/hello", "/reine", true},
		{"/", "/", "/", true},
		{"//", "/", "/", true},
		{"/hello/reine", "/", "/hello", false},
		{"/hellox", "/hello", "/", false},
		{"/b/x/", "/b", "/x", true},
		{"/b/x//", "/b", "/x", false},
	}

	for _, tt := range tests {
		t.Run(tt.path+" vs "+tt.base+"+"+tt.suffix, func(t *testing.T) {
			assert.Equal(t, tt.want, PathEquals(tt.path, JoinPath(tt.base, tt.suffix)))
		})
	}
}

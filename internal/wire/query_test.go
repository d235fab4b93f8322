package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want map[string]string
	}{
		{"pairs", "name=x&age=3", map[string]string{"name": "x", "age": "3"}},
		{"empty", "", map[string]string{}},
		{"segment without equals dropped", "flag&a=1", map[string]string{"a": "1"}},
		{"last duplicate wins", "a=1&a=2", map[string]string{"a": "2"}},
		{"empty value kept", "a=", map[string]string{"a": ""}},
		{"split on first equals", "a=b=c", map[string]string{"a": "b=c"}},
		{"no percent decoding", "q=a%20b", map[string]string{"q": "a%20b"}},
		{"empty segments", "&&a=1&", map[string]string{"a": "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseQuery(tt.raw))
		})
	}
}

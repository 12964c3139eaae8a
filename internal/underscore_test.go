package internal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnderscore(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"Foo", "foo"},
		{"FooBar", "foo_bar"},
		{"fooBar", "foo_bar"},
		{"HTTPRequest", "http_request"},
		{"ID", "id"},
		{"UserID", "user_id"},
		{"already_snake", "already_snake"},
	}
	for _, test := range tests {
		require.Equal(t, test.want, Underscore(test.in), "Underscore(%q)", test.in)
	}
}

package sqlfmt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQuoter(t *testing.T) {
	brackets := Quoter{Open: '[', Close: ']'}
	quotes := Quoter{Open: '"', Close: '"'}

	t.Run("ident", func(t *testing.T) {
		tests := []struct {
			q    Quoter
			in   string
			want string
		}{
			{brackets, "MyTable", "[MyTable]"},
			{brackets, "foo[]bar", "[foo[]]bar]"},
			{brackets, "]", "[]]]"},
			{quotes, "Pony", `"Pony"`},
			{quotes, `foo"bar`, `"foo""bar"`},
			{quotes, "my.Pony", `"my.Pony"`},
		}
		for _, test := range tests {
			require.Equal(t, test.want, test.q.Ident(test.in))
		}
	})

	t.Run("unquote roundtrip", func(t *testing.T) {
		for _, id := range []string{"MyTable", "foo[]bar", "]]", "[", "a.b.c"} {
			require.Equal(t, id, brackets.Unquote(brackets.Ident(id)))
		}
		for _, id := range []string{"Pony", `foo"bar`, `""`} {
			require.Equal(t, id, quotes.Unquote(quotes.Ident(id)))
		}
	})
}

func TestAppendString(t *testing.T) {
	require.Equal(t, "'foo''bar'", string(AppendString(nil, "foo'bar")))
	require.Equal(t, "''", string(AppendString(nil, "")))
}

func TestAppendValue(t *testing.T) {
	tests := []struct {
		v     any
		bytes BytesFormat
		want  string
	}{
		{nil, BytesHex0x, "NULL"},
		{true, BytesHex0x, "1"},
		{false, BytesHex0x, "0"},
		{5, BytesHex0x, "5"},
		{int64(-7), BytesHex0x, "-7"},
		{3.5, BytesHex0x, "3.5"},
		{"it's", BytesHex0x, "'it''s'"},
		{[]byte{0xde, 0xad}, BytesHex0x, "0xDEAD"},
		{[]byte{0xde, 0xad}, BytesHexX, "X'DEAD'"},
	}
	for _, test := range tests {
		require.Equal(t, test.want, string(AppendValue(nil, test.v, test.bytes)))
	}
}

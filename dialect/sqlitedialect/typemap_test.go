package sqlitedialect

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/easydom/relmigrate/schema"
)

func TestStoreType(t *testing.T) {
	m := typeMapper{}

	tests := []struct {
		kind schema.Kind
		want string
	}{
		{schema.KindBool, "INTEGER"},
		{schema.KindByte, "INTEGER"},
		{schema.KindSByte, "INTEGER"},
		{schema.KindInt16, "INTEGER"},
		{schema.KindUInt16, "INTEGER"},
		{schema.KindInt32, "INTEGER"},
		{schema.KindUInt32, "INTEGER"},
		{schema.KindInt64, "INTEGER"},
		{schema.KindUInt64, "INTEGER"},
		{schema.KindChar, "TEXT"},
		{schema.KindFloat32, "REAL"},
		{schema.KindFloat64, "REAL"},
		{schema.KindDecimal, "NUMERIC"},
		{schema.KindString, "TEXT"},
		{schema.KindBytes, "BLOB"},
		{schema.KindDateTime, "TEXT"},
		{schema.KindDateTimeOffset, "TEXT"},
		{schema.KindGUID, "TEXT"},
	}
	for _, test := range tests {
		t.Run(test.kind.String(), func(t *testing.T) {
			require.Equal(t, test.want, m.StoreType(&schema.Property{Name: "P", Kind: test.kind}))
		})
	}
}

func TestStoreTypeRoles(t *testing.T) {
	m := typeMapper{}

	t.Run("explicit column type wins", func(t *testing.T) {
		p := &schema.Property{Name: "P", Kind: schema.KindString, ColumnType: "CLOB"}
		require.Equal(t, "CLOB", m.StoreType(p))
	})

	t.Run("length and key role never change the mapping", func(t *testing.T) {
		b := schema.NewBuilder()
		e := b.Entity("E")
		e.Property("Code", schema.KindString).MaxLength(128)
		e.Key("", "Code")
		model := b.MustBuild()
		require.Equal(t, "TEXT", m.StoreType(model.EntityType("E").Property("Code")))
	})

	t.Run("total over every kind and role", func(t *testing.T) {
		for kind := schema.KindBool; kind <= schema.KindGUID; kind++ {
			for _, concurrency := range []bool{false, true} {
				p := &schema.Property{Name: "P", Kind: kind, ConcurrencyToken: concurrency}
				require.NotEmpty(t, m.StoreType(p), "kind %s", kind)
			}
		}
	})
}

package sqlitedialect

import (
	"github.com/easydom/relmigrate/migrate"
	"github.com/easydom/relmigrate/schema"
)

// typeMapper maps every primitive kind onto one of SQLite's storage
// classes. SQLite types carry no size, so length and key role never change
// the mapping.
type typeMapper struct{}

var _ migrate.TypeMapper = typeMapper{}

func (typeMapper) StoreType(p *schema.Property) string {
	if p.ColumnType != "" {
		return p.ColumnType
	}
	switch p.Kind {
	case schema.KindBool,
		schema.KindByte, schema.KindSByte,
		schema.KindInt16, schema.KindUInt16,
		schema.KindInt32, schema.KindUInt32,
		schema.KindInt64, schema.KindUInt64:
		return "INTEGER"
	case schema.KindFloat32, schema.KindFloat64:
		return "REAL"
	case schema.KindDecimal:
		return "NUMERIC"
	case schema.KindBytes:
		return "BLOB"
	default:
		// Strings, characters, date/times and GUIDs are stored as text.
		return "TEXT"
	}
}

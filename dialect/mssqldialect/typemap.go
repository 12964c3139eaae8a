package mssqldialect

import (
	"strconv"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/easydom/relmigrate/migrate"
	"github.com/easydom/relmigrate/schema"
)

const (
	nvarcharMax  = "nvarchar(max)"
	nvarcharKey  = "nvarchar(128)"
	varbinaryMax = "varbinary(max)"
	varbinaryKey = "varbinary(128)"
	rowversion   = "rowversion"
)

// typeKey captures everything the mapping depends on, so resolved types can
// be memoized per mapper instance.
type typeKey struct {
	kind        schema.Kind
	maxLength   int
	isKey       bool
	concurrency bool
}

type typeMapper struct {
	cache *xsync.MapOf[typeKey, string]
}

var _ migrate.TypeMapper = (*typeMapper)(nil)

func newTypeMapper() *typeMapper {
	return &typeMapper{cache: xsync.NewMapOf[typeKey, string]()}
}

func (m *typeMapper) StoreType(p *schema.Property) string {
	if p.ColumnType != "" {
		return p.ColumnType
	}
	key := typeKey{
		kind:        p.Kind,
		maxLength:   p.MaxLength,
		isKey:       p.IsKeyPart(),
		concurrency: p.ConcurrencyToken,
	}
	t, _ := m.cache.LoadOrCompute(key, func() string {
		return storeType(key)
	})
	return t
}

func storeType(key typeKey) string {
	switch key.kind {
	case schema.KindBool:
		return "bit"
	case schema.KindByte:
		return "tinyint"
	case schema.KindSByte, schema.KindInt16:
		return "smallint"
	case schema.KindInt32, schema.KindUInt16, schema.KindChar:
		return "int"
	case schema.KindInt64, schema.KindUInt32:
		return "bigint"
	case schema.KindUInt64:
		return "numeric(20, 0)"
	case schema.KindFloat32:
		return "real"
	case schema.KindFloat64:
		return "float"
	case schema.KindDecimal:
		return "decimal(18, 2)"
	case schema.KindDateTime:
		return "datetime2"
	case schema.KindDateTimeOffset:
		return "datetimeoffset"
	case schema.KindGUID:
		return "uniqueidentifier"
	case schema.KindString:
		if key.maxLength > 0 {
			return "nvarchar(" + strconv.Itoa(key.maxLength) + ")"
		}
		if key.isKey {
			return nvarcharKey
		}
		return nvarcharMax
	case schema.KindBytes:
		if key.concurrency {
			return rowversion
		}
		if key.maxLength > 0 {
			return "varbinary(" + strconv.Itoa(key.maxLength) + ")"
		}
		if key.isKey {
			return varbinaryKey
		}
		return varbinaryMax
	default:
		return nvarcharMax
	}
}

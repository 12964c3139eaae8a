package schema

// Kind is the primitive kind of a property, independent of any dialect
// storage type.
type Kind int

const (
	KindInvalid Kind = iota
	KindBool
	KindByte
	KindSByte
	KindInt16
	KindUInt16
	KindInt32
	KindUInt32
	KindInt64
	KindUInt64
	KindChar
	KindFloat32
	KindFloat64
	KindDecimal
	KindString
	KindBytes
	KindDateTime
	KindDateTimeOffset
	KindGUID
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindByte:
		return "byte"
	case KindSByte:
		return "sbyte"
	case KindInt16:
		return "int16"
	case KindUInt16:
		return "uint16"
	case KindInt32:
		return "int32"
	case KindUInt32:
		return "uint32"
	case KindInt64:
		return "int64"
	case KindUInt64:
		return "uint64"
	case KindChar:
		return "char"
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	case KindDecimal:
		return "decimal"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindDateTime:
		return "datetime"
	case KindDateTimeOffset:
		return "datetimeoffset"
	case KindGUID:
		return "guid"
	default:
		return "invalid"
	}
}

package sqlfmt

import (
	"fmt"
	"math"
	"strconv"
	"time"

	hex "github.com/tmthrgd/go-hex"
)

func AppendNull(b []byte) []byte {
	return append(b, "NULL"...)
}

// AppendBool renders a boolean as 1 or 0, the only spelling shared by the
// dialects this module targets.
func AppendBool(b []byte, v bool) []byte {
	if v {
		return append(b, '1')
	}
	return append(b, '0')
}

func AppendFloat(b []byte, v float64) []byte {
	switch {
	case math.IsNaN(v):
		return append(b, "'NaN'"...)
	case math.IsInf(v, 1):
		return append(b, "'Infinity'"...)
	case math.IsInf(v, -1):
		return append(b, "'-Infinity'"...)
	default:
		return strconv.AppendFloat(b, v, 'f', -1, 64)
	}
}

// AppendString renders a single-quoted string literal, doubling embedded
// single quotes.
func AppendString(b []byte, s string) []byte {
	b = append(b, '\'')
	for i := 0; i < len(s); i++ {
		if s[i] == '\'' {
			b = append(b, '\'', '\'')
		} else {
			b = append(b, s[i])
		}
	}
	return append(b, '\'')
}

// AppendBytes0x renders a byte-array literal in 0xDEADBEEF form.
func AppendBytes0x(b, bs []byte) []byte {
	if bs == nil {
		return AppendNull(b)
	}
	b = append(b, "0x"...)
	s := len(b)
	b = append(b, make([]byte, hex.EncodedLen(len(bs)))...)
	hex.EncodeUpper(b[s:], bs)
	return b
}

// AppendBytesX renders a byte-array literal in X'DEADBEEF' form.
func AppendBytesX(b, bs []byte) []byte {
	if bs == nil {
		return AppendNull(b)
	}
	b = append(b, "X'"...)
	s := len(b)
	b = append(b, make([]byte, hex.EncodedLen(len(bs)))...)
	hex.EncodeUpper(b[s:], bs)
	return append(b, '\'')
}

func AppendTime(b []byte, tm time.Time) []byte {
	b = append(b, '\'')
	b = tm.AppendFormat(b, "2006-01-02 15:04:05.9999999")
	b = append(b, '\'')
	return b
}

// BytesFormat selects the byte-literal spelling of a dialect.
type BytesFormat int

const (
	BytesHex0x BytesFormat = iota // 0xDEADBEEF
	BytesHexX                     // X'DEADBEEF'
)

// AppendValue renders a Go value as a SQL literal. It covers the value kinds
// a schema default can carry; anything else falls back to a quoted string.
func AppendValue(b []byte, v any, bytes BytesFormat) []byte {
	switch v := v.(type) {
	case nil:
		return AppendNull(b)
	case bool:
		return AppendBool(b, v)
	case int:
		return strconv.AppendInt(b, int64(v), 10)
	case int8:
		return strconv.AppendInt(b, int64(v), 10)
	case int16:
		return strconv.AppendInt(b, int64(v), 10)
	case int32:
		return strconv.AppendInt(b, int64(v), 10)
	case int64:
		return strconv.AppendInt(b, v, 10)
	case uint8:
		return strconv.AppendUint(b, uint64(v), 10)
	case uint16:
		return strconv.AppendUint(b, uint64(v), 10)
	case uint32:
		return strconv.AppendUint(b, uint64(v), 10)
	case uint64:
		return strconv.AppendUint(b, v, 10)
	case float32:
		return AppendFloat(b, float64(v))
	case float64:
		return AppendFloat(b, v)
	case string:
		return AppendString(b, v)
	case []byte:
		if bytes == BytesHexX {
			return AppendBytesX(b, v)
		}
		return AppendBytes0x(b, v)
	case time.Time:
		return AppendTime(b, v)
	default:
		return AppendString(b, fmt.Sprint(v))
	}
}

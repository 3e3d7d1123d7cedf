package core

import (
	"bytes"
	"fmt"

	"github.com/spf13/cast"
	"golang.org/x/exp/constraints"
)

// Clip bounds v to [lo, hi].
func Clip[T constraints.Integer](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Fits reports whether a wire value can be used as a length within limit.
func Fits[T constraints.Unsigned](v T, limit int) bool {
	return limit >= 0 && uint64(v) <= uint64(limit)
}

// CString returns data up to the first NUL byte.
func CString(data []byte) string {
	if i := bytes.IndexByte(data, 0); i >= 0 {
		data = data[:i]
	}
	return string(data)
}

func ToString(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case error:
		return fmt.Sprintf("%+v", v)
	case []byte:
		return fmt.Sprintf("%X", v)
	case []uint64:
		return fmt.Sprint(v)
	default:
		return cast.ToString(val)
	}
}

func ToUint64(val any) (uint64, bool) {
	if e, ok := val.(Enum); ok {
		return e.Raw(), true
	}
	v, err := cast.ToUint64E(val)
	if err != nil {
		return 0, false
	}
	return v, true
}

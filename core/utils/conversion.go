package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ToInt64 converts the loosely typed values found in map-based inserts and raw scans
// to int64. It reports false when the value is not a whole number.
func ToInt64(val any) (int64, bool) {
	switch v := val.(type) {
	case int:
		return int64(v), true
	case int64:
		return v, true
	case int32:
		return int64(v), true
	case int16:
		return int64(v), true
	case int8:
		return int64(v), true
	case uint:
		return int64(v), true
	case uint64:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint8:
		return int64(v), true
	case float64:
		return int64(v), v == float64(int64(v))
	case float32:
		return int64(v), v == float32(int64(v))
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		return i, err == nil
	case []byte:
		i, err := strconv.ParseInt(strings.TrimSpace(string(v)), 10, 64)
		return i, err == nil
	case nil:
		return 0, false
	default:
		i, err := strconv.ParseInt(fmt.Sprintf("%v", v), 10, 64)
		return i, err == nil
	}
}

// FormatID renders a row id as a map key.
func FormatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// ParseID parses a map key produced by FormatID.
func ParseID(key string) (int64, error) {
	id, err := strconv.ParseInt(key, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", key, err)
	}
	return id, nil
}

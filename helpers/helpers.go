package helpers

import (
	"encoding/json"
	"strconv"
)

// UintToString converts uint64 to string.
func UintToString(v uint64) string {
	return strconv.FormatUint(v, 10)
}

// ToJsonString converts any value to JSON string.
func ToJsonString(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

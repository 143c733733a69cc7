package utils

import (
	"fmt"
	"strconv"
)

// StrToInt64 converts a string to an int64.
func StrToInt64(s string) (int64, error) {
	num, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse '%s' as int64: %w", s, err)
	}
	return num, nil
}

// PadCode builds display codes such as "CL007" or "SV012".
func PadCode(prefix string, id int64) string {
	return fmt.Sprintf("%s%03d", prefix, id)
}

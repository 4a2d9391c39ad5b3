package util

import (
	"strconv"
	"strings"
)

// MustParseUint 将字符串转换为无符号整数，解析失败时返回 0
func MustParseUint(s string) uint {
	id, _ := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	return uint(id)
}

// MustParseInt returns 0 for anything that is not a base-10 int.
func MustParseInt(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}

package testutils

import "strings"

// GenerateOverBytesUnderRunes строка из count рун, каждая по 4 байта. Проходит проверку длины в рунах,
// но не проходит max_bytes при том же лимите.
func GenerateOverBytesUnderRunes(count int) string {
	return strings.Repeat("😁", count)
}

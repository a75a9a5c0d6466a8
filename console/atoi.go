package console

import "math"

// Atoi converts the leading decimal number of s the permissive way console
// input has always been read: leading blanks and an optional sign are
// accepted, parsing stops at the first non-digit, and text without digits
// yields 0. Values saturate at the int32 range.
func Atoi(s string) int {
	i := 0
	for i < len(s) && (s[i] == ' ' || (s[i] >= '\t' && s[i] <= '\r')) {
		i++
	}

	neg := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}

	n := 0
	for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		n = n*10 + int(s[i]-'0')
		if n > math.MaxInt32 {
			n = math.MaxInt32 + 1
		}
	}

	if neg {
		return max(-n, math.MinInt32)
	}
	return min(n, math.MaxInt32)
}

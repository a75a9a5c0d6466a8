package record

import (
	"fmt"
	"strconv"
	"strings"
)

// PackIPv4 packs a.b.c.d with the first token in the least significant byte.
// Stored records depend on this order; it is not network byte order.
func PackIPv4(a, b, c, d uint8) uint32 {
	return uint32(a) | uint32(b)<<8 | uint32(c)<<16 | uint32(d)<<24
}

// ParseIPv4 parses a strictly dotted-quad address and packs it with PackIPv4.
func ParseIPv4(s string) (uint32, error) {
	tokens := strings.Split(s, ".")
	if len(tokens) != 4 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidIPv4, s)
	}

	var octets [4]uint8
	for i, tok := range tokens {
		v, err := strconv.ParseUint(tok, 10, 8)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidIPv4, s)
		}
		octets[i] = uint8(v)
	}
	return PackIPv4(octets[0], octets[1], octets[2], octets[3]), nil
}

// FormatIPv4 is the inverse of ParseIPv4.
func FormatIPv4(v uint32) string {
	return fmt.Sprintf("%d.%d.%d.%d", uint8(v), uint8(v>>8), uint8(v>>16), uint8(v>>24))
}

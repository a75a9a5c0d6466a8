// Package record defines the configuration records collected by the wizard
// and their fixed binary layouts in the config store.
//
// Every record encodes to a fixed-size little-endian blob of NUL-padded byte
// arrays, the same shape the records have in device flash. Strings longer
// than their array are clipped, never rejected.
package record

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Clip returns the longest prefix of s that fits in capacity bytes.
func Clip(s string, capacity int) string {
	if capacity < 0 {
		return ""
	}
	if len(s) > capacity {
		return s[:capacity]
	}
	return s
}

// putString copies s into the NUL-padded array dst.
func putString(dst []byte, s string) {
	clear(dst)
	copy(dst, Clip(s, len(dst)))
}

// getString reads a NUL-padded array back into a string.
func getString(src []byte) string {
	if i := bytes.IndexByte(src, 0); i >= 0 {
		return string(src[:i])
	}
	return string(src)
}

func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

func encode(w any) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(binary.Size(w))
	if err := binary.Write(&buf, binary.LittleEndian, w); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decode(data []byte, w any) error {
	size := binary.Size(w)
	if len(data) < size {
		return fmt.Errorf("%w: have %d bytes, need %d", ErrShortRecord, len(data), size)
	}
	return binary.Read(bytes.NewReader(data[:size]), binary.LittleEndian, w)
}

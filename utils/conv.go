package utils

import (
	"bytes"
	"strings"

	"github.com/sammargh/gfdmtools/config"

	"golang.org/x/text/transform"
)

// BytesToString decodes a fixed-width, NUL padded name field with the configured encoding.
// Surrounding whitespace is trimmed.
func BytesToString(bs []byte) string {
	n := BytesStringLength(bs)

	s, _, err := transform.Bytes(config.GetEncoding().NewDecoder(), bs[0:n])
	if err != nil {
		// keep the raw bytes, names are still usable as keys
		s = bs[0:n]
	}

	return strings.TrimSpace(string(s))
}

func BytesStringLength(bs []byte) int {
	if l := bytes.IndexByte(bs, 0); l == -1 {
		return len(bs)
	} else {
		return l
	}
}

// StringToBytesBuffer encodes s into a zero padded buffer of bufSize bytes.
// Used by tests to build fixtures.
func StringToBytesBuffer(s string, bufSize int) []byte {
	bs, _, err := transform.Bytes(config.GetEncoding().NewEncoder(), []byte(s))
	if err != nil {
		panic(err)
	}
	if len(bs) > bufSize {
		panic(bs)
	}
	r := make([]byte, bufSize)
	copy(r, bs)
	return r
}

// FloorDiv is integer division rounding towards negative infinity.
func FloorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

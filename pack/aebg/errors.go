package aebg

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrFormat is returned for buffers that are not a decodable AEBG timeline.
var ErrFormat = errors.New("aebg: invalid format")

type UnknownOpcodeError struct {
	Offset int64
	Major  uint16
	Minor  uint16
	Reason string
}

func (e *UnknownOpcodeError) Error() string {
	s := fmt.Sprintf("aebg: unknown opcode %d/%d at 0x%x", e.Major, e.Minor, e.Offset)
	if e.Reason != "" {
		s += ": " + e.Reason
	}
	return s
}

type IndexOutOfRangeError struct {
	What  string
	Index int
	Limit int
	// Offset of the entry or command that referenced the index
	Offset int64
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("aebg: %s index %d out of range [0,%d) at 0x%x", e.What, e.Index, e.Limit, e.Offset)
}

func formatErrorf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrFormat, format, args...)
}

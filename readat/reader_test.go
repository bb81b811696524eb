package readat

import (
	"io"
	"testing"

	"github.com/pkg/errors"
)

func TestReaderSequential(t *testing.T) {
	r := NewBytesReader([]byte{
		0x41, 0x45, 0x42, 0x47,
		0x01, 0x00, 0x00, 0x00,
		0xfe, 0xff,
		0x7f,
	})

	if s := string(r.Bytes(4)); s != "AEBG" {
		t.Errorf("Bytes(4)=%q; expected AEBG", s)
	}
	if v := r.U32(); v != 1 {
		t.Errorf("U32()=%d; expected 1", v)
	}
	if v := r.I16(); v != -2 {
		t.Errorf("I16()=%d; expected -2", v)
	}
	if v := r.U8(); v != 0x7f {
		t.Errorf("U8()=%#x; expected 0x7f", v)
	}
	if r.Pos() != 11 {
		t.Errorf("Pos()=%d; expected 11", r.Pos())
	}
	if r.Err() != nil {
		t.Errorf("unexpected error: %v", r.Err())
	}
}

func TestReaderStickyShortRead(t *testing.T) {
	r := NewBytesReader([]byte{1, 2, 3})

	if v := r.U32(); v != 0 {
		t.Errorf("U32() on short buffer=%d; expected 0", v)
	}
	if !errors.Is(r.Err(), io.ErrUnexpectedEOF) {
		t.Fatalf("Err()=%v; expected unexpected EOF", r.Err())
	}
	// the cursor does not move after a failure
	if v := r.U8(); v != 0 {
		t.Errorf("U8() after failure=%d; expected 0", v)
	}
	if r.Pos() != 0 {
		t.Errorf("Pos()=%d; expected 0", r.Pos())
	}
}

func TestSubReader(t *testing.T) {
	r := NewBytesReader([]byte{0, 0, 0x34, 0x12})
	sub := r.SubReader(2)
	if v := sub.U16(); v != 0x1234 {
		t.Errorf("U16()=%#x; expected 0x1234", v)
	}
	if sub.Offset() != 2 {
		t.Errorf("Offset()=%d; expected 2", sub.Offset())
	}
}

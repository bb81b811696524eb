package readat

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// Reader is a little-endian cursor over an io.ReaderAt.
// The first failed read sticks: later reads return zero values and Err reports the failure.
type Reader struct {
	source io.ReaderAt
	offset int64
	pos    int64
	err    error
}

func NewReader(source io.ReaderAt, offset int64) *Reader {
	return &Reader{
		source: source,
		offset: offset,
	}
}

func NewBytesReader(b []byte) *Reader {
	return NewReader(bytes.NewReader(b), 0)
}

func (r *Reader) Offset() int64 {
	return r.offset
}

// Pos is relative to Offset.
func (r *Reader) Pos() int64 {
	return r.pos
}

func (r *Reader) Err() error {
	return r.err
}

func (r *Reader) Seek(pos int64) {
	r.pos = pos
}

func (r *Reader) SubReader(offset int64) *Reader {
	return &Reader{
		source: r.source,
		offset: r.offset + offset,
	}
}

func (r *Reader) ReadAt(p []byte, off int64) (n int, err error) {
	return r.source.ReadAt(p, r.offset+off)
}

func (r *Reader) read(p []byte) bool {
	if r.err != nil {
		return false
	}
	n, err := r.ReadAt(p, r.pos)
	if n < len(p) {
		if err == nil || err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		r.err = errors.Wrapf(err, "read %d bytes at 0x%x", len(p), r.offset+r.pos)
		return false
	}
	r.pos += int64(n)
	return true
}

func (r *Reader) Bytes(size int) []byte {
	if size < 0 {
		r.err = errors.Errorf("negative read size %d at 0x%x", size, r.offset+r.pos)
		return nil
	}
	b := make([]byte, size)
	if !r.read(b) {
		return nil
	}
	return b
}

func (r *Reader) Skip(size int64) {
	if r.err == nil {
		r.pos += size
	}
}

func (r *Reader) U8() uint8 {
	var b [1]byte
	r.read(b[:])
	return b[0]
}
func (r *Reader) I8() int8 { return int8(r.U8()) }

func (r *Reader) U16() uint16 {
	var b [2]byte
	if !r.read(b[:]) {
		return 0
	}
	return binary.LittleEndian.Uint16(b[:])
}
func (r *Reader) I16() int16 { return int16(r.U16()) }

func (r *Reader) U32() uint32 {
	var b [4]byte
	if !r.read(b[:]) {
		return 0
	}
	return binary.LittleEndian.Uint32(b[:])
}
func (r *Reader) I32() int32 { return int32(r.U32()) }

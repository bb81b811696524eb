package fcn

import (
	"bytes"
	"io"
	"log"

	"github.com/pkg/errors"

	"github.com/sammargh/gfdmtools/readat"
	"github.com/sammargh/gfdmtools/utils"
	"github.com/sammargh/gfdmtools/vfs"
)

const (
	HEADER_SIZE     = 0x10
	ENTRY_SIZE      = 0x28
	NAME_SIZE       = 0x20
	NEW_FORMAT_FLAG = 0x08000000
)

var ErrFormat = errors.New("fcn: invalid format")

type Entry struct {
	Name   string
	Offset uint32
	Size   uint32
}

// Archive is a flat FCN container. It is browsed as a read-only directory.
type Archive struct {
	*vfs.MemoryDirectory `json:"-"`

	FileSize      uint32
	Unk1          uint32
	FileTableSize uint32
	Unk2          uint32
	NewFormat     bool
	Entries       []Entry
}

func (a *Archive) dataBase() int64 {
	if a.NewFormat {
		return HEADER_SIZE + int64(len(a.Entries))*ENTRY_SIZE
	}
	return HEADER_SIZE + int64(a.FileTableSize)
}

func NewFromReader(name string, r *io.SectionReader) (*Archive, error) {
	rd := readat.NewReader(r, 0)
	a := &Archive{
		MemoryDirectory: vfs.NewMemoryDirectory(name),
		FileSize:        rd.U32(),
		Unk1:            rd.U32(),
		FileTableSize:   rd.U32(),
		Unk2:            rd.U32(),
	}
	if rd.Err() != nil {
		return nil, errors.Wrapf(ErrFormat, "header: %v", rd.Err())
	}

	count := int(a.FileTableSize / ENTRY_SIZE)
	if a.FileSize&NEW_FORMAT_FLAG != 0 {
		a.NewFormat = true
		count = int(a.FileSize & 0xffff)
	}
	if int64(count)*ENTRY_SIZE+HEADER_SIZE > r.Size() {
		return nil, errors.Wrapf(ErrFormat, "file table of %d entries does not fit into %d bytes", count, r.Size())
	}

	a.Entries = make([]Entry, count)
	for i := range a.Entries {
		rd.Seek(HEADER_SIZE + int64(i)*ENTRY_SIZE)
		a.Entries[i] = Entry{
			Name:   utils.BytesToString(rd.Bytes(NAME_SIZE)),
			Offset: rd.U32(),
			Size:   rd.U32(),
		}
	}
	if rd.Err() != nil {
		return nil, errors.Wrapf(ErrFormat, "file table: %v", rd.Err())
	}

	base := a.dataBase()
	for _, e := range a.Entries {
		start := base + int64(e.Offset)
		if start+int64(e.Size) > r.Size() {
			return nil, errors.Wrapf(ErrFormat, "file '%s' [0x%x:0x%x] is out of archive bounds 0x%x",
				e.Name, start, start+int64(e.Size), r.Size())
		}
		if !a.Add(vfs.NewSectionFile(e.Name, r, start, int64(e.Size))) {
			log.Printf("[fcn] %s: duplicate file name '%s' ignored", name, e.Name)
		}
	}
	return a, nil
}

func NewFromData(name string, data []byte) (*Archive, error) {
	return NewFromReader(name, io.NewSectionReader(bytes.NewReader(data), 0, int64(len(data))))
}

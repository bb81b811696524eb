package vfs

import (
	"io"
	"os"
	"strings"
)

// SectionFile is a file stored inside another file, like an archive member.
type SectionFile struct {
	name string
	r    *io.SectionReader
}

func NewSectionFile(name string, source io.ReaderAt, offset, size int64) *SectionFile {
	return &SectionFile{
		name: name,
		r:    io.NewSectionReader(source, offset, size),
	}
}

func (sf *SectionFile) Name() string                                  { return sf.name }
func (sf *SectionFile) IsDirectory() bool                             { return false }
func (sf *SectionFile) Size() int64                                   { return sf.r.Size() }
func (sf *SectionFile) Open() error                                   { return nil }
func (sf *SectionFile) Close() error                                  { return nil }
func (sf *SectionFile) Reader() (*io.SectionReader, error)            { return io.NewSectionReader(sf.r, 0, sf.r.Size()), nil }
func (sf *SectionFile) ReadAt(b []byte, off int64) (n int, err error) { return sf.r.ReadAt(b, off) }

// MemoryDirectory is a flat, ordered set of files.
type MemoryDirectory struct {
	name  string
	names []string
	files map[string]File
}

func NewMemoryDirectory(name string) *MemoryDirectory {
	return &MemoryDirectory{
		name:  name,
		files: make(map[string]File),
	}
}

// Add keeps the first file when names repeat.
func (md *MemoryDirectory) Add(f File) bool {
	if _, exists := md.files[f.Name()]; exists {
		return false
	}
	md.names = append(md.names, f.Name())
	md.files[f.Name()] = f
	return true
}

func (md *MemoryDirectory) Name() string      { return md.name }
func (md *MemoryDirectory) IsDirectory() bool { return true }

func (md *MemoryDirectory) List() ([]string, error) {
	result := make([]string, len(md.names))
	copy(result, md.names)
	return result, nil
}

func (md *MemoryDirectory) GetElement(name string) (Element, error) {
	if f, ok := md.files[name]; ok {
		return f, nil
	}
	for _, n := range md.names {
		if strings.EqualFold(n, name) {
			return md.files[n], nil
		}
	}
	return nil, os.ErrNotExist
}

package aebg

import (
	"log"

	"github.com/pkg/errors"

	"github.com/sammargh/gfdmtools/readat"
	"github.com/sammargh/gfdmtools/utils"
)

func Parse(data []byte) (*File, error) {
	return ParseFrom(readat.NewBytesReader(data))
}

func ParseFrom(r *readat.Reader) (*File, error) {
	magic := r.Bytes(4)
	if r.Err() != nil {
		return nil, formatErrorf("header: %v", r.Err())
	}
	if string(magic) != MAGIC {
		return nil, formatErrorf("magic %q", magic)
	}

	f := &File{Unk1: r.U32()}
	entryCount := int(r.U32())
	if r.Err() != nil {
		return nil, formatErrorf("header: %v", r.Err())
	}

	for i := 0; i < entryCount; i++ {
		e, err := parseEntry(r, i)
		if err != nil {
			return nil, err
		}
		f.Entries = append(f.Entries, *e)
	}

	nameCount := int(r.U32())
	for i := 0; i < nameCount && r.Err() == nil; i++ {
		buf := r.Bytes(FILENAME_SIZE)
		if buf != nil {
			f.Filenames = append(f.Filenames, utils.BytesToString(buf))
		}
	}
	if r.Err() != nil {
		return nil, formatErrorf("filename table: %v", r.Err())
	}

	f.checkEntries()
	return f, nil
}

func parseEntry(r *readat.Reader, index int) (*Entry, error) {
	e := &Entry{
		Index:  index,
		Offset: r.Offset() + r.Pos(),
	}

	hdr := r.Bytes(ENTRY_HEADER_SIZE)
	if r.Err() != nil {
		return nil, formatErrorf("entry %d header: %v", index, r.Err())
	}

	hr := readat.NewBytesReader(hdr)
	e.StartTick = int(hr.U32())
	e.EndTick = int(hr.U32())
	e.Id = hr.U16()
	e.Type = EntryType(hr.U16())
	e.AnimId = hr.U16()
	e.X = hr.I16()
	e.Y = hr.I16()
	e.Width = hr.U16()
	e.Height = hr.U16()
	e.Alpha = hr.U8()
	e.R = hr.U8()
	e.G = hr.U8()
	e.B = hr.U8()
	e.BlendMode = BlendMode(hr.I16())
	e.Rotation = hr.I16()
	e.ZoomX = hr.I16()
	e.ZoomY = hr.I16()
	e.AnimIn = hr.U16()
	e.AnimOut = hr.U16()
	hr.Skip(2)
	e.CycleIndex = hr.U8()
	e.Clut = hr.U8()

	commandCount := int(r.U32())
	if r.Err() != nil {
		return nil, formatErrorf("entry %d command count: %v", index, r.Err())
	}
	for i := 0; i < commandCount; i++ {
		cmd := Command{Offset: r.Offset() + r.Pos()}
		cmd.StartTick = int(r.U32())
		cmd.EndTick = int(r.U32())
		cmd.Major = r.U16()
		cmd.Unk = r.U16()
		cmd.EntryIndex = r.U16()
		cmd.Minor = r.U16()
		params := r.Bytes(COMMAND_PARAM_SIZE)
		if r.Err() != nil {
			return nil, formatErrorf("entry %d command %d: %v", index, i, r.Err())
		}
		copy(cmd.Params[:], params)
		e.Commands = append(e.Commands, cmd)
	}

	return e, nil
}

// checkEntries marks entries that cannot be rendered once the filename table is known.
func (f *File) checkEntries() {
	for i := range f.Entries {
		e := &f.Entries[i]
		switch e.Type {
		case ENTRY_STATIC_IMAGE:
			if int(e.AnimId) >= len(f.Filenames) {
				e.Skipped = true
				f.issue(&IndexOutOfRangeError{What: "entry anim_id", Index: int(e.AnimId), Limit: len(f.Filenames), Offset: e.Offset})
			}
		case ENTRY_SOLID_COLOR, ENTRY_CANVAS_META:
		default:
			e.Skipped = true
			f.issue(errors.Errorf("aebg: entry %d at 0x%x: unknown type %v", e.Index, e.Offset, e.Type))
		}
	}
}

func (f *File) issue(err error) {
	log.Printf("[aebg] %v", err)
	f.Issues = append(f.Issues, err)
}

package aebg

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/sammargh/gfdmtools/utils"
)

var le = binary.LittleEndian

func buildFile(entries []Entry, names []string) []byte {
	var b bytes.Buffer
	b.WriteString(MAGIC)
	binary.Write(&b, le, uint32(0))
	binary.Write(&b, le, uint32(len(entries)))

	for _, e := range entries {
		hdr := make([]byte, ENTRY_HEADER_SIZE)
		le.PutUint32(hdr[0x00:], uint32(e.StartTick))
		le.PutUint32(hdr[0x04:], uint32(e.EndTick))
		le.PutUint16(hdr[0x08:], e.Id)
		le.PutUint16(hdr[0x0a:], uint16(e.Type))
		le.PutUint16(hdr[0x0c:], e.AnimId)
		le.PutUint16(hdr[0x0e:], uint16(e.X))
		le.PutUint16(hdr[0x10:], uint16(e.Y))
		le.PutUint16(hdr[0x12:], e.Width)
		le.PutUint16(hdr[0x14:], e.Height)
		hdr[0x16] = e.Alpha
		hdr[0x17] = e.R
		hdr[0x18] = e.G
		hdr[0x19] = e.B
		le.PutUint16(hdr[0x1a:], uint16(e.BlendMode))
		le.PutUint16(hdr[0x1c:], uint16(e.Rotation))
		le.PutUint16(hdr[0x1e:], uint16(e.ZoomX))
		le.PutUint16(hdr[0x20:], uint16(e.ZoomY))
		le.PutUint16(hdr[0x22:], e.AnimIn)
		le.PutUint16(hdr[0x24:], e.AnimOut)
		hdr[0x28] = e.CycleIndex
		hdr[0x29] = e.Clut
		b.Write(hdr)

		binary.Write(&b, le, uint32(len(e.Commands)))
		for _, c := range e.Commands {
			buf := make([]byte, COMMAND_SIZE)
			le.PutUint32(buf[0x00:], uint32(c.StartTick))
			le.PutUint32(buf[0x04:], uint32(c.EndTick))
			le.PutUint16(buf[0x08:], c.Major)
			le.PutUint16(buf[0x0a:], c.Unk)
			le.PutUint16(buf[0x0c:], c.EntryIndex)
			le.PutUint16(buf[0x0e:], c.Minor)
			copy(buf[0x10:], c.Params[:])
			b.Write(buf)
		}
	}

	binary.Write(&b, le, uint32(len(names)))
	for _, name := range names {
		b.Write(utils.StringToBytesBuffer(name, FILENAME_SIZE))
	}
	return b.Bytes()
}

// words packs 16 bit parameters, negative values as two's complement.
func words(vals ...int) (p [COMMAND_PARAM_SIZE]byte) {
	for i, v := range vals {
		le.PutUint16(p[i*2:], uint16(int16(v)))
	}
	return p
}

func spriteParams(length, ticks int, flip uint32) (p [COMMAND_PARAM_SIZE]byte) {
	le.PutUint16(p[0:], uint16(length))
	le.PutUint16(p[2:], uint16(ticks))
	le.PutUint32(p[4:], flip)
	return p
}

func effect(minor uint16, start, end int, slot uint16, params [COMMAND_PARAM_SIZE]byte) Command {
	return Command{StartTick: start, EndTick: end, Major: MAJOR_EFFECT, Minor: minor, EntryIndex: slot, Params: params}
}

func sprite(minor uint16, start, end int, slot uint16, params [COMMAND_PARAM_SIZE]byte) Command {
	return Command{StartTick: start, EndTick: end, Major: MAJOR_SPRITE, Minor: minor, EntryIndex: slot, Params: params}
}

func imageEntry(start, end int, animId uint16, cmds ...Command) Entry {
	return Entry{
		StartTick: start,
		EndTick:   end,
		Type:      ENTRY_STATIC_IMAGE,
		AnimId:    animId,
		Alpha:     128,
		ZoomX:     4096,
		ZoomY:     4096,
		Commands:  cmds,
	}
}

func mustResolve(t testing.TB, entries []Entry, names []string, opts Options) (*File, *Timeline) {
	t.Helper()
	f, err := Parse(buildFile(entries, names))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	tl, err := Resolve(f, opts)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	return f, tl
}

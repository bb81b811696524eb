package aebg

import (
	"testing"

	"github.com/pkg/errors"
)

func TestParseBadMagic(t *testing.T) {
	data := buildFile(nil, nil)
	copy(data, "GBEA")
	if _, err := Parse(data); !errors.Is(err, ErrFormat) {
		t.Errorf("Parse with bad magic: %v, expected ErrFormat", err)
	}
}

func TestParseTruncated(t *testing.T) {
	data := buildFile([]Entry{
		imageEntry(0, 4, 0, effect(EFFECT_OPACITY, 0, 4, 0, words(0, 128))),
	}, []string{"frame"})

	if _, err := Parse(data); err != nil {
		t.Fatalf("Parse complete file: %v", err)
	}

	for _, size := range []int{0, 3, 8, 11, 0x20, HEADER_SIZE + ENTRY_HEADER_SIZE + 2, len(data) - COMMAND_SIZE - 10, len(data) - 1} {
		if _, err := Parse(data[:size]); !errors.Is(err, ErrFormat) {
			t.Errorf("Parse truncated to %d bytes: %v, expected ErrFormat", size, err)
		}
	}
}

func TestParseEntryFields(t *testing.T) {
	e := imageEntry(3, 9, 1)
	e.Id = 77
	e.X, e.Y = -12, 240
	e.Width, e.Height = 64, 32
	e.Alpha = 64
	e.R, e.G, e.B = 1, 2, 3
	e.BlendMode = BLEND_SUBTRACTIVE
	e.Rotation = 1024
	e.ZoomX = -4096
	e.ZoomY = 2048
	e.AnimIn, e.AnimOut = 5, 6
	e.CycleIndex = 2
	e.Clut = 4

	f, err := Parse(buildFile([]Entry{e}, []string{"first", "テスト"}))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(f.Entries) != 1 || len(f.Filenames) != 2 || len(f.Issues) != 0 {
		t.Fatalf("Parse: %d entries, %d names, issues %v", len(f.Entries), len(f.Filenames), f.Issues)
	}
	if f.Filenames[1] != "テスト" {
		t.Errorf("filename %q", f.Filenames[1])
	}

	got := f.Entries[0]
	if got.StartTick != 3 || got.EndTick != 9 || got.Id != 77 || got.X != -12 || got.Y != 240 ||
		got.Width != 64 || got.Height != 32 || got.R != 1 || got.G != 2 || got.B != 3 ||
		got.BlendMode != BLEND_SUBTRACTIVE || got.AnimIn != 5 || got.AnimOut != 6 ||
		got.CycleIndex != 2 || got.Clut != 4 || got.Offset != HEADER_SIZE {
		t.Errorf("entry fields mismatch: %+v", got)
	}
	if got.InitialOpacity() != 0.5 {
		t.Errorf("initial opacity %v", got.InitialOpacity())
	}
	if got.InitialRotation() != 90 {
		t.Errorf("initial rotation %v", got.InitialRotation())
	}
	if zx, zy := got.InitialZoom(); zx != -1 || zy != 0.5 {
		t.Errorf("initial zoom %v,%v", zx, zy)
	}
}

func TestParseCommandParams(t *testing.T) {
	f, err := Parse(buildFile([]Entry{
		imageEntry(0, 4, 0, sprite(SPRITE_IMAGE, 1, 3, 7, spriteParams(4, 2, 0xdeadbeef))),
	}, []string{"a"}))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	cmd := f.Entries[0].Commands[0]
	if cmd.StartTick != 1 || cmd.EndTick != 3 || cmd.Major != MAJOR_SPRITE || cmd.EntryIndex != 7 {
		t.Errorf("command fields mismatch: %v", &cmd)
	}
	if cmd.U16At(0) != 4 || cmd.U16At(2) != 2 || cmd.U32At(4) != 0xdeadbeef {
		t.Errorf("params %x", cmd.Params)
	}
	if cmd.Offset != HEADER_SIZE+ENTRY_HEADER_SIZE+4 {
		t.Errorf("command offset 0x%x", cmd.Offset)
	}
	if f.Entries[0].Slot() != 7 {
		t.Errorf("slot %d", f.Entries[0].Slot())
	}
}

func TestParseAnimIdOutOfRange(t *testing.T) {
	f, err := Parse(buildFile([]Entry{
		imageEntry(0, 4, 5,
			effect(EFFECT_OPACITY, 0, 4, 0, words(0, 128)),
			effect(EFFECT_ROTATION, 0, 4, 0, words(0, 12))),
		imageEntry(0, 4, 0),
	}, []string{"a"}))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if len(f.Entries) != 2 {
		t.Fatalf("%d entries", len(f.Entries))
	}
	if !f.Entries[0].Skipped || len(f.Entries[0].Commands) != 2 {
		t.Errorf("first entry: skipped %v, %d commands", f.Entries[0].Skipped, len(f.Entries[0].Commands))
	}
	if f.Entries[1].Skipped || f.Entries[1].EndTick != 4 {
		t.Errorf("second entry parsed wrong: %+v", f.Entries[1])
	}

	var ioor *IndexOutOfRangeError
	if len(f.Issues) != 1 || !errors.As(f.Issues[0], &ioor) || ioor.Index != 5 {
		t.Errorf("issues %v", f.Issues)
	}
}

func TestParseEntryTypes(t *testing.T) {
	solid := Entry{Type: ENTRY_SOLID_COLOR, AnimId: 9, EndTick: 2}
	canvas := Entry{Type: ENTRY_CANVAS_META, Width: 320, Height: 240, StartTick: 1, EndTick: 50}
	unknown := Entry{Type: 7, EndTick: 2}

	f, err := Parse(buildFile([]Entry{solid, canvas, unknown}, nil))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if f.Entries[0].Skipped || f.Entries[1].Skipped || !f.Entries[2].Skipped {
		t.Errorf("skipped flags %v %v %v", f.Entries[0].Skipped, f.Entries[1].Skipped, f.Entries[2].Skipped)
	}
	if len(f.Issues) != 1 {
		t.Errorf("issues %v", f.Issues)
	}

	c, ok := f.Canvas()
	if !ok || c != (Canvas{Width: 320, Height: 240, StartTick: 1, EndTick: 50}) {
		t.Errorf("canvas %+v %v", c, ok)
	}
}

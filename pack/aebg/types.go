package aebg

import (
	"encoding/binary"
	"fmt"
	"image/color"
)

const MAGIC = "AEBG"

const (
	HEADER_SIZE        = 0x0c
	ENTRY_HEADER_SIZE  = 0x40
	COMMAND_SIZE       = 0x20
	COMMAND_PARAM_SIZE = 0x10
	FILENAME_SIZE      = 0x20
)

type EntryType uint16

const (
	ENTRY_STATIC_IMAGE EntryType = 0
	ENTRY_SOLID_COLOR  EntryType = 1
	ENTRY_CANVAS_META  EntryType = 2
)

func (t EntryType) String() string {
	switch t {
	case ENTRY_STATIC_IMAGE:
		return "StaticImage"
	case ENTRY_SOLID_COLOR:
		return "SolidColor"
	case ENTRY_CANVAS_META:
		return "CanvasMeta"
	}
	return fmt.Sprintf("EntryType(%d)", uint16(t))
}

const (
	MAJOR_EFFECT = 0
	MAJOR_SPRITE = 1
	// never interpreted, skipped without a diagnostic
	MAJOR_IGNORED = 0x1000
)

// effect (major 0) minor opcodes
const (
	EFFECT_POSITION      = 0
	EFFECT_CENTER        = 1
	EFFECT_ZOOM          = 2
	EFFECT_ROTATION      = 3
	EFFECT_OPACITY       = 4
	EFFECT_IMAGE         = 6
	EFFECT_PALETTE       = 7
	EFFECT_IMAGE_ALT     = 8
	EFFECT_PALETTE_ALT   = 9
	ZOOM_UNIT            = 4096.0
	ROTATION_DELTA_UNIT  = 12.0
	ROTATION_INITIAL_DIV = 1024.0
	OPACITY_UNIT         = 128.0
	SCROLL_UNIT          = 16.0
)

// sprite (major 1) minor opcodes
const (
	SPRITE_IMAGE         = 0
	SPRITE_PALETTE       = 1
	SPRITE_SCROLL        = 2
	SPRITE_IMAGE_TEMPO   = 4
	SPRITE_PALETTE_TEMPO = 5
)

type BlendMode int16

const (
	BLEND_NORMAL      BlendMode = 0
	BLEND_ADDITIVE    BlendMode = 1
	BLEND_SUBTRACTIVE BlendMode = 2
)

type TileMode int

const (
	TILE_NONE       TileMode = 0
	TILE_BOTH       TileMode = 1
	TILE_HORIZONTAL TileMode = 2
	TILE_VERTICAL   TileMode = 3
)

type Command struct {
	Offset     int64
	StartTick  int
	EndTick    int
	Major      uint16
	Unk        uint16
	EntryIndex uint16
	Minor      uint16
	Params     [COMMAND_PARAM_SIZE]byte `json:"-" yaml:"-"`
}

func (c *Command) U16At(off int) uint16 { return binary.LittleEndian.Uint16(c.Params[off : off+2]) }
func (c *Command) I16At(off int) int16  { return int16(c.U16At(off)) }
func (c *Command) U32At(off int) uint32 { return binary.LittleEndian.Uint32(c.Params[off : off+4]) }

func (c *Command) String() string {
	return fmt.Sprintf("cmd@0x%x [%d,%d] %d/%d slot %d", c.Offset, c.StartTick, c.EndTick, c.Major, c.Minor, c.EntryIndex)
}

type Entry struct {
	Index      int
	Offset     int64
	StartTick  int
	EndTick    int
	Id         uint16
	Type       EntryType
	AnimId     uint16
	X          int16
	Y          int16
	Width      uint16
	Height     uint16
	Alpha      uint8
	R, G, B    uint8
	BlendMode  BlendMode
	Rotation   int16
	ZoomX      int16
	ZoomY      int16
	AnimIn     uint16
	AnimOut    uint16
	CycleIndex uint8
	Clut       uint8
	Commands   []Command
	// Skipped entries keep their commands for inspection but are never rendered.
	Skipped bool
}

// Slot orders the entry in the resolved timeline.
// Commands carry it explicitly; an entry without commands uses its position in the file
// and never shares the scratch writes of another entry landing on the same slot.
func (e *Entry) Slot() int {
	if len(e.Commands) != 0 {
		return int(e.Commands[0].EntryIndex)
	}
	return e.Index
}

func (e *Entry) InitialOpacity() float64 { return float64(e.Alpha) / OPACITY_UNIT }

func (e *Entry) InitialRotation() float64 { return float64(e.Rotation) / ROTATION_INITIAL_DIV * 90 }

func (e *Entry) InitialZoom() (float64, float64) {
	return float64(e.ZoomX) / ZOOM_UNIT, float64(e.ZoomY) / ZOOM_UNIT
}

func (e *Entry) Renderable() bool {
	return !e.Skipped && (e.Type == ENTRY_STATIC_IMAGE || e.Type == ENTRY_SOLID_COLOR)
}

type Canvas struct {
	Width     int
	Height    int
	StartTick int
	EndTick   int
}

type File struct {
	Unk1      uint32
	Entries   []Entry
	Filenames []string
	Issues    []error `json:"-" yaml:"-"`
}

// Canvas returns the frame description of the last CanvasMeta entry.
func (f *File) Canvas() (Canvas, bool) {
	for i := len(f.Entries) - 1; i >= 0; i-- {
		e := &f.Entries[i]
		if e.Type == ENTRY_CANVAS_META {
			return Canvas{
				Width:     int(e.Width),
				Height:    int(e.Height),
				StartTick: e.StartTick,
				EndTick:   e.EndTick,
			}, true
		}
	}
	return Canvas{}, false
}

// Fill is a flat colored rectangle drawn by SolidColor entries.
type Fill struct {
	Width  int
	Height int
	Color  color.NRGBA
}

// RenderState is the fully resolved look of one slot at one tick.
type RenderState struct {
	EntryId    uint16
	Filename   string
	Fill       *Fill `yaml:",omitempty"`
	Clut       int
	X          float64
	Y          float64
	CenterX    int
	CenterY    int
	ZoomX      float64
	ZoomY      float64
	Rotation   float64
	Opacity    float64
	BlendMode  BlendMode
	OffsetX    int
	OffsetY    int
	Tile       TileMode
	CycleIndex int
}

func initialState(f *File, e *Entry) RenderState {
	s := RenderState{
		EntryId:    e.Id,
		Clut:       int(e.Clut),
		X:          float64(e.X),
		Y:          float64(e.Y),
		Rotation:   e.InitialRotation(),
		Opacity:    e.InitialOpacity(),
		BlendMode:  e.BlendMode,
		CycleIndex: int(e.CycleIndex),
	}
	s.ZoomX, s.ZoomY = e.InitialZoom()

	switch e.Type {
	case ENTRY_STATIC_IMAGE:
		if int(e.AnimId) < len(f.Filenames) {
			s.Filename = f.Filenames[e.AnimId]
		}
	case ENTRY_SOLID_COLOR:
		s.Fill = &Fill{
			Width:  int(e.Width),
			Height: int(e.Height),
			Color:  color.NRGBA{R: e.R, G: e.G, B: e.B, A: 0xff},
		}
	}
	return s
}

package aebg

import (
	"fmt"

	"github.com/pkg/errors"
)

// ResolverContext carries the state of one entry while its commands are interpreted.
type ResolverContext struct {
	File  *File
	Entry *Entry
	Names NameTable

	scratch scratch
	report  func(error)

	baseDone bool
	base     int
	baseErr  error

	// commands that already reported a problem, by file offset
	failed map[int64]bool
}

func newResolverContext(f *File, e *Entry, names NameTable, sc scratch, report func(error)) *ResolverContext {
	return &ResolverContext{
		File:    f,
		Entry:   e,
		Names:   names,
		scratch: sc,
		report:  report,
		failed:  make(map[int64]bool),
	}
}

// Interpolate runs the entry commands in file order and fills the scratch table.
// Unknown opcodes are reported and skipped when skipUnknown is set, otherwise returned.
func (ctx *ResolverContext) Interpolate(skipUnknown bool) error {
	for i := range ctx.Entry.Commands {
		cmd := &ctx.Entry.Commands[i]

		var err error
		switch cmd.Major {
		case MAJOR_EFFECT:
			err = ctx.effect(cmd)
		case MAJOR_SPRITE:
			err = ctx.sprite(cmd)
		case MAJOR_IGNORED:
			continue
		default:
			err = &UnknownOpcodeError{Offset: cmd.Offset, Major: cmd.Major, Minor: cmd.Minor}
		}

		if err != nil {
			if !skipUnknown {
				return err
			}
			ctx.report(err)
		}
	}
	return nil
}

// AnimBase is the position of the entry animation in the name table.
func (ctx *ResolverContext) AnimBase() (int, error) {
	if !ctx.baseDone {
		ctx.baseDone = true
		ctx.base, ctx.baseErr = ctx.findBase()
	}
	return ctx.base, ctx.baseErr
}

func (ctx *ResolverContext) findBase() (int, error) {
	e := ctx.Entry
	if int(e.AnimId) >= len(ctx.File.Filenames) {
		return -1, &IndexOutOfRangeError{What: "anim_id", Index: int(e.AnimId), Limit: len(ctx.File.Filenames), Offset: e.Offset}
	}
	name := ctx.File.Filenames[e.AnimId]
	idx, ok := ctx.Names.IndexOf(name)
	if !ok {
		return -1, &IndexOutOfRangeError{What: fmt.Sprintf("name table entry %q", name), Index: -1, Limit: ctx.Names.Len(), Offset: e.Offset}
	}
	return idx, nil
}

func (ctx *ResolverContext) fail(cmd *Command, err error) {
	if !ctx.failed[cmd.Offset] {
		ctx.failed[cmd.Offset] = true
		ctx.report(err)
	}
}

// name returns the animation frame i positions after the entry base.
func (ctx *ResolverContext) name(cmd *Command, i int) (string, bool) {
	base, err := ctx.AnimBase()
	if err != nil {
		ctx.fail(cmd, err)
		return "", false
	}
	name, ok := ctx.Names.Name(base + i)
	if !ok {
		ctx.fail(cmd, &IndexOutOfRangeError{What: "image", Index: base + i, Limit: ctx.Names.Len(), Offset: cmd.Offset})
	}
	return name, ok
}

// defaultSource gives image entries a source when no command wrote one at this tick.
func (ctx *ResolverContext) defaultSource(cmd *Command, p *partial, i int) {
	if p.has(attrSource) || ctx.Entry.Type != ENTRY_STATIC_IMAGE {
		return
	}
	if name, ok := ctx.name(cmd, i); ok {
		p.setFilename(name)
	}
}

// baseSource points image entries back at their base animation, whatever an earlier command wrote.
func (ctx *ResolverContext) baseSource(cmd *Command, p *partial) {
	if ctx.Entry.Type != ENTRY_STATIC_IMAGE {
		return
	}
	if name, ok := ctx.name(cmd, 0); ok {
		p.setFilename(name)
	}
}

// effectEnd clips a command to the end of its entry.
func (ctx *ResolverContext) effectEnd(cmd *Command) int {
	if ctx.Entry.EndTick < cmd.EndTick {
		return ctx.Entry.EndTick
	}
	return cmd.EndTick
}

func lerp(s, e float64, tick, start, end int) float64 {
	den := end - 1 - start
	if den <= 0 {
		return s
	}
	return s + float64(tick-start)*(e-s)/float64(den)
}

func (ctx *ResolverContext) effect(cmd *Command) error {
	start, end := cmd.StartTick, ctx.effectEnd(cmd)
	slot := int(cmd.EntryIndex)

	switch cmd.Minor {
	case EFFECT_POSITION, EFFECT_CENTER, EFFECT_ZOOM:
		sx, ex := float64(cmd.I16At(0)), float64(cmd.I16At(2))
		sy, ey := float64(cmd.I16At(4)), float64(cmd.I16At(6))
		for t := start; t < end; t++ {
			x, y := lerp(sx, ex, t, start, end), lerp(sy, ey, t, start, end)
			p := ctx.scratch.write(t, slot)
			switch cmd.Minor {
			case EFFECT_POSITION:
				// several moves at the same tick add up
				if p.has(attrPosition) {
					p.state.X += x
					p.state.Y += y
				} else {
					p.state.X, p.state.Y = x, y
				}
				p.set |= attrPosition
			case EFFECT_CENTER:
				p.state.CenterX, p.state.CenterY = int(x), int(y)
				p.set |= attrCenter
			case EFFECT_ZOOM:
				p.state.ZoomX, p.state.ZoomY = x/ZOOM_UNIT, y/ZOOM_UNIT
				p.set |= attrZoom
			}
		}
	case EFFECT_ROTATION:
		s, e := float64(cmd.I16At(0)), float64(cmd.I16At(2))
		for t := start; t < end; t++ {
			p := ctx.scratch.write(t, slot)
			p.state.Rotation = lerp(s, e, t, start, end) / ROTATION_DELTA_UNIT
			p.set |= attrRotation
		}
	case EFFECT_OPACITY:
		s, e := float64(cmd.U16At(0)), float64(cmd.U16At(2))
		for t := start; t < end; t++ {
			p := ctx.scratch.write(t, slot)
			p.state.Opacity = lerp(s, e, t, start, end) / OPACITY_UNIT
			p.set |= attrOpacity
		}
	case EFFECT_IMAGE, EFFECT_IMAGE_ALT:
		ctx.transition(cmd, start, end, true)
	case EFFECT_PALETTE, EFFECT_PALETTE_ALT:
		ctx.transition(cmd, start, end, false)
	default:
		return &UnknownOpcodeError{Offset: cmd.Offset, Major: cmd.Major, Minor: cmd.Minor}
	}
	return nil
}

// transition steps an index from s towards e evenly over [start, end).
func (ctx *ResolverContext) transition(cmd *Command, start, end int, image bool) {
	if end <= start {
		return
	}
	s, e := int(cmd.U16At(0)), int(cmd.U16At(2))
	steps, dir := e-s, 1
	if steps < 0 {
		steps, dir = -steps, -1
	}
	if steps == 0 {
		steps = 1
	}

	span := end - start
	slot := int(cmd.EntryIndex)
	idx := s
	for k := 0; k < steps; k++ {
		from, to := start+k*span/steps, start+(k+1)*span/steps
		for t := from; t < to; t++ {
			p := ctx.scratch.write(t, slot)
			if image {
				name, ok := ctx.name(cmd, idx)
				if !ok {
					continue
				}
				p.setFilename(name)
				p.transition = idx
				p.state.CycleIndex = idx
				p.set |= attrTransition | attrCycle
			} else {
				p.state.Clut = idx
				p.set |= attrClut
			}
		}
		idx += dir
	}
}

func (ctx *ResolverContext) sprite(cmd *Command) error {
	switch cmd.Minor {
	case SPRITE_SCROLL:
		ctx.scroll(cmd)
		return nil
	case SPRITE_IMAGE, SPRITE_PALETTE, SPRITE_IMAGE_TEMPO, SPRITE_PALETTE_TEMPO:
	default:
		return &UnknownOpcodeError{Offset: cmd.Offset, Major: cmd.Major, Minor: cmd.Minor}
	}

	length, ticks, flip := int(cmd.U16At(0)), int(cmd.U16At(2)), cmd.U32At(4)
	if ticks == 0 {
		return &UnknownOpcodeError{Offset: cmd.Offset, Major: cmd.Major, Minor: cmd.Minor, Reason: "zero ticks per step"}
	}

	var c *cycler
	step := ticks
	if cmd.Minor == SPRITE_IMAGE_TEMPO || cmd.Minor == SPRITE_PALETTE_TEMPO {
		c = newTempoCycler(length, flip)
		step = tempoStep(ticks)
	} else {
		c = newPlainCycler(length, flip)
	}
	if c.mode == flipHold {
		ctx.fail(cmd, errors.Errorf("aebg: %v: unknown flip mode %d, holding frame", cmd, flip))
	}

	hold := step == 0
	if hold {
		step = 1
	}

	idx := int(ctx.Entry.CycleIndex)
	for t0 := cmd.StartTick; t0 < cmd.EndTick; t0 += step {
		for t := t0; t < t0+step && t < cmd.EndTick; t++ {
			ctx.spriteWrite(cmd, c, idx, t)
		}
		if !hold {
			idx = c.next(idx)
		}
	}
	return nil
}

func (ctx *ResolverContext) spriteWrite(cmd *Command, c *cycler, idx, tick int) {
	if !c.inRange(idx) {
		ctx.fail(cmd, &IndexOutOfRangeError{What: "cycle", Index: idx, Limit: c.length, Offset: cmd.Offset})
		return
	}

	p := ctx.scratch.write(tick, int(cmd.EntryIndex))
	switch cmd.Minor {
	case SPRITE_IMAGE, SPRITE_IMAGE_TEMPO:
		i := idx
		if p.has(attrTransition) {
			i += p.transition
		}
		name, ok := ctx.name(cmd, c.resolve(i))
		if !ok {
			return
		}
		p.setFilename(name)
		p.state.Clut = int(ctx.Entry.Clut)
		p.set |= attrClut
	case SPRITE_PALETTE, SPRITE_PALETTE_TEMPO:
		i := idx
		if cmd.Minor == SPRITE_PALETTE_TEMPO {
			if p.has(attrClut) {
				i += p.state.Clut
			}
			i = c.resolve(i)
		}
		if i < 0 {
			ctx.fail(cmd, &IndexOutOfRangeError{What: "palette", Index: i, Limit: c.length, Offset: cmd.Offset})
			return
		}
		if cmd.Minor == SPRITE_PALETTE_TEMPO {
			ctx.baseSource(cmd, p)
		} else {
			ctx.defaultSource(cmd, p, 0)
		}
		p.state.Clut = i
		p.set |= attrClut
	}
	p.state.CycleIndex = idx
	p.set |= attrCycle
}

func (ctx *ResolverContext) scroll(cmd *Command) {
	tile := TileMode(cmd.U16At(0))
	dx := float64(cmd.I16At(2)) / SCROLL_UNIT
	dy := float64(cmd.I16At(4)) / SCROLL_UNIT
	slot := int(cmd.EntryIndex)

	var ox, oy float64
	for t := cmd.StartTick; t < cmd.EndTick; t++ {
		p := ctx.scratch.write(t, slot)
		ctx.defaultSource(cmd, p, int(ctx.Entry.CycleIndex))
		if p.has(attrOffset) {
			p.state.OffsetX += int(ox)
			p.state.OffsetY += int(oy)
		} else {
			p.state.OffsetX, p.state.OffsetY = int(ox), int(oy)
		}
		p.state.Tile = tile
		p.set |= attrOffset | attrTile
		ox += dx
		oy += dy
	}
}

package aebg

import "sort"

type attr uint16

const (
	attrSource attr = 1 << iota
	attrClut
	attrPosition
	attrCenter
	attrZoom
	attrRotation
	attrOpacity
	attrOffset
	attrTile
	attrCycle
	// base index left by image transitions for later sprite commands at the same tick
	attrTransition
)

// partial holds the attributes written by commands for one slot at one tick.
type partial struct {
	set        attr
	transition int
	state      RenderState
}

func (p *partial) has(a attr) bool {
	return p.set&a != 0
}

func (p *partial) setFilename(name string) {
	p.state.Filename = name
	p.state.Fill = nil
	p.set |= attrSource
}

func (p *partial) applyTo(s *RenderState) {
	if p.has(attrSource) {
		s.Filename = p.state.Filename
		s.Fill = p.state.Fill
	}
	if p.has(attrClut) {
		s.Clut = p.state.Clut
	}
	if p.has(attrPosition) {
		s.X, s.Y = p.state.X, p.state.Y
	}
	if p.has(attrCenter) {
		s.CenterX, s.CenterY = p.state.CenterX, p.state.CenterY
	}
	if p.has(attrZoom) {
		s.ZoomX, s.ZoomY = p.state.ZoomX, p.state.ZoomY
	}
	if p.has(attrRotation) {
		s.Rotation = p.state.Rotation
	}
	if p.has(attrOpacity) {
		s.Opacity = p.state.Opacity
	}
	if p.has(attrOffset) {
		s.OffsetX, s.OffsetY = p.state.OffsetX, p.state.OffsetY
	}
	if p.has(attrTile) {
		s.Tile = p.state.Tile
	}
	if p.has(attrCycle) {
		s.CycleIndex = p.state.CycleIndex
	}
}

// scratch is the interpolation output: slot -> tick -> written attributes.
type scratch map[int]map[int]*partial

func (s scratch) write(tick, slot int) *partial {
	ticks, ok := s[slot]
	if !ok {
		ticks = make(map[int]*partial)
		s[slot] = ticks
	}
	p, ok := ticks[tick]
	if !ok {
		p = &partial{}
		ticks[tick] = p
	}
	return p
}

func (s scratch) peek(tick, slot int) *partial {
	return s[slot][tick]
}

// ticksBefore lists the written ticks of slot lower than limit, ascending.
func (s scratch) ticksBefore(slot, limit int) []int {
	var ticks []int
	for tick := range s[slot] {
		if tick < limit {
			ticks = append(ticks, tick)
		}
	}
	sort.Ints(ticks)
	return ticks
}

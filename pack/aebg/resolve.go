package aebg

import (
	"log"
	"sort"
)

type Options struct {
	// Names is the animation name table, the file filename table when nil.
	Names       NameTable
	SkipUnknown bool
}

func DefaultOptions() Options {
	return Options{SkipUnknown: true}
}

type SlotState struct {
	Slot        int `yaml:"slot"`
	RenderState `yaml:",inline"`

	// position of the entry in the file, orders entries sharing a slot
	entry int
}

type TickStates struct {
	Tick  int         `yaml:"tick"`
	Slots []SlotState `yaml:"slots"`
}

// Timeline is the fully resolved animation: every active slot has a complete state at every tick.
type Timeline struct {
	Canvas    Canvas
	HasCanvas bool
	Issues    []error `json:"-" yaml:"-"`

	frames map[int][]SlotState
	ticks  []int
}

// Resolve interprets every entry into the scratch table, then resolves the states of all entries.
func Resolve(f *File, opts Options) (*Timeline, error) {
	tl := &Timeline{frames: make(map[int][]SlotState)}
	tl.Canvas, tl.HasCanvas = f.Canvas()

	names := opts.Names
	if names == nil {
		names = Names(f.Filenames)
	}

	sc := make(scratch)
	for i := range f.Entries {
		e := &f.Entries[i]
		if !e.Renderable() {
			continue
		}
		ctx := newResolverContext(f, e, names, sc, tl.issue)
		if err := ctx.Interpolate(opts.SkipUnknown); err != nil {
			return nil, err
		}
	}

	for i := range f.Entries {
		if e := &f.Entries[i]; e.Renderable() {
			tl.resolveEntry(f, e, sc)
		}
	}

	tl.ticks = make([]int, 0, len(tl.frames))
	for tick := range tl.frames {
		tl.ticks = append(tl.ticks, tick)
	}
	sort.Ints(tl.ticks)
	return tl, nil
}

func (tl *Timeline) issue(err error) {
	log.Printf("[aebg] %v", err)
	tl.Issues = append(tl.Issues, err)
}

// resolveEntry fills the entry states over its tick range. Only entries carrying
// commands read the scratch table, the others keep their initial values.
func (tl *Timeline) resolveEntry(f *File, e *Entry, sc scratch) {
	slot := e.Slot()
	last := initialState(f, e)
	writes := len(e.Commands) != 0

	// writes before the entry starts still shape its first frame
	if writes {
		for _, tick := range sc.ticksBefore(slot, e.StartTick) {
			sc.peek(tick, slot).applyTo(&last)
		}
	}

	for tick := e.StartTick; tick < e.EndTick; tick++ {
		if writes {
			if p := sc.peek(tick, slot); p != nil {
				p.applyTo(&last)
			}
		}
		tl.frames[tick] = append(tl.frames[tick], SlotState{Slot: slot, RenderState: last, entry: e.Index})
	}
}

// Ticks lists the ticks with at least one active slot, ascending.
func (tl *Timeline) Ticks() []int {
	return tl.ticks
}

func (tl *Timeline) Len() int {
	return len(tl.ticks)
}

// At returns the states active at tick in ascending slot order.
// Entries sharing a slot follow their file order.
func (tl *Timeline) At(tick int) []SlotState {
	result := append([]SlotState(nil), tl.frames[tick]...)
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Slot != result[j].Slot {
			return result[i].Slot < result[j].Slot
		}
		return result[i].entry < result[j].entry
	})
	return result
}

// State returns the state of the first entry occupying slot at tick.
func (tl *Timeline) State(tick, slot int) (RenderState, bool) {
	for _, s := range tl.At(tick) {
		if s.Slot == slot {
			return s.RenderState, true
		}
	}
	return RenderState{}, false
}

// EntryState returns the state of the entry at position index in the file.
func (tl *Timeline) EntryState(tick, index int) (RenderState, bool) {
	for _, s := range tl.frames[tick] {
		if s.entry == index {
			return s.RenderState, true
		}
	}
	return RenderState{}, false
}

// OutputTicks selects the ticks to emit frames for.
// clip keeps the canvas tick range only, fillGaps emits every tick between the first and the last one.
func (tl *Timeline) OutputTicks(clip, fillGaps bool) []int {
	ticks := tl.ticks
	if clip && tl.HasCanvas {
		clipped := make([]int, 0, len(ticks))
		for _, tick := range ticks {
			if tick >= tl.Canvas.StartTick && tick < tl.Canvas.EndTick {
				clipped = append(clipped, tick)
			}
		}
		ticks = clipped
	}
	if !fillGaps || len(ticks) == 0 {
		return ticks
	}

	first, last := ticks[0], ticks[len(ticks)-1]
	filled := make([]int, 0, last-first+1)
	for tick := first; tick <= last; tick++ {
		filled = append(filled, tick)
	}
	return filled
}

// Export lists the resolved states tick by tick.
func (tl *Timeline) Export() []TickStates {
	result := make([]TickStates, 0, len(tl.ticks))
	for _, tick := range tl.ticks {
		result = append(result, TickStates{Tick: tick, Slots: tl.At(tick)})
	}
	return result
}

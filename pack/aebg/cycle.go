package aebg

import "math"

type flipMode int

const (
	flipClamp flipMode = iota
	flipWrap
	flipPingPong
	flipHold
)

// cycler advances the frame index of a sprite command every step.
type cycler struct {
	length   int
	mode     flipMode
	mirrored bool
	dir      int
}

func newPlainCycler(length int, flip uint32) *cycler {
	c := &cycler{length: length, dir: 1}
	switch flip {
	case 0:
		c.mode = flipClamp
	case 1:
		c.mode = flipWrap
	case 2:
		c.mode = flipPingPong
	default:
		c.mode = flipHold
	}
	return c
}

func newTempoCycler(length int, flip uint32) *cycler {
	c := &cycler{length: length, dir: 1}
	switch flip {
	case 0, 1, 4:
		c.mode = flipClamp
	case 2, 5:
		c.mode = flipWrap
	case 3, 6:
		c.mode = flipPingPong
	default:
		c.mode = flipHold
	}
	c.mirrored = flip >= 4 && flip <= 6
	return c
}

func (c *cycler) next(idx int) int {
	if c.length <= 1 {
		return 0
	}
	switch c.mode {
	case flipClamp:
		if idx+1 < c.length {
			return idx + 1
		}
		return c.length - 1
	case flipWrap:
		return (idx + 1) % c.length
	case flipPingPong:
		if idx-1 < 0 {
			c.dir = 1
		} else if idx+1 >= c.length {
			c.dir = -1
		}
		return idx + c.dir
	}
	return idx
}

func (c *cycler) resolve(idx int) int {
	if c.mirrored {
		return c.length - idx - 1
	}
	return idx
}

func (c *cycler) inRange(idx int) bool {
	return idx >= 0 && idx < c.length
}

// tempoStep converts a tempo value into ticks per frame at 60 ticks per second.
func tempoStep(tempo int) int {
	if tempo == 1 {
		return 45
	}
	return int(math.Round(60 / float64(tempo)))
}

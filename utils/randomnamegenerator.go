package utils

import (
	"fmt"
	"math/rand"

	"github.com/Pallinder/go-randomdata"
)

// RandomNameGenerator hands out unique, reproducible asset names.
// Tests use it to build synthetic name tables.
type RandomNameGenerator struct {
	used map[string]struct{}
	Seed int64
}

func (rng *RandomNameGenerator) init() {
	if rng.used == nil {
		rng.used = make(map[string]struct{})
		randomdata.CustomRand(rand.New(rand.NewSource(rng.Seed)))
	}
}

func (rng *RandomNameGenerator) RandomName() string {
	rng.init()
	for {
		name := fmt.Sprintf("%s_%03d", randomdata.SillyName(), randomdata.Number(0, 1000))
		// avoid duplicate names
		if _, exists := rng.used[name]; !exists {
			rng.used[name] = struct{}{}
			return name
		}
	}
}

// RandomInt returns a value in [min, max) from the same seeded source.
func (rng *RandomNameGenerator) RandomInt(min, max int) int {
	rng.init()
	return randomdata.Number(min, max)
}

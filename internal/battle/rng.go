package battle

import "math/rand"

// newRNG builds the single random source a simulation owns. Seed 0 is mapped
// to 1 so an unset seed still yields a usable, reproducible stream.
func newRNG(seed int64) *rand.Rand {
	if seed == 0 {
		seed = 1
	}
	return rand.New(rand.NewSource(seed))
}

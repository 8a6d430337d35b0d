package smelt

import "math/rand"

var neighbors8 = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

var neighbors4 = [4][2]int{
	{0, -1},
	{-1, 0}, {1, 0},
	{0, 1},
}

// tryRandomDirs feeds the 4 or 8 neighbor offsets to tryDir in a uniformly
// random permutation, stopping as soon as tryDir returns true.
func tryRandomDirs(rng *rand.Rand, use4 bool, tryDir func(dx, dy int) bool) bool {
	rem := [8]int{0, 1, 2, 3, 4, 5, 6, 7}
	n := 8
	if use4 {
		n = 4
	}

	for n > 0 {
		r := rng.Intn(n)
		i := rem[r]

		n--
		rem[r], rem[n] = rem[n], rem[r]

		var d [2]int
		if use4 {
			d = neighbors4[i]
		} else {
			d = neighbors8[i]
		}
		if tryDir(d[0], d[1]) {
			return true
		}
	}

	return false
}

// randIterDir fires iterFn for every cell, scanning in one of four corner
// orders picked uniformly per call. Rotating the scan direction cancels the
// directional bias a fixed traversal imprints on cellular updates.
func randIterDir(rng *rand.Rand, w, h int, iterFn func(x, y int)) {
	switch rng.Intn(4) {
	case 0:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				iterFn(x, y)
			}
		}
	case 1:
		for y := h - 1; y >= 0; y-- {
			for x := 0; x < w; x++ {
				iterFn(x, y)
			}
		}
	case 2:
		for y := h - 1; y >= 0; y-- {
			for x := w - 1; x >= 0; x-- {
				iterFn(x, y)
			}
		}
	case 3:
		for y := 0; y < h; y++ {
			for x := w - 1; x >= 0; x-- {
				iterFn(x, y)
			}
		}
	}
}

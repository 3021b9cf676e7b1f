// resolve/search.go
// Copyright(c) 2022-2025 airsep contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package resolve

const (
	bisectIterations = 40
	trackSteps       = 180 // 1 degree per step over a half turn
	speedSteps       = 100
	radialSteps      = 64
	directions       = 360
	refineSteps      = 20
	snapAttempts     = 4
)

// search1D returns the value nearest start, going toward end, for which
// ok holds. It samples steps evenly spaced points and then bisects the
// first bracket where ok changes from false to true, always returning a
// value for which ok was observed to hold.
func search1D(start, end float64, steps int, ok func(float64) bool) (float64, bool) {
	if ok(start) {
		return start, true
	}
	if steps <= 0 || start == end {
		return 0, false
	}

	prev := start
	for i := 1; i <= steps; i++ {
		x := start + (end-start)*float64(i)/float64(steps)
		if ok(x) {
			return bisect(prev, x, ok), true
		}
		prev = x
	}
	return 0, false
}

func bisect(bad, good float64, ok func(float64) bool) float64 {
	for i := 0; i < bisectIterations; i++ {
		mid := (bad + good) / 2
		if ok(mid) {
			good = mid
		} else {
			bad = mid
		}
	}
	return good
}

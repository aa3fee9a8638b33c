package main

// decide picks the winning category index from a probability vector and
// returns it with the probability assigned to it. Ties on the maximum
// resolve to the lowest index: the scan only replaces the current best on a
// strictly greater value. The vector is assumed non-empty; upstream always
// supplies one entry per category.
func decide(probs []float32) (int, float64) {
	best := 0
	for i, p := range probs {
		if p > probs[best] {
			best = i
		}
	}
	return best, float64(probs[best])
}

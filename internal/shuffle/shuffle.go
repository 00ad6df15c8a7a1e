// Package shuffle provides uniform random permutations of option sets.
package shuffle

import "math/rand"

// Strings returns a new slice holding items in uniformly random order. The
// input is never mutated. Length 0 and 1 inputs come back as-is (copied).
func Strings(r *rand.Rand, items []string) []string {
	shuffled := make([]string, len(items))
	copy(shuffled, items)

	// Fisher-Yates, last index down to 1.
	for i := len(shuffled) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled
}

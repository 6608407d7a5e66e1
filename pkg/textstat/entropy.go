// Package textstat provides the stateless statistical primitives used
// by the realism scorer and the honeytoken generators.
package textstat

import "math"

// ShannonEntropy computes the Shannon entropy of the character
// distribution of text, in bits per character. Empty input is 0.
// Realistic text and code typically sit in the 3-6 bits/char range.
func ShannonEntropy(text string) float64 {
	if len(text) == 0 {
		return 0.0
	}

	freq := make(map[rune]int)
	total := 0
	for _, r := range text {
		freq[r]++
		total++
	}

	entropy := 0.0
	n := float64(total)
	for _, count := range freq {
		p := float64(count) / n
		entropy -= p * math.Log2(p)
	}
	return entropy
}

// Package errorinjection measures how well the check digit catches
// transcription errors by validating randomly mutated identifiers.
package errorinjection

import (
	"github.com/alem-hub/student-id-registry/internal/domain/identifier"
)

// Kind names a class of transcription error.
type Kind string

const (
	KindOriginal             Kind = "original"
	KindDigitTypo            Kind = "1-digit-typo"
	KindAlphabetSubstitution Kind = "alphabet-substitution"
	KindAdjacentSwap         Kind = "adjacent-swap"
	KindRepeatedDigit        Kind = "repeated-digit"
)

// MutationKinds lists the error classes in the order they are drawn from.
var MutationKinds = []Kind{
	KindDigitTypo,
	KindAlphabetSubstitution,
	KindAdjacentSwap,
	KindRepeatedDigit,
}

// Mutator derives a corrupted identifier. The last character (check digit)
// is never modified. Inputs too short to mutate are returned unchanged.
type Mutator func(id string, rnd identifier.RandSource) string

var mutators = map[Kind]Mutator{
	KindDigitTypo:            DigitTypo,
	KindAlphabetSubstitution: AlphabetSubstitution,
	KindAdjacentSwap:         AdjacentSwap,
	KindRepeatedDigit:        RepeatedDigit,
}

// MutatorFor returns the mutator for kind, or nil for KindOriginal and unknown kinds.
func MutatorFor(kind Kind) Mutator {
	return mutators[kind]
}

// DigitTypo replaces one base character with a different digit.
func DigitTypo(id string, rnd identifier.RandSource) string {
	if len(id) < 2 {
		return id
	}
	idx := rnd.IntN(len(id) - 1)
	orig := id[idx]

	choices := make([]byte, 0, 10)
	for d := byte('0'); d <= '9'; d++ {
		if d != orig {
			choices = append(choices, d)
		}
	}
	return replaceAt(id, idx, choices[rnd.IntN(len(choices))])
}

// AlphabetSubstitution replaces one base character with a lowercase letter.
func AlphabetSubstitution(id string, rnd identifier.RandSource) string {
	if len(id) < 2 {
		return id
	}
	idx := rnd.IntN(len(id) - 1)
	return replaceAt(id, idx, byte('a'+rnd.IntN(26)))
}

// AdjacentSwap swaps two neighbouring base characters.
func AdjacentSwap(id string, rnd identifier.RandSource) string {
	if len(id) < 3 {
		return id
	}
	idx := rnd.IntN(len(id) - 2)
	b := []byte(id)
	b[idx], b[idx+1] = b[idx+1], b[idx]
	return string(b)
}

// RepeatedDigit overwrites one base character with its left or right
// neighbour, never reading from the check digit.
func RepeatedDigit(id string, rnd identifier.RandSource) string {
	if len(id) < 3 {
		return id
	}
	last := len(id) - 2
	idx := rnd.IntN(last + 1)

	neighbors := make([]int, 0, 2)
	if idx-1 >= 0 {
		neighbors = append(neighbors, idx-1)
	}
	if idx+1 <= last {
		neighbors = append(neighbors, idx+1)
	}
	if len(neighbors) == 0 {
		return id
	}
	n := neighbors[rnd.IntN(len(neighbors))]
	return replaceAt(id, idx, id[n])
}

func replaceAt(s string, idx int, c byte) string {
	b := []byte(s)
	b[idx] = c
	return string(b)
}

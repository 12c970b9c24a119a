package errorinjection

import "math/rand/v2"

type defaultRand struct{}

func (defaultRand) IntN(n int) int { return rand.IntN(n) }

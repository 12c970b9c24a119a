package identifier

import (
	"fmt"
	"math/rand/v2"

	"github.com/alem-hub/student-id-registry/internal/domain/shared"
	"github.com/alem-hub/student-id-registry/pkg/timeutil"
)

// serialSpace is the number of distinct random parts per day code.
const serialSpace = 1000

// RandSource draws uniform integers in [0, n). *rand.Rand satisfies it.
type RandSource interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Generator issues serials that are unique for the lifetime of the instance.
// The used set is owned by the instance; tests construct a fresh one.
type Generator struct {
	clock timeutil.Clock
	rnd   RandSource
	used  map[string]struct{}
	// perDay counts used serials per day code so exhaustion is detected
	// without scanning the set.
	perDay map[int]int
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithClock sets the clock the day code is read from.
func WithClock(c timeutil.Clock) GeneratorOption {
	return func(g *Generator) {
		if c != nil {
			g.clock = c
		}
	}
}

// WithRand sets the random source for the numeric part.
func WithRand(r RandSource) GeneratorOption {
	return func(g *Generator) {
		if r != nil {
			g.rnd = r
		}
	}
}

// NewGenerator creates a Generator with an empty used set.
func NewGenerator(opts ...GeneratorOption) *Generator {
	g := &Generator{
		clock:  timeutil.SystemClock{},
		rnd:    globalRand{},
		used:   make(map[string]struct{}),
		perDay: make(map[int]int),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns a fresh serial: the ISO weekday code (1-7) followed by a
// zero-padded 3 digit random number. Candidates already issued are redrawn.
func (g *Generator) Generate() (string, error) {
	day := timeutil.ISOWeekday(g.clock.Now())
	if g.perDay[day] >= serialSpace {
		return "", shared.ErrSerialSpaceExhausted
	}

	for {
		candidate := fmt.Sprintf("%d%03d", day, g.rnd.IntN(serialSpace))
		if g.Reserve(candidate) {
			return candidate, nil
		}
	}
}

// Reserve marks serial as used. It returns false when it was already used.
// Serials read back from storage are reserved so they are never reissued.
func (g *Generator) Reserve(serial string) bool {
	if _, ok := g.used[serial]; ok {
		return false
	}
	g.used[serial] = struct{}{}
	if len(serial) == 4 && serial[0] >= '1' && serial[0] <= '7' && IsDigits(serial) {
		g.perDay[int(serial[0]-'0')]++
	}
	return true
}

// Used returns the number of serials issued or reserved.
func (g *Generator) Used() int {
	return len(g.used)
}

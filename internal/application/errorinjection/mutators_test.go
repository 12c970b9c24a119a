package errorinjection

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/student-id-registry/internal/domain/identifier"
)

// seqRand replays vals, reducing each modulo n.
type seqRand struct {
	vals []int
	i    int
}

func (s *seqRand) IntN(n int) int {
	v := s.vals[s.i%len(s.vals)] % n
	s.i++
	return v
}

const sampleID = "2202531231"

func TestMutators_Deterministic(t *testing.T) {
	tests := []struct {
		name string
		fn   Mutator
		vals []int
		want string
	}{
		{"typo first digit", DigitTypo, []int{0, 0}, "0202531231"},
		{"letter at 3", AlphabetSubstitution, []int{3, 1}, "220b531231"},
		{"swap 4 and 5", AdjacentSwap, []int{4}, "2202351231"},
		{"repeat right neighbour", RepeatedDigit, []int{4, 1}, "2202331231"},
		{"repeat last base digit", RepeatedDigit, []int{8, 0}, "2202531221"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.fn(sampleID, &seqRand{vals: tt.vals})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMutators_ShortInput(t *testing.T) {
	rnd := &seqRand{vals: []int{0}}
	for _, kind := range MutationKinds {
		fn := MutatorFor(kind)
		assert.Equal(t, "", fn("", rnd), kind)
		assert.Equal(t, "7", fn("7", rnd), kind)
	}
	assert.Equal(t, "12", AdjacentSwap("12", rnd))
	assert.Equal(t, "12", RepeatedDigit("12", rnd))
	assert.NotEqual(t, "12", DigitTypo("12", rnd))
}

func TestMutators_NeverTouchCheckDigit(t *testing.T) {
	rnd := rand.New(rand.NewPCG(7, 11))

	for i := 0; i < 200; i++ {
		base := fmt.Sprintf("%d2025%d%03d", 1+rnd.IntN(4), 1+rnd.IntN(7), rnd.IntN(1000))
		id := identifier.Append(base)

		for _, kind := range MutationKinds {
			got := MutatorFor(kind)(id, rnd)
			require.Len(t, got, len(id), kind)
			assert.Equal(t, id[len(id)-1], got[len(got)-1], kind)
		}
	}
}

func TestMutators_SingleCharacterErrorsAreCaught(t *testing.T) {
	rnd := rand.New(rand.NewPCG(3, 5))

	for i := 0; i < 200; i++ {
		id := identifier.Append(fmt.Sprintf("3%04d%04d", 2000+rnd.IntN(30), rnd.IntN(10000)))

		typo := DigitTypo(id, rnd)
		assert.NotEqual(t, id, typo)
		assert.False(t, identifier.Validate(typo), typo)

		sub := AlphabetSubstitution(id, rnd)
		assert.False(t, identifier.IsDigits(sub))
		assert.False(t, identifier.Validate(sub), sub)
	}
}

func TestMutatorFor_Original(t *testing.T) {
	assert.Nil(t, MutatorFor(KindOriginal))
	assert.Nil(t, MutatorFor("unknown"))
}

package identifier

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChecksum_KnownValues(t *testing.T) {
	tests := []struct {
		base string
		want int
	}{
		{"", 0},
		{"0", 0},
		{"7992739871", 4},
		{"214202510123", 3},
		{"9", 1},
		{"18", 0},
	}

	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			assert.Equal(t, tt.want, Checksum(tt.base))
		})
	}
}

func TestChecksum_RangeAndRoundTrip(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))

	for i := 0; i < 500; i++ {
		n := 1 + r.IntN(15)
		var b strings.Builder
		for j := 0; j < n; j++ {
			b.WriteByte(byte('0' + r.IntN(10)))
		}
		base := b.String()

		c := Checksum(base)
		assert.GreaterOrEqual(t, c, 0, base)
		assert.LessOrEqual(t, c, 9, base)
		assert.True(t, Validate(Append(base)), base)
	}
}

func TestValidate_ConcreteScenario(t *testing.T) {
	base := "214202510123"
	d := Checksum(base)

	assert.True(t, Validate(base+string(rune('0'+d))))
	assert.False(t, Validate(base+string(rune('0'+(d+1)%10))))
}

func TestValidate_MalformedInput(t *testing.T) {
	for _, in := range []string{"", "7", "abc", "12a45", "2142025101 3", "-12", "２１"} {
		t.Run(in, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.False(t, Validate(in))
			})
		})
	}
}

func TestValidate_SingleDigitChangeIsCaught(t *testing.T) {
	id := Append("220253123")
	for pos := 0; pos < len(id)-1; pos++ {
		for d := byte('0'); d <= '9'; d++ {
			if id[pos] == d {
				continue
			}
			mutated := id[:pos] + string(d) + id[pos+1:]
			assert.False(t, Validate(mutated), mutated)
		}
	}
}

func TestIsDigits(t *testing.T) {
	assert.True(t, IsDigits("0123456789"))
	assert.False(t, IsDigits(""))
	assert.False(t, IsDigits("12x"))
}

package rand

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUniformRange(t *testing.T) {
	for _, gt := range []GeneratorType{Xorshift, Golang} {
		gen := New(gt, 42)
		for i := 0; i < 1000; i++ {
			x := gen.Uniform(0, 1)
			assert.GreaterOrEqual(t, x, 0.0)
			assert.Less(t, x, 1.0)
		}

		x := gen.Uniform(3, 7)
		assert.GreaterOrEqual(t, x, 3.0)
		assert.Less(t, x, 7.0)
	}
}

func TestSameSeedSameStream(t *testing.T) {
	gen1, gen2 := New(Xorshift, 1337), New(Xorshift, 1337)
	for i := 0; i < 100; i++ {
		assert.Equal(t, gen1.Uniform(0, 1), gen2.Uniform(0, 1))
	}
}

func TestUniformAtMatchesUniform(t *testing.T) {
	gen1, gen2 := New(Xorshift, 7), New(Xorshift, 7)
	xs := make([]float64, 50)
	gen1.UniformAt(2, 5, xs)
	for i := range xs {
		assert.InDelta(t, gen2.Uniform(2, 5), xs[i], 1e-14)
	}
}

func TestUniformInt(t *testing.T) {
	gen := New(Xorshift, 9)
	seen := map[int]bool{}
	for i := 0; i < 1000; i++ {
		n := gen.UniformInt(3, 7)
		assert.GreaterOrEqual(t, n, 3)
		assert.Less(t, n, 7)
		seen[n] = true
	}
	assert.Equal(t, 4, len(seen), "all values hit")
}

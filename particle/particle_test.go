package particle

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tajjankovic/phantom/geom"
)

func TestAppendAndCounts(t *testing.T) {
	s := New(0.5)
	s.Append(Gas, geom.Vec{1, 0, 0}, geom.Vec{}, 0.1, 1)
	s.Append(Gas, geom.Vec{2, 0, 0}, geom.Vec{}, 0.1, 1)
	s.Append(Shell, geom.Vec{3, 0, 0}, geom.Vec{}, 0.1, 1)

	assert.Equal(t, 3, s.N())
	assert.Equal(t, 3, s.Live())
	assert.Equal(t, 2, s.Count(Gas))
	assert.Equal(t, 1, s.Count(Shell))
	assert.Equal(t, 0.5, s.Mass)

	assert.Panics(t, func() {
		s.Append(Gas, geom.Vec{}, geom.Vec{}, 0, 1)
	}, "non-positive h")
}

func TestKillSwapsLast(t *testing.T) {
	s := New(1)
	for i := 0; i < 4; i++ {
		s.Append(Gas, geom.Vec{float64(i), 0, 0}, geom.Vec{}, 0.1, 1)
	}
	s.Kill(1)

	assert.Equal(t, 3, s.N())
	assert.Equal(t, 3, s.Count(Gas))
	// The last particle moved into the freed slot.
	assert.Equal(t, geom.Vec{3, 0, 0}, s.Xs[1])
}

func TestFreeAndReuse(t *testing.T) {
	s := New(1)
	for i := 0; i < 3; i++ {
		s.Append(Gas, geom.Vec{float64(i), 0, 0}, geom.Vec{}, 0.1, 1)
	}
	s.Free(1)
	assert.Equal(t, 3, s.N(), "slot count unchanged")
	assert.Equal(t, 2, s.Live())
	assert.False(t, s.Alive(1))

	// AddOrUpdate reuses the freed slot instead of appending.
	count := s.AddOrUpdate(Gas, geom.Vec{9, 0, 0}, geom.Vec{}, 0.2, 1, -1)
	assert.Equal(t, 3, count)
	assert.Equal(t, 3, s.N())
	assert.True(t, s.Alive(1))
	assert.Equal(t, geom.Vec{9, 0, 0}, s.Xs[1])

	// With no freed slots left, AddOrUpdate appends.
	count = s.AddOrUpdate(Gas, geom.Vec{8, 0, 0}, geom.Vec{}, 0.2, 1, -1)
	assert.Equal(t, 4, count)
	assert.Equal(t, 4, s.N())
}

func TestAddOrUpdateSlotHint(t *testing.T) {
	s := New(1)
	for i := 0; i < 4; i++ {
		s.Append(Gas, geom.Vec{float64(i), 0, 0}, geom.Vec{}, 0.1, 1)
	}
	s.Free(0)
	s.Free(2)

	// The hinted dead slot wins over the free list.
	s.AddOrUpdate(Gas, geom.Vec{7, 0, 0}, geom.Vec{}, 0.2, 1, 0)
	assert.True(t, s.Alive(0))
	assert.Equal(t, geom.Vec{7, 0, 0}, s.Xs[0])
	assert.False(t, s.Alive(2), "other freed slot untouched")

	// A live slot hint falls back to the free list.
	s.AddOrUpdate(Gas, geom.Vec{6, 0, 0}, geom.Vec{}, 0.2, 1, 1)
	assert.True(t, s.Alive(2))
	assert.Equal(t, geom.Vec{6, 0, 0}, s.Xs[2])
	assert.Equal(t, 4, s.N(), "no append happened")
}

func TestKillRefusesTombstones(t *testing.T) {
	s := New(1)
	s.Append(Gas, geom.Vec{}, geom.Vec{}, 0.1, 1)
	s.Append(Gas, geom.Vec{}, geom.Vec{}, 0.1, 1)
	s.Free(0)
	assert.Panics(t, func() { s.Kill(1) })
}

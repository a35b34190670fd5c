package reservoir

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tajjankovic/phantom/geom"
	"github.com/tajjankovic/phantom/particle"
)

// Two header lines, three records, no trailing newline.
const testRecords = `# test reservoir
# x y z m h rho vx vy vz u
1.0 0.5 -0.25 0.002 0.1 0.3 0 -1 0 0.01
-1.0 0.5 0.25 0.002 0.1 0.3 0 -1 0 0.01
0.5 -0.5 0.0 0.002 0.12 0.31 0 -1 0 0.02`

func writeTestFile(t *testing.T, body string) string {
	path := filepath.Join(t.TempDir(), "res.dat")
	assert.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad(t *testing.T) {
	res, err := Load(writeTestFile(t, testRecords), 2)
	assert.NoError(t, err)

	assert.Equal(t, 3, res.N())
	// Mass comes from the first record only.
	assert.Equal(t, 0.002, res.Mass)
	assert.Equal(t, []float64{1, -1, 0.5}, res.Xs)
	assert.Equal(t, []float64{0.5, 0.5, -0.5}, res.Ys)
	assert.Equal(t, []float64{-0.25, 0.25, 0}, res.Zs)
	assert.Equal(t, []float64{0.1, 0.1, 0.12}, res.Hs)
	assert.Equal(t, []float64{0.01, 0.01, 0.02}, res.Us)
	assert.Equal(t, []float64{-1, -1, -1}, res.VYs)
}

func TestLoadErrors(t *testing.T) {
	// Missing file errors mention the path.
	missing := filepath.Join(t.TempDir(), "nope.dat")
	_, err := Load(missing, 2)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), missing)

	// Shorter than the header skip count.
	_, err = Load(writeTestFile(t, "# only one line"), 2)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "header")

	// Record with too few fields.
	short := "# h1\n# h2\n1 2 3 4 5\n"
	_, err = Load(writeTestFile(t, short), 2)
	assert.Error(t, err)

	// Non-numeric field.
	bad := "# h1\n# h2\n1 2 3 4 5 6 7 8 9 ten\n"
	_, err = Load(writeTestFile(t, bad), 2)
	assert.Error(t, err)

	// Header-only file holds no particles.
	_, err = Load(writeTestFile(t, "# h1\n# h2\n"), 2)
	assert.Error(t, err)
}

func TestRoundTrip(t *testing.T) {
	mass := 2.0
	n := 100
	set := particle.New(mass / float64(n))
	for i := 0; i < n; i++ {
		x := geom.Vec{
			0.01 * float64(i), 0.02 * float64(i%7), -1 + 0.02*float64(i),
		}
		set.Append(particle.Gas, x, geom.Vec{0, 0, 0}, 0.1, 0.01)
	}

	res := FromSet(set, nil)
	assert.Equal(t, n, res.N())

	path := filepath.Join(t.TempDir(), "cyl.dat")
	assert.NoError(t, res.Write(path))
	back, err := Load(path, DefaultHeaderLines)
	assert.NoError(t, err)

	assert.Equal(t, res.N(), back.N())
	assert.InDelta(t, res.Mass, back.Mass, 1e-12)
	for i := 0; i < n; i++ {
		assert.InDelta(t, res.Xs[i], back.Xs[i], 1e-9)
		assert.InDelta(t, res.Ys[i], back.Ys[i], 1e-9)
		assert.InDelta(t, res.Zs[i], back.Zs[i], 1e-9)
	}

	// Total reservoir mass matches the configured cylinder mass to
	// within one particle mass.
	assert.InDelta(t, mass, float64(back.N())*back.Mass, back.Mass)
}

func TestFromSetReorientsAxis(t *testing.T) {
	set := particle.New(1)
	set.Append(particle.Gas, geom.Vec{1, 2, 3}, geom.Vec{4, 5, 6}, 0.1, 0.01)

	res := FromSet(set, nil)
	// Sampled axis z becomes the stored axis y.
	assert.Equal(t, 1.0, res.Xs[0])
	assert.Equal(t, 3.0, res.Ys[0])
	assert.Equal(t, 2.0, res.Zs[0])
	assert.Equal(t, 6.0, res.VYs[0])
}

func TestFromSetSkipsDeadSlots(t *testing.T) {
	set := particle.New(1)
	set.Append(particle.Gas, geom.Vec{1, 0, 0}, geom.Vec{}, 0.1, 0.01)
	set.Append(particle.Gas, geom.Vec{2, 0, 0}, geom.Vec{}, 0.1, 0.01)
	set.Free(0)

	res := FromSet(set, nil)
	assert.Equal(t, 1, res.N())
	assert.Equal(t, 2.0, res.Xs[0])
}

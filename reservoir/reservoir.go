/*package reservoir persists relaxed cylinders as flat ASCII record files
and loads them back as the particle source the stream injector cycles
through.

A record file holds a fixed number of header lines followed by one line
per particle with at least ten whitespace-separated numeric fields:

	x  y  z  m  h  rho  vx  vy  vz  u

Positions are stored with the cylinder axis along y, which is the
injection direction. The particle mass is assumed identical across the
file and is read from the first record only.
*/
package reservoir

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/tajjankovic/phantom/particle"
)

// DefaultHeaderLines is the header skip count of files written by Write.
const DefaultHeaderLines = 2

// minFields is the smallest record width Load accepts. The thermal
// energy proxy lives in the last of these columns.
const minFields = 10

// Reservoir is a fixed-capacity set of relaxed particles representing one
// stream cylinder. After Load only the axial coordinates Ys are ever
// mutated (by the injector's cyclic advance); the particle count never
// changes.
type Reservoir struct {
	// Xs and Zs are the transverse coordinates, Ys the axial ones.
	Xs, Ys, Zs []float64

	VXs, VYs, VZs []float64
	Hs, Us        []float64
	Rhos          []float64

	// Mass is the shared particle mass, taken from the first record.
	Mass float64
}

// N returns the particle count.
func (res *Reservoir) N() int { return len(res.Ys) }

// Load reads a record file, skipping headerLines lines of header. Files
// without a trailing newline are read in full.
func Load(path string, headerLines int) (*Reservoir, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Cannot open reservoir file '%s'.", path)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 1<<16), 1<<20)
	for i := 0; i < headerLines; i++ {
		if !scanner.Scan() {
			return nil, fmt.Errorf(
				"Reservoir file '%s' has fewer than the %d header lines "+
					"expected.", path, headerLines,
			)
		}
	}

	res := &Reservoir{}
	line := headerLines
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) < minFields {
			return nil, fmt.Errorf(
				"Line %d of reservoir file '%s' has %d fields, but at "+
					"least %d are needed.", line, path, len(fields), minFields,
			)
		}

		vals := make([]float64, minFields)
		for k := 0; k < minFields; k++ {
			vals[k], err = strconv.ParseFloat(fields[k], 64)
			if err != nil {
				return nil, fmt.Errorf(
					"Field %d on line %d of reservoir file '%s' is not a "+
						"number: '%s'.", k+1, line, path, fields[k],
				)
			}
		}

		if res.N() == 0 {
			res.Mass = vals[3]
		}
		res.Xs = append(res.Xs, vals[0])
		res.Ys = append(res.Ys, vals[1])
		res.Zs = append(res.Zs, vals[2])
		res.Hs = append(res.Hs, vals[4])
		res.Rhos = append(res.Rhos, vals[5])
		res.VXs = append(res.VXs, vals[6])
		res.VYs = append(res.VYs, vals[7])
		res.VZs = append(res.VZs, vals[8])
		res.Us = append(res.Us, vals[9])
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf(
			"Cannot read reservoir file '%s': %s", path, err.Error(),
		)
	}
	if res.N() == 0 {
		return nil, fmt.Errorf("Reservoir file '%s' holds no particles.", path)
	}
	return res, nil
}

// FromSet converts a relaxed particle set into a reservoir, reorienting
// the cylinder so its axis lies along y. rhos supplies the density column
// of the record file and may be nil.
func FromSet(set *particle.Set, rhos []float64) *Reservoir {
	res := &Reservoir{Mass: set.Mass}
	for i := 0; i < set.N(); i++ {
		if !set.Alive(i) {
			continue
		}
		// Sampled axis is z; stored axis is y.
		res.Xs = append(res.Xs, set.Xs[i][0])
		res.Ys = append(res.Ys, set.Xs[i][2])
		res.Zs = append(res.Zs, set.Xs[i][1])
		res.VXs = append(res.VXs, set.Vs[i][0])
		res.VYs = append(res.VYs, set.Vs[i][2])
		res.VZs = append(res.VZs, set.Vs[i][1])
		res.Hs = append(res.Hs, set.Hs[i])
		res.Us = append(res.Us, set.Us[i])
		if rhos != nil {
			res.Rhos = append(res.Rhos, rhos[i])
		} else {
			res.Rhos = append(res.Rhos, 0)
		}
	}
	return res
}

// Write stores the reservoir as a record file readable by Load with
// DefaultHeaderLines.
func (res *Reservoir) Write(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "# relaxed cylinder: %d particles, mass %.10g\n",
		res.N(), res.Mass)
	fmt.Fprintf(w, "# x y z m h rho vx vy vz u\n")
	for i := 0; i < res.N(); i++ {
		fmt.Fprintf(
			w, "%.10g %.10g %.10g %.10g %.10g %.10g %.10g %.10g %.10g %.10g\n",
			res.Xs[i], res.Ys[i], res.Zs[i], res.Mass, res.Hs[i],
			res.Rhos[i], res.VXs[i], res.VYs[i], res.VZs[i], res.Us[i],
		)
	}
	return w.Flush()
}

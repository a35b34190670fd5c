package relax

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tajjankovic/phantom/particle"
)

var end = binary.LittleEndian

// checkpointHeader identifies a snapshot. N and Mass gate restart
// detection; a directory whose latest snapshot disagrees with the current
// run on either is treated as a different run and is a fatal error.
type checkpointHeader struct {
	N      int64
	NGas   int64
	Iter   int64
	Mass   float64
	RMSErr float64
}

func checkpointPath(dir string, seq int) string {
	return filepath.Join(dir, fmt.Sprintf("relax_%04d.chk", seq))
}

// latestCheckpoint returns the highest-numbered snapshot in dir, or
// seq = -1 if there is none.
func latestCheckpoint(dir string) (path string, seq int, err error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return "", -1, nil
	} else if err != nil {
		return "", -1, err
	}

	seq = -1
	for _, entry := range entries {
		var n int
		_, serr := fmt.Sscanf(entry.Name(), "relax_%d.chk", &n)
		if serr == nil && n > seq {
			seq = n
		}
	}
	if seq == -1 {
		return "", -1, nil
	}
	return checkpointPath(dir, seq), seq, nil
}

// snapshot writes the particle state as the next numbered snapshot file.
func snapshot(dir string, set *particle.Set, iter int, rms float64) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	_, seq, err := latestCheckpoint(dir)
	if err != nil {
		return err
	}

	f, err := os.Create(checkpointPath(dir, seq+1))
	if err != nil {
		return err
	}
	defer f.Close()

	hd := checkpointHeader{
		N:      int64(set.N()),
		NGas:   int64(set.Count(particle.Gas)),
		Iter:   int64(iter),
		Mass:   set.Mass,
		RMSErr: rms,
	}
	if err := binary.Write(f, end, &hd); err != nil {
		return err
	}
	for _, block := range []interface{}{
		set.Xs, set.Vs, set.Hs, set.Us, set.Kinds,
	} {
		if err := binary.Write(f, end, block); err != nil {
			return err
		}
	}
	return nil
}

// resume looks for a prior snapshot matching the current run and restores
// the particle state from it, returning the snapshot's iteration number
// and RMS density error. A snapshot whose particle count or particle mass
// disagrees with the current set has ambiguous provenance and is a fatal
// error rather than a silent overwrite.
func resume(
	dir string, set *particle.Set,
) (iter int, rms float64, found bool, err error) {
	path, seq, err := latestCheckpoint(dir)
	if err != nil {
		return 0, 0, false, err
	}
	if seq == -1 {
		return 0, 0, false, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, 0, false, err
	}
	defer f.Close()

	hd := checkpointHeader{}
	if err := binary.Read(f, end, &hd); err != nil {
		return 0, 0, false, fmt.Errorf(
			"Cannot read checkpoint '%s': %s", path, err.Error(),
		)
	}
	if hd.N != int64(set.N()) || hd.Mass != set.Mass {
		return 0, 0, false, fmt.Errorf(
			"Checkpoint '%s' holds %d particles of mass %g, but the "+
				"current run has %d particles of mass %g. Refusing to "+
				"resume from a mismatched run; move or delete the "+
				"checkpoint directory.",
			path, hd.N, hd.Mass, set.N(), set.Mass,
		)
	}

	for _, block := range []interface{}{
		set.Xs, set.Vs, set.Hs, set.Us, set.Kinds,
	} {
		if err := binary.Read(f, end, block); err != nil {
			return 0, 0, false, fmt.Errorf(
				"Cannot read checkpoint '%s': %s", path, err.Error(),
			)
		}
	}
	return int(hd.Iter), hd.RMSErr, true, nil
}

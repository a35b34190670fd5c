// relax_profile plots the realized radial density of a relaxed reservoir
// file against its target profile. Useful for eyeballing how well a
// relaxation run converged.
//
//	$ relax_profile cylinder_config reservoir_file out.png
package main

import (
	"log"
	"math"
	"os"

	plt "github.com/phil-mansfield/pyplot"

	"github.com/tajjankovic/phantom/geom"
	"github.com/tajjankovic/phantom/io"
	"github.com/tajjankovic/phantom/profile"
	"github.com/tajjankovic/phantom/reservoir"
)

const bins = 32

func main() {
	if len(os.Args) != 4 {
		log.Fatalf(
			"Required file use: $ %s cylinder_config reservoir_file out.png",
			os.Args[0],
		)
	}
	confFile, resFile, outFile := os.Args[1], os.Args[2], os.Args[3]

	con, err := io.ReadCylinderConfig(confFile)
	if err != nil {
		log.Fatal(err.Error())
	}
	cyl := geom.Cylinder{Radius: con.Radius, HalfHeight: con.HalfHeight}

	prof, err := buildProfile(con, cyl)
	if err != nil {
		log.Fatal(err.Error())
	}

	res, err := reservoir.Load(resFile, reservoir.DefaultHeaderLines)
	if err != nil {
		log.Fatal(err.Error())
	}

	rs, rhos := binnedDensity(res, cyl)

	plt.Figure()
	plt.Plot(prof.Rs, prof.Rhos, "k", plt.LW(2))
	plt.Plot(rs, rhos, plt.LW(3), plt.C("r"))
	plt.XLabel(`$r$`, plt.FontSize(16))
	plt.YLabel(`$\rho$`, plt.FontSize(16))
	plt.Grid(plt.Axis("y"))
	plt.SaveFig(outFile)
	plt.Execute()
}

// binnedDensity histograms the reservoir particles into cylindrical
// annuli of equal width and converts counts into densities. The reservoir
// axis lies along y.
func binnedDensity(
	res *reservoir.Reservoir, cyl geom.Cylinder,
) (rs, rhos []float64) {
	counts := make([]int, bins)
	dr := cyl.Radius / bins
	for i := 0; i < res.N(); i++ {
		r := math.Hypot(res.Xs[i], res.Zs[i])
		bin := int(r / dr)
		if bin >= bins {
			continue
		}
		counts[bin]++
	}

	rs = make([]float64, bins)
	rhos = make([]float64, bins)
	for i := range counts {
		r1, r2 := dr*float64(i), dr*float64(i+1)
		vol := math.Pi * (r2*r2 - r1*r1) * cyl.Height()
		rs[i] = 0.5 * (r1 + r2)
		rhos[i] = float64(counts[i]) * res.Mass / vol
	}
	return rs, rhos
}

func buildProfile(
	con *io.CylinderConfig, cyl geom.Cylinder,
) (*profile.DensityProfile, error) {
	kind, err := profile.ParseKind(con.Profile)
	if err != nil {
		return nil, err
	}
	switch kind {
	case profile.Uniform:
		return profile.NewUniform(cyl, con.Mass)
	case profile.Gaussian:
		return profile.NewGaussian(cyl, con.Mass, con.Sigma)
	default:
		return profile.NewTable(cyl, con.Mass, con.ProfileFile)
	}
}

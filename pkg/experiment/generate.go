package experiment

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/mjoliard/deconfound/pkg/regress"
)

// Column names of a generated dataset.
const (
	ColResponse = "y"
	ColX1       = "x1"
	ColX2       = "x2"
	ColZ        = "z"
)

// Generator produces the synthetic datasets of the study from a single
// seeded stream. x1 and z are standard normal; x2 is rho times x1 plus
// small-variance noise, so its correlation with x1 grows with rho; the
// response is a fixed linear combination of all three with
// opposing-sign coefficients on the two collinear covariates.
//
// Calling Dataset in a fixed order yields a bit-identical sequence of
// frames for a given seed.
type Generator struct {
	NoiseSD    float64
	ResponseSD float64
	Intercept  float64
	SlopeX1    float64
	SlopeX2    float64
	SlopeZ     float64

	src rand.Source
}

// NewGenerator creates a generator with the study coefficients, seeded
// once for the whole run.
func NewGenerator(seed uint64) *Generator {
	return &Generator{
		NoiseSD:    0.3,
		ResponseSD: 1,
		Intercept:  1,
		SlopeX1:    2,
		SlopeX2:    -1.5,
		SlopeZ:     0.8,
		src:        rand.NewSource(seed),
	}
}

// Dataset draws one simulated dataset of n rows at collinearity
// strength rho.
func (g *Generator) Dataset(n int, rho float64) (*regress.Frame, error) {
	if n <= 0 {
		return nil, errors.Wrapf(ErrSampleSize, "sample size %d", n)
	}

	standard := distuv.Normal{Mu: 0, Sigma: 1, Src: g.src}
	noise := distuv.Normal{Mu: 0, Sigma: g.NoiseSD, Src: g.src}
	responseNoise := distuv.Normal{Mu: 0, Sigma: g.ResponseSD, Src: g.src}

	x1 := make([]float64, n)
	z := make([]float64, n)
	x2 := make([]float64, n)
	y := make([]float64, n)

	// Draw order is fixed: it is part of the determinism contract.
	for i := range x1 {
		x1[i] = standard.Rand()
	}
	for i := range z {
		z[i] = standard.Rand()
	}
	for i := range x2 {
		x2[i] = rho*x1[i] + noise.Rand()
	}
	for i := range y {
		y[i] = g.Intercept + g.SlopeX1*x1[i] + g.SlopeX2*x2[i] + g.SlopeZ*z[i] + responseNoise.Rand()
	}

	frame := regress.NewFrame()
	for _, col := range []struct {
		name   string
		values []float64
	}{
		{ColResponse, y},
		{ColX1, x1},
		{ColX2, x2},
		{ColZ, z},
	} {
		err := frame.AddColumn(col.name, col.values)
		if err != nil {
			return nil, errors.Wrap(err, "unable to build dataset frame")
		}
	}

	return frame, nil
}

package regress

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// simulatedFrame draws a dataset from the study's data generating
// process: y = 1 + 2*x1 - 1.5*x2 + 0.8*z + noise, with x2 mildly
// collinear with x1.
func simulatedFrame(t *testing.T, n int, seed uint64, responseSD float64) *Frame {
	t.Helper()

	src := rand.NewSource(seed)
	standard := distuv.Normal{Mu: 0, Sigma: 1, Src: src}
	noise := distuv.Normal{Mu: 0, Sigma: 0.3, Src: src}
	responseNoise := distuv.Normal{Mu: 0, Sigma: responseSD, Src: src}

	x1 := make([]float64, n)
	z := make([]float64, n)
	x2 := make([]float64, n)
	y := make([]float64, n)
	for i := range x1 {
		x1[i] = standard.Rand()
		z[i] = standard.Rand()
		x2[i] = 0.5*x1[i] + noise.Rand()
		y[i] = 1 + 2*x1[i] - 1.5*x2[i] + 0.8*z[i] + responseNoise.Rand()
	}

	f := NewFrame()
	require.NoError(t, f.AddColumn("y", y))
	require.NoError(t, f.AddColumn("x1", x1))
	require.NoError(t, f.AddColumn("x2", x2))
	require.NoError(t, f.AddColumn("z", z))

	return f
}

func studyFormula(t *testing.T) Formula {
	t.Helper()

	f, err := ParseFormula("y ~ x1 + x2 + z")
	require.NoError(t, err)

	return f
}

func TestFitOLSRecoversCoefficients(t *testing.T) {
	frame := simulatedFrame(t, 2000, 17, 0.01)

	fit, err := FitOLS(studyFormula(t), frame)
	require.NoError(t, err)

	wantEstimates := map[string]float64{
		InterceptName: 1,
		"x1":          2,
		"x2":          -1.5,
		"z":           0.8,
	}
	require.Len(t, fit.Coefs, 4)
	for name, want := range wantEstimates {
		coef, ok := fit.Coefficient(name)
		require.True(t, ok, name)
		assert.InDelta(t, want, coef.Estimate, 0.01, name)
		assert.Greater(t, coef.StdErr, 0.0, name)
	}

	assert.Greater(t, fit.RSquared, 0.99)
	assert.InDelta(t, 0.01, fit.Sigma, 0.005)
	assert.Equal(t, 2000-4, fit.DF)
	assert.Equal(t, 2000, fit.NumObs())
	assert.Len(t, fit.Residuals, 2000)
}

func TestFitOLSSignificance(t *testing.T) {
	frame := simulatedFrame(t, 500, 3, 1)

	fit, err := FitOLS(studyFormula(t), frame)
	require.NoError(t, err)

	// all true effects are far from zero at this sample size
	for _, coef := range fit.Coefs {
		assert.Less(t, coef.PValue, 0.01, coef.Name)
	}
}

func TestFitOLSErrors(t *testing.T) {
	tcs := map[string]struct {
		frame   func(t *testing.T) *Frame
		formula string
		wantErr error
	}{
		"too few rows": {
			frame: func(t *testing.T) *Frame {
				return simulatedFrame(t, 4, 1, 1)
			},
			formula: "y ~ x1 + x2 + z",
			wantErr: ErrTooFewRows,
		},
		"unknown term": {
			frame: func(t *testing.T) *Frame {
				return simulatedFrame(t, 50, 1, 1)
			},
			formula: "y ~ x1 + missing",
			wantErr: ErrColumnNotFound,
		},
		"unknown response": {
			frame: func(t *testing.T) *Frame {
				return simulatedFrame(t, 50, 1, 1)
			},
			formula: "missing ~ x1",
			wantErr: ErrColumnNotFound,
		},
		"singular design": {
			frame: func(t *testing.T) *Frame {
				f := simulatedFrame(t, 50, 1, 1)
				x1, err := f.Column("x1")
				require.NoError(t, err)
				dup, err := f.WithColumn("x2", x1)
				require.NoError(t, err)

				return dup
			},
			formula: "y ~ x1 + x2 + z",
			wantErr: ErrSingularDesign,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			formula, err := ParseFormula(tc.formula)
			require.NoError(t, err)

			_, err = FitOLS(formula, tc.frame(t))
			assert.True(t, errors.Is(err, tc.wantErr), "got %v", err)
		})
	}
}

func TestFitOLSNilFrame(t *testing.T) {
	_, err := FitOLS(studyFormula(t), nil)
	assert.True(t, errors.Is(err, ErrFrameMustBeSet))
}

package regress

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lightSampling() Sampling {
	return Sampling{
		Chains:     2,
		Iterations: 500,
		Warmup:     200,
		Seed:       42,
	}
}

func TestSamplingValidate(t *testing.T) {
	tcs := map[string]struct {
		sampling Sampling
		wantErr  bool
	}{
		"default":            {sampling: DefaultSampling()},
		"single chain":       {sampling: Sampling{Chains: 1, Iterations: 10, Warmup: 0}},
		"no chains":          {sampling: Sampling{Chains: 0, Iterations: 10, Warmup: 5}, wantErr: true},
		"no iterations":      {sampling: Sampling{Chains: 2, Iterations: 0, Warmup: 0}, wantErr: true},
		"warmup eats it all": {sampling: Sampling{Chains: 2, Iterations: 10, Warmup: 10}, wantErr: true},
		"negative warmup":    {sampling: Sampling{Chains: 2, Iterations: 10, Warmup: -1}, wantErr: true},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			_, err := FitBayes(studyFormula(t), simulatedFrame(t, 50, 1, 1), tc.sampling)
			if tc.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidSampling))

				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestFitBayesMatchesLeastSquares(t *testing.T) {
	frame := simulatedFrame(t, 300, 11, 1)
	formula := studyFormula(t)

	ols, err := FitOLS(formula, frame)
	require.NoError(t, err)

	bayes, err := FitBayes(formula, frame, lightSampling())
	require.NoError(t, err)

	require.Len(t, bayes.Coefs, 4)
	for _, posterior := range bayes.Coefs {
		coef, ok := ols.Coefficient(posterior.Name)
		require.True(t, ok, posterior.Name)

		// weakly informative priors keep the posterior close to the
		// least squares solution
		assert.InDelta(t, coef.Estimate, posterior.Estimate, 0.1, posterior.Name)
		assert.Greater(t, posterior.EstError, 0.0, posterior.Name)
		assert.Less(t, posterior.CILower, posterior.Estimate, posterior.Name)
		assert.Greater(t, posterior.CIUpper, posterior.Estimate, posterior.Name)
		assert.InDelta(t, 1, posterior.Rhat, 0.1, posterior.Name)
	}

	assert.InDelta(t, ols.Sigma, bayes.SigmaEstimate, 0.2)
	assert.Equal(t, 300, bayes.NumObs())
}

func TestFitBayesDeterministic(t *testing.T) {
	frame := simulatedFrame(t, 100, 5, 1)
	formula := studyFormula(t)

	first, err := FitBayes(formula, frame, lightSampling())
	require.NoError(t, err)
	second, err := FitBayes(formula, frame, lightSampling())
	require.NoError(t, err)

	require.Len(t, second.Coefs, len(first.Coefs))
	for i := range first.Coefs {
		assert.Equal(t, first.Coefs[i], second.Coefs[i])
	}
	assert.Equal(t, first.SigmaEstimate, second.SigmaEstimate)
}

func TestFitBayesSeedChangesDraws(t *testing.T) {
	frame := simulatedFrame(t, 100, 5, 1)
	formula := studyFormula(t)

	first, err := FitBayes(formula, frame, lightSampling())
	require.NoError(t, err)

	reseeded := lightSampling()
	reseeded.Seed++
	second, err := FitBayes(formula, frame, reseeded)
	require.NoError(t, err)

	firstCoef, ok := first.Coefficient("x1")
	require.True(t, ok)
	secondCoef, ok := second.Coefficient("x1")
	require.True(t, ok)
	assert.NotEqual(t, firstCoef.Estimate, secondCoef.Estimate)
}

func TestFitBayesDraws(t *testing.T) {
	frame := simulatedFrame(t, 100, 9, 1)
	sampling := lightSampling()

	fit, err := FitBayes(studyFormula(t), frame, sampling)
	require.NoError(t, err)

	wantRetained := sampling.Chains * (sampling.Iterations - sampling.Warmup)
	assert.Equal(t, wantRetained, fit.Retained())

	draws, ok := fit.Draws("x1")
	require.True(t, ok)
	assert.Len(t, draws, wantRetained)

	// the accessor hands out copies
	draws[0] = 1e9
	again, ok := fit.Draws("x1")
	require.True(t, ok)
	assert.NotEqual(t, draws[0], again[0])

	_, ok = fit.Draws("missing")
	assert.False(t, ok)
}

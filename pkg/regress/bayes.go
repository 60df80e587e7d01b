package regress

import (
	"math"
	"sort"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/distuv"
)

// Priors: beta_j ~ N(0, priorSD^2) independently, sigma^2 ~
// InvGamma(priorShape, priorRate). Weakly informative, so posteriors
// on well-conditioned data track the least squares solution.
const (
	priorSD    = 10.0
	priorShape = 0.001
	priorRate  = 0.001
)

// Sampling holds the controls for the posterior sampler.
type Sampling struct {
	Chains     int
	Iterations int
	Warmup     int
	Seed       uint64
}

// DefaultSampling returns the sampler controls used throughout the
// study: 4 chains of 2000 iterations with the first 1000 discarded.
func DefaultSampling() Sampling {
	return Sampling{
		Chains:     4,
		Iterations: 2000,
		Warmup:     1000,
		Seed:       1234,
	}
}

func (s Sampling) validate() error {
	if s.Chains < 1 {
		return errors.Wrapf(ErrInvalidSampling, "chains must be at least 1, got %d", s.Chains)
	}
	if s.Iterations < 1 {
		return errors.Wrapf(ErrInvalidSampling, "iterations must be at least 1, got %d", s.Iterations)
	}
	if s.Warmup < 0 || s.Warmup >= s.Iterations {
		return errors.Wrapf(ErrInvalidSampling, "warmup %d must be within [0, %d)", s.Warmup, s.Iterations)
	}

	return nil
}

// PosteriorCoefficient summarises the pooled post-warmup draws for one
// model term.
type PosteriorCoefficient struct {
	Name     string
	Estimate float64
	EstError float64
	CILower  float64
	CIUpper  float64
	Rhat     float64
}

// BayesFit is an immutable Bayesian regression fit. Posterior draws are
// retained but opaque; summaries and the Draws accessor are the only
// windows into them.
type BayesFit struct {
	Formula       Formula
	Sampling      Sampling
	Coefs         []PosteriorCoefficient
	SigmaEstimate float64

	draws    map[string][]float64
	retained int
	nobs     int
}

// FitBayes fits a Gaussian-likelihood Bayesian linear regression by
// blocked Gibbs sampling with conjugate conditionals. The run is a pure
// function of the formula, the frame and the sampling controls: chain c
// consumes its own stream seeded with Seed+c.
func FitBayes(f Formula, d *Frame, s Sampling) (*BayesFit, error) {
	err := s.validate()
	if err != nil {
		return nil, err
	}

	design, y, err := designMatrix(f, d)
	if err != nil {
		return nil, errors.Wrap(err, "unable to build design matrix")
	}

	n, p := design.Dims()

	var xtx mat.Dense
	xtx.Mul(design.T(), design)

	xty := mat.NewVecDense(p, nil)
	xty.MulVec(design.T(), y)

	retainedPerChain := s.Iterations - s.Warmup

	// chainDraws[c][j] holds the retained draws of parameter j in
	// chain c; index p is sigma^2.
	chainDraws := make([][][]float64, s.Chains)
	for c := range chainDraws {
		chainDraws[c] = make([][]float64, p+1)
		for j := range chainDraws[c] {
			chainDraws[c][j] = make([]float64, 0, retainedPerChain)
		}
	}

	for c := 0; c < s.Chains; c++ {
		src := rand.NewSource(s.Seed + uint64(c))
		sigma2 := 1.0

		var beta []float64

		for iter := 0; iter < s.Iterations; iter++ {
			beta, err = drawBeta(design, &xtx, xty, sigma2, src)
			if err != nil {
				return nil, errors.Wrapf(err, "chain %d iteration %d", c, iter)
			}

			sigma2 = drawSigma2(design, y, beta, src)

			if iter < s.Warmup {
				continue
			}
			for j := 0; j < p; j++ {
				chainDraws[c][j] = append(chainDraws[c][j], beta[j])
			}
			chainDraws[c][p] = append(chainDraws[c][p], sigma2)
		}
	}

	names := coefNames(f)
	coefs := make([]PosteriorCoefficient, p)
	pooled := make(map[string][]float64, p)
	for j := 0; j < p; j++ {
		perChain := make([][]float64, s.Chains)
		all := make([]float64, 0, s.Chains*retainedPerChain)
		for c := 0; c < s.Chains; c++ {
			perChain[c] = chainDraws[c][j]
			all = append(all, chainDraws[c][j]...)
		}

		sorted := make([]float64, len(all))
		copy(sorted, all)
		sort.Float64s(sorted)

		coefs[j] = PosteriorCoefficient{
			Name:     names[j],
			Estimate: stat.Mean(all, nil),
			EstError: stat.StdDev(all, nil),
			CILower:  stat.Quantile(0.025, stat.Empirical, sorted, nil),
			CIUpper:  stat.Quantile(0.975, stat.Empirical, sorted, nil),
			Rhat:     splitRhat(perChain),
		}
		pooled[names[j]] = all
	}

	sigmaSum := 0.0
	sigmaTotal := 0
	for c := 0; c < s.Chains; c++ {
		for _, s2 := range chainDraws[c][p] {
			sigmaSum += math.Sqrt(s2)
			sigmaTotal++
		}
	}

	return &BayesFit{
		Formula:       f,
		Sampling:      s,
		Coefs:         coefs,
		SigmaEstimate: sigmaSum / float64(sigmaTotal),
		draws:         pooled,
		retained:      s.Chains * retainedPerChain,
		nobs:          n,
	}, nil
}

// drawBeta samples from the conditional posterior of the coefficients:
// multivariate normal with precision X'X/sigma^2 + I/priorSD^2.
func drawBeta(design *mat.Dense, xtx *mat.Dense, xty *mat.VecDense, sigma2 float64, src rand.Source) ([]float64, error) {
	_, p := design.Dims()
	kappa := 1 / (priorSD * priorSD)

	precision := mat.NewSymDense(p, nil)
	for i := 0; i < p; i++ {
		for j := i; j < p; j++ {
			v := xtx.At(i, j) / sigma2
			if i == j {
				v += kappa
			}
			precision.SetSym(i, j, v)
		}
	}

	var chol mat.Cholesky
	if !chol.Factorize(precision) {
		return nil, errors.Wrap(ErrSingularDesign, "posterior precision is not positive definite")
	}

	scaled := mat.NewVecDense(p, nil)
	scaled.ScaleVec(1/sigma2, xty)

	mean := mat.NewVecDense(p, nil)
	err := chol.SolveVecTo(mean, scaled)
	if err != nil {
		return nil, errors.Wrap(err, "unable to solve for conditional mean")
	}

	var cov mat.SymDense
	err = chol.InverseTo(&cov)
	if err != nil {
		return nil, errors.Wrap(err, "unable to invert posterior precision")
	}

	normal, ok := distmv.NewNormal(mean.RawVector().Data, &cov, src)
	if !ok {
		return nil, errors.Wrap(ErrSingularDesign, "conditional covariance is not positive definite")
	}

	return normal.Rand(nil), nil
}

// drawSigma2 samples from the conditional posterior of the noise
// variance: inverse gamma via the reciprocal of a gamma draw.
func drawSigma2(design *mat.Dense, y *mat.VecDense, beta []float64, src rand.Source) float64 {
	n, p := design.Dims()

	rss := 0.0
	for i := 0; i < n; i++ {
		fitted := 0.0
		for j := 0; j < p; j++ {
			fitted += design.At(i, j) * beta[j]
		}
		dev := y.AtVec(i) - fitted
		rss += dev * dev
	}

	gamma := distuv.Gamma{
		Alpha: priorShape + float64(n)/2,
		Beta:  priorRate + rss/2,
		Src:   src,
	}

	return 1 / gamma.Rand()
}

// splitRhat computes the split potential scale reduction factor across
// chains. Values near 1 indicate the chains mixed.
func splitRhat(chains [][]float64) float64 {
	halves := make([][]float64, 0, 2*len(chains))
	for _, chain := range chains {
		half := len(chain) / 2
		if half < 2 {
			return math.NaN()
		}
		halves = append(halves, chain[:half], chain[half:half*2])
	}

	m := float64(len(halves))
	length := float64(len(halves[0]))

	means := make([]float64, len(halves))
	within := 0.0
	for i, half := range halves {
		means[i] = stat.Mean(half, nil)
		within += stat.Variance(half, nil)
	}
	within /= m

	between := length * stat.Variance(means, nil)
	if within == 0 {
		return 1
	}

	varPlus := (length-1)/length*within + between/length

	return math.Sqrt(varPlus / within)
}

// Coefficient returns the posterior summary row for a term name.
func (m *BayesFit) Coefficient(name string) (PosteriorCoefficient, bool) {
	for _, c := range m.Coefs {
		if c.Name == name {
			return c, true
		}
	}

	return PosteriorCoefficient{}, false
}

// Draws returns a copy of the pooled post-warmup draws for a term.
func (m *BayesFit) Draws(name string) ([]float64, bool) {
	draws, ok := m.draws[name]
	if !ok {
		return nil, false
	}

	cpy := make([]float64, len(draws))
	copy(cpy, draws)

	return cpy, true
}

// Retained returns the total number of post-warmup draws across chains.
func (m *BayesFit) Retained() int {
	return m.retained
}

// ModelFormula returns the formula the model was fit with.
func (m *BayesFit) ModelFormula() Formula {
	return m.Formula
}

// NumObs returns the number of observations used in the fit.
func (m *BayesFit) NumObs() int {
	return m.nobs
}

var _ Model = (*BayesFit)(nil)

package regress

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Coefficient is one row of an OLS coefficient table.
type Coefficient struct {
	Name     string
	Estimate float64
	StdErr   float64
	TStat    float64
	PValue   float64
}

// OLSFit is an immutable ordinary least squares fit.
type OLSFit struct {
	Formula   Formula
	Coefs     []Coefficient
	Sigma     float64
	RSquared  float64
	DF        int
	Residuals []float64

	nobs int
}

// FitOLS fits the formula on the frame by ordinary least squares.
func FitOLS(f Formula, d *Frame) (*OLSFit, error) {
	design, y, err := designMatrix(f, d)
	if err != nil {
		return nil, errors.Wrap(err, "unable to build design matrix")
	}

	n, p := design.Dims()
	df := n - p

	var qr mat.QR
	qr.Factorize(design)

	beta := mat.NewDense(p, 1, nil)
	err = qr.SolveTo(beta, false, y)
	if err != nil {
		return nil, errors.Wrapf(ErrSingularDesign, "least squares solve: %v", err)
	}

	// sigma^2 (X'X)^-1 gives the coefficient covariance.
	var xtx, xtxInv mat.Dense
	xtx.Mul(design.T(), design)
	err = xtxInv.Inverse(&xtx)
	if err != nil {
		return nil, errors.Wrapf(ErrSingularDesign, "normal equations: %v", err)
	}

	var fittedVec mat.Dense
	fittedVec.Mul(design, beta)

	residuals := make([]float64, n)
	rss := 0.0
	for i := 0; i < n; i++ {
		residuals[i] = y.AtVec(i) - fittedVec.At(i, 0)
		rss += residuals[i] * residuals[i]
	}

	yMean := stat.Mean(y.RawVector().Data, nil)
	tss := 0.0
	for i := 0; i < n; i++ {
		dev := y.AtVec(i) - yMean
		tss += dev * dev
	}

	sigma2 := rss / float64(df)
	studentT := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(df)}

	names := coefNames(f)
	coefs := make([]Coefficient, p)
	for j := 0; j < p; j++ {
		estimate := beta.At(j, 0)
		stderr := math.Sqrt(sigma2 * xtxInv.At(j, j))
		tstat := estimate / stderr
		coefs[j] = Coefficient{
			Name:     names[j],
			Estimate: estimate,
			StdErr:   stderr,
			TStat:    tstat,
			PValue:   2 * studentT.CDF(-math.Abs(tstat)),
		}
	}

	rsq := 0.0
	if tss > 0 {
		rsq = 1 - rss/tss
	}

	return &OLSFit{
		Formula:   f,
		Coefs:     coefs,
		Sigma:     math.Sqrt(sigma2),
		RSquared:  rsq,
		DF:        df,
		Residuals: residuals,
		nobs:      n,
	}, nil
}

// Coefficient returns the coefficient row for a term name.
func (m *OLSFit) Coefficient(name string) (Coefficient, bool) {
	for _, c := range m.Coefs {
		if c.Name == name {
			return c, true
		}
	}

	return Coefficient{}, false
}

// ModelFormula returns the formula the model was fit with.
func (m *OLSFit) ModelFormula() Formula {
	return m.Formula
}

// NumObs returns the number of observations used in the fit.
func (m *OLSFit) NumObs() int {
	return m.nobs
}

var _ Model = (*OLSFit)(nil)
